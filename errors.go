package bite

import "errors"

var (
	// ErrBadMagic indicates the buffer does not start with the requested format's signature.
	ErrBadMagic = errors.New("bad magic")
	// ErrTruncatedHeader indicates the fixed header runs past the end of the buffer.
	ErrTruncatedHeader = errors.New("truncated header")
	// ErrTruncatedData indicates a computed mip byte range exceeds the buffer length.
	ErrTruncatedData = errors.New("truncated data")
	// ErrUnsupportedVariant indicates a recognized but unimplemented sub-format.
	ErrUnsupportedVariant = errors.New("unsupported variant")
	// ErrIndexOutOfRange indicates a MipIndex outside the parsed geometry.
	ErrIndexOutOfRange = errors.New("mip index out of range")
	// ErrMissingFace indicates a face mismatch between the MipIndex and the texture.
	ErrMissingFace = errors.New("cubemap face mismatch")
	// ErrUnexpectedEOF indicates a Reader access past the end of the buffer.
	ErrUnexpectedEOF = errors.New("unexpected end of buffer")

	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrBadChecksum indicates a stored checksum does not match the file contents.
	ErrBadChecksum = errors.New("checksum mismatch")

	// ErrUnknownBlockMagic indicates an unknown EDDS block magic.
	ErrUnknownBlockMagic = errors.New("unknown block magic")
	// ErrInvalidTargetSize indicates an invalid EDDS decoded target size.
	ErrInvalidTargetSize = errors.New("invalid target size")
	// ErrChunkStreamTruncated indicates an LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = errors.New("LZ4 chunk-stream truncated")
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = errors.New("unknown LZ4 flags")
	// ErrInvalidChunkSize indicates an invalid LZ4 chunk size.
	ErrInvalidChunkSize = errors.New("invalid compressed chunk size")
	// ErrDecodeOverrun indicates decoded data overruns the target buffer.
	ErrDecodeOverrun = errors.New("decoded LZ4 overruns target buffer")
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = errors.New("LZ4 decode failed")
	// ErrDecodedSizeMismatch indicates an LZ4 decoded size mismatch.
	ErrDecodedSizeMismatch = errors.New("LZ4 decoded size mismatch")
	// ErrBlockLengthMismatch indicates leftover bytes after an EDDS block decode.
	ErrBlockLengthMismatch = errors.New("LZ4 block length mismatch")

	// ErrMaterialSyntax indicates malformed material text.
	ErrMaterialSyntax = errors.New("material syntax error")
)
