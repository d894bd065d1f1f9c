package bite

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed EDDS mip block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream compressed EDDS mip block.
	BlockMagicLZ4 = "LZ4 "

	// eddsChunkSize is the Enfusion chunk size for LZ4 streams.
	eddsChunkSize = 64 * 1024
)

// EDDS is a parsed Enfusion EDDS container: a plain DDS header followed by
// a per-mip block table and block bodies, stored smallest mip first and
// optionally LZ4 compressed. Blocks are inflated at parse time into a
// normalized largest-first buffer, so addressing matches DDS exactly.
type EDDS struct {
	texture
	Header DDSHeader
	Format DXGIFormat
}

type eddsBlockHeader struct {
	magic string
	size  int
}

// ParseEDDS decodes a complete EDDS file.
func ParseEDDS(data []byte) (*EDDS, error) {
	r := NewReader(data)
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, fmt.Errorf("%w: edds: %v", ErrTruncatedHeader, err)
	}
	if string(magic) != ddsMagic {
		return nil, fmt.Errorf("%w: edds: got %q, want %q", ErrBadMagic, magic, ddsMagic)
	}

	hdr, err := decodeDDSHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.Size != ddsHeaderSize {
		return nil, fmt.Errorf("%w: edds: header size %d, want %d", ErrBadMagic, hdr.Size, ddsHeaderSize)
	}

	format, err := legacyDDSFormat(hdr.PixelFormat)
	if err != nil {
		return nil, err
	}
	layout, ok := dxgiTexelLayout(format)
	if !ok {
		return nil, fmt.Errorf("%w: edds: DXGI format %d", ErrUnsupportedVariant, uint32(format))
	}

	out := &EDDS{Header: hdr, Format: format}
	t := &out.texture
	t.format = format.String()
	t.width = int(hdr.Width)
	t.height = int(hdr.Height)
	t.depth = 1
	t.frames = 1
	t.mips = 1
	if hdr.Caps&DDSCapsMipmap != 0 && hdr.MipMapCount > 0 {
		t.mips = int(hdr.MipMapCount)
	}

	// block table: one (magic, size) entry per mip, smallest mip first
	table := make([]eddsBlockHeader, t.mips)
	for i := range table {
		blockMagic, err := r.String(4)
		if err != nil {
			return nil, fmt.Errorf("%w: edds: block table entry %d: %v", ErrTruncatedHeader, i, err)
		}
		if blockMagic != BlockMagicCOPY && blockMagic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: edds: block table entry %d: %q", ErrUnknownBlockMagic, i, blockMagic)
		}
		size, err := r.Int32()
		if err != nil {
			return nil, fmt.Errorf("%w: edds: block table entry %d: %v", ErrTruncatedHeader, i, err)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: edds: block table entry %d: size %d", ErrTruncatedData, i, size)
		}
		table[i] = eddsBlockHeader{magic: blockMagic, size: int(size)}
	}

	// inflate bodies into a normalized largest-first buffer
	mipSizes := make([]int, t.mips)
	total := 0
	for mip := 0; mip < t.mips; mip++ {
		mipSizes[mip] = layout.mipByteSize(mipDimension(t.width, mip), mipDimension(t.height, mip), 1)
		total += mipSizes[mip]
	}
	normalized := make([]byte, 0, total)
	bodies := make([][]byte, t.mips)
	for i, entry := range table {
		mip := t.mips - 1 - i
		body, err := r.Bytes(entry.size)
		if err != nil {
			return nil, fmt.Errorf("%w: edds: mip %d block body: %v", ErrTruncatedData, mip, err)
		}
		raw, err := inflateEDDSBlock(entry.magic, body, mipSizes[mip])
		if err != nil {
			return nil, fmt.Errorf("edds: mip %d: %w", mip, err)
		}
		bodies[mip] = raw
	}
	placements := make([]mipPlacement, t.mips)
	for mip := 0; mip < t.mips; mip++ {
		normalized = append(normalized, bodies[mip]...)
		placements[mip] = mipPlacement{
			index: MipIndex{Mip: mip, Frame: 0, Face: FaceNone},
			size:  mipSizes[mip],
		}
	}
	t.data = normalized
	t.layout, err = resolveLayout("edds", len(normalized), 0, placements)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// inflateEDDSBlock turns one block body into raw mip bytes. COPY bodies
// must match the expected size exactly; LZ4 bodies are an Enfusion
// chunk-stream with a rolling 64KB dictionary, optionally prefixed with a
// little-endian uncompressed size.
func inflateEDDSBlock(magic string, body []byte, expectedSize int) ([]byte, error) {
	if magic == BlockMagicCOPY {
		if len(body) != expectedSize {
			return nil, fmt.Errorf("%w: COPY block holds %d bytes, want %d",
				ErrDecodedSizeMismatch, len(body), expectedSize)
		}
		return body, nil
	}
	if magic != BlockMagicLZ4 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, magic)
	}

	targetSize := expectedSize
	if len(body) >= 8 {
		peek := int(le.Uint32(body[:4]))
		c0 := int(body[4]) | int(body[5])<<8 | int(body[6])<<16
		if peek == expectedSize && c0 > 0 && c0 < (1<<20) {
			body = body[4:]
		}
	}
	if targetSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTargetSize, targetSize)
	}

	const dictCap = eddsChunkSize
	dict := make([]byte, dictCap)
	dictSize := 0

	target := make([]byte, targetSize)
	outIdx := 0

	for {
		if len(body) < 4 {
			return nil, fmt.Errorf("%w: need 4 byte chunk header, have %d", ErrChunkStreamTruncated, len(body))
		}
		cSize := int(body[0]) | int(body[1])<<8 | int(body[2])<<16
		flags := body[3]
		body = body[4:]
		if flags&^0x80 != 0 {
			return nil, fmt.Errorf("%w: %#02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > len(body) {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, len(body))
		}
		compressed := body[:cSize]
		body = body[cSize:]

		remaining := targetSize - outIdx
		if remaining <= 0 {
			return nil, ErrDecodeOverrun
		}
		want := eddsChunkSize
		if want > remaining {
			want = remaining
		}
		dst := target[outIdx : outIdx+want]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict[:dictSize])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		outIdx += n

		decoded := target[outIdx-n : outIdx]
		if len(decoded) >= dictCap {
			copy(dict, decoded[len(decoded)-dictCap:])
			dictSize = dictCap
		} else {
			avail := dictCap - dictSize
			if len(decoded) <= avail {
				copy(dict[dictSize:], decoded)
				dictSize += len(decoded)
			} else {
				shift := len(decoded) - avail
				copy(dict, dict[shift:dictSize])
				copy(dict[dictCap-len(decoded):], decoded)
				dictSize = dictCap
			}
		}

		if flags&0x80 != 0 {
			break
		}
	}

	if outIdx != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, outIdx)
	}
	if len(body) != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, len(body))
	}
	return target, nil
}
