package bite

import "fmt"

// Face identifies one cubemap face in DirectX order, or FaceNone for
// textures that are not cubemaps.
type Face int8

const (
	FaceNone  Face = -1
	FaceRight Face = iota - 1 // +X
	FaceLeft                  // -X
	FaceUp                    // +Y
	FaceDown                  // -Y
	FaceFront                 // +Z
	FaceBack                  // -Z
)

// cubemapFaces is the on-disk face order shared by DDS, VTF and PVR.
var cubemapFaces = [6]Face{FaceRight, FaceLeft, FaceUp, FaceDown, FaceFront, FaceBack}

func (f Face) String() string {
	switch f {
	case FaceNone:
		return "none"
	case FaceRight:
		return "+X"
	case FaceLeft:
		return "-X"
	case FaceUp:
		return "+Y"
	case FaceDown:
		return "-Y"
	case FaceFront:
		return "+Z"
	case FaceBack:
		return "-Z"
	}
	return fmt.Sprintf("Face(%d)", int8(f))
}

// MipIndex addresses exactly one contiguous pixel buffer inside a parsed
// texture: a mip level (0 = largest), a frame (animation frame, array
// slice, or volume z-slice, always 0 otherwise) and a cubemap face
// (FaceNone unless the texture is a cubemap).
type MipIndex struct {
	Mip   int
	Frame int
	Face  Face
}

func (i MipIndex) String() string {
	if i.Face == FaceNone {
		return fmt.Sprintf("MipIndex(mip=%d, frame=%d)", i.Mip, i.Frame)
	}
	return fmt.Sprintf("MipIndex(mip=%d, frame=%d, face=%s)", i.Mip, i.Frame, i.Face)
}

// Texture is the uniform addressing scheme over every decoded format.
// Implementations are immutable after parsing and safe for concurrent use.
type Texture interface {
	// Size reports the dimensions of the largest mip level.
	Size() (width, height int)
	// MipCount reports the number of mip levels per frame/face.
	MipCount() int
	// FrameCount reports animation frames or array slices (1 if neither).
	FrameCount() int
	IsCubemap() bool
	IsArray() bool
	IsVolume() bool
	// FormatName names the pixel format as stored (e.g. "BC1_UNORM").
	FormatName() string
	// MipSize reports the dimensions of the addressed mip level. For
	// volume textures depth is the level's slice count; otherwise 1.
	MipSize(index MipIndex) (width, height, depth int, err error)
	// Pixels returns the raw stored bytes for one mip surface: a full 2D
	// level for flat textures, one z-slice (Frame) for volumes. The slice
	// aliases the parse-time buffer; callers must not modify it.
	Pixels(index MipIndex) ([]byte, error)
	// DefaultMip addresses the largest surface: mip 0, frame 0, and the
	// first face on cubemaps.
	DefaultMip() MipIndex
}

// byteRange locates one mip surface inside the source buffer.
type byteRange struct {
	offset int
	length int
}

// mipPlacement pairs a MipIndex with its byte size, in on-disk order.
type mipPlacement struct {
	index MipIndex
	size  int
}

// resolveLayout assigns contiguous byte ranges to placements starting at
// start, in the order given. It fails with ErrTruncatedData as soon as a
// range would run past the end of the buffer, so corrupt files are caught
// at parse time rather than on a later pixel read.
func resolveLayout(format string, bufLen, start int, placements []mipPlacement) (map[MipIndex]byteRange, error) {
	layout := make(map[MipIndex]byteRange, len(placements))
	offset := start
	for _, p := range placements {
		if p.size < 0 {
			return nil, fmt.Errorf("%w: %s: negative size for %s", ErrSizeOverflow, format, p.index)
		}
		end := offset + p.size
		if end > bufLen {
			return nil, fmt.Errorf("%w: %s: %s needs bytes [%d:%d], buffer holds %d",
				ErrTruncatedData, format, p.index, offset, end, bufLen)
		}
		layout[p.index] = byteRange{offset, p.size}
		offset = end
	}
	return layout, nil
}

// texture is the shared facade state every format decoder embeds:
// geometry, the resolved mip layout, and the backing buffer.
type texture struct {
	format string
	data   []byte

	width, height, depth int
	mips, frames         int

	cubemap bool
	array   bool
	volume  bool

	layout map[MipIndex]byteRange
}

func (t *texture) Size() (int, int)   { return t.width, t.height }
func (t *texture) MipCount() int      { return t.mips }
func (t *texture) FrameCount() int    { return t.frames }
func (t *texture) IsCubemap() bool    { return t.cubemap }
func (t *texture) IsArray() bool      { return t.array }
func (t *texture) IsVolume() bool     { return t.volume }
func (t *texture) FormatName() string { return t.format }

func (t *texture) DefaultMip() MipIndex {
	face := FaceNone
	if t.cubemap {
		face = FaceRight
	}
	return MipIndex{Mip: 0, Frame: 0, Face: face}
}

// checkIndex validates a MipIndex against the parsed geometry.
func (t *texture) checkIndex(index MipIndex) error {
	if t.cubemap && index.Face == FaceNone {
		return fmt.Errorf("%w: %s: cubemap requires a face, got %s", ErrMissingFace, t.format, index)
	}
	if !t.cubemap && index.Face != FaceNone {
		return fmt.Errorf("%w: %s: %s names a face on a non-cubemap", ErrMissingFace, t.format, index)
	}
	if index.Face < FaceNone || index.Face > FaceBack {
		return fmt.Errorf("%w: %s: %s", ErrIndexOutOfRange, t.format, index)
	}
	if index.Mip < 0 || index.Mip >= t.mips {
		return fmt.Errorf("%w: %s: %s of %d mips", ErrIndexOutOfRange, t.format, index, t.mips)
	}
	maxFrame := t.frames
	if t.volume {
		maxFrame = mipDimension(t.depth, index.Mip)
	}
	if index.Frame < 0 || index.Frame >= maxFrame {
		return fmt.Errorf("%w: %s: %s of %d frames", ErrIndexOutOfRange, t.format, index, maxFrame)
	}
	return nil
}

func (t *texture) MipSize(index MipIndex) (int, int, int, error) {
	if err := t.checkIndex(index); err != nil {
		return 0, 0, 0, err
	}
	depth := 1
	if t.volume {
		depth = mipDimension(t.depth, index.Mip)
	}
	return mipDimension(t.width, index.Mip), mipDimension(t.height, index.Mip), depth, nil
}

func (t *texture) Pixels(index MipIndex) ([]byte, error) {
	if err := t.checkIndex(index); err != nil {
		return nil, err
	}
	br, ok := t.layout[index]
	if !ok {
		return nil, fmt.Errorf("%w: %s: %s has no resolved range", ErrIndexOutOfRange, t.format, index)
	}
	return t.data[br.offset : br.offset+br.length : br.offset+br.length], nil
}
