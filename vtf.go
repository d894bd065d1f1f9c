package bite

import "fmt"

// VTFFormat is a Valve Texture Format pixel-format code.
type VTFFormat int32

const (
	VTFFormatNone             VTFFormat = -1
	VTFFormatRGBA8888         VTFFormat = 0
	VTFFormatABGR8888         VTFFormat = 1
	VTFFormatRGB888           VTFFormat = 2
	VTFFormatBGR888           VTFFormat = 3
	VTFFormatRGB565           VTFFormat = 4
	VTFFormatI8               VTFFormat = 5
	VTFFormatIA88             VTFFormat = 6
	VTFFormatP8               VTFFormat = 7
	VTFFormatA8               VTFFormat = 8
	VTFFormatRGB888Bluescreen VTFFormat = 9
	VTFFormatBGR888Bluescreen VTFFormat = 10
	VTFFormatARGB8888         VTFFormat = 11
	VTFFormatBGRA8888         VTFFormat = 12
	VTFFormatDXT1             VTFFormat = 13
	VTFFormatDXT3             VTFFormat = 14
	VTFFormatDXT5             VTFFormat = 15
	VTFFormatBGRX8888         VTFFormat = 16
	VTFFormatBGR565           VTFFormat = 17
	VTFFormatBGRX5551         VTFFormat = 18
	VTFFormatBGRA4444         VTFFormat = 19
	VTFFormatDXT1OneBitAlpha  VTFFormat = 20
	VTFFormatBGRA5551         VTFFormat = 21
	VTFFormatUV88             VTFFormat = 22
	VTFFormatUVWQ8888         VTFFormat = 23
	VTFFormatRGBA16161616F    VTFFormat = 24
	VTFFormatRGBA16161616     VTFFormat = 25
	VTFFormatUVLX8888         VTFFormat = 26
	// VTFFormatBC6HUF16 only appears in Titanfall-era cubemaps.hdr.vtf.
	VTFFormatBC6HUF16 VTFFormat = 66
)

func vtfTexelLayout(format VTFFormat) (texelLayout, bool) {
	switch format {
	case VTFFormatRGBA8888, VTFFormatABGR8888, VTFFormatARGB8888, VTFFormatBGRA8888,
		VTFFormatBGRX8888, VTFFormatUVWQ8888, VTFFormatUVLX8888:
		return texel32bpp, true
	case VTFFormatRGB888, VTFFormatBGR888, VTFFormatRGB888Bluescreen, VTFFormatBGR888Bluescreen:
		return texel24bpp, true
	case VTFFormatRGB565, VTFFormatBGR565, VTFFormatBGRX5551, VTFFormatBGRA4444,
		VTFFormatBGRA5551, VTFFormatIA88, VTFFormatUV88:
		return texel16bpp, true
	case VTFFormatI8, VTFFormatP8, VTFFormatA8:
		return texel8bpp, true
	case VTFFormatDXT1, VTFFormatDXT1OneBitAlpha:
		return texelBlock8, true
	case VTFFormatDXT3, VTFFormatDXT5, VTFFormatBC6HUF16:
		return texelBlock16, true
	case VTFFormatRGBA16161616F, VTFFormatRGBA16161616:
		return texel64bpp, true
	}
	return texelLayout{}, false
}

func (f VTFFormat) String() string {
	switch f {
	case VTFFormatNone:
		return "NONE"
	case VTFFormatRGBA8888:
		return "RGBA8888"
	case VTFFormatABGR8888:
		return "ABGR8888"
	case VTFFormatRGB888:
		return "RGB888"
	case VTFFormatBGR888:
		return "BGR888"
	case VTFFormatRGB565:
		return "RGB565"
	case VTFFormatI8:
		return "I8"
	case VTFFormatIA88:
		return "IA88"
	case VTFFormatP8:
		return "P8"
	case VTFFormatA8:
		return "A8"
	case VTFFormatRGB888Bluescreen:
		return "RGB888_BLUESCREEN"
	case VTFFormatBGR888Bluescreen:
		return "BGR888_BLUESCREEN"
	case VTFFormatARGB8888:
		return "ARGB8888"
	case VTFFormatBGRA8888:
		return "BGRA8888"
	case VTFFormatDXT1:
		return "DXT1"
	case VTFFormatDXT3:
		return "DXT3"
	case VTFFormatDXT5:
		return "DXT5"
	case VTFFormatBGRX8888:
		return "BGRX8888"
	case VTFFormatBGR565:
		return "BGR565"
	case VTFFormatBGRX5551:
		return "BGRX5551"
	case VTFFormatBGRA4444:
		return "BGRA4444"
	case VTFFormatDXT1OneBitAlpha:
		return "DXT1_ONE_BIT_ALPHA"
	case VTFFormatBGRA5551:
		return "BGRA5551"
	case VTFFormatUV88:
		return "UV88"
	case VTFFormatUVWQ8888:
		return "UVWQ8888"
	case VTFFormatRGBA16161616F:
		return "RGBA16161616F"
	case VTFFormatRGBA16161616:
		return "RGBA16161616"
	case VTFFormatUVLX8888:
		return "UVLX8888"
	case VTFFormatBC6HUF16:
		return "BC6H_UF16"
	}
	return fmt.Sprintf("VTF_FORMAT(%d)", int32(f))
}

// VTF texture flags (subset).
const (
	VTFFlagNoMip        = 0x00000100
	VTFFlagOneBitAlpha  = 0x00001000
	VTFFlagEightBitAlpha = 0x00002000
	VTFFlagEnvmap       = 0x00004000
)

// VTF resource tags (v7.3+).
var (
	vtfTagThumbnail = [3]byte{0x01, 0x00, 0x00}
	vtfTagImageData = [3]byte{0x30, 0x00, 0x00}
	vtfTagCRC       = [3]byte{'C', 'R', 'C'}
	vtfTagCMA       = [3]byte{'C', 'M', 'A'}
)

// vtfResourceNoData marks resources whose payload lives in the offset field.
const vtfResourceNoData = 0x02

// VTFResource names an auxiliary data block inside a v7.3+ VTF.
type VTFResource struct {
	Tag    [3]byte
	Flags  uint8
	Offset uint32
}

// VTFHeader is the decoded fixed header (all versions 7.0 - 7.5).
type VTFHeader struct {
	VersionMajor uint32
	VersionMinor uint32
	HeaderSize   uint32
	Width        uint16
	Height       uint16
	Flags        uint32
	Frames       uint16
	FirstFrame   uint16
	Reflectivity [3]float32
	BumpmapScale float32
	Format       VTFFormat
	MipCount     uint8
	LowResFormat VTFFormat
	LowResWidth  uint8
	LowResHeight uint8
	Depth        uint16 // v7.2+, 1 otherwise
}

// VTF is a parsed Valve Texture Format file.
type VTF struct {
	texture
	Header    VTFHeader
	Resources []VTFResource
	// CMA holds per-frame cubemap multiply ambient values when present.
	CMA []float32

	thumb    byteRange
	hasThumb bool
}

// ParseVTF decodes a complete VTF file. High-res mips are stored smallest
// first on disk; within one level frame-major, then face-major, then
// z-slice-major. The public MipIndex addressing un-reverses the order:
// mip 0 is always the largest level.
func ParseVTF(data []byte) (*VTF, error) {
	r := NewReader(data)
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, fmt.Errorf("%w: vtf: %v", ErrTruncatedHeader, err)
	}
	if string(magic) != "VTF\x00" {
		return nil, fmt.Errorf("%w: vtf: got %q, want \"VTF\\x00\"", ErrBadMagic, magic)
	}

	var hdr VTFHeader
	f := &fields{r: r}
	hdr.VersionMajor = f.u32()
	hdr.VersionMinor = f.u32()
	if f.err != nil {
		return nil, fmt.Errorf("%w: vtf: version: %v", ErrTruncatedHeader, f.err)
	}
	if hdr.VersionMajor != 7 || hdr.VersionMinor > 5 {
		return nil, fmt.Errorf("%w: vtf: v%d.%d", ErrUnsupportedVariant, hdr.VersionMajor, hdr.VersionMinor)
	}
	hdr.HeaderSize = f.u32()
	hdr.Width = f.u16()
	hdr.Height = f.u16()
	hdr.Flags = f.u32()
	hdr.Frames = f.u16()
	hdr.FirstFrame = f.u16()
	f.skip(4) // padding
	hdr.Reflectivity[0] = f.f32()
	hdr.Reflectivity[1] = f.f32()
	hdr.Reflectivity[2] = f.f32()
	f.skip(4) // padding
	hdr.BumpmapScale = f.f32()
	hdr.Format = VTFFormat(f.i32())
	hdr.MipCount = f.u8()
	hdr.LowResFormat = VTFFormat(f.i32())
	hdr.LowResWidth = f.u8()
	hdr.LowResHeight = f.u8()
	hdr.Depth = 1
	if hdr.VersionMinor >= 2 {
		hdr.Depth = f.u16()
		if hdr.Depth == 0 {
			hdr.Depth = 1
		}
	}
	out := &VTF{Header: hdr}
	if hdr.VersionMinor >= 3 {
		f.skip(3) // padding
		numResources := f.u32()
		f.skip(8) // padding
		if f.err != nil {
			return nil, fmt.Errorf("%w: vtf: %v", ErrTruncatedHeader, f.err)
		}
		if int(numResources)*8 > r.Remaining() {
			return nil, fmt.Errorf("%w: vtf: %d resource entries", ErrTruncatedHeader, numResources)
		}
		for i := uint32(0); i < numResources; i++ {
			var res VTFResource
			copy(res.Tag[:], f.bytes(3))
			res.Flags = f.u8()
			res.Offset = f.u32()
			out.Resources = append(out.Resources, res)
		}
	}
	if f.err != nil {
		return nil, fmt.Errorf("%w: vtf: %v", ErrTruncatedHeader, f.err)
	}
	if int(hdr.HeaderSize) > len(data) {
		return nil, fmt.Errorf("%w: vtf: header size %d, buffer holds %d", ErrTruncatedHeader, hdr.HeaderSize, len(data))
	}

	highResLayout, ok := vtfTexelLayout(hdr.Format)
	if !ok {
		return nil, fmt.Errorf("%w: vtf: image format %d", ErrUnsupportedVariant, int32(hdr.Format))
	}

	t := &out.texture
	t.format = hdr.Format.String()
	t.data = data
	t.width = int(hdr.Width)
	t.height = int(hdr.Height)
	t.depth = int(hdr.Depth)
	t.frames = int(hdr.Frames)
	if t.frames < 1 {
		t.frames = 1
	}
	t.cubemap = hdr.Flags&VTFFlagEnvmap != 0
	t.volume = t.depth > 1
	if t.volume && (t.cubemap || t.frames > 1) {
		return nil, fmt.Errorf("%w: vtf: volume texture with %d frames, cubemap=%t",
			ErrUnsupportedVariant, t.frames, t.cubemap)
	}
	t.mips = int(hdr.MipCount)
	if t.mips == 0 {
		t.mips = calculateMipMapCount(t.width, t.height, t.depth)
	}

	// thumbnail: at its resource offset (v7.3+) or directly after the header
	thumbOffset := int(hdr.HeaderSize)
	if res, found := out.resource(vtfTagThumbnail); found {
		thumbOffset = int(res.Offset)
	}
	highResOffset := thumbOffset
	if hdr.LowResFormat != VTFFormatNone {
		thumbLayout, ok := vtfTexelLayout(hdr.LowResFormat)
		if !ok {
			return nil, fmt.Errorf("%w: vtf: low-res format %d", ErrUnsupportedVariant, int32(hdr.LowResFormat))
		}
		thumbSize := thumbLayout.mipByteSize(int(hdr.LowResWidth), int(hdr.LowResHeight), 1)
		if thumbOffset+thumbSize > len(data) {
			return nil, fmt.Errorf("%w: vtf: thumbnail needs bytes [%d:%d], buffer holds %d",
				ErrTruncatedData, thumbOffset, thumbOffset+thumbSize, len(data))
		}
		out.thumb = byteRange{thumbOffset, thumbSize}
		out.hasThumb = true
		highResOffset = thumbOffset + thumbSize
	}
	if res, found := out.resource(vtfTagImageData); found {
		highResOffset = int(res.Offset)
	}

	// on-disk order: smallest mip first, then frames, faces, z-slices
	faces := 1
	if t.cubemap {
		faces = 6
	}
	var placements []mipPlacement
	for mip := t.mips - 1; mip >= 0; mip-- {
		w := mipDimension(t.width, mip)
		h := mipDimension(t.height, mip)
		d := mipDimension(t.depth, mip)
		sliceSize := highResLayout.mipByteSize(w, h, 1)
		for frame := 0; frame < t.frames; frame++ {
			for fi := 0; fi < faces; fi++ {
				face := FaceNone
				if t.cubemap {
					face = cubemapFaces[fi]
				}
				for z := 0; z < d; z++ {
					idx := MipIndex{Mip: mip, Frame: frame, Face: face}
					if t.volume {
						idx.Frame = z
					}
					placements = append(placements, mipPlacement{index: idx, size: sliceSize})
				}
			}
		}
	}
	t.layout, err = resolveLayout("vtf", len(data), highResOffset, placements)
	if err != nil {
		return nil, err
	}

	if err := out.decodeCMA(data); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *VTF) resource(tag [3]byte) (VTFResource, bool) {
	for _, res := range v.Resources {
		if res.Tag == tag {
			return res, true
		}
	}
	return VTFResource{}, false
}

// decodeCMA reads the cubemap multiply ambient resource: a single float
// packed into the offset field, or a size-prefixed per-frame float array.
func (v *VTF) decodeCMA(data []byte) error {
	res, found := v.resource(vtfTagCMA)
	if !found {
		return nil
	}
	if res.Flags&vtfResourceNoData != 0 {
		var raw [4]byte
		le.PutUint32(raw[:], res.Offset)
		r := NewReader(raw[:])
		value, _ := r.Float32()
		v.CMA = []float32{value}
		return nil
	}
	r := NewReader(data)
	if err := r.Seek(int(res.Offset)); err != nil {
		return fmt.Errorf("%w: vtf: CMA resource: %v", ErrTruncatedData, err)
	}
	size, err := r.Uint32()
	if err != nil {
		return fmt.Errorf("%w: vtf: CMA resource: %v", ErrTruncatedData, err)
	}
	if int(size) != v.frames*4 {
		return fmt.Errorf("%w: vtf: CMA size %d for %d frames", ErrTruncatedData, size, v.frames)
	}
	v.CMA = make([]float32, v.frames)
	for i := range v.CMA {
		if v.CMA[i], err = r.Float32(); err != nil {
			return fmt.Errorf("%w: vtf: CMA entry %d: %v", ErrTruncatedData, i, err)
		}
	}
	return nil
}

// Thumbnail returns the raw low-res image bytes plus their dimensions and
// format, or ok=false when the file stores none.
func (v *VTF) Thumbnail() (pixels []byte, width, height int, format VTFFormat, ok bool) {
	if !v.hasThumb {
		return nil, 0, 0, VTFFormatNone, false
	}
	br := v.thumb
	return v.data[br.offset : br.offset+br.length : br.offset+br.length],
		int(v.Header.LowResWidth), int(v.Header.LowResHeight), v.Header.LowResFormat, true
}
