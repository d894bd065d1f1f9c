package bite

import (
	"fmt"
	"strings"
)

// PVR3 named pixel formats (the low word of the 64-bit pixel format field
// when the high word is zero).
const (
	PVR3FormatPVRTC2RGB  = 0
	PVR3FormatPVRTC2RGBA = 1
	PVR3FormatPVRTC4RGB  = 2
	PVR3FormatPVRTC4RGBA = 3
	PVR3FormatPVRTCII2   = 4
	PVR3FormatPVRTCII4   = 5
	PVR3FormatETC1       = 6
	PVR3FormatDXT1       = 7
	PVR3FormatDXT2       = 8
	PVR3FormatDXT3       = 9
	PVR3FormatDXT4       = 10
	PVR3FormatDXT5       = 11
	PVR3FormatBC4        = 12
	PVR3FormatBC5        = 13
	PVR3FormatBC6        = 14
	PVR3FormatBC7        = 15
	PVR3FormatBW1bpp     = 18
	PVR3FormatETC2RGB    = 22
	PVR3FormatETC2RGBA   = 23
	PVR3FormatETC2RGBA1  = 24
	PVR3FormatEACR11     = 25
	PVR3FormatEACRG11    = 26
	PVR3FormatASTC4x4    = 27
)

// PVR3Header is the 52-byte PVR version 3 header.
type PVR3Header struct {
	Flags       uint32
	PixelFormat uint64 // named enum, or a packed 8-byte channel descriptor
	ColorSpace  uint32
	ChannelType uint32
	Height      uint32
	Width       uint32
	Depth       uint32
	NumSurfaces uint32
	NumFaces    uint32
	MipCount    uint32
	MetaSize    uint32
}

// Legacy Dreamcast PVR pixel modes.
const (
	PVRPixelARGB1555 = 0x00
	PVRPixelRGB565   = 0x01
	PVRPixelARGB4444 = 0x02
	PVRPixelYUV422   = 0x03
	PVRPixelBumpMap  = 0x04
	PVRPixelPal4     = 0x05
	PVRPixelPal8     = 0x06
)

// Legacy Dreamcast PVR texture modes.
const (
	PVRTextureTwiddled          = 0x01
	PVRTextureTwiddledMips      = 0x02
	PVRTextureVQ                = 0x03
	PVRTextureVQMips            = 0x04
	PVRTexturePal4              = 0x05
	PVRTexturePal4Mips          = 0x06
	PVRTexturePal8              = 0x07
	PVRTexturePal8Mips          = 0x08
	PVRTextureRectangle         = 0x09
	PVRTextureRectangleMips     = 0x0A
	PVRTextureStride            = 0x0B
	PVRTextureStrideMips        = 0x0C
	PVRTextureTwiddledRectangle = 0x0D
	PVRTextureSmallVQ           = 0x10
	PVRTextureSmallVQMips       = 0x11
	PVRTextureAltTwiddledMips   = 0x12
)

// PVRTHeader is the legacy Dreamcast header ("PVRT", optionally preceded
// by a "GBIX" global index chunk).
type PVRTHeader struct {
	GBIX        []byte // nil when absent
	DataSize    uint32
	PixelMode   uint8
	TextureMode uint8
	Width       uint16
	Height      uint16
}

// PVR is a parsed PowerVR texture, either PVR3 or legacy PVRT.
type PVR struct {
	texture
	PVR3 *PVR3Header // nil for legacy files
	PVRT *PVRTHeader // nil for PVR3 files
}

const pvr3Magic = 0x03525650 // "PVR\x03" read little-endian
const pvr3MagicFlipped = 0x50565203

// pvr3NamedTexelLayout sizes a named PVR3 pixel format.
func pvr3NamedTexelLayout(code uint32) (texelLayout, string, bool) {
	switch code {
	case PVR3FormatPVRTC2RGB:
		return texelPVRTC2, "PVRTC_2BPP_RGB", true
	case PVR3FormatPVRTC2RGBA:
		return texelPVRTC2, "PVRTC_2BPP_RGBA", true
	case PVR3FormatPVRTC4RGB:
		return texelPVRTC4, "PVRTC_4BPP_RGB", true
	case PVR3FormatPVRTC4RGBA:
		return texelPVRTC4, "PVRTC_4BPP_RGBA", true
	case PVR3FormatPVRTCII2:
		return texelPVRTC2, "PVRTC_II_2BPP", true
	case PVR3FormatPVRTCII4:
		return texelPVRTC4, "PVRTC_II_4BPP", true
	case PVR3FormatETC1:
		return texelBlock8, "ETC1", true
	case PVR3FormatDXT1:
		return texelBlock8, "DXT1", true
	case PVR3FormatDXT2:
		return texelBlock16, "DXT2", true
	case PVR3FormatDXT3:
		return texelBlock16, "DXT3", true
	case PVR3FormatDXT4:
		return texelBlock16, "DXT4", true
	case PVR3FormatDXT5:
		return texelBlock16, "DXT5", true
	case PVR3FormatBC4:
		return texelBlock8, "BC4", true
	case PVR3FormatBC5:
		return texelBlock16, "BC5", true
	case PVR3FormatBC6:
		return texelBlock16, "BC6", true
	case PVR3FormatBC7:
		return texelBlock16, "BC7", true
	case PVR3FormatBW1bpp:
		return texel1bpp, "BW_1BPP", true
	case PVR3FormatETC2RGB:
		return texelBlock8, "ETC2_RGB", true
	case PVR3FormatETC2RGBA:
		return texelBlock16, "ETC2_RGBA", true
	case PVR3FormatETC2RGBA1:
		return texelBlock8, "ETC2_RGB_A1", true
	case PVR3FormatEACR11:
		return texelBlock8, "EAC_R11", true
	case PVR3FormatEACRG11:
		return texelBlock16, "EAC_RG11", true
	case PVR3FormatASTC4x4:
		return texelBlock16, "ASTC_4x4", true
	}
	return texelLayout{}, "", false
}

// pvr3TexelLayout sizes a PVR3 pixel format field: a named enum when the
// high word is zero, otherwise a packed channel descriptor of four channel
// name bytes and four bit counts (e.g. 'r','g','b','a',8,8,8,8).
func pvr3TexelLayout(pixelFormat uint64) (texelLayout, string, error) {
	if pixelFormat>>32 == 0 {
		layout, name, ok := pvr3NamedTexelLayout(uint32(pixelFormat))
		if !ok {
			return texelLayout{}, "", fmt.Errorf("%w: pvr: pixel format %d", ErrUnsupportedVariant, pixelFormat)
		}
		return layout, name, nil
	}
	var chars [4]byte
	var bits [4]uint8
	totalBits := 0
	for i := 0; i < 4; i++ {
		chars[i] = byte(pixelFormat >> (8 * i))
		bits[i] = uint8(pixelFormat >> (32 + 8*i))
		totalBits += int(bits[i])
	}
	if totalBits == 0 || totalBits%8 != 0 {
		return texelLayout{}, "", fmt.Errorf("%w: pvr: packed channel descriptor %#016x",
			ErrUnsupportedVariant, pixelFormat)
	}
	var name strings.Builder
	for i := 0; i < 4; i++ {
		if chars[i] == 0 {
			continue
		}
		name.WriteByte(chars[i] &^ 0x20) // upper-case channel letter
	}
	for i := 0; i < 4; i++ {
		if bits[i] == 0 {
			continue
		}
		fmt.Fprintf(&name, "%d", bits[i])
	}
	return texelLayout{1, 1, totalBits / 8}, name.String(), nil
}

// pvrTexelLayout sizes a legacy pixel mode.
func pvrTexelLayout(pixelMode uint8) (texelLayout, string, error) {
	switch pixelMode {
	case PVRPixelARGB1555:
		return texel16bpp, "ARGB1555", nil
	case PVRPixelRGB565:
		return texel16bpp, "RGB565", nil
	case PVRPixelARGB4444:
		return texel16bpp, "ARGB4444", nil
	case PVRPixelYUV422:
		return texel16bpp, "YUV422", nil
	case PVRPixelBumpMap:
		return texel16bpp, "BUMP_MAP", nil
	case PVRPixelPal4:
		return texel4bpp, "PALETTE_4", nil
	case PVRPixelPal8:
		return texel8bpp, "PALETTE_8", nil
	}
	return texelLayout{}, "", fmt.Errorf("%w: pvr: pixel mode %#02x", ErrUnsupportedVariant, pixelMode)
}

// ParsePVR decodes a complete PVR file, accepting either the PVR3
// signature or the legacy Dreamcast layout (optional GBIX chunk, then
// "PVRT"). Layout: surface-major, then face-major, then mip-major largest
// first; PVR3 volume depth slices are contiguous inside each mip.
func ParsePVR(data []byte) (*PVR, error) {
	r := NewReader(data)
	magic, err := r.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("%w: pvr: %v", ErrTruncatedHeader, err)
	}
	switch {
	case le.Uint32(magic) == pvr3Magic:
		return parsePVR3(r, data)
	case le.Uint32(magic) == pvr3MagicFlipped:
		return nil, fmt.Errorf("%w: pvr: big-endian PVR3", ErrUnsupportedVariant)
	case string(magic) == "GBIX" || string(magic) == "PVRT":
		return parsePVRT(r, data)
	}
	return nil, fmt.Errorf("%w: pvr: got %q", ErrBadMagic, magic)
}

func parsePVR3(r *Reader, data []byte) (*PVR, error) {
	var hdr PVR3Header
	f := &fields{r: r}
	f.skip(4) // magic, already checked
	hdr.Flags = f.u32()
	hdr.PixelFormat = f.u64()
	hdr.ColorSpace = f.u32()
	hdr.ChannelType = f.u32()
	hdr.Height = f.u32()
	hdr.Width = f.u32()
	hdr.Depth = f.u32()
	hdr.NumSurfaces = f.u32()
	hdr.NumFaces = f.u32()
	hdr.MipCount = f.u32()
	hdr.MetaSize = f.u32()
	if f.err != nil {
		return nil, fmt.Errorf("%w: pvr: %v", ErrTruncatedHeader, f.err)
	}
	// the metadata block is opaque here; skip it whole
	if err := r.Skip(int(hdr.MetaSize)); err != nil {
		return nil, fmt.Errorf("%w: pvr: %d byte metadata block: %v", ErrTruncatedHeader, hdr.MetaSize, err)
	}

	layout, name, err := pvr3TexelLayout(hdr.PixelFormat)
	if err != nil {
		return nil, err
	}

	out := &PVR{PVR3: &hdr}
	t := &out.texture
	t.format = name
	t.data = data
	t.width = int(hdr.Width)
	t.height = int(hdr.Height)
	if t.width < 1 || t.height < 1 {
		return nil, fmt.Errorf("%w: pvr: %dx%d", ErrBadMagic, t.width, t.height)
	}
	t.depth = 1
	if hdr.Depth > 1 {
		t.depth = int(hdr.Depth)
		t.volume = true
	}
	t.frames = 1
	if hdr.NumSurfaces > 1 {
		t.frames = int(hdr.NumSurfaces)
		t.array = true
	}
	switch hdr.NumFaces {
	case 0, 1:
	case 6:
		t.cubemap = true
	default:
		return nil, fmt.Errorf("%w: pvr: %d faces", ErrUnsupportedVariant, hdr.NumFaces)
	}
	if t.volume && (t.array || t.cubemap) {
		return nil, fmt.Errorf("%w: pvr: volume texture with %d surfaces, %d faces",
			ErrUnsupportedVariant, hdr.NumSurfaces, hdr.NumFaces)
	}
	t.mips = int(hdr.MipCount)
	if t.mips == 0 {
		t.mips = calculateMipMapCount(t.width, t.height, t.depth)
	}

	faces := 1
	if t.cubemap {
		faces = 6
	}
	var placements []mipPlacement
	for frame := 0; frame < t.frames; frame++ {
		for fi := 0; fi < faces; fi++ {
			face := FaceNone
			if t.cubemap {
				face = cubemapFaces[fi]
			}
			for mip := 0; mip < t.mips; mip++ {
				w := mipDimension(t.width, mip)
				h := mipDimension(t.height, mip)
				if t.volume {
					for z := 0; z < mipDimension(t.depth, mip); z++ {
						placements = append(placements, mipPlacement{
							index: MipIndex{Mip: mip, Frame: z, Face: face},
							size:  layout.mipByteSize(w, h, 1),
						})
					}
				} else {
					placements = append(placements, mipPlacement{
						index: MipIndex{Mip: mip, Frame: frame, Face: face},
						size:  layout.mipByteSize(w, h, 1),
					})
				}
			}
		}
	}
	var resolveErr error
	t.layout, resolveErr = resolveLayout("pvr", len(data), r.Offset(), placements)
	if resolveErr != nil {
		return nil, resolveErr
	}
	return out, nil
}

func parsePVRT(r *Reader, data []byte) (*PVR, error) {
	var hdr PVRTHeader
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, fmt.Errorf("%w: pvr: %v", ErrTruncatedHeader, err)
	}
	if string(magic) == "GBIX" {
		length, err := r.Uint32()
		if err != nil {
			return nil, fmt.Errorf("%w: pvr: GBIX length: %v", ErrTruncatedHeader, err)
		}
		hdr.GBIX, err = r.Bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("%w: pvr: GBIX chunk: %v", ErrTruncatedHeader, err)
		}
		if magic, err = r.Bytes(4); err != nil {
			return nil, fmt.Errorf("%w: pvr: %v", ErrTruncatedHeader, err)
		}
	}
	if string(magic) != "PVRT" {
		return nil, fmt.Errorf("%w: pvr: got %q, want \"PVRT\"", ErrBadMagic, magic)
	}

	f := &fields{r: r}
	hdr.DataSize = f.u32()
	hdr.PixelMode = f.u8()
	hdr.TextureMode = f.u8()
	f.skip(2) // padding
	hdr.Width = f.u16()
	hdr.Height = f.u16()
	if f.err != nil {
		return nil, fmt.Errorf("%w: pvr: %v", ErrTruncatedHeader, f.err)
	}

	switch hdr.TextureMode {
	case PVRTextureTwiddled, PVRTexturePal4, PVRTexturePal8,
		PVRTextureRectangle, PVRTextureStride, PVRTextureTwiddledRectangle:
	default:
		// VQ and in-file mip chains use twiddled non-linear layouts
		return nil, fmt.Errorf("%w: pvr: texture mode %#02x", ErrUnsupportedVariant, hdr.TextureMode)
	}

	layout, name, err := pvrTexelLayout(hdr.PixelMode)
	if err != nil {
		return nil, err
	}

	out := &PVR{PVRT: &hdr}
	t := &out.texture
	t.format = name
	t.data = data
	t.width = int(hdr.Width)
	t.height = int(hdr.Height)
	if t.width < 1 || t.height < 1 {
		return nil, fmt.Errorf("%w: pvr: %dx%d", ErrBadMagic, t.width, t.height)
	}
	t.depth = 1
	t.frames = 1
	t.mips = 1

	placements := []mipPlacement{{
		index: MipIndex{Mip: 0, Frame: 0, Face: FaceNone},
		size:  layout.mipByteSize(t.width, t.height, 1),
	}}
	t.layout, err = resolveLayout("pvr", len(data), r.Offset(), placements)
	if err != nil {
		return nil, err
	}
	return out, nil
}
