package bite

import "fmt"

// DXGIFormat is a DX10 pixel/format code. Only codes the layout resolver
// can size are accepted; anything else fails ErrUnsupportedVariant with
// the raw value preserved in the error.
type DXGIFormat uint32

const (
	DXGIUnknown         DXGIFormat = 0
	DXGIRGBA32Float     DXGIFormat = 2
	DXGIRGB32Float      DXGIFormat = 6
	DXGIRGBA16Float     DXGIFormat = 10
	DXGIRGBA16Unorm     DXGIFormat = 11
	DXGIRG32Float       DXGIFormat = 16
	DXGIRGBA8Unorm      DXGIFormat = 28
	DXGIRGBA8UnormSRGB  DXGIFormat = 29
	DXGIRG16Float       DXGIFormat = 34
	DXGIRG16Unorm       DXGIFormat = 35
	DXGIR32Float        DXGIFormat = 41
	DXGIRG8Unorm        DXGIFormat = 49
	DXGIR16Float        DXGIFormat = 54
	DXGIR16Unorm        DXGIFormat = 56
	DXGIR8Unorm         DXGIFormat = 61
	DXGIA8Unorm         DXGIFormat = 65
	DXGIBC1Unorm        DXGIFormat = 71
	DXGIBC1UnormSRGB    DXGIFormat = 72
	DXGIBC2Unorm        DXGIFormat = 74
	DXGIBC2UnormSRGB    DXGIFormat = 75
	DXGIBC3Unorm        DXGIFormat = 77
	DXGIBC3UnormSRGB    DXGIFormat = 78
	DXGIBC4Unorm        DXGIFormat = 80
	DXGIBC4Snorm        DXGIFormat = 81
	DXGIBC5Unorm        DXGIFormat = 83
	DXGIBC5Snorm        DXGIFormat = 84
	DXGIB5G6R5Unorm     DXGIFormat = 85
	DXGIB5G5R5A1Unorm   DXGIFormat = 86
	DXGIBGRA8Unorm      DXGIFormat = 87
	DXGIBGRX8Unorm      DXGIFormat = 88
	DXGIBGRA8UnormSRGB  DXGIFormat = 91
	DXGIBC6HUF16        DXGIFormat = 95
	DXGIBC6HSF16        DXGIFormat = 96
	DXGIBC7Unorm        DXGIFormat = 98
	DXGIBC7UnormSRGB    DXGIFormat = 99
)

// dxgiTexelLayout sizes a DXGI format, treating typeless/uint/sint/snorm
// siblings the same as their unorm form.
func dxgiTexelLayout(format DXGIFormat) (texelLayout, bool) {
	switch {
	case format >= 1 && format <= 4: // R32G32B32A32_*
		return texel128bpp, true
	case format >= 5 && format <= 8: // R32G32B32_*
		return texel96bpp, true
	case format >= 9 && format <= 14: // R16G16B16A16_*
		return texel64bpp, true
	case format >= 15 && format <= 18: // R32G32_*
		return texel64bpp, true
	case format >= 23 && format <= 26: // R10G10B10A2_*, R11G11B10_FLOAT
		return texel32bpp, true
	case format >= 27 && format <= 32: // R8G8B8A8_*
		return texel32bpp, true
	case format >= 33 && format <= 38: // R16G16_*
		return texel32bpp, true
	case format >= 39 && format <= 43: // R32_*, D32_FLOAT
		return texel32bpp, true
	case format >= 48 && format <= 52: // R8G8_*
		return texel16bpp, true
	case format >= 53 && format <= 59: // R16_*, D16_UNORM
		return texel16bpp, true
	case format >= 60 && format <= 65: // R8_*, A8_UNORM
		return texel8bpp, true
	case format >= 70 && format <= 72: // BC1_*
		return texelBlock8, true
	case format >= 73 && format <= 78: // BC2_*, BC3_*
		return texelBlock16, true
	case format >= 79 && format <= 81: // BC4_*
		return texelBlock8, true
	case format >= 82 && format <= 84: // BC5_*
		return texelBlock16, true
	case format == 85 || format == 86: // B5G6R5, B5G5R5A1
		return texel16bpp, true
	case format >= 87 && format <= 93: // B8G8R8A8_*, B8G8R8X8_*
		return texel32bpp, true
	case format >= 94 && format <= 99: // BC6H_*, BC7_*
		return texelBlock16, true
	}
	return texelLayout{}, false
}

func (f DXGIFormat) String() string {
	switch f {
	case DXGIRGBA32Float:
		return "R32G32B32A32_FLOAT"
	case DXGIRGB32Float:
		return "R32G32B32_FLOAT"
	case DXGIRGBA16Float:
		return "R16G16B16A16_FLOAT"
	case DXGIRGBA16Unorm:
		return "R16G16B16A16_UNORM"
	case DXGIRG32Float:
		return "R32G32_FLOAT"
	case DXGIRGBA8Unorm:
		return "R8G8B8A8_UNORM"
	case DXGIRGBA8UnormSRGB:
		return "R8G8B8A8_UNORM_SRGB"
	case DXGIRG16Float:
		return "R16G16_FLOAT"
	case DXGIRG16Unorm:
		return "R16G16_UNORM"
	case DXGIR32Float:
		return "R32_FLOAT"
	case DXGIRG8Unorm:
		return "R8G8_UNORM"
	case DXGIR16Float:
		return "R16_FLOAT"
	case DXGIR16Unorm:
		return "R16_UNORM"
	case DXGIR8Unorm:
		return "R8_UNORM"
	case DXGIA8Unorm:
		return "A8_UNORM"
	case DXGIBC1Unorm:
		return "BC1_UNORM"
	case DXGIBC1UnormSRGB:
		return "BC1_UNORM_SRGB"
	case DXGIBC2Unorm:
		return "BC2_UNORM"
	case DXGIBC2UnormSRGB:
		return "BC2_UNORM_SRGB"
	case DXGIBC3Unorm:
		return "BC3_UNORM"
	case DXGIBC3UnormSRGB:
		return "BC3_UNORM_SRGB"
	case DXGIBC4Unorm:
		return "BC4_UNORM"
	case DXGIBC4Snorm:
		return "BC4_SNORM"
	case DXGIBC5Unorm:
		return "BC5_UNORM"
	case DXGIBC5Snorm:
		return "BC5_SNORM"
	case DXGIB5G6R5Unorm:
		return "B5G6R5_UNORM"
	case DXGIB5G5R5A1Unorm:
		return "B5G5R5A1_UNORM"
	case DXGIBGRA8Unorm:
		return "B8G8R8A8_UNORM"
	case DXGIBGRX8Unorm:
		return "B8G8R8X8_UNORM"
	case DXGIBGRA8UnormSRGB:
		return "B8G8R8A8_UNORM_SRGB"
	case DXGIBC6HUF16:
		return "BC6H_UF16"
	case DXGIBC6HSF16:
		return "BC6H_SF16"
	case DXGIBC7Unorm:
		return "BC7_UNORM"
	case DXGIBC7UnormSRGB:
		return "BC7_UNORM_SRGB"
	}
	return fmt.Sprintf("DXGI_FORMAT(%d)", uint32(f))
}

const (
	ddsMagic           = "DDS "
	ddsHeaderSize      = 124
	ddsPixelFormatSize = 32
)

// DDSHeader flags.
const (
	DDSFlagCaps        = 0x00000001
	DDSFlagHeight      = 0x00000002
	DDSFlagWidth       = 0x00000004
	DDSFlagPitch       = 0x00000008
	DDSFlagPixelFormat = 0x00001000
	DDSFlagMipmapCount = 0x00020000
	DDSFlagLinearSize  = 0x00080000
	DDSFlagDepth       = 0x00800000
)

// DDSHeader caps / caps2 flags.
const (
	DDSCapsComplex = 0x00000008
	DDSCapsTexture = 0x00001000
	DDSCapsMipmap  = 0x00400000

	DDSCaps2Cubemap  = 0x00000200
	DDSCaps2AllFaces = 0x0000FC00
	DDSCaps2Volume   = 0x00200000
)

// DDSPixelFormat flags.
const (
	DDSPFAlphaPixels = 0x00000001
	DDSPFAlpha       = 0x00000002
	DDSPFFourCC      = 0x00000004
	DDSPFRGB         = 0x00000040
	DDSPFLuminance   = 0x00020000
)

// DX10 extension resource dimensions and misc flags.
const (
	DDSDimensionTexture1D = 2
	DDSDimensionTexture2D = 3
	DDSDimensionTexture3D = 4

	DDSMiscCubemap = 0x4
)

// DDSPixelFormat is the 32-byte sub-structure inside DDSHeader.
type DDSPixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// DDSHeader is the fixed 124-byte structure following the "DDS " magic.
type DDSHeader struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	Reserved1         [11]uint32
	PixelFormat       DDSPixelFormat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
}

// DDSHeaderDX10 is the 20-byte extension present when the pixel format
// fourCC is "DX10".
type DDSHeaderDX10 struct {
	DXGIFormat        DXGIFormat
	ResourceDimension uint32
	MiscFlag          uint32
	ArraySize         uint32
	MiscFlags2        uint32
}

// DDS is a parsed Direct Draw Surface texture.
type DDS struct {
	texture
	Header DDSHeader
	DX10   *DDSHeaderDX10 // nil without the extension
	Format DXGIFormat
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

func fourCCString(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

func decodeDDSHeader(r *Reader) (DDSHeader, error) {
	var hdr DDSHeader
	f := &fields{r: r}
	hdr.Size = f.u32()
	hdr.Flags = f.u32()
	hdr.Height = f.u32()
	hdr.Width = f.u32()
	hdr.PitchOrLinearSize = f.u32()
	hdr.Depth = f.u32()
	hdr.MipMapCount = f.u32()
	for i := range hdr.Reserved1 {
		hdr.Reserved1[i] = f.u32()
	}
	hdr.PixelFormat.Size = f.u32()
	hdr.PixelFormat.Flags = f.u32()
	hdr.PixelFormat.FourCC = f.u32()
	hdr.PixelFormat.RGBBitCount = f.u32()
	hdr.PixelFormat.RBitMask = f.u32()
	hdr.PixelFormat.GBitMask = f.u32()
	hdr.PixelFormat.BBitMask = f.u32()
	hdr.PixelFormat.ABitMask = f.u32()
	hdr.Caps = f.u32()
	hdr.Caps2 = f.u32()
	hdr.Caps3 = f.u32()
	hdr.Caps4 = f.u32()
	hdr.Reserved2 = f.u32()
	if f.err != nil {
		return hdr, fmt.Errorf("%w: dds: %v", ErrTruncatedHeader, f.err)
	}
	return hdr, nil
}

// legacyDDSFormat maps a pre-DX10 pixel format onto the DXGI enum.
func legacyDDSFormat(pf DDSPixelFormat) (DXGIFormat, error) {
	if pf.Flags&DDSPFFourCC != 0 {
		switch fourCCString(pf.FourCC) {
		case "DXT1":
			return DXGIBC1Unorm, nil
		case "DXT2", "DXT3":
			return DXGIBC2Unorm, nil
		case "DXT4", "DXT5":
			return DXGIBC3Unorm, nil
		case "ATI1", "BC4U":
			return DXGIBC4Unorm, nil
		case "BC4S":
			return DXGIBC4Snorm, nil
		case "ATI2", "BC5U":
			return DXGIBC5Unorm, nil
		case "BC5S":
			return DXGIBC5Snorm, nil
		default:
			return DXGIUnknown, fmt.Errorf("%w: dds: fourCC %q", ErrUnsupportedVariant, fourCCString(pf.FourCC))
		}
	}
	if pf.Flags&DDSPFRGB != 0 {
		switch pf.RGBBitCount {
		case 32:
			if pf.RBitMask == 0x000000ff && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x00ff0000 {
				return DXGIRGBA8Unorm, nil
			}
			if pf.RBitMask == 0x00ff0000 && pf.GBitMask == 0x0000ff00 && pf.BBitMask == 0x000000ff {
				if pf.Flags&DDSPFAlphaPixels != 0 {
					return DXGIBGRA8Unorm, nil
				}
				return DXGIBGRX8Unorm, nil
			}
		case 16:
			if pf.RBitMask == 0xf800 && pf.GBitMask == 0x07e0 && pf.BBitMask == 0x001f {
				return DXGIB5G6R5Unorm, nil
			}
			if pf.RBitMask == 0x7c00 && pf.GBitMask == 0x03e0 && pf.BBitMask == 0x001f {
				return DXGIB5G5R5A1Unorm, nil
			}
		}
		return DXGIUnknown, fmt.Errorf("%w: dds: %d-bit masks R=%#08x G=%#08x B=%#08x A=%#08x",
			ErrUnsupportedVariant, pf.RGBBitCount, pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask)
	}
	if pf.Flags&DDSPFLuminance != 0 && pf.RGBBitCount == 8 {
		return DXGIR8Unorm, nil
	}
	if pf.Flags&DDSPFAlpha != 0 && pf.RGBBitCount == 8 {
		return DXGIA8Unorm, nil
	}
	return DXGIUnknown, fmt.Errorf("%w: dds: pixel format flags %#08x", ErrUnsupportedVariant, pf.Flags)
}

// ParseDDS decodes a complete DDS file. Layout: frame-major, then
// face-major (+X,-X,+Y,-Y,+Z,-Z), then mip-major largest first; volume
// depth slices are contiguous inside each mip. When the DX10 extension is
// present its dimension/array/cubemap fields are authoritative over the
// legacy caps2 flags.
func ParseDDS(data []byte) (*DDS, error) {
	r := NewReader(data)
	magic, err := r.Bytes(4)
	if err != nil {
		return nil, fmt.Errorf("%w: dds: %v", ErrTruncatedHeader, err)
	}
	if string(magic) != ddsMagic {
		return nil, fmt.Errorf("%w: dds: got %q, want %q", ErrBadMagic, magic, ddsMagic)
	}

	hdr, err := decodeDDSHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.Size != ddsHeaderSize {
		return nil, fmt.Errorf("%w: dds: header size %d, want %d", ErrBadMagic, hdr.Size, ddsHeaderSize)
	}
	if hdr.PixelFormat.Size != ddsPixelFormatSize {
		return nil, fmt.Errorf("%w: dds: pixel format size %d, want %d",
			ErrBadMagic, hdr.PixelFormat.Size, ddsPixelFormatSize)
	}

	out := &DDS{Header: hdr}
	if hdr.PixelFormat.Flags&DDSPFFourCC != 0 && fourCCString(hdr.PixelFormat.FourCC) == "DX10" {
		f := &fields{r: r}
		dx10 := &DDSHeaderDX10{
			DXGIFormat:        DXGIFormat(f.u32()),
			ResourceDimension: f.u32(),
			MiscFlag:          f.u32(),
			ArraySize:         f.u32(),
			MiscFlags2:        f.u32(),
		}
		if f.err != nil {
			return nil, fmt.Errorf("%w: dds: DX10 extension: %v", ErrTruncatedHeader, f.err)
		}
		out.DX10 = dx10
		out.Format = dx10.DXGIFormat
	} else {
		format, err := legacyDDSFormat(hdr.PixelFormat)
		if err != nil {
			return nil, err
		}
		out.Format = format
	}

	layout, ok := dxgiTexelLayout(out.Format)
	if !ok {
		return nil, fmt.Errorf("%w: dds: DXGI format %d", ErrUnsupportedVariant, uint32(out.Format))
	}

	t := &out.texture
	t.format = out.Format.String()
	t.data = data
	t.width = int(hdr.Width)
	t.height = int(hdr.Height)
	t.depth = 1
	t.frames = 1

	if out.DX10 != nil {
		t.cubemap = out.DX10.MiscFlag&DDSMiscCubemap != 0
		t.volume = out.DX10.ResourceDimension == DDSDimensionTexture3D
		if !t.volume && out.DX10.ArraySize > 1 {
			t.frames = int(out.DX10.ArraySize)
			t.array = true
		}
	} else {
		t.cubemap = hdr.Caps2&DDSCaps2Cubemap != 0
		t.volume = hdr.Caps2&DDSCaps2Volume != 0
	}
	if t.volume {
		t.cubemap = false
		if hdr.Flags&DDSFlagDepth != 0 && hdr.Depth > 1 {
			t.depth = int(hdr.Depth)
		}
	}

	if t.width < 1 || t.height < 1 {
		return nil, fmt.Errorf("%w: dds: %dx%d", ErrBadMagic, t.width, t.height)
	}

	t.mips = int(hdr.MipMapCount)
	if t.mips == 0 {
		t.mips = calculateMipMapCount(t.width, t.height, t.depth)
	}

	faces := 1
	if t.cubemap {
		faces = 6
	}
	var placements []mipPlacement
	for frame := 0; frame < t.frames; frame++ {
		for f := 0; f < faces; f++ {
			face := FaceNone
			if t.cubemap {
				face = cubemapFaces[f]
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

	t.layout, err = resolveLayout("dds", len(data), r.Offset(), placements)
	if err != nil {
		return nil, err
	}
	return out, nil
}
