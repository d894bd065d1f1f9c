package bite

import (
	"fmt"
	"strings"
)

const (
	vmsHeaderSize    = 0x80
	vmsPaletteOffset = 0x60
	vmsIconSize      = 512 // 32x32 pixels, 4 bits per pixel
	vmsIconWidth     = 32
	vmsIconHeight    = 32
	vmsMaxIcons      = 3
)

// VMS eyecatch types and their payload sizes (72x56 pixels).
const (
	VMSEyecatchNone      = 0
	VMSEyecatchTrueColor = 1 // ARGB4444
	VMSEyecatch256Color  = 2 // 512 byte palette + 8bpp indices
	VMSEyecatch16Color   = 3 // 32 byte palette + 4bpp indices
)

var vmsEyecatchSizes = [4]int{0, 8064, 512 + 4032, 32 + 2016}

// VMSHeader is the fixed 0x80-byte Dreamcast VMU save-file header.
type VMSHeader struct {
	MenuDescription string // 16 bytes, shown in the VMS file menu
	BootDescription string // 32 bytes, shown in the DC boot ROM
	CreatorApp      string // 16 bytes
	IconCount       uint16
	AnimationSpeed  uint16
	EyecatchType    uint16
	CRC             uint16 // CRC16-CCITT over the file, often 0 for game files
	DataSize        uint32
}

// VMS is a parsed Dreamcast VMU save file, exposed as a single-mip 32x32
// texture with the icon count as frame count. Each frame is a 512-byte
// 4bpp plane indexing the 16-entry ARGB4444 palette.
type VMS struct {
	texture
	Header  VMSHeader
	palette [16]uint16

	eyecatch byteRange
}

// vmsCRC is the CRC16-CCITT variant the VMU BIOS uses, computed with the
// stored CRC field read as zero.
func vmsCRC(data []byte) uint16 {
	var n uint32
	for i, b := range data {
		if i == 0x46 || i == 0x47 {
			b = 0
		}
		n ^= uint32(b) << 8
		for c := 0; c < 8; c++ {
			if n&0x8000 != 0 {
				n = (n << 1) ^ 4129
			} else {
				n <<= 1
			}
		}
	}
	return uint16(n)
}

// ParseVMS decodes a complete VMS file. Icon planes are fixed-size and
// located at headerSize + frame*planeSize. The stored checksum is verified
// when nonzero (game files commonly leave it zero).
func ParseVMS(data []byte) (*VMS, error) {
	r := NewReader(data)
	out := &VMS{}
	hdr := &out.Header

	f := &fields{r: r}
	menuDesc := f.bytes(16)
	bootDesc := f.bytes(32)
	creator := f.bytes(16)
	hdr.IconCount = f.u16()
	hdr.AnimationSpeed = f.u16()
	hdr.EyecatchType = f.u16()
	hdr.CRC = f.u16()
	hdr.DataSize = f.u32()
	f.skip(20) // reserved
	for i := range out.palette {
		out.palette[i] = f.u16()
	}
	if f.err != nil {
		return nil, fmt.Errorf("%w: vms: %v", ErrTruncatedHeader, f.err)
	}
	hdr.MenuDescription = strings.TrimRight(string(menuDesc), " \x00")
	hdr.BootDescription = strings.TrimRight(string(bootDesc), " \x00")
	hdr.CreatorApp = strings.TrimRight(string(creator), " \x00")

	// VMS has no magic; the icon count and eyecatch type ranges are the
	// structural sanity check.
	if hdr.IconCount < 1 || hdr.IconCount > vmsMaxIcons {
		return nil, fmt.Errorf("%w: vms: icon count %d", ErrBadMagic, hdr.IconCount)
	}
	if hdr.EyecatchType > VMSEyecatch16Color {
		return nil, fmt.Errorf("%w: vms: eyecatch type %d", ErrBadMagic, hdr.EyecatchType)
	}
	if hdr.CRC != 0 {
		if computed := vmsCRC(data); computed != hdr.CRC {
			return nil, fmt.Errorf("%w: vms: stored %#04x, computed %#04x", ErrBadChecksum, hdr.CRC, computed)
		}
	}

	t := &out.texture
	t.format = "PAL4_ARGB4444"
	t.data = data
	t.width = vmsIconWidth
	t.height = vmsIconHeight
	t.depth = 1
	t.mips = 1
	t.frames = int(hdr.IconCount)

	placements := make([]mipPlacement, t.frames)
	for frame := 0; frame < t.frames; frame++ {
		placements[frame] = mipPlacement{
			index: MipIndex{Mip: 0, Frame: frame, Face: FaceNone},
			size:  vmsIconSize,
		}
	}
	var err error
	t.layout, err = resolveLayout("vms", len(data), vmsHeaderSize, placements)
	if err != nil {
		return nil, err
	}

	if hdr.EyecatchType != VMSEyecatchNone {
		offset := vmsHeaderSize + t.frames*vmsIconSize
		size := vmsEyecatchSizes[hdr.EyecatchType]
		if offset+size > len(data) {
			return nil, fmt.Errorf("%w: vms: eyecatch needs bytes [%d:%d], buffer holds %d",
				ErrTruncatedData, offset, offset+size, len(data))
		}
		out.eyecatch = byteRange{offset, size}
	}
	return out, nil
}

// Palette returns the 16-entry ARGB4444 icon palette.
func (v *VMS) Palette() [16]uint16 {
	return v.palette
}

// Eyecatch returns the raw eyecatch block (palette included for the
// palettized types), or ok=false when the file declares none.
func (v *VMS) Eyecatch() (raw []byte, eyecatchType uint16, ok bool) {
	if v.Header.EyecatchType == VMSEyecatchNone {
		return nil, VMSEyecatchNone, false
	}
	br := v.eyecatch
	return v.data[br.offset : br.offset+br.length : br.offset+br.length], v.Header.EyecatchType, true
}
