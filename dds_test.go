package bite

import (
	"bytes"
	"errors"
	"testing"
)

func pfRGBA8(s *synth) {
	s.u32(ddsPixelFormatSize)
	s.u32(DDSPFRGB | DDSPFAlphaPixels)
	s.u32(0) // fourCC
	s.u32(32)
	s.u32(0x000000ff)
	s.u32(0x0000ff00)
	s.u32(0x00ff0000)
	s.u32(0xff000000)
}

func pfFourCC(fourCC string) func(*synth) {
	return func(s *synth) {
		s.u32(ddsPixelFormatSize)
		s.u32(DDSPFFourCC)
		s.raw([]byte(fourCC))
		s.pad(20) // bit count + masks unused
	}
}

// ddsHeaderBytes builds "DDS " + the 124-byte header.
func ddsHeaderBytes(width, height, mips, depth, caps2 uint32, pf func(*synth)) []byte {
	flags := uint32(DDSFlagCaps | DDSFlagHeight | DDSFlagWidth | DDSFlagPixelFormat)
	caps := uint32(DDSCapsTexture)
	if mips > 1 {
		flags |= DDSFlagMipmapCount
		caps |= DDSCapsComplex | DDSCapsMipmap
	}
	if depth > 1 {
		flags |= DDSFlagDepth
	}
	var s synth
	s.str(ddsMagic, 4)
	s.u32(ddsHeaderSize)
	s.u32(flags)
	s.u32(height)
	s.u32(width)
	s.u32(0) // pitch or linear size
	s.u32(depth)
	s.u32(mips)
	s.pad(44) // reserved1
	pf(&s)
	s.u32(caps)
	s.u32(caps2)
	s.pad(12) // caps3, caps4, reserved2
	return s.b
}

func TestParseDDSSingleMipUncompressed(t *testing.T) {
	pixels := fillPattern(64, 1)
	data := append(ddsHeaderBytes(4, 4, 1, 1, 0, pfRGBA8), pixels...)

	dds, err := ParseDDS(data)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if dds.MipCount() != 1 {
		t.Fatalf("MipCount: %d", dds.MipCount())
	}
	if w, h := dds.Size(); w != 4 || h != 4 {
		t.Fatalf("Size: %dx%d", w, h)
	}
	if dds.IsCubemap() || dds.IsArray() || dds.IsVolume() {
		t.Fatalf("flat texture misclassified")
	}
	w, h, d, err := dds.MipSize(MipIndex{Mip: 0, Frame: 0, Face: FaceNone})
	if err != nil || w != 4 || h != 4 || d != 1 {
		t.Fatalf("MipSize: %d %d %d %v", w, h, d, err)
	}
	got, err := dds.Pixels(dds.DefaultMip())
	if err != nil {
		t.Fatalf("Pixels: %v", err)
	}
	if len(got) != 64 {
		t.Fatalf("Pixels length: %d", len(got))
	}
	if !bytes.Equal(got, pixels) {
		t.Fatalf("pixel bytes mismatch")
	}
}

func TestParseDDSMipChainRoundTrip(t *testing.T) {
	header := ddsHeaderBytes(8, 8, 4, 1, 0, pfRGBA8)
	want := make(map[int][]byte)
	data := header
	for mip := 0; mip < 4; mip++ {
		w, h := mipDimension(8, mip), mipDimension(8, mip)
		pixels := fillPattern(w*h*4, byte(mip+1))
		want[mip] = pixels
		data = append(data, pixels...)
	}

	dds, err := ParseDDS(data)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	for mip := 0; mip < 4; mip++ {
		got, err := dds.Pixels(MipIndex{Mip: mip, Frame: 0, Face: FaceNone})
		if err != nil {
			t.Fatalf("Pixels mip %d: %v", mip, err)
		}
		if !bytes.Equal(got, want[mip]) {
			t.Fatalf("mip %d bytes mismatch", mip)
		}
	}
}

func TestParseDDSComputedMipCount(t *testing.T) {
	header := ddsHeaderBytes(16, 4, 0, 1, 0, pfRGBA8)
	dataSize := 0
	for mip := 0; mip < 5; mip++ {
		dataSize += mipDimension(16, mip) * mipDimension(4, mip) * 4
	}
	dds, err := ParseDDS(append(header, make([]byte, dataSize)...))
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if dds.MipCount() != 5 {
		t.Fatalf("MipCount: %d, want floor(log2(16))+1 = 5", dds.MipCount())
	}
	// each axis halves independently and clamps at 1
	w, h, _, err := dds.MipSize(MipIndex{Mip: 3, Frame: 0, Face: FaceNone})
	if err != nil || w != 2 || h != 1 {
		t.Fatalf("MipSize mip 3: %d %d %v", w, h, err)
	}
}

func TestParseDDSCubemap(t *testing.T) {
	header := ddsHeaderBytes(256, 256, 9, 1, DDSCaps2Cubemap|DDSCaps2AllFaces, pfFourCC("DXT1"))
	data := header
	want := make(map[MipIndex][]byte)
	for f, face := range cubemapFaces {
		for mip := 0; mip < 9; mip++ {
			w, h := mipDimension(256, mip), mipDimension(256, mip)
			size := texelBlock8.mipByteSize(w, h, 1)
			pixels := fillPattern(size, byte(f*16+mip))
			want[MipIndex{Mip: mip, Frame: 0, Face: face}] = pixels
			data = append(data, pixels...)
		}
	}

	dds, err := ParseDDS(data)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if !dds.IsCubemap() {
		t.Fatalf("IsCubemap: false")
	}
	if dds.MipCount() != 9 {
		t.Fatalf("MipCount: %d", dds.MipCount())
	}
	if dds.DefaultMip() != (MipIndex{Mip: 0, Frame: 0, Face: FaceRight}) {
		t.Fatalf("DefaultMip: %v", dds.DefaultMip())
	}
	for index, pixels := range want {
		got, err := dds.Pixels(index)
		if err != nil {
			t.Fatalf("Pixels %s: %v", index, err)
		}
		if !bytes.Equal(got, pixels) {
			t.Fatalf("%s bytes mismatch", index)
		}
	}
	for _, face := range cubemapFaces {
		w, h, _, err := dds.MipSize(MipIndex{Mip: 8, Frame: 0, Face: face})
		if err != nil || w != 1 || h != 1 {
			t.Fatalf("MipSize(8, %s): %d %d %v", face, w, h, err)
		}
	}
}

func TestParseDDSDX10Array(t *testing.T) {
	var s synth
	s.raw(ddsHeaderBytes(4, 4, 2, 1, 0, pfFourCC("DX10")))
	s.u32(uint32(DXGIRGBA8Unorm))
	s.u32(DDSDimensionTexture2D)
	s.u32(0) // misc flags
	s.u32(2) // array size
	s.u32(0)
	want := make(map[MipIndex][]byte)
	for frame := 0; frame < 2; frame++ {
		for mip := 0; mip < 2; mip++ {
			w := mipDimension(4, mip)
			pixels := fillPattern(w*w*4, byte(frame*8+mip+1))
			want[MipIndex{Mip: mip, Frame: frame, Face: FaceNone}] = pixels
			s.raw(pixels)
		}
	}

	dds, err := ParseDDS(s.b)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if !dds.IsArray() || dds.FrameCount() != 2 {
		t.Fatalf("IsArray=%t FrameCount=%d", dds.IsArray(), dds.FrameCount())
	}
	if dds.DX10 == nil || dds.Format != DXGIRGBA8Unorm {
		t.Fatalf("DX10 header not decoded: %v", dds.Format)
	}
	for index, pixels := range want {
		got, err := dds.Pixels(index)
		if err != nil {
			t.Fatalf("Pixels %s: %v", index, err)
		}
		if !bytes.Equal(got, pixels) {
			t.Fatalf("%s bytes mismatch", index)
		}
	}
}

func TestParseDDSVolume(t *testing.T) {
	header := ddsHeaderBytes(8, 8, 4, 4, DDSCaps2Volume, pfRGBA8)
	data := header
	want := make(map[MipIndex][]byte)
	for mip := 0; mip < 4; mip++ {
		w, h := mipDimension(8, mip), mipDimension(8, mip)
		for z := 0; z < mipDimension(4, mip); z++ {
			pixels := fillPattern(w*h*4, byte(mip*8+z+1))
			want[MipIndex{Mip: mip, Frame: z, Face: FaceNone}] = pixels
			data = append(data, pixels...)
		}
	}

	dds, err := ParseDDS(data)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if !dds.IsVolume() {
		t.Fatalf("IsVolume: false")
	}
	w, h, d, err := dds.MipSize(MipIndex{Mip: 1, Frame: 0, Face: FaceNone})
	if err != nil || w != 4 || h != 4 || d != 2 {
		t.Fatalf("MipSize mip 1: %d %d %d %v", w, h, d, err)
	}
	for index, pixels := range want {
		got, err := dds.Pixels(index)
		if err != nil {
			t.Fatalf("Pixels %s: %v", index, err)
		}
		if !bytes.Equal(got, pixels) {
			t.Fatalf("%s bytes mismatch", index)
		}
	}
	// z-slice past the level's depth
	if _, err := dds.Pixels(MipIndex{Mip: 1, Frame: 2, Face: FaceNone}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("slice past depth: %v", err)
	}
}

func TestParseDDSErrors(t *testing.T) {
	valid := append(ddsHeaderBytes(4, 4, 1, 1, 0, pfRGBA8), fillPattern(64, 1)...)

	if _, err := ParseDDS([]byte("JUNK")); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("bad magic: %v", err)
	}
	if _, err := ParseDDS(valid[:60]); !errors.Is(err, ErrTruncatedHeader) {
		t.Fatalf("truncated header: %v", err)
	}
	if _, err := ParseDDS(valid[:len(valid)-1]); !errors.Is(err, ErrTruncatedData) {
		t.Fatalf("truncated data: %v", err)
	}
	if _, err := ParseDDS(append(ddsHeaderBytes(4, 4, 1, 1, 0, pfFourCC("WXYZ")), make([]byte, 64)...)); !errors.Is(err, ErrUnsupportedVariant) {
		t.Fatalf("unknown fourCC: %v", err)
	}

	dds, err := ParseDDS(valid)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if _, err := dds.Pixels(MipIndex{Mip: 1, Frame: 0, Face: FaceNone}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("level past mip count: %v", err)
	}
	if _, err := dds.Pixels(MipIndex{Mip: 0, Frame: 1, Face: FaceNone}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("frame past frame count: %v", err)
	}
	if _, err := dds.Pixels(MipIndex{Mip: 0, Frame: 0, Face: FaceUp}); !errors.Is(err, ErrMissingFace) {
		t.Fatalf("face on non-cubemap: %v", err)
	}
}

func TestParseDDSUnknownDXGIFormat(t *testing.T) {
	var s synth
	s.raw(ddsHeaderBytes(4, 4, 1, 1, 0, pfFourCC("DX10")))
	s.u32(130) // DXGI code past every sized range
	s.u32(DDSDimensionTexture2D)
	s.u32(0)
	s.u32(1)
	s.u32(0)
	if _, err := ParseDDS(s.b); !errors.Is(err, ErrUnsupportedVariant) {
		t.Fatalf("unknown DXGI format: %v", err)
	}
}

func TestParseDDSCubemapMissingFace(t *testing.T) {
	header := ddsHeaderBytes(4, 4, 1, 1, DDSCaps2Cubemap|DDSCaps2AllFaces, pfRGBA8)
	data := append(header, make([]byte, 6*64)...)
	dds, err := ParseDDS(data)
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if _, err := dds.Pixels(MipIndex{Mip: 0, Frame: 0, Face: FaceNone}); !errors.Is(err, ErrMissingFace) {
		t.Fatalf("cubemap without face: %v", err)
	}
}
