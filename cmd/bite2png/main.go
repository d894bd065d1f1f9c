// bite2png decompresses one texture surface to a PNG file.
//
// Usage:
//
//	bite2png [-mip N] [-frame N] [-face +X] [-o out.png] file.dds
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/bcn"

	"github.com/snake-biscuits/bite"
)

var (
	mip    = flag.Int("mip", 0, "mip level to extract (0 = largest)")
	frame  = flag.Int("frame", 0, "animation frame, array slice, or volume z-slice")
	face   = flag.String("face", "", "cubemap face: +X -X +Y -Y +Z -Z")
	output = flag.String("o", "", "output path (default: input with .png extension)")
)

var faceNames = map[string]bite.Face{
	"":   bite.FaceNone,
	"+X": bite.FaceRight,
	"-X": bite.FaceLeft,
	"+Y": bite.FaceUp,
	"-Y": bite.FaceDown,
	"+Z": bite.FaceFront,
	"-Z": bite.FaceBack,
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-mip N] [-frame N] [-face +X] [-o out.png] file\n",
			filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	if err := convert(path); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		os.Exit(1)
	}
}

func convert(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	texture, err := parseTexture(path, data)
	if err != nil {
		return err
	}

	faceValue, known := faceNames[strings.ToUpper(*face)]
	if !known {
		return fmt.Errorf("unrecognised face %q", *face)
	}
	index := bite.MipIndex{Mip: *mip, Frame: *frame, Face: faceValue}
	if texture.IsCubemap() && faceValue == bite.FaceNone {
		index.Face = bite.FaceRight
	}

	width, height, _, err := texture.MipSize(index)
	if err != nil {
		return err
	}
	pixels, err := texture.Pixels(index)
	if err != nil {
		return err
	}

	format, supported := bcnFormat(texture.FormatName())
	if !supported {
		return fmt.Errorf("no decoder for pixel format %q", texture.FormatName())
	}
	img, err := bcn.DecodeImageWithOptions(pixels, width, height, format, nil)
	if err != nil {
		return err
	}

	return writePNG(outputPath(path), img)
}

func parseTexture(path string, data []byte) (bite.Texture, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dds":
		return bite.ParseDDS(data)
	case ".edds":
		return bite.ParseEDDS(data)
	case ".vtf":
		return bite.ParseVTF(data)
	case ".pvr":
		return bite.ParsePVR(data)
	}
	return nil, fmt.Errorf("unrecognised extension %q", filepath.Ext(path))
}

// bcnFormat maps a stored pixel format name to a decodable bcn format.
func bcnFormat(name string) (bcn.Format, bool) {
	switch name {
	case "BC1_UNORM", "BC1_UNORM_SRGB", "DXT1", "DXT1_ONE_BIT_ALPHA":
		return bcn.FormatDXT1, true
	case "BC2_UNORM", "BC2_UNORM_SRGB", "DXT3":
		return bcn.FormatDXT3, true
	case "BC3_UNORM", "BC3_UNORM_SRGB", "DXT5":
		return bcn.FormatDXT5, true
	case "BC4_UNORM":
		return bcn.FormatBC4, true
	case "BC5_UNORM":
		return bcn.FormatBC5, true
	case "R8G8B8A8_UNORM", "R8G8B8A8_UNORM_SRGB", "RGBA8888":
		return bcn.FormatRGBA8, true
	case "B8G8R8A8_UNORM", "B8G8R8A8_UNORM_SRGB", "B8G8R8X8_UNORM",
		"BGRA8888", "BGRX8888":
		return bcn.FormatBGRA8, true
	}
	return bcn.FormatUnknown, false
}

func outputPath(input string) string {
	if *output != "" {
		return *output
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".png"
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
