package bite

// mipDimension calculates the dimension of one axis at a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

// calculateMipMapCount derives a full pyramid depth from the base
// dimensions: floor(log2(max(dims))) + 1. Used when a header declares no
// mip count of its own.
func calculateMipMapCount(dims ...int) int {
	largest := 1
	for _, d := range dims {
		if d > largest {
			largest = d
		}
	}

	count := 1
	for largest > 1 {
		largest >>= 1
		count++
	}

	return count
}

// texelLayout describes how pixels map to bytes: block-compressed formats
// encode fixed blockWidth x blockHeight pixel tiles into blockBytes,
// uncompressed formats are 1x1 "blocks", and sub-byte formats pack several
// pixels per byte along a row (e.g. 2x1 for 4bpp palettes, 8x1 for 1bpp).
type texelLayout struct {
	blockWidth  int
	blockHeight int
	blockBytes  int
}

// mipByteSize computes the byte length of one mip surface, rounding width
// and height up to whole blocks. Depth multiplies directly; blocks are
// never applied along the depth axis.
func (l texelLayout) mipByteSize(width, height, depth int) int {
	blocksW := (width + l.blockWidth - 1) / l.blockWidth
	blocksH := (height + l.blockHeight - 1) / l.blockHeight
	return blocksW * blocksH * l.blockBytes * depth
}

var (
	texel1bpp    = texelLayout{8, 1, 1}
	texel4bpp    = texelLayout{2, 1, 1}
	texel8bpp    = texelLayout{1, 1, 1}
	texel16bpp   = texelLayout{1, 1, 2}
	texel24bpp   = texelLayout{1, 1, 3}
	texel32bpp   = texelLayout{1, 1, 4}
	texel64bpp   = texelLayout{1, 1, 8}
	texel96bpp   = texelLayout{1, 1, 12}
	texel128bpp  = texelLayout{1, 1, 16}
	texelBlock8  = texelLayout{4, 4, 8}  // BC1/BC4, DXT1, ETC1
	texelBlock16 = texelLayout{4, 4, 16} // BC2/BC3/BC5/BC6H/BC7, DXT3/DXT5
	texelPVRTC2  = texelLayout{8, 4, 8}  // PVRTC 2bpp
	texelPVRTC4  = texelLayout{4, 4, 8}  // PVRTC 4bpp
)
