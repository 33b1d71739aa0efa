package ktxreader

import (
	"github.com/hyzboy/filament/basis"
	"github.com/hyzboy/filament/texture"
)

// Transform describes the intended color-space interpretation of decoded
// pixel data. A requested format whose implied transform differs from the
// transform of a Load call is disqualified for that call.
type Transform uint8

const (
	SRGB Transform = iota
	Linear
)

// String returns the transform name for diagnostics.
func (t Transform) String() string {
	if t == SRGB {
		return "sRGB"
	}
	return "linear"
}

// finalFormatInfo is one row of the format compatibility table: everything
// the reader needs to know about a GPU internal format, in one place.
// Registration and negotiation both consult this table and nothing else.
type finalFormatInfo struct {
	compressed     bool
	transform      Transform
	basisFormat    basis.Format
	compressedType texture.CompressedType
	pixelType      texture.Type
	pixelFormat    texture.PixelFormat
}

// formatTable enumerates every internal format the reader can deliver.
// Formats absent from the table are unsupported. The compressed-type tag
// always carries the same color space as the format itself.
var formatTable = map[texture.InternalFormat]finalFormatInfo{
	texture.ETC2EACSRGBA8: {compressed: true, transform: SRGB, basisFormat: basis.ETC2RGBA,
		compressedType: texture.CompressedETC2EACSRGBA8},
	texture.ETC2EACRGBA8: {compressed: true, transform: Linear, basisFormat: basis.ETC2RGBA,
		compressedType: texture.CompressedETC2EACRGBA8},

	texture.DXT1SRGB: {compressed: true, transform: SRGB, basisFormat: basis.BC1RGB,
		compressedType: texture.CompressedDXT1SRGB},
	texture.DXT1RGB: {compressed: true, transform: Linear, basisFormat: basis.BC1RGB,
		compressedType: texture.CompressedDXT1RGB},

	texture.DXT3SRGBA: {compressed: true, transform: SRGB, basisFormat: basis.BC3RGBA,
		compressedType: texture.CompressedDXT3SRGBA},
	texture.DXT3RGBA: {compressed: true, transform: Linear, basisFormat: basis.BC3RGBA,
		compressedType: texture.CompressedDXT3RGBA},

	texture.SRGB8Alpha8ASTC4x4: {compressed: true, transform: SRGB, basisFormat: basis.ASTC4x4RGBA,
		compressedType: texture.CompressedSRGB8Alpha8ASTC4x4},
	texture.RGBAASTC4x4: {compressed: true, transform: Linear, basisFormat: basis.ASTC4x4RGBA,
		compressedType: texture.CompressedRGBAASTC4x4},

	// BasisU supports only the unsigned EAC variants, so there is no
	// signed (or sRGB) row for these. RG11 is the usual normal-map pick.
	texture.EACR11: {compressed: true, transform: Linear, basisFormat: basis.ETC2EACR11,
		compressedType: texture.CompressedEACR11},
	texture.EACRG11: {compressed: true, transform: Linear, basisFormat: basis.ETC2EACRG11,
		compressedType: texture.CompressedEACRG11},

	// Uncompressed formats. Accepted by registration and negotiation, but
	// the decode pass rejects them; see ErrUncompressedUnimplemented.
	texture.SRGB8A8: {transform: SRGB, basisFormat: basis.RGBA32,
		pixelType: texture.TypeUByte, pixelFormat: texture.PixelRGBA},
	texture.RGBA8: {transform: Linear, basisFormat: basis.RGBA32,
		pixelType: texture.TypeUByte, pixelFormat: texture.PixelRGBA},
	texture.RGB565: {transform: Linear, basisFormat: basis.RGB565,
		pixelType: texture.TypeUShort565, pixelFormat: texture.PixelRGB},
	texture.RGBA4: {transform: Linear, basisFormat: basis.RGBA4444,
		pixelType: texture.TypeUShort, pixelFormat: texture.PixelRGBA},
}

// finalFormatFor looks a format up in the compatibility table.
func finalFormatFor(fmt texture.InternalFormat) (finalFormatInfo, bool) {
	info, ok := formatTable[fmt]
	return info, ok
}
