package basis

// Format is a transcoder target encoding. Unlike GPU internal formats the
// transfer function is not part of the format; sRGB and linear variants of
// a GPU format map to the same transcoder target.
type Format uint8

const (
	ETC2RGBA Format = iota
	BC1RGB
	BC3RGBA
	ASTC4x4RGBA
	ETC2EACR11
	ETC2EACRG11
	RGBA32
	RGB565
	RGBA4444
)

// String returns the target name for diagnostics.
func (f Format) String() string {
	switch f {
	case ETC2RGBA:
		return "ETC2_RGBA"
	case BC1RGB:
		return "BC1_RGB"
	case BC3RGBA:
		return "BC3_RGBA"
	case ASTC4x4RGBA:
		return "ASTC_4x4_RGBA"
	case ETC2EACR11:
		return "ETC2_EAC_R11"
	case ETC2EACRG11:
		return "ETC2_EAC_RG11"
	case RGBA32:
		return "RGBA32"
	case RGB565:
		return "RGB565"
	case RGBA4444:
		return "RGBA4444"
	default:
		return "UNKNOWN"
	}
}

// IsBlockFormat reports whether the target is block-compressed. The
// remaining targets are uncompressed per-pixel encodings.
func (f Format) IsBlockFormat() bool {
	switch f {
	case ETC2RGBA, BC1RGB, BC3RGBA, ASTC4x4RGBA, ETC2EACR11, ETC2EACRG11:
		return true
	}
	return false
}

// BytesPerBlock returns the byte size of one 4x4 block for compressed
// targets, or the byte size of one pixel for uncompressed targets.
func BytesPerBlock(f Format) int {
	switch f {
	case BC1RGB, ETC2EACR11:
		return 8
	case ETC2RGBA, BC3RGBA, ASTC4x4RGBA, ETC2EACRG11:
		return 16
	case RGBA32:
		return 4
	case RGB565, RGBA4444:
		return 2
	default:
		return 0
	}
}

// SourceFormat is the intermediate encoding a container stores.
type SourceFormat uint8

const (
	SourceETC1S SourceFormat = iota
	SourceUASTC4x4
)

// String returns the source codec name for diagnostics.
func (s SourceFormat) String() string {
	switch s {
	case SourceETC1S:
		return "ETC1S"
	case SourceUASTC4x4:
		return "UASTC_4x4"
	default:
		return "UNKNOWN"
	}
}

// IsFormatSupported reports whether the universal codec can emit the
// target encoding from the given source. Both intermediate encodings can
// reach every target listed here; the matrix exists so partial block
// codecs and future sources have a single gate to narrow.
func IsFormatSupported(target Format, source SourceFormat) bool {
	switch source {
	case SourceETC1S, SourceUASTC4x4:
		switch target {
		case ETC2RGBA, BC1RGB, BC3RGBA, ASTC4x4RGBA, ETC2EACR11, ETC2EACRG11,
			RGBA32, RGB565, RGBA4444:
			return true
		}
	}
	return false
}
