package texture

// InternalFormat identifies a GPU pixel encoding. The list mimics the
// Vulkan format list, so the transfer function (sRGB or linear) is part
// of the format itself.
type InternalFormat uint16

const (
	FormatUnknown InternalFormat = iota

	// Compressed formats.
	ETC2EACRGBA8
	ETC2EACSRGBA8
	DXT1RGB
	DXT1SRGB
	DXT3RGBA
	DXT3SRGBA
	RGBAASTC4x4
	SRGB8Alpha8ASTC4x4
	EACR11
	EACRG11

	// Uncompressed formats.
	SRGB8A8
	RGBA8
	RGB565
	RGBA4
)

// String returns the format name for diagnostics.
func (f InternalFormat) String() string {
	switch f {
	case ETC2EACRGBA8:
		return "ETC2_EAC_RGBA8"
	case ETC2EACSRGBA8:
		return "ETC2_EAC_SRGBA8"
	case DXT1RGB:
		return "DXT1_RGB"
	case DXT1SRGB:
		return "DXT1_SRGB"
	case DXT3RGBA:
		return "DXT3_RGBA"
	case DXT3SRGBA:
		return "DXT3_SRGBA"
	case RGBAASTC4x4:
		return "RGBA_ASTC_4x4"
	case SRGB8Alpha8ASTC4x4:
		return "SRGB8_ALPHA8_ASTC_4x4"
	case EACR11:
		return "EAC_R11"
	case EACRG11:
		return "EAC_RG11"
	case SRGB8A8:
		return "SRGB8_A8"
	case RGBA8:
		return "RGBA8"
	case RGB565:
		return "RGB565"
	case RGBA4:
		return "RGBA4"
	default:
		return "UNKNOWN"
	}
}

// CompressedType tags the block encoding of a compressed pixel buffer.
type CompressedType uint16

const (
	CompressedNone CompressedType = iota
	CompressedETC2EACRGBA8
	CompressedETC2EACSRGBA8
	CompressedDXT1RGB
	CompressedDXT1SRGB
	CompressedDXT3RGBA
	CompressedDXT3SRGBA
	CompressedRGBAASTC4x4
	CompressedSRGB8Alpha8ASTC4x4
	CompressedEACR11
	CompressedEACRG11
)

// Type is the component type of an uncompressed pixel buffer.
type Type uint8

const (
	TypeUByte Type = iota
	TypeUShort
	TypeUShort565
)

// PixelFormat is the component layout of an uncompressed pixel buffer.
type PixelFormat uint8

const (
	PixelRGB PixelFormat = iota
	PixelRGBA
)

// Sampler selects the sampler kind a texture is built for.
type Sampler uint8

const (
	Sampler2D Sampler = iota
	SamplerCubemap
	Sampler2DArray
)

// ReleaseFunc reclaims a pixel buffer once its consumer is done with it.
// It receives the buffer and the opaque user value from the descriptor.
type ReleaseFunc func(buf []byte, user any)

// PixelBufferDescriptor bundles a pixel buffer with the metadata a texture
// needs to interpret it, plus the release callback of the ownership
// contract: whoever receives the descriptor owns Buffer and must call
// Release exactly once on every exit path, success or failure. Upload may
// complete asynchronously, so the producer must not touch Buffer again
// after handing the descriptor over.
type PixelBufferDescriptor struct {
	Buffer []byte

	// Compressed selects which of the two tagging schemes applies.
	Compressed     bool
	CompressedType CompressedType
	Type           Type
	Format         PixelFormat

	Release ReleaseFunc
	User    any
}

// ReleaseBuffer invokes the release callback, if any, and drops the buffer
// reference so a second call cannot hand the buffer out again.
func (d *PixelBufferDescriptor) ReleaseBuffer() {
	if d.Release != nil {
		d.Release(d.Buffer, d.User)
		d.Release = nil
	}
	d.Buffer = nil
}

// Descriptor describes a texture to create.
type Descriptor struct {
	Width   uint32
	Height  uint32
	Levels  int
	Sampler Sampler
	Format  InternalFormat
}

// Engine abstracts the renderer device the loader targets. It answers
// per-device format support queries and allocates texture objects. The
// loader does not own the engine.
type Engine interface {
	// IsTextureFormatSupported reports whether the device can sample
	// textures of the given internal format.
	IsTextureFormatSupported(format InternalFormat) bool

	// CreateTexture allocates a texture object for the descriptor.
	CreateTexture(desc *Descriptor) (Texture, error)
}

// Texture is a GPU texture object accepting per-level pixel uploads.
//
// SetImage takes ownership of the descriptor's buffer and guarantees its
// Release callback fires exactly once, whether the upload succeeds or not.
type Texture interface {
	SetImage(level int, pbd *PixelBufferDescriptor) error
	Width() uint32
	Height() uint32
	Levels() int
	Format() InternalFormat
}

// Builder configures and allocates a texture, mirroring the usual
// engine-side builder chain.
type Builder struct {
	desc Descriptor
}

// NewBuilder returns a builder with a 1x1, single-level 2D default.
func NewBuilder() *Builder {
	return &Builder{desc: Descriptor{Width: 1, Height: 1, Levels: 1, Sampler: Sampler2D}}
}

// Width sets the base level width in pixels.
func (b *Builder) Width(w uint32) *Builder { b.desc.Width = w; return b }

// Height sets the base level height in pixels.
func (b *Builder) Height(h uint32) *Builder { b.desc.Height = h; return b }

// Levels sets the number of mip levels.
func (b *Builder) Levels(n int) *Builder { b.desc.Levels = n; return b }

// Sampler sets the sampler kind.
func (b *Builder) Sampler(s Sampler) *Builder { b.desc.Sampler = s; return b }

// Format sets the internal format.
func (b *Builder) Format(f InternalFormat) *Builder { b.desc.Format = f; return b }

// Build allocates the texture on the engine.
func (b *Builder) Build(engine Engine) (Texture, error) {
	desc := b.desc
	return engine.CreateTexture(&desc)
}
