package texture

import "fmt"

// MemoryEngine is an Engine that keeps texture contents in host memory.
// It is the reference consumer of the pixel-buffer ownership contract:
// SetImage copies the payload and fires the release callback exactly once
// on every path, so tests and offline tools can run the full upload
// protocol without a GPU device.
type MemoryEngine struct {
	supported map[InternalFormat]bool
}

// NewMemoryEngine creates an engine supporting the given formats. With no
// arguments every known internal format is supported.
func NewMemoryEngine(formats ...InternalFormat) *MemoryEngine {
	e := &MemoryEngine{supported: make(map[InternalFormat]bool)}
	if len(formats) == 0 {
		for f := ETC2EACRGBA8; f <= RGBA4; f++ {
			e.supported[f] = true
		}
		return e
	}
	for _, f := range formats {
		e.supported[f] = true
	}
	return e
}

// IsTextureFormatSupported reports whether the engine accepts the format.
func (e *MemoryEngine) IsTextureFormatSupported(format InternalFormat) bool {
	return e.supported[format]
}

// CreateTexture allocates an in-memory texture for the descriptor.
func (e *MemoryEngine) CreateTexture(desc *Descriptor) (Texture, error) {
	if desc.Width == 0 || desc.Height == 0 || desc.Levels < 1 {
		return nil, fmt.Errorf("%w: %dx%d levels=%d", ErrInvalidDescriptor, desc.Width, desc.Height, desc.Levels)
	}
	if !e.supported[desc.Format] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}
	return &MemoryTexture{
		desc:   *desc,
		levels: make([][]byte, desc.Levels),
	}, nil
}

// MemoryTexture stores per-level payload copies.
type MemoryTexture struct {
	desc   Descriptor
	levels [][]byte
}

// SetImage copies the descriptor payload into the level slot. Ownership of
// the buffer passes to the texture at the call boundary, so the release
// callback fires exactly once even when the upload is rejected.
func (t *MemoryTexture) SetImage(level int, pbd *PixelBufferDescriptor) error {
	defer pbd.ReleaseBuffer()

	if pbd.Buffer == nil {
		return ErrNilBuffer
	}
	if level < 0 || level >= len(t.levels) {
		return fmt.Errorf("%w: %d (levels=%d)", ErrLevelOutOfRange, level, len(t.levels))
	}
	if t.levels[level] != nil {
		return fmt.Errorf("%w: %d", ErrLevelAlreadySet, level)
	}

	stored := make([]byte, len(pbd.Buffer))
	copy(stored, pbd.Buffer)
	t.levels[level] = stored

	return nil
}

// Width returns the base level width.
func (t *MemoryTexture) Width() uint32 { return t.desc.Width }

// Height returns the base level height.
func (t *MemoryTexture) Height() uint32 { return t.desc.Height }

// Levels returns the mip chain length.
func (t *MemoryTexture) Levels() int { return len(t.levels) }

// Format returns the internal format the texture was built with.
func (t *MemoryTexture) Format() InternalFormat { return t.desc.Format }

// LevelData returns the stored payload for a level, or nil if the level
// was never uploaded.
func (t *MemoryTexture) LevelData(level int) []byte {
	if level < 0 || level >= len(t.levels) {
		return nil
	}
	return t.levels[level]
}
