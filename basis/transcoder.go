package basis

import (
	"fmt"

	"github.com/hyzboy/filament/ktx2"
)

// LevelInfo describes one image of a container in block terms.
type LevelInfo struct {
	Level uint32
	Layer uint32
	Face  uint32

	// OrigWidth and OrigHeight are the level's pixel dimensions.
	OrigWidth  uint32
	OrigHeight uint32

	// NumBlocksX and NumBlocksY are the 4x4 block grid dimensions.
	NumBlocksX  uint32
	NumBlocksY  uint32
	TotalBlocks uint32
}

// LevelData is the unit of work handed to a block codec: one level's
// stored payload plus everything needed to interpret it.
type LevelData struct {
	// Data is the level payload. For Zstandard containers it is already
	// inflated; for BasisLZ it is the stored compressed stream and
	// GlobalData carries the codebooks.
	Data       []byte
	GlobalData []byte
	Source     SourceFormat
	Info       LevelInfo
}

// BlockCodec performs the bit-level conversion of universal blocks into a
// target block encoding. Implementations report which conversions they
// carry; a full codec matches IsFormatSupported.
type BlockCodec interface {
	Supports(target Format, source SourceFormat) bool
	TranscodeBlocks(dst []byte, src LevelData, target Format) error
}

// Transcoder is a session over one KTX2 container. It is reusable: Init
// may be called again with a new byte buffer, which resets all session
// state. A Transcoder is not safe for concurrent use.
type Transcoder struct {
	codec     BlockCodec
	container *ktx2.Container
	source    SourceFormat
	started   bool
}

// NewTranscoder creates a transcoder around a block codec.
func NewTranscoder(codec BlockCodec) *Transcoder {
	return &Transcoder{codec: codec}
}

// Init parses the byte buffer as a KTX2 container and classifies its
// payload codec. Any previous session state is discarded.
func (t *Transcoder) Init(data []byte) error {
	t.container = nil
	t.started = false

	c, err := ktx2.Parse(data)
	if err != nil {
		return err
	}
	switch c.ColorModel {
	case ktx2.ColorModelETC1S:
		t.source = SourceETC1S
	case ktx2.ColorModelUASTC:
		t.source = SourceUASTC4x4
	default:
		return fmt.Errorf("%w: color model %d", ErrNotBasisEncoded, c.ColorModel)
	}
	t.container = c
	return nil
}

// StartTranscoding validates that level payloads can actually be produced:
// the supercompression scheme must be one this session can unwrap, and
// BasisLZ streams need their global codebooks.
func (t *Transcoder) StartTranscoding() error {
	if t.container == nil {
		return ErrNotInitialized
	}
	switch t.container.Supercompression {
	case ktx2.SupercompressionNone, ktx2.SupercompressionZstandard:
	case ktx2.SupercompressionBasisLZ:
		if len(t.container.SupercompressionGlobalData()) == 0 {
			return ErrMissingGlobalData
		}
	default:
		return fmt.Errorf("%w: %s", ktx2.ErrUnknownSupercompression, t.container.Supercompression)
	}
	t.started = true
	return nil
}

// SourceFormat returns the container's intermediate encoding. Only valid
// after Init.
func (t *Transcoder) SourceFormat() SourceFormat { return t.source }

// ContainerTransferFunction returns the transfer function the container's
// data format descriptor declares, or zero when the DFD omits it.
func (t *Transcoder) ContainerTransferFunction() uint8 {
	if t.container == nil {
		return 0
	}
	return t.container.TransferFunction
}

// Faces returns the container's face count (1, or 6 for cubemaps).
func (t *Transcoder) Faces() int {
	if t.container == nil {
		return 0
	}
	return int(t.container.FaceCount)
}

// Layers returns the container's array layer count (0 or 1 for plain
// textures).
func (t *Transcoder) Layers() int {
	if t.container == nil {
		return 0
	}
	return int(t.container.LayerCount)
}

// Levels returns the number of stored mip levels.
func (t *Transcoder) Levels() int {
	if t.container == nil {
		return 0
	}
	return t.container.EffectiveLevelCount()
}

// Width returns the base level width in pixels.
func (t *Transcoder) Width() uint32 {
	if t.container == nil {
		return 0
	}
	return t.container.PixelWidth
}

// Height returns the base level height in pixels.
func (t *Transcoder) Height() uint32 {
	if t.container == nil {
		return 0
	}
	return t.container.PixelHeight
}

// IsFormatSupported reports whether this session can emit the target:
// the codec-level matrix and the plugged block codec must both agree.
func (t *Transcoder) IsFormatSupported(target Format) bool {
	if t.container == nil || t.codec == nil {
		return false
	}
	return IsFormatSupported(target, t.source) && t.codec.Supports(target, t.source)
}

// ImageLevelInfo returns block metadata for one image. Both intermediate
// encodings use a 4x4 block grid.
func (t *Transcoder) ImageLevelInfo(level, layer, face uint32) (LevelInfo, error) {
	if t.container == nil {
		return LevelInfo{}, ErrNotInitialized
	}
	if err := t.checkImage(level, layer, face); err != nil {
		return LevelInfo{}, err
	}

	w := t.container.LevelWidth(int(level))
	h := t.container.LevelHeight(int(level))
	bx := (w + 3) / 4
	by := (h + 3) / 4
	return LevelInfo{
		Level:       level,
		Layer:       layer,
		Face:        face,
		OrigWidth:   w,
		OrigHeight:  h,
		NumBlocksX:  bx,
		NumBlocksY:  by,
		TotalBlocks: bx * by,
	}, nil
}

// TranscodeImageLevel decodes one image into dst in the target block
// encoding. dst must hold at least blockCount blocks of the target's
// block size, and blockCount must match the level metadata. flags are
// reserved for codec-specific decode options and are currently unused.
func (t *Transcoder) TranscodeImageLevel(level, layer, face uint32, dst []byte, blockCount uint32, target Format, flags uint32) error {
	_ = flags

	if t.container == nil {
		return ErrNotInitialized
	}
	if !t.started {
		return ErrNotStarted
	}
	if !target.IsBlockFormat() {
		return fmt.Errorf("%w: %s", ErrUncompressedTarget, target)
	}
	if !t.IsFormatSupported(target) {
		return fmt.Errorf("%w: %s from %s", ErrUnsupportedTarget, target, t.source)
	}

	info, err := t.ImageLevelInfo(level, layer, face)
	if err != nil {
		return err
	}
	if blockCount != info.TotalBlocks {
		return fmt.Errorf("%w: got %d, level has %d", ErrBlockCountMismatch, blockCount, info.TotalBlocks)
	}
	need := int(blockCount) * BytesPerBlock(target)
	if len(dst) < need {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrOutputTooSmall, need, len(dst))
	}

	payload, err := t.container.LevelData(int(level))
	if err != nil {
		return err
	}
	src := LevelData{
		Data:       payload,
		GlobalData: t.container.SupercompressionGlobalData(),
		Source:     t.source,
		Info:       info,
	}
	if err := t.codec.TranscodeBlocks(dst[:need], src, target); err != nil {
		return fmt.Errorf("%w: level %d: %v", ErrTranscodeFailed, level, err)
	}
	return nil
}

// checkImage validates level/layer/face indices against the container.
func (t *Transcoder) checkImage(level, layer, face uint32) error {
	c := t.container
	if int(level) >= c.EffectiveLevelCount() {
		return fmt.Errorf("%w: level %d (levels=%d)", ErrImageOutOfRange, level, c.EffectiveLevelCount())
	}
	layers := c.LayerCount
	if layers == 0 {
		layers = 1
	}
	if layer >= layers {
		return fmt.Errorf("%w: layer %d (layers=%d)", ErrImageOutOfRange, layer, layers)
	}
	if face >= c.FaceCount {
		return fmt.Errorf("%w: face %d (faces=%d)", ErrImageOutOfRange, face, c.FaceCount)
	}
	return nil
}
