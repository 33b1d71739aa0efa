package ktx2

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// identifier is the 12-byte KTX2 file magic.
var identifier = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// HeaderSize is the byte length of the fixed header, identifier included.
const HeaderSize = 80

// levelIndexEntrySize is the byte length of one level index entry.
const levelIndexEntrySize = 24

// SupercompressionScheme identifies the whole-level compression applied on
// top of the block payload.
type SupercompressionScheme uint32

const (
	SupercompressionNone      SupercompressionScheme = 0
	SupercompressionBasisLZ   SupercompressionScheme = 1
	SupercompressionZstandard SupercompressionScheme = 2
	SupercompressionZLIB      SupercompressionScheme = 3
)

// String returns the scheme name for diagnostics.
func (s SupercompressionScheme) String() string {
	switch s {
	case SupercompressionNone:
		return "none"
	case SupercompressionBasisLZ:
		return "BasisLZ"
	case SupercompressionZstandard:
		return "Zstandard"
	case SupercompressionZLIB:
		return "ZLIB"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

// Khronos data format descriptor color models for universal codecs.
const (
	ColorModelETC1S uint8 = 163
	ColorModelUASTC uint8 = 166
)

// Khronos data format descriptor transfer functions.
const (
	TransferLinear uint8 = 1
	TransferSRGB   uint8 = 2
)

// LevelIndex locates one mip level payload inside the container.
type LevelIndex struct {
	ByteOffset             uint64
	ByteLength             uint64
	UncompressedByteLength uint64
}

// Container is a parsed KTX2 file. The byte buffer it was parsed from is
// retained for level payload access; the caller must not mutate it while
// the container is in use.
type Container struct {
	VkFormat         uint32
	TypeSize         uint32
	PixelWidth       uint32
	PixelHeight      uint32
	PixelDepth       uint32
	LayerCount       uint32
	FaceCount        uint32
	LevelCount       uint32
	Supercompression SupercompressionScheme

	// ColorModel and TransferFunction come from the basic data format
	// descriptor block; both are zero when the DFD is absent.
	ColorModel       uint8
	TransferFunction uint8

	Levels []LevelIndex

	data []byte
	sgd  []byte
}

// zstdDecoder is reused across all containers. zstd.Decoder with a nil
// reader is a stateless DecodeAll engine and is safe for concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("ktx2: zstd decoder initialization failed: " + err.Error())
	}
}

// Parse reads the header, level index and data format descriptor of a KTX2
// container. Level payloads are validated lazily by LevelData.
func Parse(data []byte) (*Container, error) {
	if len(data) < len(identifier) || !bytes.Equal(data[:len(identifier)], identifier) {
		return nil, ErrBadIdentifier
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedHeader, len(data))
	}

	le := binary.LittleEndian
	c := &Container{
		VkFormat:         le.Uint32(data[12:]),
		TypeSize:         le.Uint32(data[16:]),
		PixelWidth:       le.Uint32(data[20:]),
		PixelHeight:      le.Uint32(data[24:]),
		PixelDepth:       le.Uint32(data[28:]),
		LayerCount:       le.Uint32(data[32:]),
		FaceCount:        le.Uint32(data[36:]),
		LevelCount:       le.Uint32(data[40:]),
		Supercompression: SupercompressionScheme(le.Uint32(data[44:])),
		data:             data,
	}

	if c.FaceCount != 1 && c.FaceCount != 6 {
		return nil, fmt.Errorf("%w: %d", ErrBadFaceCount, c.FaceCount)
	}

	// levelCount==0 means one level stored, with a "do not generate mips"
	// hint attached. We still index exactly one level.
	levels := int(c.LevelCount)
	if levels == 0 {
		levels = 1
	}
	if levels > maxLevelCount(c.PixelWidth, c.PixelHeight) {
		return nil, fmt.Errorf("%w: %d for %dx%d", ErrBadLevelCount, levels, c.PixelWidth, c.PixelHeight)
	}

	indexEnd := HeaderSize + levels*levelIndexEntrySize
	if len(data) < indexEnd {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedLevelIndex, indexEnd, len(data))
	}
	c.Levels = make([]LevelIndex, levels)
	for i := 0; i < levels; i++ {
		off := HeaderSize + i*levelIndexEntrySize
		c.Levels[i] = LevelIndex{
			ByteOffset:             le.Uint64(data[off:]),
			ByteLength:             le.Uint64(data[off+8:]),
			UncompressedByteLength: le.Uint64(data[off+16:]),
		}
	}

	if err := c.parseDFD(le.Uint32(data[48:]), le.Uint32(data[52:])); err != nil {
		return nil, err
	}

	sgdOffset := le.Uint64(data[64:])
	sgdLength := le.Uint64(data[72:])
	if sgdLength > 0 {
		end := sgdOffset + sgdLength
		if sgdOffset > uint64(len(data)) || end > uint64(len(data)) || end < sgdOffset {
			return nil, fmt.Errorf("%w: supercompression global data", ErrLevelBounds)
		}
		c.sgd = data[sgdOffset:end]
	}

	return c, nil
}

// parseDFD extracts the color model and transfer function from the first
// basic descriptor block. A missing DFD leaves both at zero.
func (c *Container) parseDFD(offset, length uint32) error {
	if length == 0 {
		return nil
	}
	// dfdTotalSize (4) + block header (8) + colorModel, primaries,
	// transferFunction, flags (4).
	const needed = 16
	end := uint64(offset) + uint64(length)
	if length < needed || end > uint64(len(c.data)) {
		return fmt.Errorf("%w: offset=%d length=%d", ErrBadDFD, offset, length)
	}
	c.ColorModel = c.data[offset+12]
	c.TransferFunction = c.data[offset+14]
	return nil
}

// EffectiveLevelCount returns the number of stored mip levels, folding the
// levelCount==0 convention into 1.
func (c *Container) EffectiveLevelCount() int {
	return len(c.Levels)
}

// LevelWidth returns the pixel width of a mip level.
func (c *Container) LevelWidth(level int) uint32 {
	return mipDimension(c.PixelWidth, level)
}

// LevelHeight returns the pixel height of a mip level.
func (c *Container) LevelHeight(level int) uint32 {
	return mipDimension(c.PixelHeight, level)
}

// SupercompressionGlobalData returns the BasisLZ global codebook payload,
// or nil when the container has none.
func (c *Container) SupercompressionGlobalData() []byte {
	return c.sgd
}

// LevelData returns the payload of one mip level. Zstandard-supercompressed
// levels are inflated and checked against the index's uncompressed length.
// BasisLZ streams are returned as stored; inflating them requires the
// codec's codebooks and is the block decoder's job.
func (c *Container) LevelData(level int) ([]byte, error) {
	if level < 0 || level >= len(c.Levels) {
		return nil, fmt.Errorf("%w: %d (levels=%d)", ErrLevelOutOfRange, level, len(c.Levels))
	}
	idx := c.Levels[level]
	end := idx.ByteOffset + idx.ByteLength
	if idx.ByteOffset > uint64(len(c.data)) || end > uint64(len(c.data)) || end < idx.ByteOffset {
		return nil, fmt.Errorf("%w: level %d offset=%d length=%d", ErrLevelBounds, level, idx.ByteOffset, idx.ByteLength)
	}
	stored := c.data[idx.ByteOffset:end]

	switch c.Supercompression {
	case SupercompressionNone, SupercompressionBasisLZ:
		return stored, nil
	case SupercompressionZstandard:
		out := make([]byte, 0, idx.UncompressedByteLength)
		inflated, err := zstdDecoder.DecodeAll(stored, out)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d: %v", ErrZstdDecode, level, err)
		}
		if uint64(len(inflated)) != idx.UncompressedByteLength {
			return nil, fmt.Errorf("%w: level %d: expected %d, got %d",
				ErrLevelSizeMismatch, level, idx.UncompressedByteLength, len(inflated))
		}
		return inflated, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSupercompression, c.Supercompression)
	}
}

// mipDimension returns the dimension of a mip level, clamped to 1.
func mipDimension(base uint32, level int) uint32 {
	d := base >> uint(level)
	if d < 1 {
		return 1
	}
	return d
}

// maxLevelCount returns the longest mip chain the dimensions allow.
func maxLevelCount(width, height uint32) int {
	count := 1
	for width > 1 || height > 1 {
		count++
		if width > 1 {
			width /= 2
		}
		if height > 1 {
			height /= 2
		}
	}
	return count
}
