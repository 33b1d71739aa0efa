// Package ktx2test builds synthetic KTX2 containers for tests.
package ktx2test

import (
	"encoding/binary"

	"github.com/klauspost/compress/zstd"
)

// Identifier is the 12-byte KTX2 file magic.
var Identifier = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// Params describes the container to build. Zero values produce a 1x1,
// single-level, single-face container with no payload codec declared.
type Params struct {
	Width            uint32
	Height           uint32
	LevelCount       uint32 // stored as-is; 0 follows the "one level" convention
	LayerCount       uint32
	FaceCount        uint32 // 0 defaults to 1
	VkFormat         uint32
	ColorModel       uint8
	TransferFunction uint8
	Supercompression uint32

	// LevelPayloads holds the raw (uncompressed) payload per level,
	// largest level first. With Zstandard supercompression the builder
	// compresses each payload and indexes both lengths.
	LevelPayloads [][]byte

	// GlobalData is stored as supercompression global data when set.
	GlobalData []byte
}

var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil)
	if err != nil {
		panic("ktx2test: zstd encoder initialization failed: " + err.Error())
	}
}

// Build serializes the container.
func Build(p Params) []byte {
	if p.Width == 0 {
		p.Width = 1
	}
	if p.Height == 0 {
		p.Height = 1
	}
	if p.FaceCount == 0 {
		p.FaceCount = 1
	}

	levels := int(p.LevelCount)
	if levels == 0 {
		levels = 1
	}

	stored := make([][]byte, levels)
	for i := 0; i < levels; i++ {
		var raw []byte
		if i < len(p.LevelPayloads) {
			raw = p.LevelPayloads[i]
		}
		if p.Supercompression == 2 {
			stored[i] = zstdEncoder.EncodeAll(raw, nil)
		} else {
			stored[i] = raw
		}
	}

	const headerSize = 80
	const indexEntrySize = 24
	const dfdSize = 16

	indexEnd := headerSize + levels*indexEntrySize
	dfdOffset := indexEnd
	sgdOffset := dfdOffset + dfdSize
	dataOffset := sgdOffset + len(p.GlobalData)

	total := dataOffset
	for _, s := range stored {
		total += len(s)
	}

	out := make([]byte, total)
	copy(out, Identifier)

	le := binary.LittleEndian
	le.PutUint32(out[12:], p.VkFormat)
	le.PutUint32(out[16:], 1) // typeSize
	le.PutUint32(out[20:], p.Width)
	le.PutUint32(out[24:], p.Height)
	le.PutUint32(out[28:], 0) // pixelDepth
	le.PutUint32(out[32:], p.LayerCount)
	le.PutUint32(out[36:], p.FaceCount)
	le.PutUint32(out[40:], p.LevelCount)
	le.PutUint32(out[44:], p.Supercompression)
	le.PutUint32(out[48:], uint32(dfdOffset))
	le.PutUint32(out[52:], dfdSize)
	// kvdByteOffset/Length stay zero.
	if len(p.GlobalData) > 0 {
		le.PutUint64(out[64:], uint64(sgdOffset))
		le.PutUint64(out[72:], uint64(len(p.GlobalData)))
	}

	offset := uint64(dataOffset)
	for i := 0; i < levels; i++ {
		entry := headerSize + i*indexEntrySize
		le.PutUint64(out[entry:], offset)
		le.PutUint64(out[entry+8:], uint64(len(stored[i])))
		var raw int
		if i < len(p.LevelPayloads) {
			raw = len(p.LevelPayloads[i])
		}
		le.PutUint64(out[entry+16:], uint64(raw))
		copy(out[offset:], stored[i])
		offset += uint64(len(stored[i]))
	}

	// Basic data format descriptor block: total size, empty block header,
	// then colorModel, primaries, transferFunction, flags.
	le.PutUint32(out[dfdOffset:], dfdSize)
	out[dfdOffset+12] = p.ColorModel
	out[dfdOffset+14] = p.TransferFunction

	copy(out[sgdOffset:], p.GlobalData)

	return out
}

// BlockPayload returns a deterministic payload of n bytes, useful as a
// stand-in for encoded block data.
func BlockPayload(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)*31 + seed
	}
	return data
}
