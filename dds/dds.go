// Package dds writes transcoded BC level payloads into a DDS container,
// mainly for inspecting transcoder output with standard image tooling.
package dds

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/bcn"

	"github.com/hyzboy/filament/texture"
)

var (
	// ErrNoLevels indicates an empty level list.
	ErrNoLevels = errors.New("no levels to write")
	// ErrUnsupportedFormat indicates a format DDS cannot carry.
	ErrUnsupportedFormat = errors.New("format not exportable to DDS")
	// ErrLevelSizeMismatch indicates a payload that does not match the
	// level's block geometry.
	ErrLevelSizeMismatch = errors.New("level size mismatch")
	// ErrSizeOverflow indicates dimensions beyond the DDS header range.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrCreateFile indicates the output file could not be created.
	ErrCreateFile = errors.New("create file failed")
	// ErrWriteHeader indicates the DDS magic or header write failed.
	ErrWriteHeader = errors.New("writing DDS header failed")
	// ErrWriteLevel indicates a level payload write failed.
	ErrWriteLevel = errors.New("writing level payload failed")
	// ErrLevelMissing indicates an unpopulated level in the source texture.
	ErrLevelMissing = errors.New("level has no data")
)

// FormatFor maps a GPU internal format onto the DDS block format carrying
// it. Only the BC targets are representable; the ETC/EAC/ASTC families
// have no legacy DDS encoding.
func FormatFor(f texture.InternalFormat) (bcn.Format, bool) {
	switch f {
	case texture.DXT1RGB, texture.DXT1SRGB:
		return bcn.FormatDXT1, true
	case texture.DXT3RGBA, texture.DXT3SRGBA:
		return bcn.FormatDXT3, true
	default:
		return bcn.FormatUnknown, false
	}
}

// Write writes a DDS file with the given pre-encoded mip payloads, ordered
// largest to smallest.
func Write(w io.Writer, format bcn.Format, width, height int, levels [][]byte) error {
	if len(levels) == 0 {
		return ErrNoLevels
	}

	blockSize, err := blockBytes(format)
	if err != nil {
		return err
	}
	for i, level := range levels {
		expected := levelLength(width, height, i, blockSize)
		if len(level) != expected {
			return fmt.Errorf("%w: level %d: expected %d, got %d", ErrLevelSizeMismatch, i, expected, len(level))
		}
	}

	header, err := makeHeader(format, width, height, len(levels))
	if err != nil {
		return err
	}

	if err := bcn.WriteDDSMagic(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	for i, level := range levels {
		if _, err := w.Write(level); err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrWriteLevel, i, err)
		}
	}

	return nil
}

// WriteFile writes a DDS file at path.
func WriteFile(path string, format bcn.Format, width, height int, levels [][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return Write(f, format, width, height, levels)
}

// ExportTexture writes the contents of an in-memory texture as DDS. Every
// level must have been uploaded.
func ExportTexture(w io.Writer, tex *texture.MemoryTexture) error {
	format, ok := FormatFor(tex.Format())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, tex.Format())
	}

	levels := make([][]byte, tex.Levels())
	for i := range levels {
		data := tex.LevelData(i)
		if data == nil {
			return fmt.Errorf("%w: level %d", ErrLevelMissing, i)
		}
		levels[i] = data
	}

	return Write(w, format, int(tex.Width()), int(tex.Height()), levels)
}

// blockBytes returns the per-block byte size of an exportable format.
func blockBytes(format bcn.Format) (int, error) {
	switch format {
	case bcn.FormatDXT1, bcn.FormatBC4:
		return 8, nil
	case bcn.FormatDXT3, bcn.FormatDXT5, bcn.FormatBC5:
		return 16, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// levelLength returns the payload byte length of one mip level.
func levelLength(width, height, level, blockSize int) int {
	w := mipDimension(width, level)
	h := mipDimension(height, level)
	return ((w + 3) / 4) * ((h + 3) / 4) * blockSize
}

// mipDimension returns the dimension of a mip level, clamped to 1.
func mipDimension(base, level int) int {
	d := base >> level
	if d < 1 {
		return 1
	}
	return d
}

// makeHeader builds the legacy DDS header for a BC-compressed mip chain.
func makeHeader(format bcn.Format, width, height, mipCount int) (*bcn.DDSHeader, error) {
	w32, err := u32FromInt(width)
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return nil, err
	}
	mip32, err := u32FromInt(mipCount)
	if err != nil {
		return nil, err
	}

	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat | bcn.DDSFlagLinearSize)
	caps := uint32(bcn.DDSCapsTexture)
	if mip32 > 1 {
		flags |= bcn.DDSFlagMipmapCount
		caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       flags,
		Height:      h32,
		Width:       w32,
		Depth:       1,
		MipMapCount: mip32,
		Caps:        caps,
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize
	hdr.PixelFormat.Flags = bcn.DDSPFFourCC

	switch format {
	case bcn.FormatDXT1:
		hdr.PixelFormat.FourCC = makeFourCC('D', 'X', 'T', '1')
	case bcn.FormatDXT3:
		hdr.PixelFormat.FourCC = makeFourCC('D', 'X', 'T', '3')
	case bcn.FormatDXT5:
		hdr.PixelFormat.FourCC = makeFourCC('D', 'X', 'T', '5')
	case bcn.FormatBC4:
		hdr.PixelFormat.FourCC = makeFourCC('A', 'T', 'I', '1')
	case bcn.FormatBC5:
		hdr.PixelFormat.FourCC = makeFourCC('A', 'T', 'I', '2')
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	blockSize, err := blockBytes(format)
	if err != nil {
		return nil, err
	}
	hdr.PitchOrLinearSize = uint32(levelLength(width, height, 0, blockSize))

	return hdr, nil
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

const maxUint32 = uint64(^uint32(0))

// u32FromInt converts an int to a uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, ErrSizeOverflow
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}
