// ktx2info - KTX2 container inspector
//
// Prints the header, codec classification, supercompression scheme and
// level table of a .ktx2 file. With --unwrap it also writes each level's
// payload (Zstandard-inflated where applicable) next to the input.
//
// Usage:
//
//	ktx2info texture.ktx2
//	ktx2info --unwrap texture.ktx2
package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/hyzboy/filament/ktx2"
)

func main() {
	unwrap := flag.Bool("unwrap", false, "write decompressed level payloads next to the input")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: ktx2info [--unwrap] <file.ktx2>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := run(path, *unwrap); err != nil {
		fmt.Fprintf(os.Stderr, "ktx2info: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, unwrap bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c, err := ktx2.Parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	fmt.Printf("%s: %dx%d", filepath.Base(path), c.PixelWidth, c.PixelHeight)
	if c.PixelDepth > 0 {
		fmt.Printf("x%d", c.PixelDepth)
	}
	fmt.Printf(", %d level(s), %d layer(s), %d face(s)\n",
		c.EffectiveLevelCount(), c.LayerCount, c.FaceCount)
	fmt.Printf("vkFormat:         %d\n", c.VkFormat)
	fmt.Printf("codec:            %s\n", codecName(c.ColorModel))
	fmt.Printf("transfer:         %s\n", transferName(c.TransferFunction))
	fmt.Printf("supercompression: %s\n", c.Supercompression)
	if sgd := c.SupercompressionGlobalData(); len(sgd) > 0 {
		fmt.Printf("global data:      %d bytes\n", len(sgd))
	}

	fmt.Println("levels:")
	for i, idx := range c.Levels {
		fmt.Printf("  %2d: %4dx%-4d offset=%-8d stored=%-8d uncompressed=%d\n",
			i, c.LevelWidth(i), c.LevelHeight(i),
			idx.ByteOffset, idx.ByteLength, idx.UncompressedByteLength)
	}

	if !unwrap {
		return nil
	}

	base := path[:len(path)-len(filepath.Ext(path))]
	for i := range c.Levels {
		payload, err := c.LevelData(i)
		if err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
		out := fmt.Sprintf("%s.level%d.bin", base, i)
		if err := os.WriteFile(out, payload, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", out, len(payload))
	}

	return nil
}

func codecName(colorModel uint8) string {
	switch colorModel {
	case ktx2.ColorModelETC1S:
		return "ETC1S (BasisLZ)"
	case ktx2.ColorModelUASTC:
		return "UASTC 4x4"
	case 0:
		return "none declared"
	default:
		return fmt.Sprintf("color model %d", colorModel)
	}
}

func transferName(tf uint8) string {
	switch tf {
	case ktx2.TransferLinear:
		return "linear"
	case ktx2.TransferSRGB:
		return "sRGB"
	default:
		return "unspecified"
	}
}
