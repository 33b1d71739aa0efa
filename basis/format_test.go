package basis

import "testing"

func TestBytesPerBlock(t *testing.T) {
	cases := []struct {
		format Format
		want   int
	}{
		{BC1RGB, 8},
		{ETC2EACR11, 8},
		{ETC2RGBA, 16},
		{BC3RGBA, 16},
		{ASTC4x4RGBA, 16},
		{ETC2EACRG11, 16},
		{RGBA32, 4},
		{RGB565, 2},
		{RGBA4444, 2},
	}
	for _, tc := range cases {
		if got := BytesPerBlock(tc.format); got != tc.want {
			t.Errorf("BytesPerBlock(%s) = %d, want %d", tc.format, got, tc.want)
		}
	}
}

func TestIsBlockFormat(t *testing.T) {
	block := []Format{ETC2RGBA, BC1RGB, BC3RGBA, ASTC4x4RGBA, ETC2EACR11, ETC2EACRG11}
	for _, f := range block {
		if !f.IsBlockFormat() {
			t.Errorf("%s should be a block format", f)
		}
	}
	pixel := []Format{RGBA32, RGB565, RGBA4444}
	for _, f := range pixel {
		if f.IsBlockFormat() {
			t.Errorf("%s should not be a block format", f)
		}
	}
}

func TestIsFormatSupportedMatrix(t *testing.T) {
	targets := []Format{ETC2RGBA, BC1RGB, BC3RGBA, ASTC4x4RGBA, ETC2EACR11, ETC2EACRG11, RGBA32, RGB565, RGBA4444}
	for _, source := range []SourceFormat{SourceETC1S, SourceUASTC4x4} {
		for _, target := range targets {
			if !IsFormatSupported(target, source) {
				t.Errorf("IsFormatSupported(%s, %s) = false", target, source)
			}
		}
	}

	if IsFormatSupported(Format(200), SourceETC1S) {
		t.Error("unknown target should be unsupported")
	}
	if IsFormatSupported(ETC2RGBA, SourceFormat(200)) {
		t.Error("unknown source should be unsupported")
	}
}
