package ktxreader

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hyzboy/filament/basis"
	"github.com/hyzboy/filament/internal/ktx2test"
	"github.com/hyzboy/filament/ktx2"
	"github.com/hyzboy/filament/texture"
)

// stubCodec fills destinations with a per-level marker byte and can be
// narrowed or made to fail at a specific level.
type stubCodec struct {
	unsupported map[basis.Format]bool
	failLevel   int
	calls       int
}

func newStubCodec() *stubCodec {
	return &stubCodec{unsupported: make(map[basis.Format]bool), failLevel: -1}
}

func (c *stubCodec) Supports(target basis.Format, source basis.SourceFormat) bool {
	return !c.unsupported[target]
}

func (c *stubCodec) TranscodeBlocks(dst []byte, src basis.LevelData, target basis.Format) error {
	c.calls++
	if int(src.Info.Level) == c.failLevel {
		return errors.New("stub failure")
	}
	for i := range dst {
		dst[i] = byte(src.Info.Level) + 1
	}
	return nil
}

// uastc16x16x4 is a 16x16 UASTC container with a 4-level mip chain.
func uastc16x16x4() []byte {
	return ktx2test.Build(ktx2test.Params{
		Width:      16,
		Height:     16,
		LevelCount: 4,
		ColorModel: ktx2.ColorModelUASTC,
		LevelPayloads: [][]byte{
			ktx2test.BlockPayload(256, 1),
			ktx2test.BlockPayload(64, 2),
			ktx2test.BlockPayload(16, 3),
			ktx2test.BlockPayload(16, 4),
		},
	})
}

func TestRequestFormatUniqueness(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec())

	if !r.RequestFormat(texture.ETC2EACSRGBA8) {
		t.Fatal("first request should succeed")
	}
	if r.RequestFormat(texture.ETC2EACSRGBA8) {
		t.Fatal("duplicate request should fail")
	}
	if got := r.RequestedFormats(); len(got) != 1 || got[0] != texture.ETC2EACSRGBA8 {
		t.Fatalf("list: %v", got)
	}
}

func TestRequestFormatRejectsUnsupported(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec())

	if r.RequestFormat(texture.FormatUnknown) {
		t.Fatal("unknown format should be rejected")
	}
	if r.RequestFormat(texture.InternalFormat(999)) {
		t.Fatal("out-of-table format should be rejected")
	}
	if len(r.RequestedFormats()) != 0 {
		t.Fatal("rejected requests must not mutate the list")
	}
}

func TestUnrequestFormat(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec())
	r.RequestFormat(texture.ETC2EACSRGBA8)
	r.RequestFormat(texture.DXT3SRGBA)

	r.UnrequestFormat(texture.ETC2EACSRGBA8)
	if got := r.RequestedFormats(); len(got) != 1 || got[0] != texture.DXT3SRGBA {
		t.Fatalf("list after unrequest: %v", got)
	}

	// Idempotent, never fails.
	r.UnrequestFormat(texture.ETC2EACSRGBA8)
	r.UnrequestFormat(texture.RGBA8)
	if len(r.RequestedFormats()) != 1 {
		t.Fatal("unrequest of absent format must be a no-op")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load([]byte("garbage"), SRGB); !errors.Is(err, ErrCodecInit) {
		t.Fatalf("expected ErrCodecInit, got %v", err)
	}
}

func TestLoadRejectsCorruptSupercompression(t *testing.T) {
	// BasisLZ without global codebooks cannot start transcoding.
	data := ktx2test.Build(ktx2test.Params{
		Width: 4, Height: 4, LevelCount: 1,
		ColorModel:       ktx2.ColorModelETC1S,
		Supercompression: uint32(ktx2.SupercompressionBasisLZ),
	})

	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load(data, SRGB); !errors.Is(err, ErrTranscodeStart) {
		t.Fatalf("expected ErrTranscodeStart, got %v", err)
	}
}

func TestLoadRejectsCubemap(t *testing.T) {
	data := ktx2test.Build(ktx2test.Params{
		Width: 4, Height: 4, LevelCount: 1, FaceCount: 6,
		ColorModel: ktx2.ColorModelUASTC,
	})

	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load(data, SRGB); !errors.Is(err, ErrUnsupportedLayout) {
		t.Fatalf("expected ErrUnsupportedLayout, got %v", err)
	}
}

func TestLoadRejectsTextureArray(t *testing.T) {
	data := ktx2test.Build(ktx2test.Params{
		Width: 4, Height: 4, LevelCount: 1, LayerCount: 3,
		ColorModel: ktx2.ColorModelUASTC,
	})

	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load(data, SRGB); !errors.Is(err, ErrUnsupportedLayout) {
		t.Fatalf("expected ErrUnsupportedLayout, got %v", err)
	}
}

func TestLoadEmptyRequestListFails(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())

	if _, err := r.Load(uastc16x16x4(), SRGB); !errors.Is(err, ErrNoCompatibleFormat) {
		t.Fatalf("expected ErrNoCompatibleFormat, got %v", err)
	}
}

func TestLoadTransformFiltering(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACRGBA8) // linear

	if _, err := r.Load(uastc16x16x4(), SRGB); !errors.Is(err, ErrNoCompatibleFormat) {
		t.Fatalf("expected ErrNoCompatibleFormat, got %v", err)
	}

	tex, err := r.Load(uastc16x16x4(), Linear)
	if err != nil {
		t.Fatalf("Load linear: %v", err)
	}
	if tex.Format() != texture.ETC2EACRGBA8 {
		t.Fatalf("resolved format: %s", tex.Format())
	}
}

func TestLoadPriorityOrdering(t *testing.T) {
	codec := newStubCodec()
	r := NewReader(texture.NewMemoryEngine(), codec, WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)
	r.RequestFormat(texture.DXT3SRGBA)

	tex, err := r.Load(uastc16x16x4(), SRGB)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Format() != texture.ETC2EACSRGBA8 {
		t.Fatalf("first viable format must win, got %s", tex.Format())
	}

	// Reversed priority resolves the other format.
	r2 := NewReader(texture.NewMemoryEngine(), codec, WithQuiet())
	r2.RequestFormat(texture.DXT3SRGBA)
	r2.RequestFormat(texture.ETC2EACSRGBA8)

	tex2, err := r2.Load(uastc16x16x4(), SRGB)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex2.Format() != texture.DXT3SRGBA {
		t.Fatalf("priority order ignored, got %s", tex2.Format())
	}
}

func TestLoadNegotiationScenario(t *testing.T) {
	// F1 wrong transform, F2 codec-unsupported, F3 viable.
	codec := newStubCodec()
	codec.unsupported[basis.BC1RGB] = true

	r := NewReader(texture.NewMemoryEngine(), codec, WithQuiet())
	r.RequestFormat(texture.ETC2EACRGBA8) // F1: linear, call wants sRGB
	r.RequestFormat(texture.DXT1SRGB)     // F2: right transform, codec says no
	r.RequestFormat(texture.ETC2EACSRGBA8)

	tex, err := r.Load(uastc16x16x4(), SRGB)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tex.Format() != texture.ETC2EACSRGBA8 {
		t.Fatalf("resolved format: %s", tex.Format())
	}

	// Four levels, each sized block count x 16 bytes (ETC2_EAC blocks).
	mt := tex.(*texture.MemoryTexture)
	wantSizes := []int{16 * 16, 4 * 16, 1 * 16, 1 * 16}
	for level, want := range wantSizes {
		data := mt.LevelData(level)
		if data == nil {
			t.Fatalf("level %d missing", level)
		}
		if len(data) != want {
			t.Fatalf("level %d: %d bytes, want %d", level, len(data), want)
		}
	}
	if codec.calls != 4 {
		t.Fatalf("codec calls: %d, want 4", codec.calls)
	}
}

func TestLoadDeviceFilter(t *testing.T) {
	// Same setup, but the device rejects the remaining viable format:
	// negotiation exhausts with zero transcode work done.
	codec := newStubCodec()
	codec.unsupported[basis.BC1RGB] = true

	engine := texture.NewMemoryEngine(texture.ETC2EACRGBA8, texture.DXT1SRGB)
	r := NewReader(engine, codec, WithQuiet())
	r.RequestFormat(texture.ETC2EACRGBA8)
	r.RequestFormat(texture.DXT1SRGB)
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load(uastc16x16x4(), SRGB); !errors.Is(err, ErrNoCompatibleFormat) {
		t.Fatalf("expected ErrNoCompatibleFormat, got %v", err)
	}
	if codec.calls != 0 {
		t.Fatalf("negotiation must not transcode, got %d calls", codec.calls)
	}
}

func TestLoadDeterminism(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	data := uastc16x16x4()
	tex1, err := r.Load(data, SRGB)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	tex2, err := r.Load(data, SRGB)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}

	if tex1.Format() != tex2.Format() {
		t.Fatalf("resolved formats differ: %s vs %s", tex1.Format(), tex2.Format())
	}
	mt1 := tex1.(*texture.MemoryTexture)
	mt2 := tex2.(*texture.MemoryTexture)
	for level := 0; level < tex1.Levels(); level++ {
		if !bytes.Equal(mt1.LevelData(level), mt2.LevelData(level)) {
			t.Fatalf("level %d decoded output differs between loads", level)
		}
	}
}

func TestLoadUncompressedUnimplemented(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.RGBA8)

	if _, err := r.Load(uastc16x16x4(), Linear); !errors.Is(err, ErrUncompressedUnimplemented) {
		t.Fatalf("expected ErrUncompressedUnimplemented, got %v", err)
	}
}

func TestLoadReusesLevelBuffers(t *testing.T) {
	r := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load(uastc16x16x4(), SRGB); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// The memory engine releases synchronously, so each level reuses the
	// buffer the previous level returned: one allocation serves the whole
	// chain, and it ends up back on the free list. A double release would
	// show up as a larger free list.
	r.mu.Lock()
	free := len(r.free)
	r.mu.Unlock()
	if free != 1 {
		t.Fatalf("free buffers after load: %d, want 1", free)
	}
}

func TestLoadMidChainFailureReleasesBuffers(t *testing.T) {
	codec := newStubCodec()
	codec.failLevel = 2

	r := NewReader(texture.NewMemoryEngine(), codec, WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load(uastc16x16x4(), SRGB); !errors.Is(err, ErrTranscodeLevel) {
		t.Fatalf("expected ErrTranscodeLevel, got %v", err)
	}

	// Levels 0 and 1 were uploaded and released by the texture; the failed
	// level's buffer is released by the reader itself. With synchronous
	// releases the chain reuses one buffer, so exactly one ends up free.
	r.mu.Lock()
	free := len(r.free)
	r.mu.Unlock()
	if free != 1 {
		t.Fatalf("free buffers after failure: %d, want 1", free)
	}
	if codec.calls != 3 {
		t.Fatalf("codec calls: %d, want 3", codec.calls)
	}
}

// deferredEngine hands out textures that hold descriptors until Flush,
// modeling an asynchronous upload pipeline.
type deferredEngine struct {
	pending []*texture.PixelBufferDescriptor
}

func (e *deferredEngine) IsTextureFormatSupported(texture.InternalFormat) bool { return true }

func (e *deferredEngine) CreateTexture(desc *texture.Descriptor) (texture.Texture, error) {
	return &deferredTexture{engine: e, desc: *desc}, nil
}

func (e *deferredEngine) Flush() {
	for _, pbd := range e.pending {
		pbd.ReleaseBuffer()
	}
	e.pending = nil
}

type deferredTexture struct {
	engine *deferredEngine
	desc   texture.Descriptor
}

func (t *deferredTexture) SetImage(level int, pbd *texture.PixelBufferDescriptor) error {
	t.engine.pending = append(t.engine.pending, pbd)
	return nil
}

func (t *deferredTexture) Width() uint32                  { return t.desc.Width }
func (t *deferredTexture) Height() uint32                 { return t.desc.Height }
func (t *deferredTexture) Levels() int                    { return t.desc.Levels }
func (t *deferredTexture) Format() texture.InternalFormat { return t.desc.Format }

func TestLoadAsyncRelease(t *testing.T) {
	engine := &deferredEngine{}
	r := NewReader(engine, newStubCodec(), WithQuiet())
	r.RequestFormat(texture.ETC2EACSRGBA8)

	if _, err := r.Load(uastc16x16x4(), SRGB); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Uploads have not completed yet: no buffer may be reclaimed.
	r.mu.Lock()
	free := len(r.free)
	r.mu.Unlock()
	if free != 0 {
		t.Fatalf("buffers reclaimed before upload completion: %d", free)
	}

	engine.Flush()
	r.mu.Lock()
	free = len(r.free)
	r.mu.Unlock()
	if free != 4 {
		t.Fatalf("free buffers after flush: %d, want 4", free)
	}
}

// recordingHandler counts emitted log records.
type recordingHandler struct {
	records *int
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordingHandler) Handle(context.Context, slog.Record) error {
	*h.records++
	return nil
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestQuietSuppressesDiagnosticsOnly(t *testing.T) {
	var loud, quiet int

	r := NewReader(texture.NewMemoryEngine(), newStubCodec(),
		WithLogger(slog.New(recordingHandler{records: &loud})))
	_, errLoud := r.Load([]byte("garbage"), SRGB)

	rq := NewReader(texture.NewMemoryEngine(), newStubCodec(), WithQuiet(),
		WithLogger(slog.New(recordingHandler{records: &quiet})))
	_, errQuiet := rq.Load([]byte("garbage"), SRGB)

	if !errors.Is(errLoud, ErrCodecInit) || !errors.Is(errQuiet, ErrCodecInit) {
		t.Fatalf("quiet changed the outcome: %v vs %v", errLoud, errQuiet)
	}
	if loud == 0 {
		t.Fatal("expected diagnostics without quiet")
	}
	if quiet != 0 {
		t.Fatalf("quiet reader emitted %d records", quiet)
	}
}
