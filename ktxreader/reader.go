package ktxreader

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/hyzboy/filament/basis"
	"github.com/hyzboy/filament/ktx2"
	"github.com/hyzboy/filament/texture"
)

// Reader turns KTX2 container bytes into populated engine textures. Each
// Reader owns one transcoder session and a requested-format list; it is
// not safe for concurrent use, and the engine it targets is not owned.
type Reader struct {
	engine     texture.Engine
	transcoder *basis.Transcoder
	requested  []texture.InternalFormat

	quiet bool
	log   *slog.Logger

	// Level buffers are recycled across loads. Release callbacks are the
	// only return path and may fire asynchronously after Load returns, so
	// the free list takes a lock.
	mu   sync.Mutex
	free [][]byte
}

// Option configures a Reader.
type Option func(*Reader)

// WithQuiet suppresses diagnostic output for this reader. It never
// changes Load outcomes.
func WithQuiet() Option {
	return func(r *Reader) { r.quiet = true }
}

// WithLogger routes this reader's diagnostics to the given logger instead
// of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) { r.log = l }
}

// NewReader creates a reader that loads textures into the given engine,
// using codec for the bit-level block transcoding.
func NewReader(engine texture.Engine, codec basis.BlockCodec, opts ...Option) *Reader {
	r := &Reader{
		engine:     engine,
		transcoder: basis.NewTranscoder(codec),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// logger resolves the diagnostic sink for one call.
func (r *Reader) logger() *slog.Logger {
	if r.quiet {
		return newNopLogger()
	}
	if r.log != nil {
		return r.log
	}
	return Logger()
}

// RequestFormat appends an internal format to the requested-format list at
// the lowest priority. It returns false, without mutating the list, when
// the format is outside the compatibility table or already requested.
func (r *Reader) RequestFormat(format texture.InternalFormat) bool {
	if _, ok := finalFormatFor(format); !ok {
		return false
	}
	for _, f := range r.requested {
		if f == format {
			return false
		}
	}
	r.requested = append(r.requested, format)
	return true
}

// UnrequestFormat removes a format from the requested-format list. It is
// idempotent and never fails.
func (r *Reader) UnrequestFormat(format texture.InternalFormat) {
	for i, f := range r.requested {
		if f == format {
			r.requested = append(r.requested[:i], r.requested[i+1:]...)
			return
		}
	}
}

// RequestedFormats returns the current list in priority order.
func (r *Reader) RequestedFormats() []texture.InternalFormat {
	out := make([]texture.InternalFormat, len(r.requested))
	copy(out, r.requested)
	return out
}

// Load transcodes the container into the highest-priority deliverable
// format and uploads every mip level into a new texture. On failure no
// usable texture is returned; buffers already handed to the texture are
// reclaimed through their release callbacks in the normal way.
func (r *Reader) Load(data []byte, transform Transform) (texture.Texture, error) {
	log := r.logger()
	t := r.transcoder

	if err := t.Init(data); err != nil {
		log.Error("transcoder init failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrCodecInit, err)
	}
	if err := t.StartTranscoding(); err != nil {
		log.Error("start transcoding failed", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrTranscodeStart, err)
	}
	if t.Faces() == 6 {
		log.Error("cubemaps are not supported")
		return nil, fmt.Errorf("%w: cubemap", ErrUnsupportedLayout)
	}
	if t.Layers() > 1 {
		log.Error("texture arrays are not supported", "layers", t.Layers())
		return nil, fmt.Errorf("%w: %d layers", ErrUnsupportedLayout, t.Layers())
	}

	resolved, info, ok := r.negotiate(transform)
	if !ok {
		log.Error("unable to decode any of the requested formats",
			"requested", len(r.requested), "transform", transform)
		return nil, ErrNoCompatibleFormat
	}
	log.Debug("format negotiated", "format", resolved, "target", info.basisFormat)

	if mismatch, containerTransform := r.transferMismatch(transform); mismatch {
		log.Warn("container transfer function differs from requested transform",
			"container", containerTransform, "requested", transform)
	}

	tex, err := texture.NewBuilder().
		Width(t.Width()).
		Height(t.Height()).
		Levels(t.Levels()).
		Sampler(texture.Sampler2D).
		Format(resolved).
		Build(r.engine)
	if err != nil {
		log.Error("texture allocation failed", "format", resolved, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrTextureCreate, err)
	}

	if !info.compressed {
		log.Error("uncompressed decode path is not implemented", "format", resolved)
		return nil, fmt.Errorf("%w: %s", ErrUncompressedUnimplemented, resolved)
	}

	const layerIndex, faceIndex = 0, 0
	blockBytes := basis.BytesPerBlock(info.basisFormat)
	for level := 0; level < t.Levels(); level++ {
		levelInfo, err := t.ImageLevelInfo(uint32(level), layerIndex, faceIndex)
		if err != nil {
			log.Error("level metadata unavailable", "level", level, "err", err)
			return nil, fmt.Errorf("%w: level %d: %v", ErrLevelMetadata, level, err)
		}

		byteCount := blockBytes * int(levelInfo.TotalBlocks)
		buf := r.acquireBuffer(byteCount)
		if err := t.TranscodeImageLevel(uint32(level), layerIndex, faceIndex,
			buf, levelInfo.TotalBlocks, info.basisFormat, 0); err != nil {
			r.releaseBuffer(buf, nil)
			log.Error("failed to transcode level", "level", level, "err", err)
			return nil, fmt.Errorf("%w: level %d: %v", ErrTranscodeLevel, level, err)
		}

		pbd := &texture.PixelBufferDescriptor{
			Buffer:         buf,
			Compressed:     true,
			CompressedType: info.compressedType,
			Release:        r.releaseBuffer,
		}
		if err := tex.SetImage(level, pbd); err != nil {
			log.Error("texture upload failed", "level", level, "err", err)
			return nil, fmt.Errorf("%w: level %d: %v", ErrTextureUpload, level, err)
		}
	}

	return tex, nil
}

// negotiate runs the dry pass over the requested-format list in priority
// order and returns the first deliverable format. No buffers are
// allocated. The per-level metadata probe is advisory: a level that fails
// the probe is skipped from consideration without disqualifying the
// candidate.
func (r *Reader) negotiate(transform Transform) (texture.InternalFormat, finalFormatInfo, bool) {
	t := r.transcoder
	const layerIndex, faceIndex = 0, 0

	for _, requested := range r.requested {
		info, ok := finalFormatFor(requested)
		if !ok {
			continue
		}
		if info.transform != transform {
			continue
		}
		if !t.IsFormatSupported(info.basisFormat) {
			continue
		}
		if !r.engine.IsTextureFormatSupported(requested) {
			continue
		}
		for level := 0; level < t.Levels(); level++ {
			if _, err := t.ImageLevelInfo(uint32(level), layerIndex, faceIndex); err != nil {
				continue
			}
		}
		return requested, info, true
	}
	return texture.FormatUnknown, finalFormatInfo{}, false
}

// transferMismatch compares the container's declared transfer function
// with the requested transform. Diagnostic only; many encoders leave the
// field unset.
func (r *Reader) transferMismatch(transform Transform) (bool, string) {
	switch r.transcoder.ContainerTransferFunction() {
	case ktx2.TransferSRGB:
		return transform != SRGB, "sRGB"
	case ktx2.TransferLinear:
		return transform != Linear, "linear"
	default:
		return false, ""
	}
}

// acquireBuffer returns a level buffer of the given size, reusing a
// released one when it is large enough.
func (r *Reader) acquireBuffer(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, buf := range r.free {
		if cap(buf) >= n {
			r.free = append(r.free[:i], r.free[i+1:]...)
			return buf[:n]
		}
	}
	return make([]byte, n)
}

// releaseBuffer is the release callback handed out with every level
// buffer. It must be called exactly once per buffer; a second call would
// hand the same backing array out twice.
func (r *Reader) releaseBuffer(buf []byte, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.free) < maxPooledBuffers {
		r.free = append(r.free, buf[:0])
	}
}

// maxPooledBuffers caps the free list; one full mip chain is plenty.
const maxPooledBuffers = 16
