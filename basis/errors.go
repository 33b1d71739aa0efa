package basis

import "errors"

var (
	// ErrNotInitialized indicates a session operation before Init.
	ErrNotInitialized = errors.New("transcoder not initialized")
	// ErrNotStarted indicates a transcode before StartTranscoding.
	ErrNotStarted = errors.New("transcoding not started")
	// ErrNotBasisEncoded indicates a container without an ETC1S or UASTC payload.
	ErrNotBasisEncoded = errors.New("container payload is not basis-encoded")
	// ErrMissingGlobalData indicates a BasisLZ container without codebooks.
	ErrMissingGlobalData = errors.New("BasisLZ global data missing")
	// ErrImageOutOfRange indicates a level, layer or face outside the container.
	ErrImageOutOfRange = errors.New("image index out of range")
	// ErrUnsupportedTarget indicates a target the block codec cannot emit.
	ErrUnsupportedTarget = errors.New("unsupported transcode target")
	// ErrUncompressedTarget indicates a per-pixel target, which this
	// transcoder does not implement.
	ErrUncompressedTarget = errors.New("uncompressed transcode targets not implemented")
	// ErrBlockCountMismatch indicates a caller block count that disagrees
	// with the level metadata.
	ErrBlockCountMismatch = errors.New("block count mismatch")
	// ErrOutputTooSmall indicates a destination buffer smaller than the
	// transcoded level.
	ErrOutputTooSmall = errors.New("output buffer too small")
	// ErrTranscodeFailed indicates the block codec rejected the level.
	ErrTranscodeFailed = errors.New("block transcode failed")
)
