package ktx2

import "errors"

var (
	// ErrBadIdentifier indicates the file does not start with the KTX2 magic.
	ErrBadIdentifier = errors.New("not a KTX2 container")
	// ErrTruncatedHeader indicates the buffer ends inside the fixed header.
	ErrTruncatedHeader = errors.New("truncated KTX2 header")
	// ErrTruncatedLevelIndex indicates the buffer ends inside the level index.
	ErrTruncatedLevelIndex = errors.New("truncated level index")
	// ErrBadLevelCount indicates an implausible level count.
	ErrBadLevelCount = errors.New("invalid level count")
	// ErrBadFaceCount indicates a face count other than 1 or 6.
	ErrBadFaceCount = errors.New("invalid face count")
	// ErrLevelOutOfRange indicates a level index outside the container.
	ErrLevelOutOfRange = errors.New("level out of range")
	// ErrLevelBounds indicates a level payload outside the buffer.
	ErrLevelBounds = errors.New("level data out of bounds")
	// ErrBadDFD indicates a data format descriptor too short to classify.
	ErrBadDFD = errors.New("invalid data format descriptor")
	// ErrZstdDecode indicates Zstandard inflation of a level failed.
	ErrZstdDecode = errors.New("zstd decode failed")
	// ErrLevelSizeMismatch indicates inflated size differs from the index.
	ErrLevelSizeMismatch = errors.New("level size mismatch")
	// ErrUnknownSupercompression indicates a scheme this reader cannot inflate.
	ErrUnknownSupercompression = errors.New("unknown supercompression scheme")
)
