package texture

import "errors"

var (
	// ErrInvalidDescriptor indicates zero dimensions or level count.
	ErrInvalidDescriptor = errors.New("invalid texture descriptor")
	// ErrUnsupportedFormat indicates the engine cannot sample the format.
	ErrUnsupportedFormat = errors.New("unsupported texture format")
	// ErrLevelOutOfRange indicates a SetImage level outside the mip chain.
	ErrLevelOutOfRange = errors.New("mip level out of range")
	// ErrLevelAlreadySet indicates a second upload to the same mip level.
	ErrLevelAlreadySet = errors.New("mip level already set")
	// ErrNilBuffer indicates a descriptor without a pixel buffer.
	ErrNilBuffer = errors.New("nil pixel buffer")
)
