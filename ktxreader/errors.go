package ktxreader

import "errors"

var (
	// ErrCodecInit indicates the bytes are not a container the codec accepts.
	ErrCodecInit = errors.New("transcoder init failed")
	// ErrTranscodeStart indicates the codec rejected the transcoding session.
	ErrTranscodeStart = errors.New("start transcoding failed")
	// ErrUnsupportedLayout indicates a cubemap or texture-array container.
	ErrUnsupportedLayout = errors.New("unsupported texture layout")
	// ErrNoCompatibleFormat indicates negotiation exhausted the requested formats.
	ErrNoCompatibleFormat = errors.New("no compatible format")
	// ErrLevelMetadata indicates missing per-level metadata during decode.
	ErrLevelMetadata = errors.New("level metadata unavailable")
	// ErrTranscodeLevel indicates a mip level failed to transcode.
	ErrTranscodeLevel = errors.New("level transcode failed")
	// ErrUncompressedUnimplemented indicates the resolved format is
	// uncompressed, a decode path this reader does not implement.
	ErrUncompressedUnimplemented = errors.New("uncompressed format decode not implemented")
	// ErrTextureCreate indicates the engine failed to allocate the texture.
	ErrTextureCreate = errors.New("texture allocation failed")
	// ErrTextureUpload indicates the texture rejected a level upload.
	ErrTextureUpload = errors.New("texture upload failed")
)
