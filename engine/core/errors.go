package core

import (
	"errors"
)

var (
	ErrUnsupportedBackend  = errors.New("rendering backend not supported")
	ErrInvalidResource     = errors.New("invalid or destroyed resource")
	ErrUnknownUniform      = errors.New("uniform name not present in layout")
	ErrChannelMismatch     = errors.New("channel count does not match texture")
	ErrUnsupportedChannels = errors.New("unsupported texture channel count")
	ErrDataTooShort        = errors.New("data shorter than the destination range")
	ErrOutOfRange          = errors.New("write exceeds resource bounds")
	ErrEmptyShaderSource   = errors.New("empty shader source")
	ErrShaderCompile       = errors.New("shader compile failed")
	ErrShaderLink          = errors.New("shader link failed")
	ErrGlyphNotFound       = errors.New("glyph not found in font")
)
