package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

func pixelFormat(channels uint32) (uint32, error) {
	switch channels {
	case metadata.TextureChannelsRGB:
		return gl.RGB, nil
	case metadata.TextureChannelsRGBA:
		return gl.RGBA, nil
	}
	return 0, fmt.Errorf("texture with %d channels: %w", channels, core.ErrUnsupportedChannels)
}

func (r *OpenGLRenderer) TextureCreate(spec metadata.TextureSpec, pixels []uint8) (uint32, error) {
	format, err := pixelFormat(spec.Channels)
	if err != nil {
		return 0, err
	}
	if pixels != nil && uint32(len(pixels)) < spec.ByteSize() {
		return 0, fmt.Errorf("texture needs %d bytes, got %d: %w", spec.ByteSize(), len(pixels), core.ErrDataTooShort)
	}

	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	var data unsafe.Pointer
	if len(pixels) > 0 {
		data = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), int32(spec.Width), int32(spec.Height), 0, format, gl.UNSIGNED_BYTE, data)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	if err := checkError("TexImage2D"); err != nil {
		gl.DeleteTextures(1, &handle)
		return 0, err
	}
	r.textures[handle] = spec
	return handle, nil
}

func (r *OpenGLRenderer) TextureWriteData(handle uint32, region metadata.TextureRegion, pixels []uint8) error {
	spec, ok := r.textures[handle]
	if !ok {
		return fmt.Errorf("texture %d: %w", handle, core.ErrInvalidResource)
	}
	if !region.Fits(spec) {
		return fmt.Errorf("region %+v outside %dx%d texture: %w", region, spec.Width, spec.Height, core.ErrOutOfRange)
	}
	if uint32(len(pixels)) < region.ByteSize(spec.Channels) {
		return fmt.Errorf("region needs %d bytes, got %d: %w", region.ByteSize(spec.Channels), len(pixels), core.ErrDataTooShort)
	}
	format, err := pixelFormat(spec.Channels)
	if err != nil {
		return err
	}
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(region.X), int32(region.Y), int32(region.Width), int32(region.Height), format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return checkError("TexSubImage2D")
}

func (r *OpenGLRenderer) TextureBind(handle uint32, unit uint32) {
	if r.maxTextureUnits > 0 && unit >= r.maxTextureUnits {
		core.LogError("texture unit %d exceeds the %d units available", unit, r.maxTextureUnits)
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, handle)
}

func (r *OpenGLRenderer) TextureDestroy(handle uint32) {
	gl.DeleteTextures(1, &handle)
	delete(r.textures, handle)
}
