package metadata

const (
	/** @brief A single coverage or luminance channel. */
	TextureChannelsR uint32 = 1
	/** @brief Red, green and blue. */
	TextureChannelsRGB uint32 = 3
	/** @brief Red, green, blue and alpha. */
	TextureChannelsRGBA uint32 = 4
)

/**
 * @brief The dimensions and pixel format of a 2D texture.
 */
type TextureSpec struct {
	/** @brief The texture Width in pixels. */
	Width uint32
	/** @brief The texture Height in pixels. */
	Height uint32
	/** @brief The number of 8-bit channels per pixel. */
	Channels uint32
}

// ByteSize is the size of a tightly packed pixel buffer for the whole texture.
func (s TextureSpec) ByteSize() uint32 {
	return s.Width * s.Height * s.Channels
}

// ValidChannels reports whether the channel count can be decoded from an image.
func ValidChannels(channels uint32) bool {
	return channels == TextureChannelsR || channels == TextureChannelsRGB || channels == TextureChannelsRGBA
}

// UploadableChannels reports whether a backend can upload pixels with this channel count.
func UploadableChannels(channels uint32) bool {
	return channels == TextureChannelsRGB || channels == TextureChannelsRGBA
}

/**
 * @brief A pixel rectangle inside a texture.
 */
type TextureRegion struct {
	X, Y          uint32
	Width, Height uint32
}

// Fits reports whether the region lies entirely inside the texture.
func (r TextureRegion) Fits(spec TextureSpec) bool {
	return uint64(r.X)+uint64(r.Width) <= uint64(spec.Width) && uint64(r.Y)+uint64(r.Height) <= uint64(spec.Height)
}

// ByteSize is the size of a tightly packed buffer for this region.
func (r TextureRegion) ByteSize(channels uint32) uint32 {
	return r.Width * r.Height * channels
}
