package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/jobs"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

/**
 * @brief Raw 8-bit pixels decoded from an image file, rows top to bottom
 * unless decoded with flipY.
 */
type Image struct {
	Width    uint32
	Height   uint32
	Channels uint32
	Pixels   []uint8
	/** @brief The encoding the image was decoded from, e.g. "png". */
	Format string
}

// LoadImage decodes the file at path. Grayscale images keep one channel, opaque images are
// reduced to RGB and anything else becomes non premultiplied RGBA.
func LoadImage(path string, flipY bool) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		core.LogError("could not open image file: %s", path)
		return nil, err
	}
	defer f.Close()

	img, err := DecodeImage(f, flipY)
	if err != nil {
		core.LogError("could not decode image file %s: %s", path, err)
		return nil, err
	}
	return img, nil
}

// LoadImages decodes every file on the job system workers. Images come back in the order
// of paths, a file that fails leaves a nil entry and its error is joined into the result.
func LoadImages(js *jobs.JobSystem, paths []string, flipY bool) ([]*Image, error) {
	images := make([]*Image, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	wg.Add(len(paths))
	for i, path := range paths {
		js.Submit(jobs.Task{
			Name:       "load image " + path,
			Run:        func() (interface{}, error) { return LoadImage(path, flipY) },
			OnComplete: func(result interface{}) { images[i] = result.(*Image) },
			OnFailure:  func(err error) { errs[i] = fmt.Errorf("%s: %w", path, err) },
			OnDone:     wg.Done,
		})
	}
	wg.Wait()
	return images, errors.Join(errs...)
}

func DecodeImage(r io.Reader, flipY bool) (*Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}
	out := &Image{
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Format: format,
	}

	switch img := src.(type) {
	case *image.Gray:
		out.Channels = metadata.TextureChannelsR
		out.Pixels = packRows(img.Pix, img.Stride, b.Dx(), b.Dy(), 1)
	default:
		rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
		if isOpaque(src) {
			out.Channels = metadata.TextureChannelsRGB
			out.Pixels = dropAlpha(rgba.Pix, b.Dx()*b.Dy())
		} else {
			out.Channels = metadata.TextureChannelsRGBA
			out.Pixels = rgba.Pix
		}
	}

	if flipY {
		flipRows(out.Pixels, int(out.Width*out.Channels), int(out.Height))
	}
	return out, nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func packRows(pix []uint8, stride, width, height, channels int) []uint8 {
	rowBytes := width * channels
	out := make([]uint8, rowBytes*height)
	for y := 0; y < height; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], pix[y*stride:y*stride+rowBytes])
	}
	return out
}

func dropAlpha(rgba []uint8, pixels int) []uint8 {
	out := make([]uint8, pixels*3)
	for i := 0; i < pixels; i++ {
		copy(out[i*3:i*3+3], rgba[i*4:i*4+3])
	}
	return out
}

func flipRows(pix []uint8, rowBytes, height int) {
	tmp := make([]uint8, rowBytes)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := pix[top*rowBytes : (top+1)*rowBytes]
		b := pix[bottom*rowBytes : (bottom+1)*rowBytes]
		copy(tmp, t)
		copy(t, b)
		copy(b, tmp)
	}
}
