package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	// formats Word understands but image.Decode does not register by default
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a prepared, embeddable raster image.
type Image struct {
	Data   []byte
	Ext    string // extension without the dot, e.g. "png"
	Width  int    // pixels
	Height int    // pixels
	Vector bool   // true when rasterized from a vector source
}

// PrepareOptions control the preparation pipeline.
type PrepareOptions struct {
	Border      bool // compose a filled border around the image
	JPEGQuality int  // 1..100, used when re-encoding JPEG sources
}

// border fill, a light blue matching the document palette
var borderColor = color.NRGBA{R: 233, G: 240, B: 255, A: 255}

// formats that can be embedded without transcoding
var passthroughExt = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tif":  true,
	"tiff": true,
}

// Prepare turns fetched bytes into an embeddable raster image. SVG sources
// are rasterized at their intrinsic size; everything else is decoded, bordered
// when requested and re-encoded only when the pixels changed or the container
// format is not supported by word processors.
func Prepare(data []byte, contentType string, opts PrepareOptions, log *zap.Logger) (*Image, error) {
	if isSVG(data, contentType) {
		// borders are never drawn on vector sources
		return rasterizeSVG(data, log)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		kind, _ := filetype.Match(data)
		return nil, fmt.Errorf("unable to decode image (detected %q): %w", kind.Extension, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if !opts.Border {
		if passthroughExt[format] {
			return &Image{Data: data, Ext: format, Width: width, Height: height}, nil
		}
		// webp and friends - transcode to PNG
		log.Debug("transcoding unsupported image format", zap.String("format", format))
		return encode(img, "png", opts)
	}

	borderWidth := width / 50
	if borderWidth < 1 {
		borderWidth = 1
	}
	framed := imaging.New(width+2*borderWidth, height+2*borderWidth, borderColor)
	framed = imaging.PasteCenter(framed, img)

	ext := format
	if !passthroughExt[ext] {
		ext = "png"
	}
	return encode(framed, ext, opts)
}

func encode(img image.Image, ext string, opts PrepareOptions) (*Image, error) {
	var buf bytes.Buffer
	var err error
	switch ext {
	case "jpg", "jpeg":
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		ext = "png"
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to encode %s image: %w", ext, err)
	}
	b := img.Bounds()
	return &Image{Data: buf.Bytes(), Ext: ext, Width: b.Dx(), Height: b.Dy()}, nil
}

func isSVG(data []byte, contentType string) bool {
	if strings.Contains(contentType, "image/svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	s := string(head)
	return strings.Contains(s, "<svg") || strings.HasPrefix(strings.TrimSpace(s), "<?xml") && strings.Contains(s, "svg")
}

func rasterizeSVG(data []byte, log *zap.Logger) (*Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("unable to parse svg: %w", err)
	}

	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has no usable dimensions")
	}
	log.Debug("rasterizing svg", zap.Int("width", w), zap.Int("height", h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.SetTarget(0, 0, float64(w), float64(h))
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("unable to encode rasterized svg: %w", err)
	}
	return &Image{Data: buf.Bytes(), Ext: "png", Width: w, Height: h, Vector: true}, nil
}
