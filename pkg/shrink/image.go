package shrink

import (
	"bytes"
	"fmt"
	"image"
	"os"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/rwcarlsen/goexif/exif"
	"k8s.io/klog/v2"
)

// qualitySteps are tried in order before giving up and scaling down.
var qualitySteps = []int{92, 85, 80, 72, 65, 60, 50}

// reencode decodes the image, normalizes its orientation, and returns JPEG
// bytes at most LimitBytes long when possible.
func reencode(path string, o *Options) ([]byte, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	img = normalize(img, orientation(path), o.Orientation)
	return encodeUnderLimit(img, o.LimitBytes, o.MinSide)
}

// encodeUnderLimit encodes img as JPEG, stepping down quality and then
// scale until the result fits under limit or the short side reaches
// minSide. The smallest attempt is returned even when nothing fit.
func encodeUnderLimit(img image.Image, limit int64, minSide int) ([]byte, error) {
	work := img
	var last []byte

	for {
		for _, q := range qualitySteps {
			var buf bytes.Buffer
			if err := imgio.JPEGEncoder(q)(&buf, work); err != nil {
				return nil, fmt.Errorf("encode: %w", err)
			}
			last = buf.Bytes()
			if int64(len(last)) <= limit {
				return last, nil
			}
		}

		b := work.Bounds()
		if min(b.Dx(), b.Dy()) <= minSide {
			klog.V(1).Infof("giving up at %dx%d: %d bytes over limit %d", b.Dx(), b.Dy(), len(last), limit)
			return last, nil
		}

		work = transform.Resize(work,
			max(1, int(float64(b.Dx())*0.85)),
			max(1, int(float64(b.Dy())*0.85)),
			transform.Lanczos)
	}
}

// orientation reads the EXIF orientation tag, defaulting to 1 (upright)
// whenever the file carries no usable EXIF.
func orientation(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 1
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	ori, err := tag.Int(0)
	if err != nil || ori < 1 || ori > 8 {
		return 1
	}

	return ori
}

// normalize applies the EXIF orientation to the decoded pixels per the
// configured strategy.
func normalize(img image.Image, ori int, s Strategy) image.Image {
	if s == Strip || ori == 1 {
		return img
	}

	if s == Auto && ori != 3 && ori != 4 {
		// 90/270 degree cases: only landscape pixels need the rotation
		b := img.Bounds()
		if b.Dx() < b.Dy() {
			return img
		}
	}

	return transpose(img, ori)
}

// transpose maps the eight EXIF orientations onto rotate/flip operations.
func transpose(img image.Image, ori int) image.Image {
	rot := &transform.RotationOptions{ResizeBounds: true}

	switch ori {
	case 2:
		return transform.FlipH(img)
	case 3:
		return transform.Rotate(img, 180, rot)
	case 4:
		return transform.FlipV(img)
	case 5:
		return transform.Rotate(transform.FlipH(img), 270, rot)
	case 6:
		return transform.Rotate(img, 90, rot)
	case 7:
		return transform.Rotate(transform.FlipH(img), 90, rot)
	case 8:
		return transform.Rotate(img, 270, rot)
	default:
		return img
	}
}
