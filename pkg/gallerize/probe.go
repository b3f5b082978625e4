package gallerize

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// Prober extracts pixel dimensions from image files. Formats the registered
// Go decoders understand are handled in-process; the rest (notably SVG) go
// through exiftool, started on first use and shared for the rest of the scan.
type Prober struct {
	et *exiftool.Exiftool
}

func NewProber() *Prober {
	return &Prober{}
}

// Close shuts down the exiftool process, if one was started.
func (p *Prober) Close() {
	if p.et != nil {
		p.et.Close()
	}
}

// Dimensions returns the pixel width and height of the image at path.
func (p *Prober) Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open: %w", err)
	}

	ic, _, err := image.DecodeConfig(f)
	f.Close()
	if err == nil {
		return ic.Width, ic.Height, nil
	}

	klog.V(1).Infof("decode config for %s: %v, trying exiftool", path, err)
	return p.exifDimensions(path)
}

func (p *Prober) exifDimensions(path string) (int, int, error) {
	if p.et == nil {
		et, err := exiftool.NewExiftool()
		if err != nil {
			return 0, 0, fmt.Errorf("exiftool: %w", err)
		}
		p.et = et
	}

	fis := p.et.ExtractMetadata(path)
	fi := fis[0]
	if fi.Err != nil {
		return 0, 0, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	w, err := fi.GetInt("ImageWidth")
	if err != nil {
		return 0, 0, fmt.Errorf("get ImageWidth: %w", err)
	}

	h, err := fi.GetInt("ImageHeight")
	if err != nil {
		return 0, 0, fmt.Errorf("get ImageHeight: %w", err)
	}

	return int(w), int(h), nil
}
