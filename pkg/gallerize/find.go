package gallerize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

// imageExts is the extension allow-list for gallery assets.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".svg":  true,
}

// Found is one image discovered under the gallery root.
type Found struct {
	Dir    string // subdirectory name, the group key
	Name   string // file base name
	Width  int
	Height int
}

// Scan lists the immediate subdirectories of the gallery root and probes
// every recognized image file one level down. It does not recurse further.
func Scan(root string) ([]Found, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read root: %w", err)
	}

	p := NewProber()
	defer p.Close()

	found := []Found{}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		dir := e.Name()
		files, err := os.ReadDir(filepath.Join(root, dir))
		if err != nil {
			klog.Warningf("unable to list %s: %v", dir, err)
			continue
		}

		for _, f := range files {
			if f.IsDir() || strings.HasPrefix(f.Name(), ".") || !IsImageFile(f.Name()) {
				continue
			}

			path := filepath.Join(root, dir, f.Name())
			w, h, err := p.Dimensions(path)
			if err != nil {
				klog.Warningf("unable to probe %s: %v", path, err)
				continue
			}

			klog.V(1).Infof("found %s (%dx%d)", path, w, h)
			found = append(found, Found{Dir: dir, Name: f.Name(), Width: w, Height: h})
		}
	}

	return found, nil
}

// IsImageFile reports whether a file name carries a recognized image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}
