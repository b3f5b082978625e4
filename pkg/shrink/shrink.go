// Package shrink rewrites a gallery tree so that every image fits under a
// byte limit, copying everything else through unchanged.
package shrink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Strategy selects how EXIF orientation is applied before re-encoding.
type Strategy string

const (
	// Auto rotates upside-down frames always, and 90/270 degree frames only
	// when the pixels are landscape (portrait pixels are assumed already
	// rotated by an earlier tool).
	Auto Strategy = "auto"
	// Force always applies the full EXIF orientation mapping.
	Force Strategy = "force"
	// Strip leaves pixels untouched.
	Strip Strategy = "strip"
)

// Options configure a shrink run.
type Options struct {
	SrcDir      string
	DstDir      string
	LimitBytes  int64
	MinSide     int // do not scale the shorter side below this
	Orientation Strategy
}

// Stats counts the outcome of a run.
type Stats struct {
	Total  int
	OK     int
	Failed int
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".webp": true,
}

// Run walks the source tree and materializes the size-limited copy under
// DstDir, mirroring the directory layout. Per-file failures are logged and
// counted but never abort the walk.
func Run(o *Options) (*Stats, error) {
	if _, err := os.Stat(o.SrcDir); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	if err := os.MkdirAll(o.DstDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	st := &Stats{}
	err := godirwalk.Walk(o.SrcDir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(o.SrcDir, path)
			if err != nil {
				return err
			}
			st.Total++

			out := filepath.Join(o.DstDir, rel)
			if !isImageFile(path) {
				if err := copy.Copy(path, out); err != nil {
					st.Failed++
					klog.Errorf("copy failed: %s: %v", rel, err)
					return nil
				}
				st.OK++
				klog.Infof("copied (non-image): %s", rel)
				return nil
			}

			if err := shrinkOne(path, out, o); err != nil {
				st.Failed++
				klog.Errorf("shrink failed: %s: %v", rel, err)
				return nil
			}
			st.OK++
			return nil
		},
	})
	if err != nil {
		return st, fmt.Errorf("walk: %w", err)
	}

	return st, nil
}

func isImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// shrinkOne produces the destination file for a single image: a straight
// copy when it is already small enough, a re-encoded JPEG otherwise.
func shrinkOne(path string, out string, o *Options) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if fi.Size() <= o.LimitBytes {
		if err := copy.Copy(path, out); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		klog.Infof("copied (under limit): %s", out)
		return nil
	}

	bs, err := reencode(path, o)
	if err != nil {
		return err
	}

	jout := strings.TrimSuffix(out, filepath.Ext(out)) + ".jpg"
	if err := os.MkdirAll(filepath.Dir(jout), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if err := os.WriteFile(jout, bs, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	klog.Infof("%s -> %s (%d -> %d bytes)", path, jout, fi.Size(), len(bs))
	return nil
}
