// shrink rewrites a gallery so that every image fits under a size limit.
package main

import (
	"flag"

	"k8s.io/klog/v2"

	"github.com/pcheng17/gallerize/pkg/shrink"
)

var (
	srcDir  = flag.String("src", "", "source gallery directory")
	dstDir  = flag.String("dst", "", "output directory")
	limitMB = flag.Float64("limit", 5.0, "max size per image in MB")
	minSide = flag.Int("min-side", 800, "do not scale below this shorter side (px)")
	orient  = flag.String("orientation", "auto", "orientation fix strategy: auto, force, or strip")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *srcDir == "" {
		klog.Exitf("--src is a required flag")
	}

	if *dstDir == "" {
		klog.Exitf("--dst is a required flag")
	}

	s := shrink.Strategy(*orient)
	if s != shrink.Auto && s != shrink.Force && s != shrink.Strip {
		klog.Exitf("unknown orientation strategy %q", *orient)
	}

	o := &shrink.Options{
		SrcDir:      *srcDir,
		DstDir:      *dstDir,
		LimitBytes:  int64(*limitMB * 1024 * 1024),
		MinSide:     *minSide,
		Orientation: s,
	}

	st, err := shrink.Run(o)
	if err != nil {
		klog.Exitf("shrink failed: %v", err)
	}

	klog.Infof("%d files: %d ok, %d failed", st.Total, st.OK, st.Failed)
}
