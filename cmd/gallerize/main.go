// gallerize scans a gallery directory tree and maintains the photo catalogs
// consumed by the gallery frontend.
package main

import (
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"
	"github.com/pcheng17/gallerize/pkg/gallerize"
)

var (
	galleryDir = flag.String("gallery", "gallery", "location of the gallery directory")
	infoPath   = flag.String("info", "photosInfo.json", "path of the flat photo catalog")
	groupPath  = flag.String("groups", "photos.json", "path of the group catalog")
	dedupe     = flag.Bool("dedupe", false, "skip files already present in the catalogs")
	listen     = flag.Bool("listen", false, "serve the gallery via HTTP")
	addr       = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag  = flag.Bool("watch", false, "watch the gallery for changes and reindex")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c := &gallerize.Config{
		GalleryDir: *galleryDir,
		InfoPath:   *infoPath,
		GroupPath:  *groupPath,
		Dedupe:     *dedupe,
	}

	if err := update(c); err != nil {
		klog.Exitf("update failed: %v", err)
	}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(c); err != nil {
				klog.Exitf("watch failed: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(*galleryDir, *addr)
		}()
	}

	wg.Wait()
}

// update runs the single load-scan-merge-write pass. A missing gallery root
// is logged inside Update and ends the pass without touching the catalogs.
func update(c *gallerize.Config) error {
	cat, err := gallerize.Update(c)
	if err != nil {
		return err
	}

	if cat == nil {
		return nil
	}

	return cat.Write(c)
}

// serve serves the gallery directory via HTTP
func serve(path string, addr string) {
	fs := http.FileServer(http.Dir(path))
	http.Handle("/", fs)

	klog.Infof("Listening on %s...", addr)
	err := http.ListenAndServe(addr, nil)
	if err != nil {
		klog.Exitf("listen failed: %v", err)
	}
}

// watch watches the gallery root and its subdirectories and reindexes on
// changes
func watch(c *gallerize.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				klog.Infof("event: %v", event)
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					if err := update(c); err != nil {
						klog.Errorf("update failed: %v", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				klog.Errorf("watch error: %v", err)
			}
		}
	}()

	dirs := []string{c.GalleryDir}
	entries, err := os.ReadDir(c.GalleryDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, filepath.Join(c.GalleryDir, e.Name()))
		}
	}

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return err
		}
	}

	<-make(chan struct{})
	return nil
}
