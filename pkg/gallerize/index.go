package gallerize

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

// Update loads the catalogs, scans the gallery root, and merges what it
// finds. A missing gallery root aborts the update: the error is logged and a
// nil catalog is returned so that the caller writes nothing.
func Update(c *Config) (*Catalog, error) {
	if _, err := os.Stat(c.GalleryDir); err != nil {
		klog.Errorf("gallery root %s: %v", c.GalleryDir, err)
		return nil, nil
	}

	cat, err := LoadCatalog(c)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	found, err := Scan(c.GalleryDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	added := 0
	for _, f := range found {
		if c.Dedupe && cat.Has(f.Dir, f.Name) {
			klog.V(1).Infof("skipping %s/%s: already cataloged", f.Dir, f.Name)
			continue
		}
		cat.Add(f)
		added++
	}

	klog.Infof("scanned %d images, added %d records", len(found), added)
	return cat, nil
}

// Has reports whether a record for (dirName, fileName) already exists.
func (cat *Catalog) Has(dirName string, fileName string) bool {
	for _, p := range cat.Photos {
		if p.DirName == dirName && p.FileName == fileName {
			return true
		}
	}
	return false
}

// Add appends a photo record and registers its iconID with the group named
// after its directory, creating the group on first use.
func (cat *Catalog) Add(f Found) {
	id := IconID(f.Width, f.Height, f.Name)
	cat.Photos = append(cat.Photos, Photo{
		DirName:   f.Dir,
		FileName:  f.Name,
		IconID:    id,
		Extension: Extension{Size: defaultIconSize},
	})

	g := cat.Group(f.Dir)
	g.Children = append(g.Children, id)
}

// Group returns the group with the given name, creating it if needed.
// Group names are unique within a catalog.
func (cat *Catalog) Group(name string) *PhotoGroup {
	for _, g := range cat.Groups {
		if g.Name == name {
			return g
		}
	}

	g := &PhotoGroup{Name: name, Children: []string{}}
	cat.Groups = append(cat.Groups, g)
	return g
}
