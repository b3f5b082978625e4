// Package gallerize maintains the JSON catalogs behind a static photo
// gallery: a flat list of photo records and a grouping of photo IDs by
// source folder.
package gallerize

import "fmt"

// Config holds configuration for a catalog update.
type Config struct {
	GalleryDir string // root holding one subdirectory per photo group
	InfoPath   string // flat photo list (photosInfo.json)
	GroupPath  string // group membership list (photos.json)
	Dedupe     bool   // skip files already present in the loaded catalog
}

// Extension is the icon layout block carried by every photo record. The
// gallery frontend reads it; the indexer always writes the defaults.
type Extension struct {
	Size   int    `json:"size"`
	Offset [2]int `json:"offset"`
}

// Photo is one catalog record for an image file.
type Photo struct {
	DirName   string    `json:"dirName"`
	FileName  string    `json:"fileName"`
	IconID    string    `json:"iconID"`
	Extension Extension `json:"extension"`
}

// PhotoGroup names a gallery folder and lists the iconIDs found under it.
type PhotoGroup struct {
	Name     string   `json:"name"`
	Children []string `json:"children"`
}

// Catalog is the in-memory form of both catalog files.
type Catalog struct {
	Photos []Photo
	Groups []*PhotoGroup
}

const defaultIconSize = 64

// IconID builds the identifier that joins the flat photo list to the group
// membership lists: "<width>.<height> <fileName>".
func IconID(width int, height int, fileName string) string {
	return fmt.Sprintf("%d.%d %s", width, height, fileName)
}
