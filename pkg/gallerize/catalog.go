package gallerize

import (
	"encoding/json"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

// LoadCatalog reads both catalog files, treating a missing file as an empty
// list. Contents are trusted as written by a previous run.
func LoadCatalog(c *Config) (*Catalog, error) {
	cat := &Catalog{
		Photos: []Photo{},
		Groups: []*PhotoGroup{},
	}

	if err := loadJSON(c.InfoPath, &cat.Photos); err != nil {
		return nil, fmt.Errorf("load %s: %w", c.InfoPath, err)
	}

	if err := loadJSON(c.GroupPath, &cat.Groups); err != nil {
		return nil, fmt.Errorf("load %s: %w", c.GroupPath, err)
	}

	klog.Infof("loaded %d photos, %d groups", len(cat.Photos), len(cat.Groups))
	return cat, nil
}

func loadJSON(path string, v any) error {
	bs, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		klog.V(1).Infof("%s does not exist yet", path)
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(bs, v)
}

// Write serializes both lists back to their files as two-space indented
// JSON, replacing whatever was there.
func (cat *Catalog) Write(c *Config) error {
	if err := writeJSON(c.InfoPath, cat.Photos); err != nil {
		return fmt.Errorf("write %s: %w", c.InfoPath, err)
	}

	if err := writeJSON(c.GroupPath, cat.Groups); err != nil {
		return fmt.Errorf("write %s: %w", c.GroupPath, err)
	}

	klog.Infof("wrote %d photos to %s, %d groups to %s", len(cat.Photos), c.InfoPath, len(cat.Groups), c.GroupPath)
	return nil
}

func writeJSON(path string, v any) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return os.WriteFile(path, append(bs, '\n'), 0o644)
}
