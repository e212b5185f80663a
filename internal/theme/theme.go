// Package theme finds pre-made image sets on disk.
//
// A theme named NAME lives in <root>/NAME/ and exists iff that directory
// holds NAME_01.png. Every image file in the directory belongs to the theme,
// in lexical order.
package theme

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/slides"
)

var imagePattern = glob.MustCompile("*.{png,jpg,jpeg,gif,webp,bmp}")

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	if strings.HasPrefix(base, ".") {
		return false
	}
	return imagePattern.Match(base)
}

// Theme is one discovered image set.
type Theme struct {
	Name  string
	Dir   string
	Items []slides.Item
}

// Marker returns the file whose presence defines a theme called name.
func Marker(name string) string {
	return name + "_01.png"
}

// Exists reports whether root holds a theme called name.
func Exists(root, name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return false
	}
	info, err := os.Stat(filepath.Join(root, name, Marker(name)))
	return err == nil && !info.IsDir()
}

// Load returns the theme called name under root.
func Load(root, name string) (*Theme, error) {
	if !Exists(root, name) {
		return nil, errors.NewWithKind(errors.ThemeNotFound,
			"theme "+name+" not found (expected "+filepath.Join(root, name, Marker(name))+")", nil)
	}
	dir := filepath.Join(root, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read theme directory %s", dir)
	}

	var items []slides.Item
	for _, entry := range entries {
		if entry.IsDir() || !IsImage(entry.Name()) {
			continue
		}
		items = append(items, slides.Item(filepath.Join(dir, entry.Name())))
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	return &Theme{Name: name, Dir: dir, Items: items}, nil
}

// List returns every theme under root, sorted by name. A missing root yields
// no themes.
func List(root string) ([]*Theme, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read themes directory %s", root)
	}

	var themes []*Theme
	for _, entry := range entries {
		if !entry.IsDir() || !Exists(root, entry.Name()) {
			continue
		}
		t, err := Load(root, entry.Name())
		if err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, nil
}
