package nbt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blockvault/redstone/internal/xcompress"
)

// Document is a parsed NBT document: a (root-name, root-tag) pair where
// Root is always of kind Compound. A Document is owned by exactly one
// logical goroutine at a time, like a Tag or a Region.
type Document struct {
	RootName string
	Root     *Tag
}

// NewDocument wraps an existing root Compound tag as a Document, taking
// ownership (retaining root). Root must be of kind Compound.
func NewDocument(rootName string, root *Tag) *Document {
	if root.Kind() != Compound {
		diagf("nbt: NewDocument root is %s, want Compound", root.Kind())
	}
	root.Retain()
	return &Document{RootName: rootName, Root: root}
}

// Free releases the document's root tag, recursively freeing the tree if
// this was the last reference.
func (d *Document) Free() {
	if d == nil || d.Root == nil {
		return
	}
	d.Root.Release()
	d.Root = nil
}

// ReadFile reads and parses the NBT document at path (gzip-framed or raw,
// auto-detected).
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("nbt: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("nbt: parse %s: %w", path, err)
	}
	return doc, nil
}

// WriteFile serializes doc, gzip-frames the output, and writes it to path
// atomically via a temp file in the same directory followed by a rename.
func WriteFile(path string, doc *Document) error {
	raw, err := Write(doc)
	if err != nil {
		return fmt.Errorf("nbt: write %s: %w", path, err)
	}
	framed, err := xcompress.Deflate(raw, xcompress.Gzip)
	if err != nil {
		return fmt.Errorf("nbt: frame %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".nbt-*.tmp")
	if err != nil {
		return fmt.Errorf("nbt: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(framed); err != nil {
		tmp.Close()
		return fmt.Errorf("nbt: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("nbt: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("nbt: rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}
