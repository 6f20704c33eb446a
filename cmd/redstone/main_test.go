package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/blockvault/redstone/internal/xcompress"
	"github.com/blockvault/redstone/nbt"
	"github.com/blockvault/redstone/region"
)

// newTestContext builds a cli.Context whose positional Args are exactly
// args, bypassing App.Run's subcommand routing so the command Action
// functions can be exercised directly against fixture files.
func newTestContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := set.Parse(args); err != nil {
		t.Fatalf("flag.Parse: %v", err)
	}
	return cli.NewContext(&cli.App{}, set, nil)
}

// buildFixtureDoc mirrors the "Gamemode edit" scenario: a root Compound
// with an Int tag, the same shape setgamemode.c operates on.
func buildFixtureDoc() *nbt.Document {
	root := nbt.NewCompound(nbt.Entry{Name: "GameType", Value: nbt.NewInt(0)})
	return nbt.NewDocument("", root)
}

func TestSetIntUpdatesFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "redstone-cli-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "level.dat")
	doc := buildFixtureDoc()
	if err := nbt.WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	doc.Free()

	ctx := newTestContext(t, path, "GameType", "2")
	if err := setInt(ctx); err != nil {
		t.Fatalf("setInt: %v", err)
	}

	reparsed, err := nbt.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	defer reparsed.Free()

	if got := nbt.Find(reparsed.Root, "GameType").Int64(); got != 2 {
		t.Fatalf("GameType = %d, want 2", got)
	}
}

func TestDumpNBTPrintsTree(t *testing.T) {
	dir, err := os.MkdirTemp("", "redstone-cli-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "level.dat")
	doc := buildFixtureDoc()
	if err := nbt.WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	doc.Free()

	ctx := newTestContext(t, path)
	stdout := captureStdout(t, func() {
		if err := dumpNBT(ctx); err != nil {
			t.Fatalf("dumpNBT: %v", err)
		}
	})
	if !bytes.Contains(stdout, []byte("GameType")) {
		t.Fatalf("dump output missing GameType: %q", stdout)
	}
}

func TestDumpRegionPrintsChunk(t *testing.T) {
	dir, err := os.MkdirTemp("", "redstone-cli-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	regionPath := filepath.Join(dir, "r.0.0.mcr")
	r, err := region.Open(regionPath, true)
	if err != nil {
		t.Fatalf("region.Open: %v", err)
	}

	doc := buildFixtureDoc()
	raw, err := nbt.Write(doc)
	if err != nil {
		t.Fatalf("nbt.Write: %v", err)
	}
	doc.Free()

	compressed, err := xcompress.Deflate(raw, xcompress.Zlib)
	if err != nil {
		t.Fatalf("Deflate: %v", err)
	}
	if err := r.SetChunk(3, 4, compressed, region.Zlib, 1); err != nil {
		t.Fatalf("SetChunk: %v", err)
	}
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	r.Close()

	ctx := newTestContext(t, regionPath, "3", "4")
	stdout := captureStdout(t, func() {
		if err := dumpRegion(ctx); err != nil {
			t.Fatalf("dumpRegion: %v", err)
		}
	})
	if !bytes.Contains(stdout, []byte("GameType")) {
		t.Fatalf("dump output missing GameType: %q", stdout)
	}
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// what was written. The CLI commands print directly to os.Stdout rather
// than a configurable writer, so tests must intercept the fd.
func captureStdout(t *testing.T, fn func()) []byte {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.Bytes()
}

