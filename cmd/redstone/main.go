package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/blockvault/redstone/internal/xcompress"
	"github.com/blockvault/redstone/nbt"
	"github.com/blockvault/redstone/region"
)

func main() {
	app := &cli.App{
		Name:  "redstone",
		Usage: "inspect and edit NBT documents and region files",
		Commands: []*cli.Command{
			{
				Name:  "dump",
				Usage: "print an NBT document or a region chunk",
				Subcommands: []*cli.Command{
					{
						Name:      "nbt",
						Usage:     "parse and print an NBT file",
						ArgsUsage: "<path>",
						Action:    dumpNBT,
					},
					{
						Name:      "region",
						Usage:     "parse and print one chunk from a region file",
						ArgsUsage: "<path> <x> <z>",
						Action:    dumpRegion,
					},
				},
			},
			{
				Name:      "setint",
				Usage:     "set an integer tag in an NBT file by dotted path",
				ArgsUsage: "<path> <tag-name> <value>",
				Action:    setInt,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dumpNBT(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: redstone dump nbt <path>", 1)
	}
	doc, err := nbt.ReadFile(c.Args().Get(0))
	if err != nil {
		return err
	}
	defer doc.Free()

	if err := nbt.Print(doc.Root, os.Stdout); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

func dumpRegion(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.Exit("usage: redstone dump region <path> <x> <z>", 1)
	}
	x, z, err := parseCoords(c.Args().Get(1), c.Args().Get(2))
	if err != nil {
		return err
	}

	r, err := region.Open(c.Args().Get(0), false)
	if err != nil {
		return err
	}
	defer r.Close()

	has, err := r.ContainsChunk(x, z)
	if err != nil {
		return err
	}
	if !has {
		return cli.Exit(fmt.Sprintf("no chunk at (%d,%d)", x, z), 1)
	}

	compressed, err := r.Data(x, z)
	if err != nil {
		return err
	}
	kind, err := r.Compression(x, z)
	if err != nil {
		return err
	}

	raw, err := xcompress.Inflate(compressed, xcompress.Kind(kind))
	if err != nil {
		return err
	}
	doc, err := nbt.Parse(raw)
	if err != nil {
		return err
	}
	defer doc.Free()

	if err := nbt.Print(doc.Root, os.Stdout); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

// setInt generalizes the original setgamemode.c worked example: instead
// of a single hard-coded "GameType" lookup, tag-name accepts a dot-joined
// chain for nbt.FindChain.
func setInt(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.Exit("usage: redstone setint <path> <tag-name> <value>", 1)
	}
	path := c.Args().Get(0)
	tagName := c.Args().Get(1)
	value, err := strconv.ParseInt(c.Args().Get(2), 10, 64)
	if err != nil {
		return cli.Exit(fmt.Sprintf("value not an integer: %q", c.Args().Get(2)), 1)
	}

	doc, err := nbt.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not load NBT file: %s: %v", path, err), 1)
	}

	chain := strings.Split(tagName, ".")
	tag := doc.Root.FindChain(chain...)
	if tag == nil {
		doc.Free()
		return cli.Exit(fmt.Sprintf("no such tag: %s", tagName), 1)
	}

	tag.SetInt64(value)

	if err := nbt.WriteFile(path, doc); err != nil {
		doc.Free()
		return cli.Exit(fmt.Sprintf("could not write to file: %s: %v", path, err), 1)
	}
	doc.Free()

	fmt.Println("tag successfully set.")
	return nil
}

func parseCoords(xs, zs string) (uint8, uint8, error) {
	x, err := strconv.ParseUint(xs, 10, 8)
	if err != nil || x > 31 {
		return 0, 0, cli.Exit(fmt.Sprintf("invalid x coordinate: %q", xs), 1)
	}
	z, err := strconv.ParseUint(zs, 10, 8)
	if err != nil || z > 31 {
		return 0, 0, cli.Exit(fmt.Sprintf("invalid z coordinate: %q", zs), 1)
	}
	return uint8(x), uint8(z), nil
}
