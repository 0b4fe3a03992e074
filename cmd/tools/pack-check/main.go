package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/annel0/ambient-footsteps/internal/blockmap"
	"github.com/annel0/ambient-footsteps/internal/config"
	"github.com/annel0/ambient-footsteps/internal/host"
	"github.com/annel0/ambient-footsteps/internal/resource"
	"github.com/annel0/ambient-footsteps/internal/vec"
)

func main() {
	var (
		strict    = flag.Bool("strict", false, "Fail when maps reference acoustics missing from the library")
		lookup    = flag.String("lookup", "", "Block keys to resolve (comma-separated, e.g. stone,planks^2+carpet)")
		substance = flag.String("substance", "", "Material category used for -lookup fallback")
		verbose   = flag.Bool("v", false, "Print every loaded file")
	)
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = config.Default().Footsteps.GetPackDirs()
	}

	packs, err := resource.OpenAll(paths)
	if err != nil {
		log.Fatalf("❌ Failed to open packs: %v", err)
	}
	defer resource.ClosePacks(packs)

	res := resource.Load(packs)
	fmt.Println(res.Report)

	if *verbose {
		for _, f := range res.Report.Files {
			status := "ok"
			if !f.OK() {
				status = f.Err.Error()
			}
			fmt.Printf("  %-20s %-18s %4d  %s\n", f.Pack, f.File, f.Entries, status)
		}
	}

	stats := res.Registry.Stats()
	fmt.Printf("blocks=%d primitives=%d armor=%d acoustics=%d\n", stats.Blocks, stats.Primitives, stats.Armor, res.Library.Len())

	missing := res.MissingAcoustics()
	sort.Strings(missing)
	for _, name := range missing {
		fmt.Printf("missing acoustic: %s\n", name)
	}

	if *lookup != "" {
		for _, raw := range strings.Split(*lookup, ",") {
			printLookup(res.Registry, raw, host.Substance(*substance))
		}
	}

	if len(res.Report.Failed()) > 0 || (*strict && len(missing) > 0) {
		os.Exit(1)
	}
}

func printLookup(reg *blockmap.Registry, raw string, substance host.Substance) {
	key, err := blockmap.ParseBlockKey(raw)
	if err != nil {
		fmt.Printf("%s: %v\n", raw, err)
		return
	}
	state := host.BlockState{Name: key.Name, Variant: key.Variant, Substance: substance}
	assoc := reg.LookupSubstrate(state, vec.Vec3{}, key.Substrate)
	fmt.Printf("%s -> %s %q\n", raw, assoc.Provenance, assoc.Acoustics)
}
