// Package main is scenetool, a headless inspector for Verdant scene and
// greenhouse files. It prints per-category octree statistics and can rebuild
// the trees (recenter, new leaf capacity) before writing the scene back.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Faultbox/verdant/internal/arborist"
	"github.com/Faultbox/verdant/internal/engine/octree"
	"github.com/Faultbox/verdant/internal/greenhouse"
	"github.com/Faultbox/verdant/internal/logger"
)

var (
	flagGreenhouse = flag.String("greenhouse", "greenhouse.yaml", "Greenhouse file with category configurations")
	flagScene      = flag.String("scene", "scene.yaml", "Scene file with placed plants")
	flagRecenter   = flag.Bool("recenter", false, "Recenter every tree around its records")
	flagCapacity   = flag.Int("capacity", 0, "Rebuild trees with this leaf capacity (0 keeps the current one)")
	flagOut        = flag.String("out", "", "Write the scene back to this path after rebuilds")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	level := "info"
	if *flagDebug {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scenetool: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := greenhouse.LoadStore(*flagGreenhouse, logger.Named("greenhouse"))
	if err != nil {
		return err
	}

	// No collision surface is needed for inspection; strokes never run.
	orch := arborist.New(store, nil, 0, arborist.Callbacks{}, logger.Named("arborist"))
	if err := orch.LoadScene(*flagScene); err != nil {
		return err
	}

	for _, name := range store.Categories() {
		if *flagCapacity > 0 {
			if err := orch.Reconfigure(name, *flagCapacity); err != nil {
				return err
			}
		}
		if *flagRecenter {
			if err := orch.Recenter(name); err != nil {
				return err
			}
		}
	}

	printReport(store, orch)

	if *flagOut != "" {
		if err := orch.SaveScene(*flagOut); err != nil {
			return err
		}
		fmt.Printf("\nscene written to %s\n", *flagOut)
	}
	return nil
}

type treeStats struct {
	nodes    int
	leaves   int
	maxDepth int
	maxLeaf  int
}

func collectStats(tree *octree.Tree) treeStats {
	var s treeStats
	tree.WalkNodes(func(b octree.Bounds, depth, count int, leaf bool) bool {
		s.nodes++
		if depth > s.maxDepth {
			s.maxDepth = depth
		}
		if leaf {
			s.leaves++
			if count > s.maxLeaf {
				s.maxLeaf = count
			}
		}
		return true
	})
	return s
}

func printReport(store *greenhouse.Store, orch *arborist.Orchestrator) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPLANTS\tVARIANTS\tNODES\tLEAVES\tDEPTH\tMAX LEAF\tHALF EXTENT")

	totalPlants := 0
	for _, name := range store.Categories() {
		cfg, _ := store.Category(name)
		tree := orch.Tree(name)
		stats := collectStats(tree)
		totalPlants += tree.Len()

		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			name, tree.Len(), len(cfg.LOD.Variants),
			stats.nodes, stats.leaves, stats.maxDepth, stats.maxLeaf,
			tree.Bounds().HalfExtent)
	}
	w.Flush()
	fmt.Printf("\n%d plants in %d categories\n", totalPlants, len(store.Categories()))
}
