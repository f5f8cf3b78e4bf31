// Command sssp is a single-process demonstration of the read/accessor
// contract a conforming GART reader uses against this repo: it iterates
// inner vertices of each label and pushes across out-edges (spec.md treats
// the graph-analytics runtime itself as out of scope, specified only
// through this contract). It does not read vertex properties; edge
// weights come from the add_edge lines themselves.
//
// It is not a real BSP engine: PEval/IncEval collapse into a single
// in-process worklist loop since there is only one partition here and no
// outer-vertex messaging to perform. The structure is grounded line for
// line on property_sssp.h's PEval/IncEval: PEval seeds the source and
// relaxes its immediate out-edges, IncEval drains a worklist of vertices
// whose distance just improved until the worklist is dry.
package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamware/gartgraph/internal/columnstore"
	"github.com/dreamware/gartgraph/internal/config"
	"github.com/dreamware/gartgraph/internal/graphstore"
	"github.com/dreamware/gartgraph/internal/idparser"
	"github.com/dreamware/gartgraph/internal/schema"
	"github.com/dreamware/gartgraph/internal/translator"
	"github.com/dreamware/gartgraph/internal/unifiedlog"
	"github.com/dreamware/gartgraph/internal/vertextable"
)

var logFatal = logrus.Fatalf

var log = logrus.WithField("component", "sssp")

// edge is one adjacency-list entry this demo keeps alongside the
// GraphStore: GART itself stores graph topology separately from vertex
// properties, which this minimal reader represents as a plain map rather
// than reimplementing the full topology store.
type edge struct {
	dst    idparser.GID
	weight int
}

func main() {
	v := viper.New()
	var sourceGID uint64
	cmd := &cobra.Command{
		Use:   "sssp",
		Short: "Demonstrate the inner-vertex/property/out-edge accessor contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v, sourceGID)
		},
	}
	config.BindFlags(cmd, v)
	cmd.Flags().Uint64Var(&sourceGID, "source-gid", 0, "GID of the source vertex to run single-source shortest paths from")

	if err := cmd.Execute(); err != nil {
		logFatal("%v", err)
	}
}

func run(v *viper.Viper, sourceGID uint64) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	mappingDoc, err := os.ReadFile(cfg.RGMappingPath)
	if err != nil {
		return fmt.Errorf("sssp: read RGMapping: %w", err)
	}
	mapping, err := translator.ParseRGMapping(mappingDoc)
	if err != nil {
		return fmt.Errorf("sssp: %w", err)
	}

	parser := idparser.New(cfg.NumbersOfSubgraphs, mapping.VertexLabelNum)
	sch := schema.New(mapping.VertexLabelNum)
	gs := graphstore.New(cfg.Partition, cfg.MetaPrefix, "sssp-demo", parser, sch, nil, 0)

	for _, ty := range mapping.Types {
		if ty.Type != "VERTEX" {
			continue
		}
		vt := vertextable.New(ty.ID, 1<<20, parser)
		store := columnstore.New(nil, 1<<20, 64)
		gs.AddVertexLabel(ty.ID, vt, store)
	}

	adj := make(map[idparser.GID][]edge)
	if err := loadUnifiedLog(os.Stdin, gs, adj); err != nil {
		return err
	}

	dist := shortestPaths(gs, adj, idparser.GID(sourceGID))

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, ty := range mapping.Types {
		if ty.Type != "VERTEX" {
			continue
		}
		vt, ok := gs.VertexTable(ty.ID)
		if !ok {
			continue
		}
		for _, gid := range vt.InnerVertices() {
			d, ok := dist[gid]
			if !ok {
				d = math.MaxInt32
			}
			fmt.Fprintf(w, "%d %d\n", uint64(gid), d)
		}
	}
	return nil
}

// loadUnifiedLog replays add_vertex/add_edge lines into gs's vertex
// tables and the adjacency map. The first property column of an add_edge
// line is treated as an integer edge weight if present, 1 otherwise.
func loadUnifiedLog(r io.Reader, gs *graphstore.GraphStore, adj map[idparser.GID][]edge) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := unifiedlog.Decode(line)
		if err != nil {
			log.Errorf("decode line: %v", err)
			continue
		}

		switch rec.Kind {
		case unifiedlog.AddVertex:
			_, label, _ := gs.Parser.Parse(idparser.GID(rec.GID))
			vt, ok := gs.VertexTable(int(label))
			if !ok {
				continue
			}
			if _, err := vt.AddInner(idparser.GID(rec.GID)); err != nil {
				log.Errorf("add_inner label=%d: %v", label, err)
			}

		case unifiedlog.AddEdge:
			weight := 1
			if len(rec.Props) > 0 {
				if n, err := strconv.Atoi(rec.Props[0]); err == nil {
					weight = n
				}
			}
			src := idparser.GID(rec.SrcGID)
			dst := idparser.GID(rec.DstGID)
			adj[src] = append(adj[src], edge{dst: dst, weight: weight})
		}
	}
	return scanner.Err()
}

// shortestPaths implements PEval/IncEval as a single in-process worklist
// loop: PEval seeds the source at distance 0 and relaxes its out-edges;
// IncEval repeatedly drains the set of vertices whose distance just
// improved, relaxing their out-edges in turn, until the worklist is dry.
func shortestPaths(gs *graphstore.GraphStore, adj map[idparser.GID][]edge, source idparser.GID) map[idparser.GID]int {
	dist := map[idparser.GID]int{source: 0}
	worklist := []idparser.GID{source}

	for len(worklist) > 0 {
		var next []idparser.GID
		for _, src := range worklist {
			srcDist := dist[src]
			for _, e := range adj[src] {
				newDist := srcDist + e.weight
				if cur, ok := dist[e.dst]; !ok || newDist < cur {
					dist[e.dst] = newDist
					next = append(next, e.dst)
				}
			}
		}
		worklist = next
	}
	return dist
}
