// Command writer ingests unified-log lines (cmd/translator's output) into
// a GraphStore for one partition, advancing the epoch and publishing
// blob-schema snapshots to the metadata registry every logs-per-epoch
// records (spec.md §4.4, §6).
//
// Structure mirrors the teacher's cmd/node: an HTTP server for health and
// admin endpoints started in a goroutine, a background ingest loop, and
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/dreamware/gartgraph/internal/columnstore"
	"github.com/dreamware/gartgraph/internal/config"
	"github.com/dreamware/gartgraph/internal/graphstore"
	"github.com/dreamware/gartgraph/internal/idparser"
	"github.com/dreamware/gartgraph/internal/metrics"
	"github.com/dreamware/gartgraph/internal/registry"
	"github.com/dreamware/gartgraph/internal/schema"
	"github.com/dreamware/gartgraph/internal/translator"
	"github.com/dreamware/gartgraph/internal/unifiedlog"
	"github.com/dreamware/gartgraph/internal/vertextable"
)

var logFatal = logrus.Fatalf

var log = logrus.WithField("component", "writer")

func main() {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "writer",
		Short: "Ingest unified-log lines into a partitioned GraphStore",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}
	config.BindFlags(cmd, v)

	if err := cmd.Execute(); err != nil {
		logFatal("%v", err)
	}
}

func run(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log = log.WithField("partition", cfg.Partition)

	machine := cfg.MachineID
	if machine == "" {
		machine = uuid.NewString()
	}

	mappingDoc, err := os.ReadFile(cfg.RGMappingPath)
	if err != nil {
		return fmt.Errorf("writer: read RGMapping: %w", err)
	}
	mapping, err := translator.ParseRGMapping(mappingDoc)
	if err != nil {
		return fmt.Errorf("writer: %w", err)
	}

	var reg registry.Client = registry.NewInMemory()
	if cfg.RegistryAddr != "" {
		reg = registry.NewHTTPClient(cfg.RegistryAddr)
	}

	parser := idparser.New(cfg.NumbersOfSubgraphs, mapping.VertexLabelNum)
	gs := buildGraphStore(cfg, mapping, parser, reg, machine)

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/epochs", func(w http.ResponseWriter, _ *http.Request) {
		epochs := gs.KnownEpochs()
		slices.Sort(epochs)
		fmt.Fprintf(w, "%v\n", epochs)
	})

	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Infof("listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logFatal("listen: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ingestStdin(ctx, gs, m, cfg.LogsPerEpoch) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutdown signal received")
	case err := <-done:
		if err != nil {
			log.Errorf("ingest loop stopped: %v", err)
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// buildGraphStore registers one label per vertex/edge table found in
// mapping, so the writer is ready to apply unified-log records the moment
// they arrive.
func buildGraphStore(cfg *config.Config, mapping *translator.RGMapping, parser *idparser.Parser, reg registry.Client, machine string) *graphstore.GraphStore {
	sch := schema.New(mapping.VertexLabelNum)
	gs := graphstore.New(cfg.Partition, cfg.MetaPrefix, machine, parser, sch, reg, 0)

	for _, ty := range mapping.Types {
		cols := make([]columnstore.ColumnSpec, 0, len(ty.PropertyDefList))
		schemaCols := make([]schema.Column, 0, len(ty.PropertyDefList))
		for _, p := range ty.PropertyDefList {
			cols = append(cols, columnstore.ColumnSpec{VLen: 64, Updatable: true})
			schemaCols = append(schemaCols, schema.Column{Name: p.ColumnName, DType: schema.String, VLen: 64, Updatable: true})
		}

		switch ty.Type {
		case "VERTEX":
			vt := vertextable.New(ty.ID, 1<<20, parser)
			store := columnstore.New(cols, 1<<20, 64)
			gs.AddVertexLabel(ty.ID, vt, store)
			gs.TableIndex.AddVertexTable(ty.TableName, ty.ID)
			sch.AddLabel(&schema.LabelSchema{ID: ty.ID, Name: ty.Label, Columns: schemaCols})
		case "EDGE":
			elabel := ty.ID - mapping.VertexLabelNum
			store := columnstore.New(cols, 1<<20, 64)
			gs.AddEdgeLabel(elabel, store)
			gs.TableIndex.AddEdgeTable(ty.TableName, elabel)
			sch.AddLabel(&schema.LabelSchema{ID: ty.ID, Name: ty.Label, Columns: schemaCols})
		}
	}
	return gs
}

// ingestStdin reads one unified-log line at a time, applies it to gs, and
// advances the epoch every logsPerEpoch accepted records.
func ingestStdin(ctx context.Context, gs *graphstore.GraphStore, m *metrics.Registry, logsPerEpoch int) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var applied int
	var lastEpoch uint64

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Text()
		if line == "" {
			continue
		}
		rec, err := unifiedlog.Decode(line)
		if err != nil {
			log.Errorf("decode unified-log line: %v", err)
			continue
		}

		if err := applyRecord(gs, rec); err != nil {
			log.Errorf("apply record: %v", err)
			continue
		}
		applied++
		lastEpoch = rec.Epoch

		if applied%logsPerEpoch == 0 {
			if err := gs.UpdateBlob(ctx, lastEpoch); err != nil {
				log.Errorf("update blob at epoch %d: %v", lastEpoch, err)
			}
			m.CurrentEpoch.WithLabelValues(fmt.Sprint(gs.Partition)).Set(float64(lastEpoch))
		}
	}
	return scanner.Err()
}

func applyRecord(gs *graphstore.GraphStore, rec *unifiedlog.Record) error {
	switch rec.Kind {
	case unifiedlog.AddVertex:
		return applyVertex(gs, rec)
	case unifiedlog.AddEdge:
		return applyEdge(gs, rec)
	default:
		return fmt.Errorf("writer: unrecognized record kind %q", rec.Kind)
	}
}

func applyVertex(gs *graphstore.GraphStore, rec *unifiedlog.Record) error {
	_, label, _ := gs.Parser.Parse(idparser.GID(rec.GID))
	vt, ok := gs.VertexTable(int(label))
	if !ok {
		return fmt.Errorf("writer: no vertex table for label %d", label)
	}
	offset, err := vt.AddInner(idparser.GID(rec.GID))
	if err != nil {
		return fmt.Errorf("writer: add_inner label %d: %w", label, err)
	}

	store, ok := gs.Property(int(label))
	if !ok {
		return nil
	}
	rowRec := make(columnstore.Record, len(rec.Props))
	for i, p := range rec.Props {
		rowRec[i] = []byte(p)
	}
	return store.Insert(offset, rowRec, 0, rec.Epoch)
}

// applyEdge stores edge properties keyed by the source GID's offset bits.
// Real GART tracks edges in a separate adjacency structure this demo
// writer doesn't implement (see cmd/sssp for the minimal adjacency index
// a reader needs); this only exercises the edge property store itself.
func applyEdge(gs *graphstore.GraphStore, rec *unifiedlog.Record) error {
	store, ok := gs.EdgeProperty(rec.EdgeLabelLocal)
	if !ok {
		return nil
	}
	rowRec := make(columnstore.Record, len(rec.Props))
	for i, p := range rec.Props {
		rowRec[i] = []byte(p)
	}
	return store.Insert(int(rec.SrcGID%(1<<20)), rowRec, 0, rec.Epoch)
}
