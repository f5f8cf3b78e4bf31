// Command translator runs the binlog-to-graph translator (spec.md §4.5):
// it reads newline-delimited binlog JSON events from stdin, converts each
// into a unified-log line using an RGMapping document, and writes the
// result to stdout for a writer process (cmd/writer) to consume.
//
// Configuration is resolved from flags/environment via internal/config,
// following the teacher's env-var-driven cmd/node and cmd/coordinator but
// expressed as a cobra command so --help documents every tunable.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dreamware/gartgraph/internal/config"
	"github.com/dreamware/gartgraph/internal/metrics"
	"github.com/dreamware/gartgraph/internal/translator"
)

// logFatal is a var for the same reason the teacher's cmd/node keeps
// logFatal as a var: tests can swap it out to avoid terminating the
// process.
var logFatal = logrus.Fatalf

var log = logrus.WithField("component", "translator")

func main() {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "translator",
		Short: "Translate binlog JSON events into unified-log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v)
		},
	}
	config.BindFlags(cmd, v)

	if err := cmd.Execute(); err != nil {
		logFatal("%v", err)
	}
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log = log.WithField("partition", cfg.Partition)

	mappingDoc, err := os.ReadFile(cfg.RGMappingPath)
	if err != nil {
		return fmt.Errorf("translator: read RGMapping: %w", err)
	}
	mapping, err := translator.ParseRGMapping(mappingDoc)
	if err != nil {
		return fmt.Errorf("translator: %w", err)
	}

	tr, err := translator.New(mapping, cfg.NumbersOfSubgraphs, cfg.LogsPerEpoch)
	if err != nil {
		return fmt.Errorf("translator: %w", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	go serveMetrics(cfg.ListenAddr, reg)

	return translateStream(context.Background(), tr, os.Stdin, os.Stdout, m)
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	log.Infof("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server: %v", err)
	}
}

// translateStream reads one binlog JSON event per line from r, translates
// each, and writes the resulting unified-log line to w. Dropped messages
// are counted; parse errors and ErrUnsupported operations are logged and
// counted. None is fatal: a single bad event should not bring the stream down.
func translateStream(ctx context.Context, tr *translator.Translator, r io.Reader, w io.Writer, m *metrics.Registry) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		result, err := tr.Translate(line)
		if err != nil {
			if errors.Is(err, translator.ErrUnsupported) {
				m.MessagesDropped.WithLabelValues("unsupported").Inc()
				log.Warnf("dropping unsupported operation: %v", err)
				continue
			}
			m.MessagesDropped.WithLabelValues("parse_error").Inc()
			log.Errorf("translate error: %v", err)
			continue
		}
		if result.Dropped {
			m.MessagesDropped.WithLabelValues("unrecognized").Inc()
			continue
		}

		m.MessagesAccepted.WithLabelValues("").Inc()
		if _, err := bw.WriteString(result.Line + "\n"); err != nil {
			return fmt.Errorf("translator: write output: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("translator: read input: %w", err)
	}
	return bw.Flush()
}
