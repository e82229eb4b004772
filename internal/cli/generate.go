package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/FranksOps/uagen/internal/config"
	"github.com/FranksOps/uagen/internal/generator"
	"github.com/FranksOps/uagen/internal/metrics"
	"github.com/FranksOps/uagen/internal/report"
	"github.com/FranksOps/uagen/internal/storage/open"
)

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntP("number", "n", config.DefaultNumber, "number of user-agents to generate")
	f.Float64("usa-ratio", config.DefaultUSARatio, "fraction of user-agents targeting USA models (0.0-1.0)")
	f.Int("max-attempts", 0, "draw budget before giving up (default 100 per requested user-agent)")
	f.Uint64("seed", 0, "random seed for reproducible output (default random)")
	f.String("report", config.ReportNone, "print a run summary to stderr: none, text or json")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
}

func (a *app) runGenerate(cmd *cobra.Command, _ []string) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if a.cfg.MetricsAddr == "" {
		return a.generate(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	srv := metrics.NewServer(a.cfg.MetricsAddr)
	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Serve(ln) })
	g.Go(func() error {
		defer srv.Stop(context.Background())
		return a.generate(gctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
	})
	return g.Wait()
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func (a *app) generate(ctx context.Context, stdout, stderr io.Writer) error {
	cfg := a.cfg
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)

	start := time.Now()
	logger.Info(strings.Repeat("=", 50))
	logger.Info("start UA generation", "count", cfg.Number, "usa_ratio", cfg.USARatio, "output", cfg.Output)

	kind, err := open.ParseKind(cfg.Backend)
	if err != nil {
		return err
	}
	backend, err := open.New(ctx, kind, cfg.Output)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer backend.Close()

	existing, err := backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	before := existing.Len()
	logger.Debug("loaded store", "entries", before)

	gen := generator.New(generator.Config{
		Rand:        newRand(cfg.Seed),
		MaxAttempts: cfg.MaxAttempts,
	}, logger)

	batch, err := gen.Generate(cfg.Number, cfg.USARatio, existing)
	metrics.RecordBatch(batch, errors.Is(err, generator.ErrGenerationExhausted))
	if err != nil {
		// The store is left as it was; a partial batch is not persisted.
		return err
	}

	if err := backend.Save(ctx, existing); err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	metrics.RecordStoreSize(existing.Len())
	logger.Info("wrote unique UAs", "entries", existing.Len(), "output", cfg.Output)

	for _, ua := range batch.UserAgents() {
		fmt.Fprintln(stdout, ua)
	}

	end := time.Now()
	logger.Info("generated new UAs", "count", len(batch.Samples), "elapsed", end.Sub(start).Round(time.Millisecond))
	logger.Info(strings.Repeat("=", 50))

	summary := report.GenerateSummary(report.Run{
		ID:          runID,
		Requested:   cfg.Number,
		StoreBefore: before,
		StoreAfter:  existing.Len(),
		StartTime:   start,
		EndTime:     end,
	}, batch)

	switch strings.ToLower(cfg.Report) {
	case config.ReportText:
		color.New(color.FgHiCyan).Fprintf(stderr, "%d new user-agents, store holds %d\n", summary.Generated, summary.StoreAfter)
		return report.WriteText(stderr, summary)
	case config.ReportJSON:
		return report.WriteJSON(stderr, summary)
	}
	return nil
}
