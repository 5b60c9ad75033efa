// Command canonctl administers the arthouse catalog: seed imports, score
// recomputes, CSV exports and live ranking probes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	service "github.com/okian/arthouse/internal/app"
	"github.com/okian/arthouse/internal/config"
	"github.com/okian/arthouse/internal/domain/ranking"
	"github.com/okian/arthouse/internal/probe"
	"github.com/okian/arthouse/internal/seed"
	"github.com/okian/arthouse/pkg/logger"
)

const (
	topChanges          = 20
	defaultProbeRuns    = 1000
	defaultProbeTimeout = 30 * time.Second
	exportPermission    = 0o644
)

var errUsage = errors.New("usage")

const usage = `canonctl administers the arthouse catalog.

Usage:
  canonctl import    -file seed.{json,yaml}
  canonctl recompute
  canonctl export    [-out scores.csv]
  canonctl probe     [-url http://localhost:5000] [-runs 1000] [-workers N] [-curated] [-output report.json]

Configuration is read from $ARTHOUSE_CONFIG and ARTHOUSE_* variables.
import, recompute and export need data_dir.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Stderr.WriteString(usage)
		}
		os.Stderr.WriteString("canonctl: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// run executes one subcommand. Reports go to stdout, logs to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.InitWith(stderr, cfg.LogFormat); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "import":
		return runImport(ctx, cfg, rest, stdout)
	case "recompute":
		return runRecompute(ctx, cfg, rest, stdout)
	case "export":
		return runExport(ctx, cfg, rest, stdout)
	case "probe":
		return runProbe(ctx, cfg, rest, stdout)
	case "help", "-h", "-help", "--help":
		_, _ = io.WriteString(stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// openService starts the catalog on the configured badger directory.
func openService(ctx context.Context, cfg *config.Config) (*service.Service, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("data_dir is not set; export ARTHOUSE_DATA_DIR")
	}
	svc := service.New(
		service.WithLogger(logger.Get().Named("catalog")),
		service.WithDataDir(cfg.DataDir),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithSignificantDelta(cfg.SignificantDelta),
		service.WithRanking(
			ranking.WithCuratedTitles(cfg.CuratedTitles),
			ranking.WithPriorityDirectors(cfg.PriorityDirectors),
		),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func runImport(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", "", "seed file (.json, .yaml or .yml)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if *file == "" {
		return fmt.Errorf("%w: import needs -file", errUsage)
	}

	res, err := seed.Load(*file)
	if err != nil {
		return err
	}
	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	rep, err := svc.Import(ctx, res.Films)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "imported %s: %d created, %d updated, %d failed, %d rejected\n",
		*file, rep.Created, rep.Updated, rep.Failed, len(res.Rejected))
	for _, r := range res.Rejected {
		fmt.Fprintf(stdout, "  rejected record %d %q: %s\n", r.Index, r.Title, r.Reason)
	}
	for _, e := range rep.Errors {
		fmt.Fprintf(stdout, "  failed %s\n", e)
	}
	for _, d := range res.Dropped {
		fmt.Fprintf(stdout, "  dropped from record %d %q: %s\n", d.Index, d.Title, d.Reason)
	}

	if len(res.Directors) == 0 {
		return nil
	}
	drep, err := svc.ImportDirectors(ctx, res.Directors)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "imported directors: %d created, %d updated, %d failed\n",
		drep.Created, drep.Updated, drep.Failed)
	for _, e := range drep.Errors {
		fmt.Fprintf(stdout, "  failed %s\n", e)
	}
	return nil
}

func runRecompute(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("recompute", flag.ContinueOnError)
	top := fs.Int("top", topChanges, "significant changes to print")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if *top < 0 {
		return fmt.Errorf("%w: -top must not be negative", errUsage)
	}

	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	rep, err := svc.Recompute(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "recomputed %d films for %d in %.0fms: %d changed, %d unchanged, %d failed\n",
		rep.Total, rep.CurrentYear, rep.DurationMs, rep.Changed, rep.Unchanged, rep.Failed)
	if len(rep.Significant) == 0 {
		return nil
	}
	fmt.Fprintf(stdout, "%d significant changes (|delta| > %d):\n", len(rep.Significant), cfg.SignificantDelta)
	for _, c := range rep.Top(*top) {
		director := "Unknown"
		if len(c.Directors) > 0 {
			director = strings.Join(c.Directors, ", ")
		}
		fmt.Fprintf(stdout, "  %s (%d) - %s: %d -> %d (%+d)\n", c.Title, c.Year, director, c.OldScore, c.NewScore, c.Delta)
	}
	if extra := len(rep.Significant) - *top; extra > 0 {
		fmt.Fprintf(stdout, "  ... and %d more\n", extra)
	}
	return nil
}

func runExport(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("out", "", "CSV file; stdout when empty")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	w := stdout
	if *out != "" {
		f, err := os.OpenFile(*out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, exportPermission)
		if err != nil {
			return fmt.Errorf("create export: %w", err)
		}
		defer f.Close()
		w = f
	}
	n, err := svc.ExportScores(ctx, w)
	if err != nil {
		return err
	}
	if *out != "" {
		fmt.Fprintf(stdout, "exported %d films to %s\n", n, *out)
	}
	return nil
}

func runProbe(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	var (
		baseURL = fs.String("url", "http://localhost"+cfg.Addr, "base URL of the catalog server")
		runs    = fs.Int("runs", defaultProbeRuns, "shuffle requests to issue")
		workers = fs.Int("workers", runtime.NumCPU()*2, "concurrent requests")
		timeout = fs.Duration("timeout", defaultProbeTimeout, "HTTP request timeout")
		curated = fs.Bool("curated", true, "check curated ordering against curated_titles")
		output  = fs.String("output", "", "JSON report file")
		verbose = fs.Bool("verbose", false, "log every run")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	pc := &probe.Config{
		BaseURL:   strings.TrimRight(*baseURL, "/"),
		Runs:      *runs,
		Workers:   *workers,
		Timeout:   *timeout,
		Threshold: cfg.HighTierThreshold,
		Head:      cfg.ReservedHead,
		Output:    *output,
		Verbose:   *verbose,
	}
	if *curated {
		pc.Curated = cfg.CuratedTitles
	}

	rep, err := probe.Run(ctx, pc)
	fmt.Fprintf(stdout, "shuffle: %d runs, %d failed, %d head violations; head frequency %.3f..%.3f (expected %.3f)\n",
		rep.Shuffle.Runs, rep.Shuffle.Failed, rep.Shuffle.Violations,
		rep.Shuffle.MinFreq, rep.Shuffle.MaxFreq, rep.Shuffle.Expected)
	if rep.Curated.Checked {
		fmt.Fprintf(stdout, "curated: ok=%v expected=%v got=%v\n", rep.Curated.OK, rep.Curated.Expected, rep.Curated.Got)
	}
	return err
}
