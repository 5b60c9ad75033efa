package probe

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/arthouse/pkg/logger"
)

const reportFilePermission = 0o600

// Defaults applied to zero Config fields.
const (
	DefaultRuns      = 1000
	DefaultTimeout   = 30 * time.Second
	DefaultThreshold = 70
	DefaultHead      = 50
)

func (c *Config) applyDefaults() {
	if c.Runs <= 0 {
		c.Runs = DefaultRuns
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Head <= 0 {
		c.Head = DefaultHead
	}
}

// Run probes the server at cfg.BaseURL. The returned error is non-nil when the
// server is unreachable or a guarantee was violated; the report is filled either way.
func Run(ctx context.Context, cfg *Config) (Report, error) {
	cfg.applyDefaults()
	log := logger.Get().Named("probe")
	rep := Report{Started: time.Now()}
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "checking service health", logger.String("url", cfg.BaseURL))
	if err := c.health(ctx); err != nil {
		return rep, err
	}

	log.Info(ctx, "probing shuffle mode", logger.Int("runs", cfg.Runs), logger.Int("workers", cfg.Workers))
	rep.Shuffle = probeShuffle(ctx, c, cfg, log)
	log.Info(ctx, "shuffle probe finished",
		logger.Int("runs", rep.Shuffle.Runs),
		logger.Int("failed", rep.Shuffle.Failed),
		logger.Int("violations", rep.Shuffle.Violations),
		logger.Int("high_tier", rep.Shuffle.HighTier),
		logger.Float64("expected_freq", rep.Shuffle.Expected),
		logger.Float64("min_freq", rep.Shuffle.MinFreq),
		logger.Float64("max_freq", rep.Shuffle.MaxFreq),
	)

	if len(cfg.Curated) > 0 {
		cur, err := probeCurated(ctx, c, cfg.Curated)
		if err != nil {
			return rep, err
		}
		rep.Curated = cur
		log.Info(ctx, "curated probe finished",
			logger.Bool("ok", cur.OK),
			logger.Strings("expected", cur.Expected),
			logger.Strings("got", cur.Got))
	}

	rep.Duration = time.Since(rep.Started)
	if cfg.Output != "" {
		if err := saveReport(cfg.Output, rep); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	if !rep.OK() {
		return rep, fmt.Errorf("%w: %d shuffle violations, %d failed requests, curated ok=%v",
			ErrViolation, rep.Shuffle.Violations, rep.Shuffle.Failed, !rep.Curated.Checked || rep.Curated.OK)
	}
	return rep, nil
}

func saveReport(path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, reportFilePermission); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
