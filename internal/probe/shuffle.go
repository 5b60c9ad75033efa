package probe

import (
	"context"
	"sync"

	"github.com/okian/arthouse/pkg/logger"
)

// headViolation returns the first head position holding a low-tier film, or -1.
// The head is min(head, high-tier films in the response).
func headViolation(films []Film, threshold, head int) int {
	high := 0
	for _, f := range films {
		if f.BaseCanonScore >= threshold {
			high++
		}
	}
	for i := range min(head, high) {
		if films[i].BaseCanonScore < threshold {
			return i
		}
	}
	return -1
}

// probeShuffle issues cfg.Runs shuffle requests on cfg.Workers goroutines.
func probeShuffle(ctx context.Context, c *client, cfg *Config, log logger.Logger) ShuffleReport {
	rep := ShuffleReport{HeadCounts: map[string]int{}}
	var mu sync.Mutex

	runs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range runs {
				page, err := c.shuffled(ctx)

				mu.Lock()
				rep.Runs++
				if err != nil {
					rep.Failed++
					mu.Unlock()
					log.Warn(ctx, "shuffle request failed", logger.Int("run", run), logger.Error(err))
					continue
				}
				if pos := headViolation(page.Movies, cfg.Threshold, cfg.Head); pos >= 0 {
					rep.Violations++
					log.Error(ctx, "low-tier film inside the reserved head",
						logger.Int("run", run),
						logger.Int("position", pos),
						logger.String("title", page.Movies[pos].Title))
				}
				high := 0
				for _, f := range page.Movies {
					if f.BaseCanonScore >= cfg.Threshold {
						high++
					}
				}
				rep.HighTier = high
				rep.HeadSlots = min(cfg.Head, high)
				for _, f := range page.Movies[:rep.HeadSlots] {
					rep.HeadCounts[f.ID]++
				}
				mu.Unlock()

				if cfg.Verbose {
					log.Debug(ctx, "shuffle run checked", logger.Int("run", run), logger.Int("films", len(page.Movies)))
				}
			}
		}()
	}

	go func() {
		defer close(runs)
		for i := range cfg.Runs {
			select {
			case <-ctx.Done():
				return
			case runs <- i:
			}
		}
	}()
	wg.Wait()

	summarize(&rep)
	return rep
}

// summarize fills the head frequency figures. A high-tier film that never
// reached the head pulls MinFreq to 0.
func summarize(rep *ShuffleReport) {
	ok := rep.Runs - rep.Failed
	if ok <= 0 || rep.HighTier == 0 {
		return
	}
	rep.Expected = float64(rep.HeadSlots) / float64(rep.HighTier)
	rep.MinFreq = 1
	for _, n := range rep.HeadCounts {
		freq := float64(n) / float64(ok)
		rep.MaxFreq = max(rep.MaxFreq, freq)
		rep.MinFreq = min(rep.MinFreq, freq)
	}
	if len(rep.HeadCounts) < rep.HighTier {
		rep.MinFreq = 0
	}
}
