// Package probe checks a running catalog server for its ranking guarantees.
package probe

import (
	"errors"
	"time"
)

// Sentinel errors.
var (
	ErrUnhealthy = errors.New("service unhealthy")
	ErrStatus    = errors.New("unexpected status")
	ErrViolation = errors.New("ranking guarantee violated")
)

// Config holds the probe settings.
type Config struct {
	BaseURL   string        // Base URL of the service
	Runs      int           // Shuffle requests to issue
	Workers   int           // Concurrent requests
	Timeout   time.Duration // HTTP request timeout
	Threshold int           // High-tier score threshold
	Head      int           // Reserved head size
	Curated   []string      // Expected curated order; empty skips the curated check
	Output    string        // Optional JSON report file
	Verbose   bool
}

// Film is the subset of a catalog record the probe reads.
type Film struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	BaseCanonScore int    `json:"baseCanonScore"`
}

// Page is one listing response.
type Page struct {
	Movies []Film `json:"movies"`
	Total  int    `json:"total"`
	Page   int    `json:"page"`
	Pages  int    `json:"pages"`
}

// ShuffleReport aggregates the shuffle-mode runs.
type ShuffleReport struct {
	Runs       int `json:"runs"`
	Failed     int `json:"failed"`
	Violations int `json:"violations"`
	HighTier   int `json:"highTier"`
	HeadSlots  int `json:"headSlots"`

	// Expected is the head frequency every high-tier film should approach.
	Expected float64 `json:"expected"`
	MinFreq  float64 `json:"minFreq"`
	MaxFreq  float64 `json:"maxFreq"`

	HeadCounts map[string]int `json:"headCounts,omitempty"`
}

// CuratedReport is the outcome of the curated-mode check.
type CuratedReport struct {
	Checked  bool     `json:"checked"`
	Expected []string `json:"expected"`
	Got      []string `json:"got"`
	OK       bool     `json:"ok"`
}

// Report is the result of a probe run.
type Report struct {
	Shuffle  ShuffleReport `json:"shuffle"`
	Curated  CuratedReport `json:"curated"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether every guarantee held.
func (r Report) OK() bool {
	return r.Shuffle.Failed == 0 && r.Shuffle.Violations == 0 && (!r.Curated.Checked || r.Curated.OK)
}
