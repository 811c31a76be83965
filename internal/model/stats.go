package model

import "time"

// RunStats aggregates counters for one reconcile run. The drop counters plus
// resolved and unresolved must sum back to TotalRows so an operator can
// account for every input record.
type RunStats struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	TotalRows               int `json:"total_rows" yaml:"total_rows"`
	BlankDropped            int `json:"blank_dropped" yaml:"blank_dropped"`
	NoAddressNoPhoneDropped int `json:"no_address_no_phone_dropped" yaml:"no_address_no_phone_dropped"`
	InvalidCoordDropped     int `json:"invalid_coord_dropped" yaml:"invalid_coord_dropped"`
	OutOfBandDropped        int `json:"out_of_band_dropped" yaml:"out_of_band_dropped"`
	MissingFieldsKept       int `json:"missing_fields_kept" yaml:"missing_fields_kept"`
	Resolved                int `json:"resolved" yaml:"resolved"`
	Unresolved              int `json:"unresolved" yaml:"unresolved"`

	MatchesByTier  map[Tier]int        `json:"matches_by_tier" yaml:"matches_by_tier"`
	CoordsBySource map[CoordSource]int `json:"coords_by_source" yaml:"coords_by_source"`

	CacheHits      int      `json:"cache_hits" yaml:"cache_hits"`
	CacheMisses    int      `json:"cache_misses" yaml:"cache_misses"`
	GeocodeCalls   int      `json:"geocode_calls" yaml:"geocode_calls"`
	GeocodeFailed  int      `json:"geocode_failed" yaml:"geocode_failed"`
	ValidFeatures  int      `json:"valid_features" yaml:"valid_features"`
	FailureSamples []string `json:"failure_samples,omitempty" yaml:"failure_samples,omitempty"`
}

// NewRunStats returns a RunStats with counter maps initialized.
func NewRunStats(runID string) *RunStats {
	return &RunStats{
		RunID:          runID,
		StartedAt:      time.Now().UTC(),
		MatchesByTier:  make(map[Tier]int),
		CoordsBySource: make(map[CoordSource]int),
	}
}

// maxFailureSamples bounds the diagnostics surfaced in the report.
const maxFailureSamples = 20

// AddFailureSample records a bounded number of geocode failure examples.
func (s *RunStats) AddFailureSample(query string) {
	if len(s.FailureSamples) < maxFailureSamples {
		s.FailureSamples = append(s.FailureSamples, query)
	}
}

// Reconciles reports whether the counters account for every input row.
// Out-of-band drops are a subset of the invalid-coordinate accounting and
// are tracked separately for diagnostics only.
func (s *RunStats) Reconciles() bool {
	return s.Resolved+s.Unresolved+s.BlankDropped+
		s.NoAddressNoPhoneDropped+s.InvalidCoordDropped == s.TotalRows
}
