package domain

import (
	"fmt"
	"slices"
)

// Recognised learning algorithm names.
const (
	AlgorithmKV      = "KV"
	AlgorithmLStar   = "L_star"
	AlgorithmExplore = "explore"
)

// LearnParams is the pass-through configuration handed to a learning driver
// together with the SUL and the alphabet.
type LearnParams struct {
	Algorithm string `json:"algorithm" yaml:"algorithm" mapstructure:"algorithm"`

	// WalksPerState is the exploration breadth of the equivalence oracle.
	WalksPerState int `json:"walks_per_state" yaml:"walks_per_state" mapstructure:"walks_per_state"`

	// WalkLen is the exploration depth of the equivalence oracle.
	WalkLen int `json:"walk_len" yaml:"walk_len" mapstructure:"walk_len"`

	// CexProcessing is the counterexample generalization strategy ("rs", "longest_prefix" or "").
	CexProcessing string `json:"cex_processing" yaml:"cex_processing" mapstructure:"cex_processing"`

	// ClosingStrategy is only meaningful to L*.
	ClosingStrategy string `json:"closing_strategy" yaml:"closing_strategy" mapstructure:"closing_strategy"`

	// CacheAndNonDetCheck caches answers and reports non-deterministic ones.
	CacheAndNonDetCheck bool `json:"cache_and_non_det_check" yaml:"cache_and_non_det_check" mapstructure:"cache_and_non_det_check"`

	// Seed makes randomized exploration reproducible.
	Seed uint64 `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// DefaultLearnParams mirrors the reference experiment: a walk length of 10
// exceeds the diameter of every machine observed so far.
func DefaultLearnParams() LearnParams {
	return LearnParams{
		Algorithm:           AlgorithmKV,
		WalksPerState:       300,
		WalkLen:             10,
		CexProcessing:       "rs",
		ClosingStrategy:     "single",
		CacheAndNonDetCheck: true,
		Seed:                100,
	}
}

var (
	cexStrategies     = []string{"", "rs", "longest_prefix"}
	closingStrategies = []string{"", "single", "shortest_first", "longest_first", "single_longest"}
)

// Validate checks the parameters independently of any driver.
func (p LearnParams) Validate() error {
	if p.Algorithm == "" {
		return fmt.Errorf("algorithm is required")
	}
	if p.WalksPerState <= 0 {
		return fmt.Errorf("walks_per_state must be positive, got %d", p.WalksPerState)
	}
	if p.WalkLen <= 0 {
		return fmt.Errorf("walk_len must be positive, got %d", p.WalkLen)
	}
	if !slices.Contains(cexStrategies, p.CexProcessing) {
		return fmt.Errorf("unknown cex_processing %q", p.CexProcessing)
	}
	if !slices.Contains(closingStrategies, p.ClosingStrategy) {
		return fmt.Errorf("unknown closing_strategy %q", p.ClosingStrategy)
	}
	return nil
}
