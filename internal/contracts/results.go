package contracts

import "time"

// ConsensusRecord is the per-ticker output of one pipeline run.
// Nil pointers mean "no data"; a ticker with zero successful strategy
// outputs carries all-nil consensus fields rather than failing the run.
type ConsensusRecord struct {
	Ticker             string              `json:"ticker"`
	CurrentPrice       *float64            `json:"current_price"`
	StrategyFairValues map[string]*float64 `json:"strategy_fair_values"`
	ConsensusFairValue *float64            `json:"consensus_fair_value"`
	ConsensusDiscount  *float64            `json:"consensus_discount"`
	ConsensusP25       *float64            `json:"consensus_p25"`
	ConsensusP75       *float64            `json:"consensus_p75"`
}

// RunResult is the full data product of one pipeline run: the sole interface
// between the engine and any presentation or persistence layer.
type RunResult struct {
	RunID         string                       `json:"run_id"`
	GeneratedAt   time.Time                    `json:"generated_at"`
	Tickers       []string                     `json:"tickers"`
	StrategyNames []string                     `json:"strategy_names"`
	ByTicker      map[string]*ConsensusRecord  `json:"by_ticker"`
	FetchErrors   map[string]map[string]string `json:"fetch_errors,omitempty"`
	StrategyErrs  map[string]map[string]string `json:"strategy_errors,omitempty"`
}
