package recorder

// TickerOutcome is the per-ticker result of one reconciliation run.
type TickerOutcome struct {
	Ticker      string
	Fetched     int    // points merged this run
	CachedDates int    // series size after the run
	Error       string // empty on success
}

// RunSummary is everything recorded about one run. A run that aborted
// before the pipeline finished carries the abort reason in Error.
type RunSummary struct {
	Today     string // ISO date the run reconciled up to
	Tickers   int
	Fetched   int
	Failures  int
	Delivered bool
	Error     string // empty when the run completed
	Outcomes  []TickerOutcome
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *RunSummary) error
	Close() error
}
