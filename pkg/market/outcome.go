package market

// Status classifies one provider attempt. A fetch either produced bars,
// succeeded with nothing, or failed outright; the fallback loop advances on
// Empty and Failed alike but the distinction matters in logs.
type Status int

const (
	StatusOk Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what a single provider returned for one request.
type Outcome struct {
	Provider string
	Status   Status
	Bars     []Bar
	Err      error // set only when Status is StatusFailed
}

// Classify folds a FetchOhlc result into an Outcome.
func Classify(provider string, bars []Bar, err error) Outcome {
	switch {
	case err != nil:
		return Outcome{Provider: provider, Status: StatusFailed, Err: err}
	case len(bars) == 0:
		return Outcome{Provider: provider, Status: StatusEmpty}
	default:
		return Outcome{Provider: provider, Status: StatusOk, Bars: bars}
	}
}
