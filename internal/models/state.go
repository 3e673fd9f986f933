package models

// FetchState is the terminal state of one listing fetch. Every request moves
// Idle → Loading → {Success, Empty, Failed}; the pipeline never surfaces an
// error to the caller, so the state is the only failure signal.
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
	// StateSuccess means a well-formed page was produced, possibly with zero
	// records. An empty-but-well-formed page is Success, not Empty.
	StateSuccess
	// StateEmpty means the upstream call returned a non-success status or the
	// payload carried no usable record list. Terminal; no retry.
	StateEmpty
	// StateFailed means the transport call itself failed or the payload was
	// fundamentally malformed. Rendered like Empty, logged distinctly.
	StateFailed
)

func (s FetchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ListingResult pairs the terminal fetch state with the page it produced.
// Page is nil unless State is StateSuccess.
type ListingResult struct {
	State FetchState   `json:"state"`
	Page  *ListingPage `json:"page,omitempty"`
}
