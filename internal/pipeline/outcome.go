package pipeline

import "net/http"

// Kind tags how a pipeline run ended.
type Kind int

const (
	KindOK Kind = iota
	KindInputMissing
	KindFetchFailure
	KindExtractFailure
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInputMissing:
		return "input_missing"
	case KindFetchFailure:
		return "fetch_failure"
	case KindExtractFailure:
		return "extract_failure"
	default:
		return "unknown"
	}
}

// Status is the HTTP status code reported for k.
func (k Kind) Status() int {
	switch k {
	case KindOK:
		return http.StatusOK
	case KindInputMissing:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Outcome is the result of one pipeline run. Prices is set only for KindOK
// (possibly empty); Err is set for every other kind.
type Outcome struct {
	Kind   Kind
	Prices []string
	Err    error
}

// Status is the HTTP status code for the outcome.
func (o Outcome) Status() int {
	return o.Kind.Status()
}

// Body is the JSON payload for a successful outcome.
type Body struct {
	Prices []string `json:"prices"`
}
