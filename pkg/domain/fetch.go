package domain

import "time"

// Fetch job states.
const (
	FetchInProgress = "in_progress"
	FetchCompleted  = "completed"
	FetchFailed     = "failed"
)

// FetchRecord is one run of the backend's RouteStar/CustomerConnect sync jobs.
type FetchRecord struct {
	ID           string     `json:"_id,omitempty"`
	Source       string     `json:"source"`
	FetchType    string     `json:"fetchType,omitempty"`
	Status       string     `json:"status"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ItemsFetched int        `json:"itemsFetched"`
	Error        string     `json:"error,omitempty"`
	TriggeredBy  string     `json:"triggeredBy,omitempty"`
}

// Duration returns how long the fetch ran, or zero if it has not finished.
func (r FetchRecord) Duration() time.Duration {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(*r.StartedAt)
}

// FetchSummary aggregates fetch history statistics.
type FetchSummary struct {
	TotalFetches      int     `json:"totalFetches"`
	Successful        int     `json:"successful"`
	Failed            int     `json:"failed"`
	InProgress        int     `json:"inProgress"`
	TotalItemsFetched int     `json:"totalItemsFetched"`
	AvgDurationMs     float64 `json:"avgDuration"`
}
