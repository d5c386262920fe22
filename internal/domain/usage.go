package domain

// UsageRecord counts remote-parser calls for one calendar day. The reset is
// lazy: a record dated before today reads as zero, no background job.
type UsageRecord struct {
	Date  string `json:"date"` // formatted as 2006-01-02
	Count int    `json:"count"`
}

// Quota is the remote-parse allowance derived from a usage record.
type Quota struct {
	Limit     int
	Used      int
	Remaining int
	Unlimited bool
	CanUse    bool
}

// RemoteParse is the wire-level result of the remote NLU provider.
type RemoteParse struct {
	Action          string `json:"action"`
	Target          string `json:"target"`
	DurationMinutes int    `json:"duration_minutes"`
	Message         string `json:"message,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
}
