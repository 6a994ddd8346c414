package models

import "time"

// BatchItem is the outcome of one unit in a batch request
type BatchItem struct {
	Repo   string  `json:"repo"`
	Report *Report `json:"report,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// BatchProgress tracks the progress of a batch of analysis units
type BatchProgress struct {
	Total          int       `json:"total"`
	Completed      int       `json:"completed"`
	Failed         int       `json:"failed"`
	StartTime      time.Time `json:"start_time"`
	LastUpdateTime time.Time `json:"last_update_time"`
}
