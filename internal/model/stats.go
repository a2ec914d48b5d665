package model

import "time"

// StatsID is the fixed record id of the singleton aggregate counter.
const StatsID = "stats:global"

// Stats is a singleton aggregate updated incrementally on plan changes
// rather than recomputed by full scan.
type Stats struct {
	ID        string    `json:"id"`
	PaidUsers int       `json:"paid_users"`
	UpdatedOn time.Time `json:"updated_on"`
}
