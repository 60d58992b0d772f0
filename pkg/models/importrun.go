package models

import "time"

// ImportRun summarizes one completed reconciliation run.
type ImportRun struct {
	AreaCode        string        `json:"area_code"`
	UnitsSeen       int           `json:"units_seen"`
	UnitsCreated    int           `json:"units_created"`
	UnitsUpdated    int           `json:"units_updated"`
	ServicesSeen    int           `json:"services_seen"`
	ServicesCreated int           `json:"services_created"`
	ServicesUpdated int           `json:"services_updated"`
	ServicesSkipped int           `json:"services_skipped"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
}
