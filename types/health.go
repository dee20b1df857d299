package types

import "time"

// HealthState classifies a source's operational condition.
type HealthState string

const (
	StateHealthy  HealthState = "healthy"
	StateWarning  HealthState = "warning"
	StateCritical HealthState = "critical"
	// StateDown is reported for sources never observed by the monitor.
	StateDown HealthState = "down"
)

// SourceHealthStatus is the monitor's per-source view. It only changes
// through the monitor's recording operations.
type SourceHealthStatus struct {
	Source               string        `json:"source"`
	Status               HealthState   `json:"status"`
	LastSuccessfulScrape *time.Time    `json:"lastSuccessfulScrape"`
	FailureCount         int           `json:"failureCount"`
	LastError            string        `json:"lastError,omitempty"`
	ResponseTime         time.Duration `json:"responseTime,omitempty"`
	ArticlesScraped      int           `json:"articlesScraped"`
}
