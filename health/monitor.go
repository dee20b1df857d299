package health

import (
	"log"
	"sync"
	"time"

	"gmscraper/types"
)

// warningFailureCount is the consecutive-failure floor for the warning
// state; a single blip leaves the prior status alone.
const warningFailureCount = 2

// OverallHealth is the aggregate across every observed source.
type OverallHealth struct {
	Status         types.HealthState `json:"status"`
	HealthySources int               `json:"healthySources"`
	TotalSources   int               `json:"totalSources"`
}

// Monitor tracks per-source health for the process lifetime. All state
// transitions go through RecordSuccess and RecordFailure; concurrent source
// completions are safe.
type Monitor struct {
	mu          sync.Mutex
	statuses    map[string]*types.SourceHealthStatus
	maxFailures int
	sink        AlertSink
}

// NewMonitor creates a monitor. Sources reaching maxFailures consecutive
// failures go critical and emit one alert per failing observation through
// the sink; a nil sink falls back to log output.
func NewMonitor(maxFailures int, sink AlertSink) *Monitor {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	if sink == nil {
		sink = LogSink{}
	}
	return &Monitor{
		statuses:    make(map[string]*types.SourceHealthStatus),
		maxFailures: maxFailures,
		sink:        sink,
	}
}

func (m *Monitor) ensure(source string) *types.SourceHealthStatus {
	status, ok := m.statuses[source]
	if !ok {
		status = &types.SourceHealthStatus{
			Source: source,
			Status: types.StateHealthy,
		}
		m.statuses[source] = status
	}
	return status
}

// RecordSuccess resets the source to healthy.
func (m *Monitor) RecordSuccess(source string, responseTime time.Duration, articleCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.ensure(source)
	now := time.Now()

	status.Status = types.StateHealthy
	status.LastSuccessfulScrape = &now
	status.FailureCount = 0
	status.ResponseTime = responseTime
	status.ArticlesScraped = articleCount
	status.LastError = ""

	log.Printf("Source health: %s - healthy (%d articles, %s)", source, articleCount, responseTime)
}

// RecordFailure bumps the consecutive-failure counter and walks the state
// machine: one failure keeps the prior status, two means warning, reaching
// the critical threshold emits an alert.
func (m *Monitor) RecordFailure(source string, errMsg string, responseTime time.Duration) {
	m.mu.Lock()
	status := m.ensure(source)

	status.FailureCount++
	status.LastError = errMsg
	status.ResponseTime = responseTime

	if status.FailureCount >= m.maxFailures {
		status.Status = types.StateCritical
	} else if status.FailureCount >= warningFailureCount {
		status.Status = types.StateWarning
	}

	alert := status.FailureCount >= m.maxFailures
	snapshot := *status
	m.mu.Unlock()

	log.Printf("Source health: %s - %s (%d failures)", source, snapshot.Status, snapshot.FailureCount)

	if alert {
		if err := m.sink.SendAlert(snapshot); err != nil {
			log.Printf("Warning: failed to send alert for %s: %v", source, err)
		}
	}
}

// Status returns one source's health; never-observed sources report down.
func (m *Monitor) Status(source string) types.SourceHealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	if status, ok := m.statuses[source]; ok {
		return *status
	}
	return types.SourceHealthStatus{Source: source, Status: types.StateDown}
}

// AllStatuses snapshots every observed source.
func (m *Monitor) AllStatuses() []types.SourceHealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.SourceHealthStatus, 0, len(m.statuses))
	for _, status := range m.statuses {
		out = append(out, *status)
	}
	return out
}

// OverallHealth derives the aggregate from the healthy fraction: critical
// with zero healthy sources, warning under 70%, healthy otherwise.
func (m *Monitor) OverallHealth() OverallHealth {
	m.mu.Lock()
	defer m.mu.Unlock()

	healthy := 0
	for _, status := range m.statuses {
		if status.Status == types.StateHealthy {
			healthy++
		}
	}
	total := len(m.statuses)

	overall := types.StateHealthy
	if healthy == 0 {
		overall = types.StateCritical
	} else if float64(healthy) < float64(total)*0.7 {
		overall = types.StateWarning
	}

	return OverallHealth{Status: overall, HealthySources: healthy, TotalSources: total}
}
