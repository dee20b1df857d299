package health

import (
	"fmt"

	"gmscraper/types"
)

// Score is the 0-100 reporting view of a source's recent output. It is
// derived from stored article volume, not from the failure state machine.
type Score struct {
	Score  int               `json:"score"`
	Status types.HealthState `json:"status"`
	Issues []string          `json:"issues"`
}

// CalculateScore rates a source from its capture history: zero recent
// activity, thin weekly volume and staleness each cost points; a source
// never captured scores zero outright.
func CalculateScore(articles24h, articles7d int, daysSinceLastScrape int, everScraped bool) Score {
	score := 100
	issues := []string{}

	if articles24h == 0 {
		score -= 30
		issues = append(issues, "No articles in last 24 hours")
	}

	if articles7d < 5 {
		score -= 20
		issues = append(issues, "Low activity in last 7 days")
	}

	if !everScraped {
		return Score{Score: 0, Status: types.StateCritical, Issues: append(issues, "Never successfully scraped")}
	}
	if daysSinceLastScrape > 2 {
		score -= 40
		issues = append(issues, fmt.Sprintf("%d days since last scrape", daysSinceLastScrape))
	}

	if score < 0 {
		score = 0
	}

	status := types.StateHealthy
	if score < 50 {
		status = types.StateCritical
	} else if score < 80 {
		status = types.StateWarning
	}

	return Score{Score: score, Status: status, Issues: issues}
}
