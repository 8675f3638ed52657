package analytics

import (
	"database/sql"
	"math"
)

// Stats summarizes every stored submission.
type Stats struct {
	AverageRating  float64        `json:"average_rating"`
	Count          int            `json:"count"`
	CategoryCounts map[string]int `json:"category_counts"`
}

// EmptyStats is the result for an empty or unreadable store.
func EmptyStats() Stats {
	return Stats{CategoryCounts: map[string]int{}}
}

// Row is the projection the aggregator reads.
type Row struct {
	Rating   int            `db:"rating"`
	Category sql.NullString `db:"category"`
}

// Summarize computes Stats over rows. A NULL category is counted under "".
func Summarize(rows []Row) Stats {
	stats := EmptyStats()
	if len(rows) == 0 {
		return stats
	}

	// float64 sum; ratings are unbounded and an int sum could wrap
	var total float64
	for _, row := range rows {
		total += float64(row.Rating)
		stats.CategoryCounts[row.Category.String]++
	}

	stats.Count = len(rows)
	stats.AverageRating = roundTenth(total / float64(len(rows)))
	return stats
}

// roundTenth rounds half to even, so 4.25 becomes 4.2.
func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
