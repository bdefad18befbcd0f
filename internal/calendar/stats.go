package calendar

import (
	"math"

	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/models"
)

// CompletionStats counts the touched days and the completed ones among them.
// Days without a record are not part of the total.
func CompletionStats(days []models.CalendarDay) models.CompletionStats {
	var s models.CompletionStats
	for _, d := range days {
		s.Total++
		if d.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percentage = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// CurrentStreak counts consecutive completed days ending at today.
// completedDesc must be sorted newest first. Dates after today are ignored.
func CurrentStreak(completedDesc []string, today string) int {
	streak := 0
	expected := today
	for _, d := range completedDesc {
		if d > today {
			continue
		}
		if d != expected {
			break
		}
		streak++
		prev, err := clock.AddDays(expected, -1)
		if err != nil {
			break
		}
		expected = prev
	}
	return streak
}
