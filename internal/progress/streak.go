package progress

import (
	"time"

	"github.com/example/flashdeck/pkg/models"
)

// StreakResetAfter is how long a user may go without studying before the
// current streak drops to zero
const StreakResetAfter = 48 * time.Hour

// UpdateStreak applies one study event at now to the summary's streak
// counters and stamps LastStudyDate. Day boundaries are UTC calendar dates.
func UpdateStreak(summary *models.UserProgressSummary, now time.Time) {
	now = now.UTC()
	if summary.LastStudyDate != nil {
		last := summary.LastStudyDate.UTC()
		switch {
		case now.Sub(last) > StreakResetAfter:
			summary.CurrentStreak = 0
		case daysBetween(last, now) == 1:
			summary.CurrentStreak++
			if summary.CurrentStreak > summary.LongestStreak {
				summary.LongestStreak = summary.CurrentStreak
			}
		}
	}
	studied := now
	summary.LastStudyDate = &studied
}

// daysBetween counts calendar days from a to b
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
