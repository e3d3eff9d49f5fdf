package gamification

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// Streak returns the number of consecutive completed days ending at the most
// recent completion. A streak is live while the newest completion is today
// or yesterday relative to now; two or more missed days reset it to 0.
// Dates are YYYY-MM-DD strings; malformed or duplicate entries are ignored.
func Streak(dates []string, now time.Time) int {
	days := parseDays(dates)
	if len(days) == 0 {
		return 0
	}

	latest := days[len(days)-1]
	today := midnightUTC(now)
	// A clock-skewed "future" latest day still counts as live.
	if gap := int(today.Sub(latest).Hours() / 24); gap >= 2 {
		return 0
	}

	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if days[i+1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

func parseDays(dates []string) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, d, time.UTC)
		if err != nil {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
