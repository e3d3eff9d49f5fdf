package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(badges []Badge) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, b.Name)
	}
	return out
}

func TestEligibleFirstCompletion(t *testing.T) {
	got := Eligible(Stats{Completions: 1}, nil)
	assert.Equal(t, []string{"first_step"}, names(got))
}

func TestEligibleThresholds(t *testing.T) {
	got := Eligible(Stats{Completions: 7, Streak: 7, TotalWords: 1500}, nil)
	assert.ElementsMatch(t,
		[]string{"first_step", "three_day_streak", "seven_day_streak", "word_novice"},
		names(got))
}

func TestEligibleSkipsHeld(t *testing.T) {
	held := map[string]struct{}{"first_step": {}, "three_day_streak": {}}
	got := Eligible(Stats{Completions: 3, Streak: 3}, held)
	assert.Empty(t, got)
}

func TestEligibleLovedAtTenLikes(t *testing.T) {
	assert.Empty(t, Eligible(Stats{MaxPostLikes: 9}, map[string]struct{}{"first_step": {}}))
	got := Eligible(Stats{MaxPostLikes: 10}, map[string]struct{}{"first_step": {}})
	assert.Equal(t, []string{"loved"}, names(got))
}

func TestEligibleNeverReturnsAdminBadges(t *testing.T) {
	got := Eligible(Stats{Completions: 10000, Streak: 10000, TotalWords: 1 << 40, MaxPostLikes: 1 << 40}, nil)
	for _, n := range names(got) {
		assert.NotEqual(t, "founder", n)
		assert.NotEqual(t, "staff_pick", n)
	}
}

func TestLookup(t *testing.T) {
	b, ok := Lookup("word_master")
	assert.True(t, ok)
	assert.Equal(t, "Word Master", b.Title)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
