package gamification

// LovedThreshold is the like count on a single post that unlocks "loved".
const LovedThreshold = 10

// Stats is the snapshot a badge rule is evaluated against.
type Stats struct {
	Completions  int64
	Streak       int
	TotalWords   int64
	MaxPostLikes int64
}

// Badge describes one unlockable badge.
type Badge struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`

	// Check is nil for admin-granted badges; those never unlock through
	// stats evaluation.
	Check func(Stats) bool `json:"-"`
}

var catalog = []Badge{
	{
		Name:        "first_step",
		Title:       "First Step",
		Description: "Complete your first day of writing",
		Icon:        "👣",
		Check:       func(s Stats) bool { return s.Completions >= 1 },
	},
	{
		Name:        "three_day_streak",
		Title:       "Warming Up",
		Description: "Write three days in a row",
		Icon:        "🔥",
		Check:       func(s Stats) bool { return s.Streak >= 3 },
	},
	{
		Name:        "seven_day_streak",
		Title:       "One Full Week",
		Description: "Write seven days in a row",
		Icon:        "📅",
		Check:       func(s Stats) bool { return s.Streak >= 7 },
	},
	{
		Name:        "word_novice",
		Title:       "Word Novice",
		Description: "Write 1,000 words in total",
		Icon:        "✏️",
		Check:       func(s Stats) bool { return s.TotalWords >= 1000 },
	},
	{
		Name:        "word_master",
		Title:       "Word Master",
		Description: "Write 10,000 words in total",
		Icon:        "📚",
		Check:       func(s Stats) bool { return s.TotalWords >= 10000 },
	},
	{
		Name:        "loved",
		Title:       "Loved",
		Description: "Get 10 likes on a single post",
		Icon:        "💖",
		Check:       func(s Stats) bool { return s.MaxPostLikes >= LovedThreshold },
	},

	// Admin-granted only.
	{Name: "founder", Title: "Founder", Description: "Here from the very beginning", Icon: "🌱"},
	{Name: "staff_pick", Title: "Staff Pick", Description: "Featured by the team", Icon: "⭐"},
}

// Catalog returns all known badges.
func Catalog() []Badge { return catalog }

// Lookup returns the badge with the given name.
func Lookup(name string) (Badge, bool) {
	for _, b := range catalog {
		if b.Name == name {
			return b, true
		}
	}
	return Badge{}, false
}

// Eligible returns the rule badges satisfied by stats that are not in held.
func Eligible(stats Stats, held map[string]struct{}) []Badge {
	var out []Badge
	for _, b := range catalog {
		if b.Check == nil {
			continue
		}
		if _, ok := held[b.Name]; ok {
			continue
		}
		if b.Check(stats) {
			out = append(out, b)
		}
	}
	return out
}
