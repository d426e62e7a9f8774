package models

// DueCard pairs a flashcard with the user's review state; State is nil
// for cards the user has never reviewed
type DueCard struct {
	Card  Flashcard        `json:"card"`
	State *CardReviewState `json:"state"`
}

// RecentActivity counts review states touched within recent windows
type RecentActivity struct {
	TodayReviews int `json:"today_reviews"`
	WeekReviews  int `json:"week_reviews"`
	MonthReviews int `json:"month_reviews"`
}

// LevelBucket counts tracked and mastered cards for one deck level
type LevelBucket struct {
	Total    int `json:"total"`
	Mastered int `json:"mastered"`
}

// ProgressStats is the full progress report returned after a recompute
type ProgressStats struct {
	Summary           *UserProgressSummary   `json:"user_progress"`
	RecentActivity    RecentActivity         `json:"recent_activity"`
	LevelDistribution map[string]LevelBucket `json:"level_distribution"`
	NewAchievements   []Achievement          `json:"new_achievements"`
}
