package model

import (
	"time"
)

// UserProgress asserts that a user solved a problem at a given time. At most
// one row exists per (UserID, ProblemID); re-solving refreshes SolvedAt and
// overwrites TopicID.
type UserProgress struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TopicID   string    `json:"topic_id"`
	ProblemID string    `json:"problem_id"`
	SolvedAt  time.Time `json:"solved_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DailyCount is one bucket of the solve histogram. Date is a UTC calendar
// day formatted as YYYY-MM-DD.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RecentSolve is a solved problem joined with its problem and topic titles,
// used by the summary view.
type RecentSolve struct {
	Title      string            `json:"title"`
	Topic      string            `json:"topic"`
	Difficulty ProblemDifficulty `json:"difficulty"`
	SolvedAt   time.Time         `json:"solvedAt"`
}
