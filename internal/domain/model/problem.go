package model

import (
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Difficulties in display order, used when tallying per-difficulty counts.
var Difficulties = []ProblemDifficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d ProblemDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Problem is a single coding exercise. It references its Topic by id; the
// topic must resolve to an existing row.
type Problem struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	TopicID      string            `json:"topic_id"`
	LeetcodeLink string            `json:"leetcode_link"`
	VideoLink    *string           `json:"video_link,omitempty"`
	ArticleLink  *string           `json:"article_link,omitempty"`
	Difficulty   ProblemDifficulty `json:"difficulty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
