package service

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"
	"dsa_tracker/internal/common"
	"dsa_tracker/internal/domain/model"
	"dsa_tracker/internal/domain/repository"

	"github.com/google/uuid"
)

// summaryWindowDays is the length of the dashboard's daily solve histogram,
// today inclusive.
const summaryWindowDays = 30

// recentSolvesLimit caps the "recently solved" list on the dashboard.
const recentSolvesLimit = 6

// SummaryCache caches serialized summary payloads per user. Implemented by
// platform/cache over Redis; nil disables caching.
type SummaryCache interface {
	Get(ctx context.Context, userID string) ([]byte, bool, error)
	Set(ctx context.Context, userID string, payload []byte) error
	Invalidate(ctx context.Context, userID string) error
}

type ProgressService struct {
	topicRepo    repository.TopicRepository
	problemRepo  repository.ProblemRepository
	progressRepo repository.ProgressRepository
	userRepo     repository.UserRepository
	cache        SummaryCache
}

func NewProgressService(
	topicRepo repository.TopicRepository,
	problemRepo repository.ProblemRepository,
	progressRepo repository.ProgressRepository,
	userRepo repository.UserRepository,
	cache SummaryCache,
) *ProgressService {
	return &ProgressService{
		topicRepo:    topicRepo,
		problemRepo:  problemRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		cache:        cache,
	}
}

type QuestionItem struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	LeetcodeLink string                  `json:"leetcodeLink"`
	VideoLink    *string                 `json:"videoLink,omitempty"`
	ArticleLink  *string                 `json:"articleLink,omitempty"`
	Difficulty   model.ProblemDifficulty `json:"difficulty"`
	Completed    bool                    `json:"completed"`
}

type TopicQuestions struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Progress int            `json:"progress"`
	Problems []QuestionItem `json:"problems"`
}

type UpdateProgressRequest struct {
	TopicID   string `json:"topicId"`
	ProblemID string `json:"problemId"`
	Completed bool   `json:"completed"`
}

type SummaryUser struct {
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	MemberSince time.Time `json:"memberSince"`
}

type Summary struct {
	User                 SummaryUser                     `json:"user"`
	TotalProblems        int                             `json:"totalProblems"`
	SolvedProblems       int                             `json:"solvedProblems"`
	CompletionRate       int                             `json:"completionRate"`
	DailyProgress        []model.DailyCount              `json:"dailyProgress"`
	ProblemsByDifficulty map[model.ProblemDifficulty]int `json:"problemsByDifficulty"`
	RecentProblems       []model.RecentSolve             `json:"recentProblems"`
}

// ListQuestions returns every topic in creation order with its problems,
// each annotated with whether the user has solved it, plus the topic's
// completion percentage.
func (s *ProgressService) ListQuestions(ctx context.Context, userID string) ([]TopicQuestions, error) {
	if userID == "" {
		return nil, common.ErrBadRequest
	}

	topics, err := s.topicRepo.List(ctx)
	if err != nil {
		return nil, common.Errorf("failed to list topics: %w", err)
	}

	progress, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to load user progress: %w", err)
	}
	solvedIDs := make(map[string]bool, len(progress))
	for _, p := range progress {
		solvedIDs[p.ProblemID] = true
	}

	result := make([]TopicQuestions, 0, len(topics))
	for _, topic := range topics {
		problems, err := s.problemRepo.ListByTopic(ctx, topic.ID)
		if err != nil {
			return nil, common.Errorf("failed to list problems for topic %s: %w", topic.ID, err)
		}

		items := make([]QuestionItem, 0, len(problems))
		solvedCount := 0
		for _, p := range problems {
			completed := solvedIDs[p.ID]
			if completed {
				solvedCount++
			}
			items = append(items, QuestionItem{
				ID:           p.ID,
				Name:         p.Name,
				LeetcodeLink: p.LeetcodeLink,
				VideoLink:    p.VideoLink,
				ArticleLink:  p.ArticleLink,
				Difficulty:   p.Difficulty,
				Completed:    completed,
			})
		}

		result = append(result, TopicQuestions{
			ID:       topic.ID,
			Title:    topic.Title,
			Progress: completionPercent(solvedCount, len(problems)),
			Problems: items,
		})
	}
	return result, nil
}

// UpdateProgress toggles the solved state of one problem for the user.
// Marking solved upserts on (user, problem), refreshing the timestamp and
// topic; unmarking deletes on (user, topic, problem). Both directions are
// idempotent. The delete key is deliberately wider than the upsert key: that
// asymmetry is inherited behavior, kept so an unmark with a stale topicId
// fails quietly instead of deleting a row recorded under another topic.
func (s *ProgressService) UpdateProgress(ctx context.Context, userID string, req UpdateProgressRequest) (*model.UserProgress, error) {
	if userID == "" || req.TopicID == "" || req.ProblemID == "" {
		return nil, common.Errorf("topicId and problemId are required: %w", common.ErrValidation)
	}

	var (
		saved *model.UserProgress
		err   error
	)
	if !req.Completed {
		saved, err = s.progressRepo.Delete(ctx, userID, req.TopicID, req.ProblemID)
		if err != nil {
			return nil, common.Errorf("failed to delete user progress: %w", err)
		}
	} else {
		saved, err = s.progressRepo.Upsert(ctx, &model.UserProgress{
			ID:        uuid.NewString(),
			UserID:    userID,
			TopicID:   req.TopicID,
			ProblemID: req.ProblemID,
			SolvedAt:  time.Now().UTC(),
		})
		if err != nil {
			return nil, common.Errorf("failed to upsert user progress: %w", err)
		}
	}

	s.invalidateSummary(ctx, userID)
	return saved, nil
}

// GetSummary assembles the dashboard view: profile fields, completion rate,
// a dense 30-day histogram, per-difficulty tallies and recent solves. The
// computed payload is cached per user; UpdateProgress invalidates it.
func (s *ProgressService) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	if userID == "" {
		return nil, common.ErrBadRequest
	}

	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			log.Printf("WARN: summary cache lookup failed for user %s: %v", userID, err)
		} else if ok {
			cached := &Summary{}
			if err := json.Unmarshal(payload, cached); err == nil {
				return cached, nil
			}
			log.Printf("WARN: discarding corrupt summary cache entry for user %s", userID)
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to load user %s: %w", userID, err)
	}

	total, err := s.problemRepo.CountAll(ctx)
	if err != nil {
		return nil, common.Errorf("failed to count problems: %w", err)
	}
	solved, err := s.progressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to count solved problems: %w", err)
	}

	from, to := summaryWindow(time.Now().UTC())
	sparse, err := s.progressRepo.CountPerDay(ctx, userID, from, to)
	if err != nil {
		return nil, common.Errorf("failed to load daily solve counts: %w", err)
	}

	byDifficulty, err := s.progressRepo.CountByUserPerDifficulty(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to tally solves by difficulty: %w", err)
	}
	for _, d := range model.Difficulties {
		if _, ok := byDifficulty[d]; !ok {
			byDifficulty[d] = 0
		}
	}

	recent, err := s.progressRepo.RecentSolved(ctx, userID, recentSolvesLimit)
	if err != nil {
		return nil, common.Errorf("failed to load recent solves: %w", err)
	}

	summary := &Summary{
		User: SummaryUser{
			FullName:    user.FullName,
			Email:       user.Email,
			MemberSince: user.CreatedAt,
		},
		TotalProblems:        total,
		SolvedProblems:       solved,
		CompletionRate:       completionPercent(solved, total),
		DailyProgress:        fillDailySeries(sparse, from, summaryWindowDays),
		ProblemsByDifficulty: byDifficulty,
		RecentProblems:       recent,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, userID, payload); err != nil {
				log.Printf("WARN: failed to cache summary for user %s: %v", userID, err)
			}
		}
	}
	return summary, nil
}

func (s *ProgressService) invalidateSummary(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("WARN: failed to invalidate summary cache for user %s: %v", userID, err)
	}
}

// completionPercent rounds 100*solved/total to the nearest integer, with 0
// when total is 0.
func completionPercent(solved, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(solved) / float64(total) * 100))
}

// summaryWindow returns the inclusive UTC bounds of the histogram window:
// [today-29d @ 00:00:00, today @ 23:59:59.999...].
func summaryWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := startOfToday.AddDate(0, 0, -(summaryWindowDays - 1))
	to := startOfToday.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}

// fillDailySeries densifies sparse per-day counts into a complete,
// chronologically ordered series of exactly days entries starting at from.
// Days absent from the input get a zero count.
func fillDailySeries(sparse []model.DailyCount, from time.Time, days int) []model.DailyCount {
	byDay := make(map[string]int, len(sparse))
	for _, dc := range sparse {
		byDay[dc.Date] = dc.Count
	}

	dense := make([]model.DailyCount, 0, days)
	for i := 0; i < days; i++ {
		date := from.AddDate(0, 0, i).Format("2006-01-02")
		dense = append(dense, model.DailyCount{Date: date, Count: byDay[date]})
	}
	return dense
}
