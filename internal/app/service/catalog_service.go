package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"dsa_tracker/internal/common"
	"dsa_tracker/internal/domain/model"
	"dsa_tracker/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// CatalogService manages the topic/problem catalog: admin creation and the
// seed routine that repopulates both stores from a static fixture.
type CatalogService struct {
	topicRepo   repository.TopicRepository
	problemRepo repository.ProblemRepository
	db          *sql.DB // For transactions
}

func NewCatalogService(topicRepo repository.TopicRepository, problemRepo repository.ProblemRepository, db *sql.DB) *CatalogService {
	return &CatalogService{topicRepo: topicRepo, problemRepo: problemRepo, db: db}
}

type CreateTopicRequest struct {
	Title string `json:"title"`
}

type CreateProblemRequest struct {
	Name         string                  `json:"name"`
	TopicID      string                  `json:"topicId"`
	LeetcodeLink string                  `json:"leetcodeLink"`
	VideoLink    *string                 `json:"videoLink,omitempty"`
	ArticleLink  *string                 `json:"articleLink,omitempty"`
	Difficulty   model.ProblemDifficulty `json:"difficulty"`
}

func (s *CatalogService) CreateTopic(ctx context.Context, req CreateTopicRequest) (*model.Topic, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.Errorf("topic title is required: %w", common.ErrValidation)
	}

	topic := &model.Topic{
		ID:    uuid.NewString(),
		Title: title,
		Slug:  slug.Make(title),
	}
	if err := s.topicRepo.Create(ctx, nil, topic); err != nil {
		return nil, common.Errorf("failed to create topic: %w", err)
	}
	return topic, nil
}

func (s *CatalogService) CreateProblem(ctx context.Context, req CreateProblemRequest) (*model.Problem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.TopicID == "" || strings.TrimSpace(req.LeetcodeLink) == "" {
		return nil, common.Errorf("missing required fields for problem creation: %w", common.ErrValidation)
	}
	if !req.Difficulty.Valid() {
		return nil, common.Errorf("difficulty must be Easy, Medium or Hard: %w", common.ErrValidation)
	}

	// The topic reference must resolve before we accept the problem.
	if _, err := s.topicRepo.FindByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("topic %s does not exist: %w", req.TopicID, common.ErrValidation)
		}
		return nil, common.Errorf("failed to resolve topic: %w", err)
	}

	problem := &model.Problem{
		ID:           uuid.NewString(),
		Name:         name,
		TopicID:      req.TopicID,
		LeetcodeLink: strings.TrimSpace(req.LeetcodeLink),
		VideoLink:    req.VideoLink,
		ArticleLink:  req.ArticleLink,
		Difficulty:   req.Difficulty,
	}
	if err := s.problemRepo.Create(ctx, nil, problem); err != nil {
		return nil, common.Errorf("failed to create problem: %w", err)
	}
	return problem, nil
}

func (s *CatalogService) ListTopics(ctx context.Context) ([]model.Topic, error) {
	return s.topicRepo.List(ctx)
}

type SeedProblem struct {
	Name         string
	LeetcodeLink string
	VideoLink    *string
	ArticleLink  *string
	Difficulty   model.ProblemDifficulty
}

type SeedTopic struct {
	Title    string
	Problems []SeedProblem
}

// Seed wipes the catalog and repopulates it from the fixture inside one
// transaction, so a failed seed leaves the previous catalog intact.
func (s *CatalogService) Seed(ctx context.Context, fixture []SeedTopic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.problemRepo.DeleteAll(ctx, tx); err != nil {
		return common.Errorf("failed to clear problems: %w", err)
	}
	if err := s.topicRepo.DeleteAll(ctx, tx); err != nil {
		return common.Errorf("failed to clear topics: %w", err)
	}

	for _, st := range fixture {
		title := strings.TrimSpace(st.Title)
		topic := &model.Topic{
			ID:    uuid.NewString(),
			Title: title,
			Slug:  slug.Make(title),
		}
		if err := s.topicRepo.Create(ctx, tx, topic); err != nil {
			return common.Errorf("failed to seed topic %q: %w", title, err)
		}

		for _, sp := range st.Problems {
			if !sp.Difficulty.Valid() {
				return common.Errorf("seed problem %q has invalid difficulty %q: %w", sp.Name, sp.Difficulty, common.ErrValidation)
			}
			problem := &model.Problem{
				ID:           uuid.NewString(),
				Name:         strings.TrimSpace(sp.Name),
				TopicID:      topic.ID,
				LeetcodeLink: sp.LeetcodeLink,
				VideoLink:    sp.VideoLink,
				ArticleLink:  sp.ArticleLink,
				Difficulty:   sp.Difficulty,
			}
			if err := s.problemRepo.Create(ctx, tx, problem); err != nil {
				return common.Errorf("failed to seed problem %q: %w", sp.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
