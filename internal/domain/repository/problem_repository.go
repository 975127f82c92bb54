package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"dsa_tracker/internal/common"
	"dsa_tracker/internal/domain/model"
)

type ProblemRepository interface {
	Create(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	// ListByTopic returns a topic's problems in creation order.
	ListByTopic(ctx context.Context, topicID string) ([]model.Problem, error)
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	// CountAll counts every problem in the system, regardless of topic or user.
	CountAll(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context, tx *sql.Tx) error
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) Create(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	query := `INSERT INTO problems (id, name, topic_id, leetcode_link, video_link, article_link, difficulty)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, p.ID, p.Name, p.TopicID, p.LeetcodeLink, p.VideoLink, p.ArticleLink, p.Difficulty)
	} else {
		_, err = r.db.ExecContext(ctx, query, p.ID, p.Name, p.TopicID, p.LeetcodeLink, p.VideoLink, p.ArticleLink, p.Difficulty)
	}
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) ListByTopic(ctx context.Context, topicID string) ([]model.Problem, error) {
	query := `SELECT id, name, topic_id, leetcode_link, video_link, article_link, difficulty, created_at, updated_at
	          FROM problems WHERE topic_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListByTopic query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.Name, &p.TopicID, &p.LeetcodeLink, &p.VideoLink, &p.ArticleLink, &p.Difficulty, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListByTopic scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListByTopic rows.Err: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT id, name, topic_id, leetcode_link, video_link, article_link, difficulty, created_at, updated_at
	          FROM problems WHERE id = $1`
	problem := &model.Problem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&problem.ID, &problem.Name, &problem.TopicID, &problem.LeetcodeLink,
		&problem.VideoLink, &problem.ArticleLink, &problem.Difficulty,
		&problem.CreatedAt, &problem.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	return problem, nil
}

func (r *pgProblemRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("pgProblemRepository.CountAll: %w", err)
	}
	return total, nil
}

func (r *pgProblemRepository) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	query := `DELETE FROM problems`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query)
	} else {
		_, err = r.db.ExecContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("pgProblemRepository.DeleteAll: %w", err)
	}
	return nil
}
