package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"dsa_tracker/internal/common"
	"dsa_tracker/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type TopicRepository interface {
	Create(ctx context.Context, tx *sql.Tx, topic *model.Topic) error
	// List returns all topics in creation order.
	List(ctx context.Context) ([]model.Topic, error)
	FindByID(ctx context.Context, id string) (*model.Topic, error)
	FindBySlug(ctx context.Context, slug string) (*model.Topic, error)
	DeleteAll(ctx context.Context, tx *sql.Tx) error
}

type pgTopicRepository struct {
	db *sql.DB
}

func NewPgTopicRepository(db *sql.DB) TopicRepository {
	return &pgTopicRepository{db: db}
}

func (r *pgTopicRepository) Create(ctx context.Context, tx *sql.Tx, topic *model.Topic) error {
	query := `INSERT INTO topics (id, title, slug) VALUES ($1, $2, $3)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, topic.ID, topic.Title, topic.Slug)
	} else {
		_, err = r.db.ExecContext(ctx, query, topic.ID, topic.Title, topic.Slug)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("topic with this title already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgTopicRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTopicRepository) List(ctx context.Context) ([]model.Topic, error) {
	query := `SELECT id, title, slug, created_at, updated_at
	          FROM topics ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgTopicRepository.List query: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgTopicRepository.List scan: %w", err)
		}
		topics = append(topics, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTopicRepository.List rows.Err: %w", err)
	}
	return topics, nil
}

func (r *pgTopicRepository) FindByID(ctx context.Context, id string) (*model.Topic, error) {
	query := `SELECT id, title, slug, created_at, updated_at FROM topics WHERE id = $1`
	topic := &model.Topic{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&topic.ID, &topic.Title, &topic.Slug, &topic.CreatedAt, &topic.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTopicRepository.FindByID: %w", err)
	}
	return topic, nil
}

func (r *pgTopicRepository) FindBySlug(ctx context.Context, slug string) (*model.Topic, error) {
	query := `SELECT id, title, slug, created_at, updated_at FROM topics WHERE slug = $1`
	topic := &model.Topic{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&topic.ID, &topic.Title, &topic.Slug, &topic.CreatedAt, &topic.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTopicRepository.FindBySlug: %w", err)
	}
	return topic, nil
}

func (r *pgTopicRepository) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	query := `DELETE FROM topics`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query)
	} else {
		_, err = r.db.ExecContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("pgTopicRepository.DeleteAll: %w", err)
	}
	return nil
}
