package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"dsa_tracker/internal/domain/model"
)

type ProgressRepository interface {
	// ListByUser returns every progress row belonging to the user.
	ListByUser(ctx context.Context, userID string) ([]model.UserProgress, error)

	// Upsert records a solve keyed on (user_id, problem_id): it inserts the
	// row if absent, otherwise overwrites topic_id and refreshes solved_at.
	// The insert-or-update is atomic at the database level, so concurrent
	// double-submission cannot produce duplicate rows.
	Upsert(ctx context.Context, progress *model.UserProgress) (*model.UserProgress, error)

	// Delete removes the row matching (user_id, topic_id, problem_id) and
	// returns it, or (nil, nil) when no such row exists. Note the match key
	// is wider than Upsert's; see the progress service for why.
	Delete(ctx context.Context, userID, topicID, problemID string) (*model.UserProgress, error)

	CountByUser(ctx context.Context, userID string) (int, error)
	CountByUserPerDifficulty(ctx context.Context, userID string) (map[model.ProblemDifficulty]int, error)

	// CountPerDay groups the user's solves inside [from, to] by UTC calendar
	// day. Days without solves are absent from the result; the service layer
	// densifies the series.
	CountPerDay(ctx context.Context, userID string, from, to time.Time) ([]model.DailyCount, error)

	// RecentSolved returns the user's most recently solved problems joined
	// with problem and topic titles, newest first.
	RecentSolved(ctx context.Context, userID string, limit int) ([]model.RecentSolve, error)
}

type pgProgressRepository struct {
	db *sql.DB
}

func NewPgProgressRepository(db *sql.DB) ProgressRepository {
	return &pgProgressRepository{db: db}
}

func (r *pgProgressRepository) ListByUser(ctx context.Context, userID string) ([]model.UserProgress, error) {
	query := `SELECT id, user_id, topic_id, problem_id, solved_at, created_at, updated_at
	          FROM user_progress WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	progress := []model.UserProgress{}
	for rows.Next() {
		var p model.UserProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.TopicID, &p.ProblemID, &p.SolvedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.ListByUser scan: %w", err)
		}
		progress = append(progress, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.ListByUser rows.Err: %w", err)
	}
	return progress, nil
}

func (r *pgProgressRepository) Upsert(ctx context.Context, progress *model.UserProgress) (*model.UserProgress, error) {
	query := `INSERT INTO user_progress (id, user_id, topic_id, problem_id, solved_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, problem_id) DO UPDATE
	          SET topic_id = EXCLUDED.topic_id, solved_at = EXCLUDED.solved_at, updated_at = CURRENT_TIMESTAMP
	          RETURNING id, user_id, topic_id, problem_id, solved_at, created_at, updated_at`

	saved := &model.UserProgress{}
	err := r.db.QueryRowContext(ctx, query,
		progress.ID, progress.UserID, progress.TopicID, progress.ProblemID, progress.SolvedAt,
	).Scan(
		&saved.ID, &saved.UserID, &saved.TopicID, &saved.ProblemID, &saved.SolvedAt, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.Upsert: %w", err)
	}
	return saved, nil
}

func (r *pgProgressRepository) Delete(ctx context.Context, userID, topicID, problemID string) (*model.UserProgress, error) {
	query := `DELETE FROM user_progress
	          WHERE user_id = $1 AND topic_id = $2 AND problem_id = $3
	          RETURNING id, user_id, topic_id, problem_id, solved_at, created_at, updated_at`

	deleted := &model.UserProgress{}
	err := r.db.QueryRowContext(ctx, query, userID, topicID, problemID).Scan(
		&deleted.ID, &deleted.UserID, &deleted.TopicID, &deleted.ProblemID, &deleted.SolvedAt, &deleted.CreatedAt, &deleted.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Nothing to delete; not an error
		}
		return nil, fmt.Errorf("pgProgressRepository.Delete: %w", err)
	}
	return deleted, nil
}

func (r *pgProgressRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_progress WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("pgProgressRepository.CountByUser: %w", err)
	}
	return total, nil
}

func (r *pgProgressRepository) CountByUserPerDifficulty(ctx context.Context, userID string) (map[model.ProblemDifficulty]int, error) {
	query := `SELECT p.difficulty, COUNT(*)
	          FROM user_progress up
	          JOIN problems p ON up.problem_id = p.id
	          WHERE up.user_id = $1
	          GROUP BY p.difficulty`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.CountByUserPerDifficulty query: %w", err)
	}
	defer rows.Close()

	counts := map[model.ProblemDifficulty]int{}
	for rows.Next() {
		var difficulty model.ProblemDifficulty
		var count int
		if err := rows.Scan(&difficulty, &count); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.CountByUserPerDifficulty scan: %w", err)
		}
		counts[difficulty] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.CountByUserPerDifficulty rows.Err: %w", err)
	}
	return counts, nil
}

func (r *pgProgressRepository) CountPerDay(ctx context.Context, userID string, from, to time.Time) ([]model.DailyCount, error) {
	query := `SELECT to_char(up.solved_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*)
	          FROM user_progress up
	          WHERE up.user_id = $1 AND up.solved_at >= $2 AND up.solved_at <= $3
	          GROUP BY day
	          ORDER BY day ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.CountPerDay query: %w", err)
	}
	defer rows.Close()

	counts := []model.DailyCount{}
	for rows.Next() {
		var dc model.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.CountPerDay scan: %w", err)
		}
		counts = append(counts, dc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.CountPerDay rows.Err: %w", err)
	}
	return counts, nil
}

func (r *pgProgressRepository) RecentSolved(ctx context.Context, userID string, limit int) ([]model.RecentSolve, error) {
	query := `SELECT p.name, t.title, p.difficulty, up.solved_at
	          FROM user_progress up
	          JOIN problems p ON up.problem_id = p.id
	          JOIN topics t ON up.topic_id = t.id
	          WHERE up.user_id = $1
	          ORDER BY up.solved_at DESC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgProgressRepository.RecentSolved query: %w", err)
	}
	defer rows.Close()

	recent := []model.RecentSolve{}
	for rows.Next() {
		var rs model.RecentSolve
		if err := rows.Scan(&rs.Title, &rs.Topic, &rs.Difficulty, &rs.SolvedAt); err != nil {
			return nil, fmt.Errorf("pgProgressRepository.RecentSolved scan: %w", err)
		}
		recent = append(recent, rs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProgressRepository.RecentSolved rows.Err: %w", err)
	}
	return recent, nil
}
