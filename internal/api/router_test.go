package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"
	"dsa_tracker/internal/app/service"
	"dsa_tracker/internal/common"
	"dsa_tracker/internal/common/security"
	"dsa_tracker/internal/domain/model"
	"dsa_tracker/internal/platform/config"
)

type memTopicRepo struct{ topics []model.Topic }

func (r *memTopicRepo) Create(ctx context.Context, tx *sql.Tx, topic *model.Topic) error {
	r.topics = append(r.topics, *topic)
	return nil
}
func (r *memTopicRepo) List(ctx context.Context) ([]model.Topic, error) {
	return append([]model.Topic{}, r.topics...), nil
}
func (r *memTopicRepo) FindByID(ctx context.Context, id string) (*model.Topic, error) {
	for i := range r.topics {
		if r.topics[i].ID == id {
			t := r.topics[i]
			return &t, nil
		}
	}
	return nil, common.ErrNotFound
}
func (r *memTopicRepo) FindBySlug(ctx context.Context, slug string) (*model.Topic, error) {
	for i := range r.topics {
		if r.topics[i].Slug == slug {
			t := r.topics[i]
			return &t, nil
		}
	}
	return nil, common.ErrNotFound
}
func (r *memTopicRepo) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	r.topics = nil
	return nil
}

type memProblemRepo struct{ problems []model.Problem }

func (r *memProblemRepo) Create(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	r.problems = append(r.problems, *p)
	return nil
}
func (r *memProblemRepo) ListByTopic(ctx context.Context, topicID string) ([]model.Problem, error) {
	out := []model.Problem{}
	for _, p := range r.problems {
		if p.TopicID == topicID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *memProblemRepo) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	for i := range r.problems {
		if r.problems[i].ID == id {
			p := r.problems[i]
			return &p, nil
		}
	}
	return nil, common.ErrNotFound
}
func (r *memProblemRepo) CountAll(ctx context.Context) (int, error) { return len(r.problems), nil }
func (r *memProblemRepo) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	r.problems = nil
	return nil
}

type memProgressRepo struct {
	rows     []model.UserProgress
	topics   *memTopicRepo
	problems *memProblemRepo
}

func (r *memProgressRepo) ListByUser(ctx context.Context, userID string) ([]model.UserProgress, error) {
	out := []model.UserProgress{}
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}
func (r *memProgressRepo) Upsert(ctx context.Context, progress *model.UserProgress) (*model.UserProgress, error) {
	for i := range r.rows {
		if r.rows[i].UserID == progress.UserID && r.rows[i].ProblemID == progress.ProblemID {
			r.rows[i].TopicID = progress.TopicID
			r.rows[i].SolvedAt = progress.SolvedAt
			saved := r.rows[i]
			return &saved, nil
		}
	}
	r.rows = append(r.rows, *progress)
	saved := *progress
	return &saved, nil
}
func (r *memProgressRepo) Delete(ctx context.Context, userID, topicID, problemID string) (*model.UserProgress, error) {
	for i := range r.rows {
		if r.rows[i].UserID == userID && r.rows[i].TopicID == topicID && r.rows[i].ProblemID == problemID {
			deleted := r.rows[i]
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, nil
}
func (r *memProgressRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, row := range r.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count, nil
}
func (r *memProgressRepo) CountByUserPerDifficulty(ctx context.Context, userID string) (map[model.ProblemDifficulty]int, error) {
	counts := map[model.ProblemDifficulty]int{}
	for _, row := range r.rows {
		if row.UserID != userID {
			continue
		}
		if p, err := r.problems.FindByID(ctx, row.ProblemID); err == nil {
			counts[p.Difficulty]++
		}
	}
	return counts, nil
}
func (r *memProgressRepo) CountPerDay(ctx context.Context, userID string, from, to time.Time) ([]model.DailyCount, error) {
	byDay := map[string]int{}
	for _, row := range r.rows {
		if row.UserID != userID || row.SolvedAt.Before(from) || row.SolvedAt.After(to) {
			continue
		}
		byDay[row.SolvedAt.UTC().Format("2006-01-02")]++
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	out := make([]model.DailyCount, 0, len(days))
	for _, day := range days {
		out = append(out, model.DailyCount{Date: day, Count: byDay[day]})
	}
	return out, nil
}
func (r *memProgressRepo) RecentSolved(ctx context.Context, userID string, limit int) ([]model.RecentSolve, error) {
	mine := []model.UserProgress{}
	for _, row := range r.rows {
		if row.UserID == userID {
			mine = append(mine, row)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].SolvedAt.After(mine[j].SolvedAt) })
	if len(mine) > limit {
		mine = mine[:limit]
	}
	out := make([]model.RecentSolve, 0, len(mine))
	for _, row := range mine {
		p, errP := r.problems.FindByID(ctx, row.ProblemID)
		t, errT := r.topics.FindByID(ctx, row.TopicID)
		if errP != nil || errT != nil {
			continue
		}
		out = append(out, model.RecentSolve{Title: p.Name, Topic: t.Title, Difficulty: p.Difficulty, SolvedAt: row.SolvedAt})
	}
	return out, nil
}

type memUserRepo struct{ users []model.User }

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.users = append(r.users, *user)
	return nil
}
func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}
func (r *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func setupTestRouter(t *testing.T) (http.Handler, *memProgressRepo) {
	t.Helper()
	config.Load()
	security.InitJWT()

	topics := &memTopicRepo{topics: []model.Topic{{ID: "t1", Title: "Arrays", Slug: "arrays"}}}
	video := "https://youtube.com/watch?v=abc"
	problems := &memProblemRepo{problems: []model.Problem{
		{ID: "p1", Name: "Two Sum", TopicID: "t1", LeetcodeLink: "https://leetcode.com/problems/two-sum", VideoLink: &video, Difficulty: model.DifficultyEasy},
		{ID: "p2", Name: "3Sum", TopicID: "t1", LeetcodeLink: "https://leetcode.com/problems/3sum", Difficulty: model.DifficultyMedium},
	}}
	progress := &memProgressRepo{topics: topics, problems: problems}
	users := &memUserRepo{users: []model.User{{
		ID:        "user-1",
		FullName:  "Ada Lovelace",
		Email:     "ada@example.com",
		CreatedAt: time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC),
	}}}

	authService := service.NewAuthService(users)
	catalogService := service.NewCatalogService(topics, problems, nil)
	progressService := service.NewProgressService(topics, problems, progress, users, nil)

	return NewRouter(authService, catalogService, progressService), progress
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := security.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}

func TestQuestionsRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestQuestionsAndUpdateFlow(t *testing.T) {
	router, progress := setupTestRouter(t)
	auth := bearer(t, "user-1", model.RoleUser)

	// Mark p1 solved.
	body := bytes.NewBufferString(`{"topicId":"t1","problemId":"p1","completed":true}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/update", body)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(progress.rows) != 1 {
		t.Fatalf("expected 1 progress row, got %d", len(progress.rows))
	}

	// The questions view reflects the solve.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil)
	req.Header.Set("Authorization", auth)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /questions: expected 200, got %d", rec.Code)
	}

	var topics []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &topics); err != nil {
		t.Fatalf("decoding questions: %v", err)
	}
	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(topics))
	}
	if got := topics[0]["progress"].(float64); got != 50 {
		t.Fatalf("expected progress 50, got %v", got)
	}
	problems := topics[0]["problems"].([]interface{})
	first := problems[0].(map[string]interface{})
	if _, ok := first["leetcodeLink"]; !ok {
		t.Fatalf("expected leetcodeLink field in problem payload: %v", first)
	}
	if first["completed"] != true {
		t.Fatalf("expected first problem completed")
	}
	second := problems[1].(map[string]interface{})
	if second["completed"] != false {
		t.Fatalf("expected second problem not completed")
	}
}

func TestSummaryPayloadShape(t *testing.T) {
	router, _ := setupTestRouter(t)
	auth := bearer(t, "user-1", model.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /summary: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	user := summary["user"].(map[string]interface{})
	if user["fullName"] != "Ada Lovelace" || user["email"] != "ada@example.com" {
		t.Fatalf("unexpected user payload: %v", user)
	}
	daily := summary["dailyProgress"].([]interface{})
	if len(daily) != 30 {
		t.Fatalf("expected 30 daily entries, got %d", len(daily))
	}
	byDifficulty := summary["problemsByDifficulty"].(map[string]interface{})
	for _, key := range []string{"Easy", "Medium", "Hard"} {
		if _, ok := byDifficulty[key]; !ok {
			t.Fatalf("expected %s key in problemsByDifficulty: %v", key, byDifficulty)
		}
	}
	if _, ok := summary["recentProblems"]; !ok {
		t.Fatalf("expected recentProblems in summary payload")
	}
}

func TestCatalogMutationIsAdminOnly(t *testing.T) {
	router, _ := setupTestRouter(t)

	body := bytes.NewBufferString(`{"title":"Graphs"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/topics", body)
	req.Header.Set("Authorization", bearer(t, "user-1", model.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	body = bytes.NewBufferString(`{"title":"Graphs"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/topics", body)
	req.Header.Set("Authorization", bearer(t, "admin-1", model.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}
