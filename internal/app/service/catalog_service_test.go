package service

import (
	"context"
	"errors"
	"testing"
	"dsa_tracker/internal/common"
	"dsa_tracker/internal/domain/model"
)

func TestCreateTopicTrimsTitle(t *testing.T) {
	topics := &fakeTopicRepo{}
	svc := NewCatalogService(topics, &fakeProblemRepo{}, nil)

	topic, err := svc.CreateTopic(context.Background(), CreateTopicRequest{Title: "  Binary Search  "})
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	if topic.Title != "Binary Search" {
		t.Fatalf("expected trimmed title, got %q", topic.Title)
	}
	if topic.Slug != "binary-search" {
		t.Fatalf("expected slug binary-search, got %q", topic.Slug)
	}
}

func TestCreateTopicRequiresTitle(t *testing.T) {
	svc := NewCatalogService(&fakeTopicRepo{}, &fakeProblemRepo{}, nil)
	_, err := svc.CreateTopic(context.Background(), CreateTopicRequest{Title: "   "})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProblemRejectsUnknownDifficulty(t *testing.T) {
	topics := &fakeTopicRepo{topics: []model.Topic{{ID: "t1", Title: "Arrays"}}}
	svc := NewCatalogService(topics, &fakeProblemRepo{}, nil)

	_, err := svc.CreateProblem(context.Background(), CreateProblemRequest{
		Name:         "Two Sum",
		TopicID:      "t1",
		LeetcodeLink: "https://leetcode.com/problems/two-sum",
		Difficulty:   "Impossible",
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProblemRequiresExistingTopic(t *testing.T) {
	svc := NewCatalogService(&fakeTopicRepo{}, &fakeProblemRepo{}, nil)

	_, err := svc.CreateProblem(context.Background(), CreateProblemRequest{
		Name:         "Two Sum",
		TopicID:      "missing",
		LeetcodeLink: "https://leetcode.com/problems/two-sum",
		Difficulty:   model.DifficultyEasy,
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error for dangling topic, got %v", err)
	}
}

func TestCreateProblemKeepsOptionalLinks(t *testing.T) {
	topics := &fakeTopicRepo{topics: []model.Topic{{ID: "t1", Title: "Arrays"}}}
	problems := &fakeProblemRepo{}
	svc := NewCatalogService(topics, problems, nil)

	video := "https://youtube.com/watch?v=abc"
	problem, err := svc.CreateProblem(context.Background(), CreateProblemRequest{
		Name:         "Two Sum",
		TopicID:      "t1",
		LeetcodeLink: "https://leetcode.com/problems/two-sum",
		VideoLink:    &video,
		Difficulty:   model.DifficultyEasy,
	})
	if err != nil {
		t.Fatalf("CreateProblem: %v", err)
	}
	if problem.VideoLink == nil || *problem.VideoLink != video {
		t.Fatalf("expected video link to be kept")
	}
	if problem.ArticleLink != nil {
		t.Fatalf("expected absent article link to stay nil")
	}
	if len(problems.problems) != 1 {
		t.Fatalf("expected problem to be persisted")
	}
}
