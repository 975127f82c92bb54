package main

import (
	"context"
	"fmt"
	"log"
	"time"
	"dsa_tracker/internal/app/service"
	"dsa_tracker/internal/domain/model"
	"dsa_tracker/internal/domain/repository"
	"dsa_tracker/internal/platform/config"
	"dsa_tracker/internal/platform/database"
)

func strPtr(s string) *string { return &s }

// fixture mirrors the static topic/problem catalog the frontend expects.
var fixture = []service.SeedTopic{
	{
		Title: "Arrays and Strings",
		Problems: []service.SeedProblem{
			{
				Name:         "Two Sum",
				LeetcodeLink: "https://leetcode.com/problems/two-sum",
				VideoLink:    strPtr("https://youtube.com/watch?v=example1"),
				ArticleLink:  strPtr("https://example.com/two-sum"),
				Difficulty:   model.DifficultyEasy,
			},
			{
				Name:         "Valid Palindrome",
				LeetcodeLink: "https://leetcode.com/problems/valid-palindrome",
				VideoLink:    strPtr("https://youtube.com/watch?v=example2"),
				ArticleLink:  strPtr("https://example.com/valid-palindrome"),
				Difficulty:   model.DifficultyEasy,
			},
		},
	},
	{
		Title: "Dynamic Programming",
		Problems: []service.SeedProblem{
			{
				Name:         "Climbing Stairs",
				LeetcodeLink: "https://leetcode.com/problems/climbing-stairs",
				VideoLink:    strPtr("https://youtube.com/watch?v=example3"),
				ArticleLink:  strPtr("https://example.com/climbing-stairs"),
				Difficulty:   model.DifficultyHard,
			},
		},
	},
	{
		Title: "Linked Lists",
		Problems: []service.SeedProblem{
			{
				Name:         "Reverse Linked List",
				LeetcodeLink: "https://leetcode.com/problems/reverse-linked-list",
				VideoLink:    strPtr("https://youtube.com/watch?v=example3"),
				ArticleLink:  strPtr("https://example.com/reverse-linked-list"),
				Difficulty:   model.DifficultyMedium,
			},
		},
	},
}

func main() {
	config.Load()
	fmt.Println("Configuration loaded.")

	database.Connect()
	defer database.Close()

	topicRepo := repository.NewPgTopicRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	catalogService := service.NewCatalogService(topicRepo, problemRepo, database.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := catalogService.Seed(ctx, fixture); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Catalog seeded successfully.")
}
