package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/feedback-collector/internal/category"
	"github.com/frahmantamala/feedback-collector/internal/database"
	"github.com/frahmantamala/feedback-collector/internal/feedback"
	"github.com/frahmantamala/feedback-collector/internal/feedback/repository"
	"github.com/spf13/cobra"
)

// sampleFeedback covers every category so the dashboard has something to show.
var sampleFeedback = []feedback.SubmitFeedbackDTO{
	{Name: "王小明", Department: "5542", Rating: "5", Comment: strPtr("新的排班系統很棒，謝謝")},
	{Name: "陳美玲", Department: "5542", Rating: "2", Comment: strPtr("機台維修太慢，影響產能")},
	{Name: "林志豪", Department: "HR", Rating: "4", Comment: strPtr("建議增加員工餐廳的素食選項")},
	{Name: "張雅婷", Department: "HR", Rating: "3", Comment: nil},
	{Name: "Alice", Department: "QA", Rating: "5", Comment: strPtr("讚")},
	{Name: "Bob", Department: "QA", Rating: "1", Comment: strPtr("服務態度很差")},
	{Name: "黃建國", Department: "5542", Rating: "4", Comment: strPtr("希望宿舍可以加裝冷氣")},
	{Name: "吳佩珊", Department: "HR", Rating: "3", Comment: strPtr("月會資料已收到")},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample feedback",
	Long:  `Insert classified sample feedback for local dashboards. No notification is sent.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := database.Open(cfg.Database, nil)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, sqlDB, cfg.Database.Driver); err != nil {
				log.Fatalf("failed to migrate: %v", err)
			}
		}

		repo := repository.NewFeedbackRepository(db)
		count, err := repo.Count(ctx)
		if err != nil {
			log.Fatalf("failed to count feedback: %v", err)
		}
		if count > 0 && !seedAppend {
			fmt.Printf("feedback table already has %d rows; use --append to seed anyway\n", count)
			return
		}

		classifier := category.NewClassifier(category.Keywords{
			Negative:   cfg.Classifier.Negative,
			Positive:   cfg.Classifier.Positive,
			Suggestion: cfg.Classifier.Suggestion,
		})

		now := time.Now()
		for i, dto := range sampleFeedback {
			rating, err := dto.Validate()
			if err != nil {
				log.Fatalf("invalid sample %d: %v", i, err)
			}
			fb := feedback.NewFeedback(dto, rating, classifier.Classify(dto.Comment), now.Add(-time.Duration(len(sampleFeedback)-i)*time.Hour))
			record := feedback.ToDataModel(fb)
			if err := repo.Create(ctx, record); err != nil {
				log.Fatalf("failed to insert sample %d: %v", i, err)
			}
			fmt.Printf("Seeded feedback #%d from %s (%s)\n", record.ID, fb.Name, fb.Category)
		}

		fmt.Println("Sample feedback seeded successfully")
	},
}

func strPtr(s string) *string { return &s }
