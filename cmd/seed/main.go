// Seed fills the database with fake users, posts, and likes for local
// development. Not for production use.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"bonds/internal/auth"
	"bonds/internal/config"
	"bonds/internal/database"
	"bonds/internal/middleware"
	"bonds/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	postsPerUser := flag.Int("posts", 3, "posts per user")
	likeChance := flag.Float64("like-chance", 0.3, "probability a user likes any given post")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		middleware.Logger.Error("refusing to seed a production database")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		middleware.Logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if err := seed(db, *users, *postsPerUser, *likeChance); err != nil {
		middleware.Logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	middleware.Logger.Info("seeding complete", "users", *users)
}

func seed(db *gorm.DB, userCount, postsPerUser int, likeChance float64) error {
	hashed, err := auth.HashPassword("Password123")
	if err != nil {
		return err
	}

	created := make([]*models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := &models.User{
			Username:       gofakeit.Username(),
			Email:          fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			HashedPassword: hashed,
			IsActive:       true,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		created = append(created, user)

		for j := 0; j < postsPerUser; j++ {
			post := &models.Post{
				Title:  gofakeit.Sentence(4),
				Body:   gofakeit.Paragraph(1, 3, 10, " "),
				UserID: user.ID,
			}
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("create post: %w", err)
			}
		}
	}

	var posts []models.Post
	if err := db.Find(&posts).Error; err != nil {
		return fmt.Errorf("load posts: %w", err)
	}

	for _, user := range created {
		for _, post := range posts {
			// Self-likes are forbidden at the service level; skip them
			// here too so seeded data matches reachable states.
			if post.UserID == user.ID || rand.Float64() > likeChance {
				continue
			}
			like := &models.Like{PostID: post.ID, UserID: user.ID}
			if err := db.Create(like).Error; err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
	}

	return nil
}
