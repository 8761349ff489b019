package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/franciscosanchezn/gin-users-console/internal/config"
	"github.com/franciscosanchezn/gin-users-console/internal/models"
	"github.com/franciscosanchezn/gin-users-console/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	count := flag.Int("count", 3, "Number of sample users to create")
	role := flag.String("role", "user", "Role assigned to the sample users")
	prefix := flag.String("prefix", "sample", "Prefix for names and emails")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	users := services.NewUserService(services.UserServiceConfig{
		BaseURL:   cfg.APIBaseURL,
		HealthURL: cfg.APIHealthURL,
		Timeout:   config.GetEnvAsType("SEED_TIMEOUT", 10*time.Second),
	})

	ctx := context.Background()
	if err := users.Health(ctx); err != nil {
		log.Fatalf("Users API at %s is not healthy: %v", cfg.APIHealthURL, err)
	}

	created := 0
	for i := 1; i <= *count; i++ {
		name := fmt.Sprintf("%s-%d", *prefix, i)
		user, err := users.CreateUser(ctx, models.UserPayload{
			Name:  models.StringPtr(name),
			Email: models.StringPtr(name + "@example.com"),
			Role:  models.StringPtr(*role),
		})
		if err != nil {
			log.Printf("Skipping %s: %v", name, err)
			continue
		}
		created++
		fmt.Printf("Created user %s (%s)\n", user.ID, user.Email)
	}

	fmt.Printf("\n%d of %d sample users created against %s\n", created, *count, cfg.APIBaseURL)
}
