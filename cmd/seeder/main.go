//cmd/seeder/main.go
package main

import (
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/voxblast/callcenter-backend/internal/config"
	"github.com/voxblast/callcenter-backend/internal/db"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	conn := db.Init(cfg)
	defer conn.Close()

	seedFiles := []string{
		"seed/schema.sql",
		"seed/demo.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			logrus.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err := conn.Exec(string(content)); err != nil {
			logrus.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Seeded: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
