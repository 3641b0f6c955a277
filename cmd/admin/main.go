// Package main provides superuser management utilities for Inkwell.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>      - Promote user to superuser")
		fmt.Println("  go run ./cmd/admin/main.go demote <user_id>       - Demote user from superuser")
		fmt.Println("  go run ./cmd/admin/main.go list-superusers        - List all superusers")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go promote <user_id>")
			os.Exit(1)
		}
		setSuperuser(db, os.Args[2], true)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go demote <user_id>")
			os.Exit(1)
		}
		setSuperuser(db, os.Args[2], false)

	case "list-superusers":
		listSuperusers(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setSuperuser(db *gorm.DB, userID string, superuser bool) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.IsSuperuser == superuser {
		state := "is not"
		if superuser {
			state = "is already"
		}
		fmt.Printf("User %s (ID: %d) %s a superuser\n", user.Username, user.ID, state)
		return
	}

	user.IsSuperuser = superuser
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}

	action := "demoted"
	if superuser {
		action = "promoted"
	}
	fmt.Printf("✅ Successfully %s %s (ID: %d)\n", action, user.Username, user.ID)
}

func listSuperusers(db *gorm.DB) {
	var superusers []models.User
	if err := db.Where("is_superuser = ?", true).Find(&superusers).Error; err != nil {
		log.Fatalf("Failed to fetch superusers: %v", err)
	}

	if len(superusers) == 0 {
		fmt.Println("No superusers found in the system")
		return
	}

	fmt.Println("\n📋 Current Superusers:")
	fmt.Println("─────────────────────────────────────")
	for _, su := range superusers {
		fmt.Printf("ID: %d | Username: %s | Email: %s\n", su.ID, su.Username, su.Email)
	}
	fmt.Println("─────────────────────────────────────")
}
