package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := db.Exec("TRUNCATE grievances RESTART IDENTITY").Error; err != nil {
				log.Fatalf("failed to clear grievances: %v", err)
			}
			fmt.Println("Cleared existing grievances")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		citizenEmail := "asha@mail.com"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", citizenEmail).Row()
		citizenExists := false
		if err := row.Scan(&exists); err == nil {
			fmt.Println("citizen user already exists")
			citizenExists = true
		}

		if !citizenExists {
			if err := db.Exec("INSERT INTO users (email, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, 'citizen', true, now(), now())", citizenEmail, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert citizen user: %v", err)
			}
			fmt.Println("Seeded citizen user:", citizenEmail)
		}

		adminEmail := cfg.Security.AdminEmail
		row = db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		adminExists := false
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin user already exists")
			adminExists = true
		}

		if !adminExists {
			if err := db.Exec("INSERT INTO users (email, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, 'admin', true, now(), now())", adminEmail, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		}

		categories := []struct {
			Name string
			Desc string
		}{
			{"Roads", "Potholes, broken pavement, road damage"},
			{"Drainage", "Blocked or overflowing drains, waterlogging"},
			{"Street Lighting", "Broken or missing street lights"},
			{"Sanitation", "Garbage collection, public cleanliness"},
			{"Water Supply", "Supply interruptions, leaks, water quality"},
			{"Other", "Anything that does not fit the other categories"},
		}

		for _, c := range categories {
			var exists int
			row := db.Raw("SELECT 1 FROM grievance_categories WHERE name = ?", c.Name).Row()
			if err := row.Scan(&exists); err != nil {

				if err := db.Exec("INSERT INTO grievance_categories (name, description, is_active, created_at, updated_at) VALUES (?, ?, true, now(), now())", c.Name, c.Desc).Error; err != nil {
					log.Fatalf("failed to insert grievance category %s: %v", c.Name, err)
				}
				fmt.Printf("Seeded grievance category: %s\n", c.Name)
			}
		}

		fmt.Println("Grievance categories seeded successfully")

		sampleGrievances := []struct {
			TrackingID string
			Category   string
			Desc       string
			Summary    string
			Department string
			NextSteps  string
		}{
			{"GRV-10001", "Roads", "Large pothole near the market entrance on MG Road", "Pothole reported near MG Road market entrance", "Public Works Department", "Dispatch inspection team and schedule repair"},
			{"GRV-10002", "Street Lighting", "Street light out for a week on 4th Cross, residents worried about safety", "Non-functional street light on 4th Cross", "Electrical Department", "Replace faulty lamp and verify circuit"},
		}

		for _, g := range sampleGrievances {
			var exists int
			row := db.Raw("SELECT 1 FROM grievances WHERE tracking_id = ?", g.TrackingID).Row()
			if err := row.Scan(&exists); err != nil {

				if err := db.Exec("INSERT INTO grievances (tracking_id, category, description, submitted_by, status, summary, assigned_department, next_steps, submitted_at, updated_at) VALUES (?, ?, ?, ?, 'Pending', ?, ?, ?, now(), now())",
					g.TrackingID, g.Category, g.Desc, citizenEmail, g.Summary, g.Department, g.NextSteps).Error; err != nil {
					log.Fatalf("failed to insert sample grievance %s: %v", g.TrackingID, err)
				}
				fmt.Printf("Seeded sample grievance: %s\n", g.TrackingID)
			}
		}

		fmt.Println("Sample grievances seeded successfully")
	},
}
