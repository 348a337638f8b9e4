package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"bargainhub/backend/internal/catalog"
	"bargainhub/backend/internal/config"
	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: seed, close-expired, list-sessions")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "seed":
		if err := seedDemoData(storageSvc); err != nil {
			log.Fatalf("Error seeding demo data: %v", err)
		}
		fmt.Println("Demo data seeded.")
	case "close-expired":
		n, err := storageSvc.ExpireOverdueSessions(time.Now())
		if err != nil {
			log.Fatalf("Error closing expired sessions: %v", err)
		}
		fmt.Printf("Closed %d expired sessions.\n", n)
	case "list-sessions":
		if err := listActiveSessions(db); err != nil {
			log.Fatalf("Error listing sessions: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

// seedDemoData creates a demo seller and buyer plus a few listings, so the
// dev token endpoint has principals to hand out.
func seedDemoData(s *storage.Service) error {
	seller := &models.User{Username: "demo_seller", Role: models.RoleSeller}
	if existing, err := s.GetUserByUsername(seller.Username); err != nil {
		return err
	} else if existing != nil {
		seller = existing
	} else if err := s.SaveUser(seller); err != nil {
		return err
	}

	buyer := &models.User{Username: "demo_buyer", Role: models.RoleBuyer}
	if existing, err := s.GetUserByUsername(buyer.Username); err != nil {
		return err
	} else if existing == nil {
		if err := s.SaveUser(buyer); err != nil {
			return err
		}
	}

	cat := catalog.NewService(s)
	return cat.Seed([]models.Product{
		{SellerID: seller.ID, Title: "Mechanical keyboard", Description: "Hot-swappable, barely used", Price: 100, Tags: pq.StringArray{"electronics", "keyboards"}, Active: true},
		{SellerID: seller.ID, Title: "Road bike", Description: "Aluminium frame, size M", Price: 450, Tags: pq.StringArray{"sports"}, Active: true},
		{SellerID: seller.ID, Title: "Espresso machine", Description: "Single boiler", Price: 220, Tags: pq.StringArray{"kitchen"}, Active: true},
	})
}

func listActiveSessions(db *gorm.DB) error {
	var sessions []models.BargainSession
	if err := db.Where("status = ?", models.StatusActive).
		Order("updated_at desc").Find(&sessions).Error; err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Printf("%s  buyer=%s seller=%s product=%s current=%.2f expires=%s\n",
			s.ID, s.BuyerID, s.SellerID, s.ProductID, s.CurrentPrice,
			s.ExpiresAt.Format(time.RFC3339))
	}
	fmt.Printf("%d active sessions.\n", len(sessions))
	return nil
}
