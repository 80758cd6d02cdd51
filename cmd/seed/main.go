package main

import (
	"fmt"
	"log"
	"time"

	"eventtix/internal/config"
	"eventtix/internal/database"
	"eventtix/internal/models"
	"eventtix/internal/repositories"
	"eventtix/internal/services"
)

const seedOrganizerEmail = "organizer@eventtix.local"

func main() {
	fmt.Println("Seeding demo events...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repositories.NewUserRepository(db.DB)
	categoryRepo := repositories.NewCategoryRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)

	authService := services.NewAuthService(userRepo)
	eventService := services.NewEventService(eventRepo, categoryRepo)

	organizer, err := userRepo.GetByEmail(seedOrganizerEmail)
	if err != nil {
		organizer, err = authService.Register(&models.UserCreateRequest{
			Email:    seedOrganizerEmail,
			Password: "ChangeMe-Seed-123",
			Name:     "Demo Organizer",
			Role:     models.RoleOrganizer,
		})
		if err != nil {
			log.Fatalf("Failed to create seed organizer: %v", err)
		}
		fmt.Printf("Created organizer %s\n", organizer.Email)
	}

	events := []*models.EventCreateRequest{
		{
			Title:       "Nairobi Tech Summit",
			Description: "Two days of talks and workshops from the East African tech scene.",
			StartDate:   time.Now().AddDate(0, 1, 0),
			EndDate:     time.Now().AddDate(0, 1, 1),
			StartTime:   "09:00",
			EndTime:     "17:00",
			Location:    "Nairobi",
			Venue:       "KICC",
			Capacity:    2000,
			Tags:        []string{"tech", "conference"},
			Category:    "Technology",
			Status:      models.StatusPublished,
			TicketTypes: []models.TicketTypeInput{
				{Name: "Standard", Price: 45, Quantity: 1500},
				{Name: "VIP", Description: "Front row and speaker dinner", Price: 150, Quantity: 100},
			},
		},
		{
			Title:       "Sunset Jazz Picnic",
			Description: "An open-air evening of live jazz by the lake.",
			StartDate:   time.Now().AddDate(0, 0, 21),
			EndDate:     time.Now().AddDate(0, 0, 21),
			StartTime:   "16:00",
			EndTime:     "21:00",
			Location:    "Naivasha",
			Venue:       "Lakeside Gardens",
			Capacity:    400,
			Tags:        []string{"music", "jazz", "outdoor"},
			Category:    "Music",
			Status:      models.StatusPublished,
			TicketTypes: []models.TicketTypeInput{
				{Name: "General", Price: 20, Quantity: 350},
				{Name: "Family Pack", Description: "Admits four", Price: 60, Quantity: 50},
			},
		},
		{
			Title:       "Intro to Go Workshop",
			Description: "A free hands-on workshop for developers new to Go.",
			StartDate:   time.Now().AddDate(0, 0, 14),
			EndDate:     time.Now().AddDate(0, 0, 14),
			StartTime:   "10:00",
			EndTime:     "13:00",
			Location:    "",
			IsVirtual:   true,
			VirtualLink: "https://meet.example.com/go-workshop",
			Capacity:    100,
			Tags:        []string{"tech", "workshop", "free"},
			Category:    "Technology",
			Status:      models.StatusPublished,
			TicketTypes: []models.TicketTypeInput{
				{Name: "Free Entry", Price: 0, Quantity: 100},
			},
		},
	}

	for _, req := range events {
		event, err := eventService.CreateEvent(req, organizer)
		if err != nil {
			log.Printf("Skipping %q: %v", req.Title, err)
			continue
		}
		fmt.Printf("Created event %s (/%s)\n", event.Title, event.Slug)
	}

	fmt.Println("Seeding complete")
}
