package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/appointmentcake/backend/internal/adapters/database"
	"github.com/appointmentcake/backend/internal/adapters/search"
	"github.com/appointmentcake/backend/internal/application/services"
	"github.com/appointmentcake/backend/internal/domain/entities"
	"github.com/appointmentcake/backend/internal/infrastructure/clients/postgres"
	"github.com/appointmentcake/backend/internal/infrastructure/clients/typesense"
	"github.com/appointmentcake/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		tsClient.InitSchema(context.Background())
	}

	userRepo := database.NewUserAdapter(pgClient)
	companyRepo := database.NewCompanyAdapter(pgClient)
	formFieldRepo := database.NewFormFieldAdapter(pgClient)
	companyService := services.NewCompanyService(companyRepo, searchRepo, nil)

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				bookings,
				profiles,
				companies,
				form_fields,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed users
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := []entities.User{
		{ID: uuid.New().String(), FirstName: "Amara", LastName: "Okafor", Email: "amara@example.com", Phone: "416-555-0101", Password: string(hash), CreatedAt: time.Now()},
		{ID: uuid.New().String(), FirstName: "Daniel", LastName: "Reyes", Email: "daniel@example.com", Phone: "416-555-0102", Password: string(hash), CreatedAt: time.Now()},
		{ID: uuid.New().String(), FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Phone: "416-555-0103", Password: string(hash), IsAdmin: true, CreatedAt: time.Now()},
	}

	for i := range users {
		if err := userRepo.Create(ctx, &users[i]); err != nil {
			log.Printf("Failed to create user %s: %v", users[i].Email, err)
		}
	}

	// 2. Seed companies with bookable services
	weekday := entities.DayHours{Open: true, StartTime: "09:00", EndTime: "17:00"}
	companies := []entities.Company{
		{
			ID:     uuid.New().String(),
			UserID: users[0].ID,
			Name:   "Lakeshore Dental",
			Phone:  "416-555-0201",
			Email:  "hello@lakeshoredental.example.com",
			Address: entities.Address{
				StreetAddress: "2045 Lake Shore Blvd W", City: "Toronto", Province: "ON", Postal: "M8V 2Z6", Country: "Canada",
			},
			Geolocation: entities.NewGeoPoint(43.6205, -79.4806),
			Services: []entities.Service{
				{ID: uuid.New().String(), Name: "Checkup and Cleaning", ServiceDuration: 45, Price: "120", BookOnline: true},
				{ID: uuid.New().String(), Name: "Whitening", ServiceDuration: 60, Price: "250", CallToBook: true},
			},
			StoreHours: entities.StoreHours{Monday: weekday, Tuesday: weekday, Wednesday: weekday, Thursday: weekday, Friday: weekday},
			CreatedAt:  time.Now(),
		},
		{
			ID:     uuid.New().String(),
			UserID: users[1].ID,
			Name:   "Riverdale Physiotherapy",
			Phone:  "416-555-0202",
			Email:  "frontdesk@riverdalephysio.example.com",
			Address: entities.Address{
				StreetAddress: "741 Broadview Ave", City: "Toronto", Province: "ON", Postal: "M4K 2P6", Country: "Canada",
			},
			Geolocation: entities.NewGeoPoint(43.6782, -79.3586),
			Services: []entities.Service{
				{ID: uuid.New().String(), Name: "Initial Assessment", ServiceDuration: 60, Price: "110", BookOnline: true},
			},
			StoreHours: entities.StoreHours{Monday: weekday, Wednesday: weekday, Friday: weekday},
			CreatedAt:  time.Now(),
		},
		{
			ID:      uuid.New().String(),
			UserID:  users[2].ID,
			Name:    "Harbourfront Wellness Group",
			Phone:   "416-555-0203",
			Email:   "care@harbourfrontwellness.example.com",
			IsAdmin: true,
			Address: entities.Address{
				StreetAddress: "235 Queens Quay W", City: "Toronto", Province: "ON", Postal: "M5J 2G8", Country: "Canada",
			},
			Geolocation: entities.NewGeoPoint(43.6387, -79.3816),
			Services: []entities.Service{
				{ID: uuid.New().String(), Name: "Massage Therapy", ServiceDuration: 90, Price: "140", BookOnline: true},
				{ID: uuid.New().String(), Name: "Acupuncture", ServiceDuration: 45, Price: "95", BookOnline: true},
			},
			StoreHours: entities.StoreHours{Monday: weekday, Tuesday: weekday, Wednesday: weekday, Thursday: weekday, Friday: weekday, Saturday: weekday},
			CreatedAt:  time.Now(),
		},
	}

	for i := range companies {
		c := &companies[i]
		c.Address.Lat = c.Geolocation.Coordinates[1]
		c.Address.Lng = c.Geolocation.Coordinates[0]
		if err := companyRepo.Create(ctx, c); err != nil {
			log.Printf("Failed to create company %s: %v", c.Name, err)
		}
	}

	// 3. Seed intake form field definitions
	formFields := []entities.FormField{
		{ID: uuid.New().String(), FieldName: "reason_for_visit", FieldLabel: "Reason for visit", FieldCategory: "general", FieldType: "text", IsRequired: true},
		{ID: uuid.New().String(), FieldName: "insurance_provider", FieldLabel: "Insurance provider", FieldCategory: "insurance", FieldType: "text"},
		{ID: uuid.New().String(), FieldName: "new_patient", FieldLabel: "Are you a new patient?", FieldCategory: "general", FieldType: "checkbox", DefaultValue: json.RawMessage(`false`)},
	}

	for i := range formFields {
		if err := formFieldRepo.Create(ctx, &formFields[i]); err != nil {
			log.Printf("Failed to create form field %s: %v", formFields[i].FieldName, err)
		}
	}

	// 4. Push companies into the search index
	if searchRepo != nil {
		indexed, err := companyService.ReindexAll(ctx)
		if err != nil {
			log.Printf("Failed to reindex companies: %v", err)
		} else {
			log.Printf("Indexed %d companies", indexed)
		}
	}

	log.Printf("Seeded %d users, %d companies, %d form fields", len(users), len(companies), len(formFields))
}
