package main

import (
	"context"
	"log"

	"carmarket/internal/config"
	"carmarket/internal/db"
	"carmarket/internal/model"
	"carmarket/internal/repository"
)

// Reference data seeded once per environment. Upserts by name, so re-running
// the command is safe.
var brands = map[string][]string{
	"Audi":       {"A3", "A4", "A6", "Q5", "Q7"},
	"BMW":        {"3 Series", "5 Series", "X3", "X5"},
	"Ford":       {"Fiesta", "Focus", "Mondeo", "Kuga"},
	"Honda":      {"Civic", "Accord", "CR-V"},
	"Hyundai":    {"Solaris", "Elantra", "Tucson", "Santa Fe"},
	"Kia":        {"Rio", "Ceed", "Sportage", "Sorento"},
	"Lada":       {"Granta", "Vesta", "Niva"},
	"Mercedes":   {"C-Class", "E-Class", "GLC", "GLE"},
	"Nissan":     {"Almera", "Qashqai", "X-Trail"},
	"Renault":    {"Logan", "Duster", "Kaptur"},
	"Skoda":      {"Fabia", "Octavia", "Kodiaq"},
	"Toyota":     {"Corolla", "Camry", "RAV4", "Land Cruiser"},
	"Volkswagen": {"Polo", "Golf", "Passat", "Tiguan"},
}

var features = map[string][]string{
	"comfort":  {"Air conditioning", "Climate control", "Heated seats", "Cruise control", "Power windows"},
	"safety":   {"ABS", "ESP", "Front airbags", "Side airbags", "Parking sensors", "Rear view camera"},
	"media":    {"Bluetooth", "Navigation system", "Premium audio"},
	"exterior": {"Alloy wheels", "Sunroof", "LED headlights", "Tow bar"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Brand{}, &model.CarModel{}, &model.CarFeature{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	catalogRepo := repository.NewCatalogRepository(gormDB)
	ctx := context.Background()

	brandCount, modelCount := 0, 0
	for name, modelNames := range brands {
		brand := &model.Brand{Name: name}
		if err := catalogRepo.UpsertBrand(ctx, brand); err != nil {
			log.Fatalf("Failed to seed brand %s: %v", name, err)
		}
		brandCount++

		for _, modelName := range modelNames {
			carModel := &model.CarModel{BrandID: brand.ID, Name: modelName}
			if err := catalogRepo.UpsertModel(ctx, carModel); err != nil {
				log.Fatalf("Failed to seed model %s %s: %v", name, modelName, err)
			}
			modelCount++
		}
	}

	featureCount := 0
	for category, names := range features {
		for _, name := range names {
			feature := &model.CarFeature{Name: name, Category: category}
			if err := catalogRepo.UpsertFeature(ctx, feature); err != nil {
				log.Fatalf("Failed to seed feature %s: %v", name, err)
			}
			featureCount++
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Brands processed: %d", brandCount)
	log.Printf("  - Models processed: %d", modelCount)
	log.Printf("  - Features processed: %d", featureCount)
}
