package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"loadlink/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// InitDB initializes the database connection using environment
// variables, migrates the schema and creates the partial unique
// indexes backing the workflow invariants.
func InitDB() {
	// Load .env (if present)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "loadlink")
	sslmode := getEnv("DB_SSLMODE", "disable")
	timezone := getEnv("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Truck{},
		&models.TruckPosting{},
		&models.Load{},
		&models.Trip{},
		&models.LoadRequest{},
		&models.TruckRequest{},
		&models.Wallet{},
		&models.TripSettlement{},
	)
	if err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	// Partial unique indexes: at most one PENDING request per
	// (load, truck) pair per direction, and one ACTIVE posting per
	// truck. These close the race window behind the in-transaction
	// existence checks.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_load_requests_pending
		ON load_requests (load_id, truck_id)
		WHERE status = 'PENDING' AND deleted_at IS NULL;`)
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_truck_requests_pending
		ON truck_requests (load_id, truck_id)
		WHERE status = 'PENDING' AND deleted_at IS NULL;`)
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_truck_postings_active
		ON truck_postings (truck_id)
		WHERE status = 'ACTIVE' AND deleted_at IS NULL;`)

	DB = db
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// GetDB returns the initialized DB handle
func GetDB() *gorm.DB {
	return DB
}
