package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"masterdata-service/internal/models"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string

	// Basic auth
	AuthUser     string
	AuthPassword string

	// Services
	NotificationServiceURL string

	// Uploads
	PictureDir string

	// Import
	ImportMaxRows int
	// ImportSubstituteMissingRefs switches state imports from rejecting
	// unresolved country names to writing the zero sentinel.
	ImportSubstituteMissingRefs bool
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	importMaxRows, _ := strconv.Atoi(getEnv("IMPORT_MAX_ROWS", "10000"))
	substituteRefs, _ := strconv.ParseBool(getEnv("IMPORT_SUBSTITUTE_MISSING_REFS", "false"))

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "masterdata_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Basic auth
		AuthUser:     getEnv("AUTH_USER", "admin"),
		AuthPassword: getEnv("AUTH_PASSWORD", "admin"),

		// Services
		NotificationServiceURL: getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8085"),

		// Uploads
		PictureDir: getEnv("PICTURE_DIR", "./pictures"),

		// Import
		ImportMaxRows:               importMaxRows,
		ImportSubstituteMissingRefs: substituteRefs,
	}
}

func InitDB(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migration adds any missing columns to existing tables.
	if err := db.AutoMigrate(
		&models.Country{},
		&models.State{},
		&models.BaseCurrency{},
		&models.Currency{},
		&models.HSNCode{},
		&models.BusinessType{},
		&models.IndustryType{},
		&models.Language{},
		&models.DateFormat{},
		&models.Salutation{},
		&models.GSTTreatment{},
		&models.FiscalYear{},
		&models.Item{},
		&models.Company{},
		&models.User{},
		&models.UserRole{},
		&models.UserLog{},
	); err != nil {
		log.WithError(err).Warn("Auto-migration failed")
	} else {
		log.Info("Database schema migration completed")
	}

	if err := createNaturalKeyIndexes(db); err != nil {
		log.WithError(err).Warn("Failed to create natural-key indexes")
	}

	return db, nil
}

// createNaturalKeyIndexes enforces uniqueness of each lookup table's natural
// key under the same normalization the resolver uses, so concurrent saves of
// the same key cannot both insert.
func createNaturalKeyIndexes(db *gorm.DB) error {
	statements := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_countries_key ON countries (LOWER(TRIM(countryname)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_states_key ON states (LOWER(TRIM(statename)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_base_currencies_key ON base_currencies (LOWER(TRIM(currencycode)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_currencies_key ON currencies (compid, LOWER(TRIM(currencycode)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_hsn_codes_key ON hsn_codes (LOWER(TRIM(hsncode)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_business_types_key ON business_types (LOWER(TRIM(bustype)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_industry_types_key ON industry_types (LOWER(TRIM(indtype)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_languages_key ON languages (LOWER(TRIM(langcode)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_date_formats_key ON date_formats (LOWER(TRIM(dateformat)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_salutations_key ON salutations (LOWER(TRIM(salutation)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_gst_treatments_key ON gst_treatments (LOWER(TRIM(gsttreatment)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_fiscal_years_key ON fiscal_years (LOWER(TRIM(fiscalyear)))",
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_items_key ON items (compid, LOWER(TRIM(itemname)))",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
