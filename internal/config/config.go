package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DraftStoreMemory   = "memory"
	DraftStorePostgres = "postgres"
	DraftStoreMongo    = "mongo"
)

type Config struct {
	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	AttachmentsBucket      string
	PhotosBucket           string
	LogosBucket            string

	// Serverless functions
	FunctionsBaseURL string

	// Database
	DatabaseURL string

	// Drafts
	DraftStore            string
	MongoURI              string
	MongoDatabase         string
	MongoDraftsCollection string

	// Reference data
	ReferenceCacheTTL time.Duration

	// Server
	Port        string
	Environment string
	BaseURL     string
	CORSOrigins []string
}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	ttl, err := time.ParseDuration(getEnv("REFERENCE_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		AttachmentsBucket:      getEnv("SUPABASE_ATTACHMENTS_BUCKET", "project-attachments"),
		PhotosBucket:           getEnv("SUPABASE_PHOTOS_BUCKET", "profile-photos"),
		LogosBucket:            getEnv("SUPABASE_LOGOS_BUCKET", "company-logos"),

		FunctionsBaseURL: getEnv("FUNCTIONS_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		DraftStore:            strings.ToLower(getEnv("DRAFT_STORE", DraftStoreMemory)),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:         getEnv("MONGO_DB", "gigexecs"),
		MongoDraftsCollection: getEnv("MONGO_DRAFTS_COLLECTION", "wizard_drafts"),

		ReferenceCacheTTL: ttl,

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		CORSOrigins: parseList(getEnv("CORS_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	switch c.DraftStore {
	case DraftStoreMemory, DraftStoreMongo:
	case DraftStorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DRAFT_STORE=postgres")
		}
	default:
		return fmt.Errorf("DRAFT_STORE must be one of memory, postgres, mongo (got %q)", c.DraftStore)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
