package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"sumo-go/internal/student/ranking"
)

// Student sources
const (
	SourceSheets   = "sheets"
	SourcePostgres = "postgres"
	SourceDynamoDB = "dynamodb"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Server
	Port            int           `mapstructure:"PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `mapstructure:"ALLOWED_ORIGINS"`
	DefaultLanguage string        `mapstructure:"DEFAULT_LANGUAGE"`

	StudentSource string `mapstructure:"STUDENT_SOURCE"`

	// Apps Script endpoint
	SheetsEndpoint string        `mapstructure:"SHEETS_ENDPOINT"`
	SheetsTimeout  time.Duration `mapstructure:"SHEETS_TIMEOUT"`

	// Database
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RunMigrations bool   `mapstructure:"RUN_MIGRATIONS"`

	// AWS
	AWSRegion           string `mapstructure:"AWS_REGION"`
	DynamoDBTable       string `mapstructure:"DYNAMODB_TABLE"`
	DynamoDBCreateTable bool   `mapstructure:"DYNAMODB_CREATE_TABLE"`

	// Ranking, empty means the built-in tables
	LevelTiers       []ranking.Tier `mapstructure:"-"`
	CelebrationSteps []ranking.Step `mapstructure:"CELEBRATION_STEPS"`

	FeaturedInterval time.Duration `mapstructure:"FEATURED_INTERVAL"`
}

func Load() (*Config, error) {
	// .env is optional, real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables take precedence
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees env-only values
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("VERSION", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_TIMEOUT", time.Second*30)
	v.SetDefault("ALLOWED_ORIGINS", []string{})
	v.SetDefault("DEFAULT_LANGUAGE", "ar")
	v.SetDefault("STUDENT_SOURCE", SourceSheets)
	v.SetDefault("SHEETS_ENDPOINT", "")
	v.SetDefault("SHEETS_TIMEOUT", time.Second*10)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("DYNAMODB_TABLE", "students")
	v.SetDefault("DYNAMODB_CREATE_TABLE", false)
	v.SetDefault("LEVEL_TIERS", "")
	v.SetDefault("FEATURED_INTERVAL", time.Second*5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK if we're using env vars
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	tiers, err := levelTiers(v)
	if err != nil {
		return nil, err
	}
	config.LevelTiers = tiers

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// levelTiers reads LEVEL_TIERS either as a YAML list of {name, min_points}
// or, from the environment, as "Bronze:0,Silver:10".
func levelTiers(v *viper.Viper) ([]ranking.Tier, error) {
	if raw, ok := v.Get("LEVEL_TIERS").(string); ok {
		return ParseTiers(raw)
	}
	var tiers []ranking.Tier
	if err := v.UnmarshalKey("LEVEL_TIERS", &tiers); err != nil {
		return nil, fmt.Errorf("error unmarshaling LEVEL_TIERS: %w", err)
	}
	return tiers, nil
}

// ParseTiers parses a comma separated list of name:min_points pairs
func ParseTiers(raw string) ([]ranking.Tier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var tiers []ranking.Tier
	for _, pair := range strings.Split(raw, ",") {
		name, min, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("%w: LEVEL_TIERS entry %q is not name:points", ErrInvalidConfig, pair)
		}
		points, err := strconv.Atoi(strings.TrimSpace(min))
		if err != nil {
			return nil, fmt.Errorf("%w: LEVEL_TIERS entry %q: %w", ErrInvalidConfig, pair, err)
		}
		tiers = append(tiers, ranking.Tier{Name: strings.TrimSpace(name), MinPoints: points})
	}
	return tiers, nil
}

// Validate checks the fields the selected student source depends on
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT %d out of range", ErrInvalidConfig, c.Port)
	}

	switch c.StudentSource {
	case SourceSheets:
		if c.SheetsEndpoint == "" {
			return fmt.Errorf("%w: SHEETS_ENDPOINT is required", ErrInvalidConfig)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required", ErrInvalidConfig)
		}
	case SourceDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("%w: DYNAMODB_TABLE is required", ErrInvalidConfig)
		}
		if c.AWSRegion == "" {
			return fmt.Errorf("%w: AWS_REGION is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STUDENT_SOURCE %q", ErrInvalidConfig, c.StudentSource)
	}

	return nil
}
