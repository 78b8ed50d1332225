package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/gofinances/internal/common"
	"github.com/Veraticus/gofinances/internal/model"
	"github.com/Veraticus/gofinances/internal/pattern"
	"github.com/Veraticus/gofinances/internal/taxonomy"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix viper uses for environment overrides.
const EnvPrefix = "GOFINANCES"

// DefaultUserID is used when no user.id is configured.
const DefaultUserID = "default"

// DatabasePath returns database.path, defaulting to the XDG data directory.
func DatabasePath() (string, error) {
	if p := viper.GetString("database.path"); p != "" {
		return ExpandPath(p), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "gofinances", "gofinances.db"), nil
}

// UserID returns the configured user whose transactions are read and written.
func UserID() string {
	if id := strings.TrimSpace(viper.GetString("user.id")); id != "" {
		return id
	}
	return DefaultUserID
}

// Location returns the time zone used for calendar-month boundaries.
// An empty timezone means the machine's local zone.
func Location() (*time.Location, error) {
	name := strings.TrimSpace(viper.GetString("timezone"))
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", common.ErrInvalidConfig, name, err)
	}
	return loc, nil
}

// LoadTaxonomy returns the category taxonomy, honoring a "categories" list in
// the config file when one is present.
func LoadTaxonomy() (*taxonomy.Taxonomy, error) {
	if !viper.IsSet("categories") {
		return taxonomy.Default(), nil
	}

	var categories []model.Category
	if err := viper.UnmarshalKey("categories", &categories); err != nil {
		return nil, fmt.Errorf("%w: categories: %w", common.ErrInvalidConfig, err)
	}

	tax, err := taxonomy.New(categories)
	if err != nil {
		return nil, fmt.Errorf("%w: categories: %w", common.ErrInvalidConfig, err)
	}
	return tax, nil
}

// APIConfig holds the HTTP server settings.
type APIConfig struct {
	Listen         string
	AllowedOrigins []string
}

// LoadAPIConfig reads api.* settings.
func LoadAPIConfig() APIConfig {
	cfg := APIConfig{
		Listen:         viper.GetString("api.listen"),
		AllowedOrigins: viper.GetStringSlice("api.allowed_origins"),
	}
	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	return cfg
}

// LoadImportRules reads the "import_rules" list and validates it against tax.
func LoadImportRules(tax *taxonomy.Taxonomy) ([]model.PatternRule, error) {
	if !viper.IsSet("import_rules") {
		return nil, nil
	}

	var rules []model.PatternRule
	if err := viper.UnmarshalKey("import_rules", &rules); err != nil {
		return nil, fmt.Errorf("%w: import_rules: %w", common.ErrInvalidConfig, err)
	}
	if err := pattern.Validate(rules, tax); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return rules, nil
}
