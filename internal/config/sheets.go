package config

import (
	"fmt"
	"os"

	"github.com/Veraticus/gofinances/internal/common"
	"github.com/Veraticus/gofinances/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig loads Google Sheets configuration. Precedence:
// 1. viper (config file or GOFINANCES_SHEETS_* env vars)
// 2. GOOGLE_SHEETS_* env vars
// 3. defaults
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		cfg.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.timezone"); v != "" {
		cfg.TimeZone = v
	}

	if cfg.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			cfg.ServiceAccountPath = ExpandPath(v)
		}
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if cfg.RefreshToken == "" {
		cfg.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if cfg.SpreadsheetID == "" {
		cfg.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if cfg.SpreadsheetName == sheets.DefaultSpreadsheetName {
		if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" {
			cfg.SpreadsheetName = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: sheets: %w", common.ErrInvalidConfig, err)
	}

	return &cfg, nil
}
