package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "BOT_TOKEN", "MONGO_URI", "MONGO_DB", "OPENROUTER_API_KEY", "OPENROUTER_MODEL", "GOOGLE_SHEET_URL", "EXPORT_PASS", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MongoDatabase != "telegram_gastos" {
		t.Errorf("MongoDatabase = %q, want telegram_gastos", cfg.MongoDatabase)
	}
	if cfg.OpenRouterModel != "mistralai/mistral-7b-instruct" {
		t.Errorf("OpenRouterModel = %q, want mistralai/mistral-7b-instruct", cfg.OpenRouterModel)
	}
	if cfg.ExportPass != "0000" {
		t.Errorf("ExportPass = %q, want 0000", cfg.ExportPass)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BOT_TOKEN", "123456:token")
	t.Setenv("EXPORT_PASS", "secreto")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.BotToken != "123456:token" {
		t.Errorf("BotToken = %q, want 123456:token", cfg.BotToken)
	}
	if cfg.ExportPass != "secreto" {
		t.Errorf("ExportPass = %q, want secreto", cfg.ExportPass)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		Port:             "8080",
		BotToken:         "123456:token",
		MongoURI:         "mongodb://localhost:27017",
		OpenRouterAPIKey: "sk-or-xxx",
		GinMode:          "release",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "non-numeric port",
			mutate:  func(c *Config) { c.Port = "abc" },
			wantErr: "invalid port 'abc'",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = "70000" },
			wantErr: "invalid port 70000",
		},
		{
			name:    "missing bot token",
			mutate:  func(c *Config) { c.BotToken = "" },
			wantErr: "BOT_TOKEN is required",
		},
		{
			name:    "missing mongo uri",
			mutate:  func(c *Config) { c.MongoURI = "" },
			wantErr: "MONGO_URI is required",
		},
		{
			name:    "missing openrouter key",
			mutate:  func(c *Config) { c.OpenRouterAPIKey = "" },
			wantErr: "OPENROUTER_API_KEY is required",
		},
		{
			name:    "unknown gin mode",
			mutate:  func(c *Config) { c.GinMode = "verbose" },
			wantErr: "invalid GIN_MODE 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
