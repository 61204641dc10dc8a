package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.App.HTTPAddr)
	}
	if cfg.App.AllowedEmailDomain != "@gmail.com" {
		t.Fatalf("expected default email domain, got %q", cfg.App.AllowedEmailDomain)
	}
	if cfg.Email.SMTPPort != 587 {
		t.Fatalf("expected default smtp port 587, got %d", cfg.Email.SMTPPort)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "app": {"http_addr": ":9090", "log_level": "debug"},
  "email": {"smtp_user": "todo@gmail.com"}
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":9090" {
		t.Fatalf("expected addr from file, got %q", cfg.App.HTTPAddr)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("expected log level from file, got %q", cfg.App.LogLevel)
	}
	// 文件里没写的字段要落默认值
	if cfg.App.AllowedEmailDomain != "@gmail.com" {
		t.Fatalf("expected default email domain, got %q", cfg.App.AllowedEmailDomain)
	}
	if cfg.Email.SMTPUser != "todo@gmail.com" {
		t.Fatalf("expected smtp user from file, got %q", cfg.Email.SMTPUser)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_HTTP_ADDR", ":7070")
	t.Setenv("APP_ALLOWED_EMAIL_DOMAIN", "@example.com")
	t.Setenv("SMTP_USER", "ops@example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":7070" {
		t.Fatalf("expected env addr, got %q", cfg.App.HTTPAddr)
	}
	if cfg.App.AllowedEmailDomain != "@example.com" {
		t.Fatalf("expected env email domain, got %q", cfg.App.AllowedEmailDomain)
	}
	if cfg.Email.SMTPUser != "ops@example.com" {
		t.Fatalf("expected env smtp user, got %q", cfg.Email.SMTPUser)
	}
}

func TestValidate_MissingMailCredentials(t *testing.T) {
	cfg := getDefaultConfig()

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation failure with empty mail credentials")
	}
	if !strings.Contains(err.Error(), "smtp_user") {
		t.Fatalf("expected smtp_user in error, got %v", err)
	}
}

func TestValidate_Complete(t *testing.T) {
	cfg := getDefaultConfig()
	cfg.Email.SMTPUser = "todo@gmail.com"
	cfg.Email.SMTPPass = "app-password"
	cfg.Email.FromEmail = "todo@gmail.com"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
