package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newLoadableViper() *viper.Viper {
	v := NewViper()
	v.Set("auth.signing_secret", "config-secret")
	v.Set("auth.admin_username", "admin")
	v.Set("auth.admin_password", "secret")
	return v
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(newLoadableViper())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.HTTPAddress != "0.0.0.0:8080" {
		t.Fatalf("unexpected http address %q", cfg.HTTPAddress)
	}
	if cfg.DatabasePath != "minutes.db" {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath)
	}
	if cfg.TokenTTL != 60*time.Minute {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
	if cfg.UploadDir != "uploads" || cfg.UploadURL != "/uploads" {
		t.Fatalf("unexpected upload settings %q %q", cfg.UploadDir, cfg.UploadURL)
	}
	if !cfg.RequireImages {
		t.Fatalf("expected image rule enabled by default")
	}
	if cfg.Letterhead.OrgName != "Bank Galuh Ciamis" || cfg.Letterhead.City != "Ciamis" {
		t.Fatalf("unexpected letterhead defaults %+v", cfg.Letterhead)
	}
	if len(cfg.Letterhead.AddressLines) == 0 {
		t.Fatalf("expected letterhead address lines")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	v := newLoadableViper()
	v.Set("http.address", "127.0.0.1:9090")
	v.Set("token.ttl_minutes", 15)
	v.Set("validation.require_images", false)
	v.Set("letterhead.org_name", "Another Org")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.HTTPAddress != "127.0.0.1:9090" {
		t.Fatalf("unexpected http address %q", cfg.HTTPAddress)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
	if cfg.RequireImages {
		t.Fatalf("expected image rule disabled")
	}
	if cfg.Letterhead.OrgName != "Another Org" {
		t.Fatalf("unexpected org name %q", cfg.Letterhead.OrgName)
	}
}

func TestLoadRejectsMissingRequiredValues(t *testing.T) {
	testCases := []struct {
		name    string
		missing string
	}{
		{name: "signing secret", missing: "auth.signing_secret"},
		{name: "admin username", missing: "auth.admin_username"},
		{name: "admin password", missing: "auth.admin_password"},
		{name: "database path", missing: "database.path"},
		{name: "upload directory", missing: "upload.directory"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			v := newLoadableViper()
			v.Set(testCase.missing, "")
			_, err := Load(v)
			if err == nil {
				t.Fatalf("expected error for missing %s", testCase.missing)
			}
			if !strings.Contains(err.Error(), testCase.missing) {
				t.Fatalf("expected error to name %s, got %v", testCase.missing, err)
			}
		})
	}
}
