package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix            = "MINUTES"
	defaultHTTPAddress   = "0.0.0.0:8080"
	defaultDatabasePath  = "minutes.db"
	defaultLogLevel      = "info"
	defaultUploadDir     = "uploads"
	defaultUploadURL     = "/uploads"
	defaultTokenTTL      = 60
	defaultOrgName       = "Bank Galuh Ciamis"
	defaultOrgCity       = "Ciamis"
	defaultSignerRole    = "Notulen,"
	defaultRequireImages = true
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress   string
	DatabasePath  string
	LogLevel      string
	SigningSecret string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	AdminName     string
	UploadDir     string
	UploadURL     string
	RequireImages bool
	Letterhead    LetterheadConfig
}

// LetterheadConfig carries the organization identity printed on exported
// documents.
type LetterheadConfig struct {
	OrgName      string
	AddressLines []string
	City         string
	SignerName   string
	SignerRole   string
	LogoPath     string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("token.ttl_minutes", defaultTokenTTL)
	configViper.SetDefault("upload.directory", defaultUploadDir)
	configViper.SetDefault("upload.public_url", defaultUploadURL)
	configViper.SetDefault("validation.require_images", defaultRequireImages)
	configViper.SetDefault("letterhead.org_name", defaultOrgName)
	configViper.SetDefault("letterhead.address", []string{
		"Bank Galuh Ciamis",
		"Jl. MR Iwa Kusumasoemantri, Kertasari",
		"Kabupaten Ciamis, Jawa Barat 46211",
	})
	configViper.SetDefault("letterhead.city", defaultOrgCity)
	configViper.SetDefault("letterhead.signer_role", defaultSignerRole)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:   configViper.GetString("http.address"),
		DatabasePath:  configViper.GetString("database.path"),
		LogLevel:      configViper.GetString("log.level"),
		SigningSecret: configViper.GetString("auth.signing_secret"),
		TokenTTL:      time.Duration(configViper.GetInt("token.ttl_minutes")) * time.Minute,
		AdminUsername: configViper.GetString("auth.admin_username"),
		AdminPassword: configViper.GetString("auth.admin_password"),
		AdminName:     configViper.GetString("auth.admin_name"),
		UploadDir:     configViper.GetString("upload.directory"),
		UploadURL:     configViper.GetString("upload.public_url"),
		RequireImages: configViper.GetBool("validation.require_images"),
		Letterhead: LetterheadConfig{
			OrgName:      configViper.GetString("letterhead.org_name"),
			AddressLines: configViper.GetStringSlice("letterhead.address"),
			City:         configViper.GetString("letterhead.city"),
			SignerName:   configViper.GetString("letterhead.signer_name"),
			SignerRole:   configViper.GetString("letterhead.signer_role"),
			LogoPath:     configViper.GetString("letterhead.logo_path"),
		},
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if strings.TrimSpace(c.AdminUsername) == "" {
		return fmt.Errorf("auth.admin_username is required")
	}
	if strings.TrimSpace(c.AdminPassword) == "" {
		return fmt.Errorf("auth.admin_password is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return fmt.Errorf("upload.directory is required")
	}
	return nil
}
