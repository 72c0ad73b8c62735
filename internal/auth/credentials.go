package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrMissingCredentialConfig indicates the verifier was built without an admin account.
	ErrMissingCredentialConfig = errors.New("auth: admin credentials required")
)

// CredentialVerifierConfig describes the configured admin account.
type CredentialVerifierConfig struct {
	Username    string
	Password    string
	DisplayName string
}

// CredentialVerifier checks submitted credentials against the configured
// admin account in constant time.
type CredentialVerifier struct {
	username    string
	password    string
	displayName string
}

// NewCredentialVerifier validates the configuration and returns a verifier.
func NewCredentialVerifier(cfg CredentialVerifierConfig) (*CredentialVerifier, error) {
	username := strings.TrimSpace(cfg.Username)
	if username == "" || cfg.Password == "" {
		return nil, ErrMissingCredentialConfig
	}
	displayName := strings.TrimSpace(cfg.DisplayName)
	if displayName == "" {
		displayName = username
	}
	return &CredentialVerifier{
		username:    username,
		password:    cfg.Password,
		displayName: displayName,
	}, nil
}

// Verify returns the session claims for a matching username/password pair.
// Both comparisons run regardless of which one fails.
func (v *CredentialVerifier) Verify(username, password string) (SessionClaims, error) {
	userMatch := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(v.username))
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(v.password))
	if userMatch&passMatch != 1 {
		return SessionClaims{}, ErrInvalidCredentials
	}
	return SessionClaims{Subject: v.username, DisplayName: v.displayName}, nil
}
