package auth

import (
	"errors"
	"testing"
)

func TestNewCredentialVerifierRequiresAccount(t *testing.T) {
	testCases := []struct {
		name string
		cfg  CredentialVerifierConfig
	}{
		{name: "empty", cfg: CredentialVerifierConfig{}},
		{name: "blank username", cfg: CredentialVerifierConfig{Username: "  ", Password: "secret"}},
		{name: "missing password", cfg: CredentialVerifierConfig{Username: "admin"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := NewCredentialVerifier(testCase.cfg); !errors.Is(err, ErrMissingCredentialConfig) {
				t.Fatalf("expected missing config error, got %v", err)
			}
		})
	}
}

func TestVerifyAcceptsConfiguredAccount(t *testing.T) {
	verifier, err := NewCredentialVerifier(CredentialVerifierConfig{
		Username:    "admin",
		Password:    "secret",
		DisplayName: "Administrator",
	})
	if err != nil {
		t.Fatalf("failed to build verifier: %v", err)
	}

	claims, err := verifier.Verify("admin", "secret")
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if claims.Subject != "admin" || claims.DisplayName != "Administrator" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	claims, err = verifier.Verify("  admin  ", "secret")
	if err != nil {
		t.Fatalf("expected trimmed username to match, got %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}

func TestVerifyRejectsWrongCredentials(t *testing.T) {
	verifier, err := NewCredentialVerifier(CredentialVerifierConfig{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("failed to build verifier: %v", err)
	}

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "guess"},
		{name: "wrong username", username: "root", password: "secret"},
		{name: "both wrong", username: "root", password: "guess"},
		{name: "empty", username: "", password: ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := verifier.Verify(testCase.username, testCase.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
		})
	}
}

func TestVerifyDefaultsDisplayNameToUsername(t *testing.T) {
	verifier, err := NewCredentialVerifier(CredentialVerifierConfig{Username: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("failed to build verifier: %v", err)
	}
	claims, err := verifier.Verify("admin", "secret")
	if err != nil {
		t.Fatalf("unexpected verify error: %v", err)
	}
	if claims.DisplayName != "admin" {
		t.Fatalf("expected display name fallback, got %q", claims.DisplayName)
	}
}
