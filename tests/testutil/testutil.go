package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/restaurante-kishimoto/kishimoto-web/config"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// MustSetTestEnvironment sets GO_ENV to test and fails if it cannot be set.
// Use this in TestMain or suite setup functions.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}

	// Verify it was set
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("Failed to verify GO_ENV=test")
	}
}

// NewTestConfig returns a configuration for tests. Nothing is read from the
// environment; uploads go to a per-test temporary directory.
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DatabaseURL:       "file::memory:",
		Port:              "8080",
		GoEnv:             "test",
		SessionSecret:     "test-session-secret",
		SessionCookieName: "kishimoto_session",
		SessionTTL:        time.Hour,
		ResetTokenSecret:  "test-reset-secret",
		ResetTokenTTL:     30 * time.Minute,
		PublicBaseURL:     "http://kishimoto.test",
		AdminScope:        "admin:backoffice",
		AWSRegion:         "us-east-1",
		UploadDir:         t.TempDir(),
		LogLevel:          "silent",
	}
}
