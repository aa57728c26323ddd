package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestWrapperMigrationEnforcesLedgerConstraints(t *testing.T) {
	content := readMigration(t, "*_create_token_wrappers.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS token_wrappers",
		"CHECK (wrapped_tokens >= 0)",
		"transaction_hash TEXT NOT NULL UNIQUE",
		"DROP TABLE IF EXISTS token_wrappers",
	}
	for _, c := range checks {
		if !strings.Contains(content, c) {
			t.Fatalf("token_wrappers migration missing %q", c)
		}
	}
}

func TestProviderMigrationSeedsDefaults(t *testing.T) {
	content := readMigration(t, "*_create_ai_providers.sql")

	for _, provider := range []string{"openai", "anthropic", "google"} {
		if !strings.Contains(content, "'"+provider+"'") {
			t.Fatalf("ai_providers migration missing seed for %q", provider)
		}
	}
	if !strings.Contains(content, "ON CONFLICT (name) DO NOTHING") {
		t.Fatal("ai_providers seed must be idempotent")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
