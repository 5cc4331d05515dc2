// Package readiness tests the staged installation/authentication/model
// probes and snapshot caching.
// Related: internal/readiness/readiness.go
// Tags: readiness, probes, caching
package readiness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/glintlabs/glint/internal/errors"
	"github.com/glintlabs/glint/internal/logging"
	"github.com/glintlabs/glint/internal/testutil"
)

func writeCredentials(t *testing.T, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".credentials.json")
	content := `{"claudeAiOauth":{"accessToken":"` + token + `"}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing credentials: %v", err)
	}
	return path
}

func newTestChecker(t *testing.T, cfg Config, binaryPath string) *Checker {
	t.Helper()
	c := NewChecker(cfg, nil, logging.NewNop())
	c.lookPath = func(string) (string, error) {
		if binaryPath == "" {
			return "", errors.New("executable file not found in $PATH")
		}
		return binaryPath, nil
	}
	return c
}

func TestRefreshNotInstalled(t *testing.T) {
	c := newTestChecker(t, Config{Command: "claude"}, "")

	snap := c.Refresh(context.Background())

	if snap.Installed || snap.Ready() {
		t.Error("missing binary must not be ready")
	}
	if snap.Err == nil || snap.Err.Category != apperrors.Installation {
		t.Errorf("expected installation error, got %+v", snap.Err)
	}
	if snap.Authenticated {
		t.Error("auth probe must be short-circuited when not installed")
	}
}

func TestRefreshNotAuthenticated(t *testing.T) {
	fake := testutil.WriteScript(t, testutil.Script{Stdout: "1.0.35 (Claude Code)"})
	cfg := Config{
		Command:         fake,
		APIKeyEnv:       "GLINT_TEST_MISSING_KEY",
		CredentialsPath: filepath.Join(t.TempDir(), "nope.json"),
	}
	c := newTestChecker(t, cfg, fake)

	snap := c.Refresh(context.Background())

	if !snap.Installed {
		t.Fatal("expected installed")
	}
	if snap.Version != "1.0.35 (Claude Code)" {
		t.Errorf("unexpected version %q", snap.Version)
	}
	if snap.Authenticated || snap.Ready() {
		t.Error("missing credentials must not be ready")
	}
	if snap.Err == nil || snap.Err.Category != apperrors.Authentication {
		t.Errorf("expected authentication error, got %+v", snap.Err)
	}
}

func TestRefreshReadyWithOAuthCredentials(t *testing.T) {
	fake := testutil.WriteScript(t, testutil.Script{Stdout: "2.1.0"})
	cfg := Config{
		Command:         fake,
		CredentialsPath: writeCredentials(t, "sk-ant-oat-test"),
		FallbackModels:  []string{"claude-sonnet-4-5", "claude-opus-4-1"},
	}
	c := newTestChecker(t, cfg, fake)

	snap := c.Refresh(context.Background())

	if !snap.Ready() {
		t.Fatalf("expected ready snapshot, got err: %v", snap.Err)
	}
	if snap.AuthType != AuthOAuth {
		t.Errorf("expected oauth, got %v", snap.AuthType)
	}
	if len(snap.Models) != 2 {
		t.Errorf("expected fallback models, got %v", snap.Models)
	}
}

func TestRefreshAPIKeyFallback(t *testing.T) {
	fake := testutil.WriteScript(t, testutil.Script{Stdout: "2.1.0"})
	t.Setenv("GLINT_TEST_API_KEY", "sk-test")
	cfg := Config{
		Command:         fake,
		APIKeyEnv:       "GLINT_TEST_API_KEY",
		CredentialsPath: filepath.Join(t.TempDir(), "nope.json"),
	}
	c := newTestChecker(t, cfg, fake)

	snap := c.Refresh(context.Background())

	if !snap.Ready() {
		t.Fatalf("expected ready, got %v", snap.Err)
	}
	if snap.AuthType != AuthAPIKey {
		t.Errorf("expected api-key auth, got %v", snap.AuthType)
	}
}

func TestRefreshVersionGate(t *testing.T) {
	fake := testutil.WriteScript(t, testutil.Script{Stdout: "0.9.0"})
	cfg := Config{
		Command:         fake,
		MinVersion:      "1.0.0",
		CredentialsPath: writeCredentials(t, "tok"),
	}
	c := newTestChecker(t, cfg, fake)

	snap := c.Refresh(context.Background())

	if snap.Ready() {
		t.Fatal("incompatible version must not be ready")
	}
	if snap.Err == nil || snap.Err.Category != apperrors.Installation {
		t.Errorf("expected installation error, got %+v", snap.Err)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	fake := testutil.WriteScript(t, testutil.Script{Stdout: "2.1.0"})
	cfg := Config{
		Command:         fake,
		CredentialsPath: writeCredentials(t, "tok"),
		FallbackModels:  []string{"claude-sonnet-4-5"},
	}
	c := newTestChecker(t, cfg, fake)
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	first := c.Refresh(context.Background())
	second := c.Refresh(context.Background())

	if first.Installed != second.Installed ||
		first.Authenticated != second.Authenticated ||
		first.Version != second.Version ||
		first.AuthType != second.AuthType ||
		!first.LastChecked.Equal(second.LastChecked) ||
		len(first.Models) != len(second.Models) {
		t.Errorf("snapshots differ with no underlying change:\n%+v\n%+v", first, second)
	}
}

func TestCurrentUsesCacheUntilRefresh(t *testing.T) {
	fake := testutil.WriteScript(t, testutil.Script{Stdout: "2.1.0"})
	cfg := Config{Command: fake, CredentialsPath: writeCredentials(t, "tok")}
	c := newTestChecker(t, cfg, fake)

	first := c.Current(context.Background())
	if !first.Ready() {
		t.Fatalf("expected ready, got %v", first.Err)
	}

	// Break the installation; the cache must hide it until Refresh.
	c.lookPath = func(string) (string, error) { return "", errors.New("gone") }

	cached := c.Current(context.Background())
	if !cached.Ready() {
		t.Error("Current must serve the cached snapshot")
	}

	refreshed := c.Refresh(context.Background())
	if refreshed.Ready() {
		t.Error("Refresh must observe the changed environment")
	}
}

func TestCompatiblePolicy(t *testing.T) {
	tests := map[string]struct {
		output  string
		minimum string
		want    bool
	}{
		"empty minimum accepts anything":  {output: "garbage", minimum: "", want: true},
		"above minimum":                   {output: "1.2.0", minimum: "1.0.0", want: true},
		"equal to minimum":                {output: "1.0.0", minimum: "1.0.0", want: true},
		"below minimum":                   {output: "0.9.9", minimum: "1.0.0", want: false},
		"two segment version":             {output: "2.1", minimum: "2.0.0", want: true},
		"decorated output":                {output: "1.0.35 (Claude Code)", minimum: "1.0.0", want: true},
		"unparseable output accepted":     {output: "unknown", minimum: "1.0.0", want: true},
		"unparseable minimum accepts all": {output: "1.0.0", minimum: "latest", want: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Compatible(test.output, test.minimum); got != test.want {
				t.Errorf("Compatible(%q, %q) = %v, want %v", test.output, test.minimum, got, test.want)
			}
		})
	}
}
