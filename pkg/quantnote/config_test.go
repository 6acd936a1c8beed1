package quantnote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/QuantNodeAI/quantnote-go/pkg/quantnote"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quantnote.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("QUANTNOTE_TEST_TOKEN", "sekret")
	path := writeConfig(t, `
base_url: https://api.example.com/
auth_token: ${QUANTNOTE_TEST_TOKEN}
timeout: 30s
max_retries: 2
split_requests: false
`)

	cfg, err := quantnote.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != "https://api.example.com/" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.AuthToken != "sekret" {
		t.Errorf("auth token not expanded, got %q", cfg.AuthToken)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout %s", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("unexpected max_retries %d", cfg.MaxRetries)
	}
	if cfg.SplitRequests == nil || *cfg.SplitRequests {
		t.Errorf("split_requests not parsed, got %v", cfg.SplitRequests)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := quantnote.LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != "" || cfg.AuthToken != "" || cfg.Timeout != 0 || cfg.MaxRetries != 0 {
		t.Errorf("empty config should stay zero, got %+v", cfg)
	}
	if cfg.SplitRequests != nil {
		t.Errorf("split_requests should stay unset")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := quantnote.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad timeout":      "timeout: soon\n",
		"negative timeout": "timeout: -5s\n",
		"bad base url":     "base_url: ftp://api.example.com\n",
		"negative retries": "max_retries: -1\n",
	}
	for name, content := range cases {
		if _, err := quantnote.LoadConfig(writeConfig(t, content)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestBuildClientDisablesSplitting(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg, err := quantnote.LoadConfig(writeConfig(t, "split_requests: false\n"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	client := cfg.BuildClient(
		quantnote.WithBaseURL(srv.URL),
		quantnote.WithAssetDirectory([]quantnote.Asset{
			{Chain: 56, Contract: "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82", Symbol: "Cake"},
		}),
	)

	_, err = client.GetCandles(context.Background(), quantnote.CandlesParams{
		SeriesParams: quantnote.SeriesParams{
			TokenRef:   quantnote.TokenRef{Symbol: "cake"},
			From:       "2021-06-01",
			To:         "2021-07-01",
			Resolution: quantnote.ResolutionH1,
		},
	})
	if !errors.Is(err, quantnote.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if hits != 0 {
		t.Errorf("no request should go out, saw %d", hits)
	}
}
