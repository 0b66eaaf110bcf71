package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slotter/internal/build"
	"slotter/internal/catalog"
	"slotter/internal/config"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()

	sourceDir := filepath.Join(base, "images")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
source_dir = %q
output_dir = %q
log_dir = %q
cache_dir = %q

[publish]
domain = "images.example.com"
`,
		sourceDir,
		filepath.Join(base, "dist"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "cache"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath
}

func writeTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists without --overwrite")
	}
}

func TestScanCommandReportsGroups(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	writeTestImage(t, filepath.Join(base, "images", "wide.png"), 40, 20)
	writeTestImage(t, filepath.Join(base, "images", "tall.png"), 20, 40)

	out, err := runCommand(t, "--config", configPath, "scan")
	if err != nil {
		t.Fatalf("scan failed: %v\n%s", err, out)
	}
	for _, want := range []string{"landscape", "portrait", "all", "Keyspace width 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("scan output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildCommandProducesTree(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	writeTestImage(t, filepath.Join(base, "images", "wide.png"), 40, 20)

	out, err := runCommand(t, "--config", configPath, "build")
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Build ") {
		t.Fatalf("unexpected build output:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(base, "dist", "rules.txt")); err != nil {
		t.Fatalf("rules document missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "dist", "landscape", "0.jpg")); err != nil {
		t.Fatalf("slot file missing: %v", err)
	}
}

func TestBuildCommandFailsOnEmptySource(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	_, err := runCommand(t, "--config", configPath, "build")
	if err == nil {
		t.Fatal("expected non-zero result when no classifiable images exist")
	}
	if exitCode(err) != 1 {
		t.Fatalf("empty scan should exit 1, got %d", exitCode(err))
	}
}

func TestExitCodeDistinguishesFailures(t *testing.T) {
	if got := exitCode(build.ErrNoImages); got != 1 {
		t.Fatalf("ErrNoImages exit code = %d, want 1", got)
	}
	if got := exitCode(fmt.Errorf("scan: %w", build.ErrNoImages)); got != 1 {
		t.Fatalf("wrapped ErrNoImages exit code = %d, want 1", got)
	}
	if got := exitCode(errors.New("broken config")); got != 2 {
		t.Fatalf("generic failure exit code = %d, want 2", got)
	}
}

func TestRulesCommandMatchesBuildWidth(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	writeTestImage(t, filepath.Join(base, "images", "wide.png"), 40, 20)

	out, err := runCommand(t, "--config", configPath, "rules")
	if err != nil {
		t.Fatalf("rules failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "substring(uuidv4(cf.random_seed), 0, 1)") {
		t.Fatalf("rules output missing width-1 expression:\n%s", out)
	}
}

func TestShortRunIDToleratesShortValues(t *testing.T) {
	cases := map[string]string{
		"":                                     "",
		"abc":                                  "abc",
		"12345678":                             "12345678",
		"0d9c2f4a-aaaa-bbbb-cccc-ddddeeeeffff": "0d9c2f4a",
	}
	for in, want := range cases {
		if got := shortRunID(in); got != want {
			t.Errorf("shortRunID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHistoryToleratesForeignRunIDs(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatal(err)
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	record := catalog.BuildRecord{
		RunID:      "x1",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Mode:       "direct",
		Width:      1,
	}
	if err := store.RecordBuild(context.Background(), record); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "x1") {
		t.Fatalf("history output missing short run ID row:\n%s", out)
	}
}

func TestHistoryAfterBuild(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)
	writeTestImage(t, filepath.Join(base, "images", "wide.png"), 40, 20)

	if out, err := runCommand(t, "--config", configPath, "build"); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	out, err := runCommand(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "direct") {
		t.Fatalf("history output missing build record:\n%s", out)
	}
}
