package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "coach dev") {
		t.Errorf("expected output to contain 'coach dev', got: %s", out)
	}
	if !strings.Contains(out, "commit: none") {
		t.Errorf("expected output to contain 'commit: none', got: %s", out)
	}
}

func TestRootCmdHelp(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	out := buf.String()
	for _, sub := range []string{"serve", "migrate", "key", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q, got: %s", sub, out)
		}
	}
}

func TestMigrateCmdWithSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "coach.yaml")
	cfg := `
database:
  driver: sqlite
  path: ` + filepath.Join(dir, "coach.db") + `
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"migrate", "--config", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Migrated") {
		t.Errorf("expected migration summary, got: %s", buf.String())
	}
}

func TestWriteEnvKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	if err := writeEnvKey(path, "ANTHROPIC_API_KEY", "sk-first"); err != nil {
		t.Fatalf("writeEnvKey failed: %v", err)
	}
	if err := writeEnvKey(path, "GITHUB_TOKEN", "ghp_x"); err != nil {
		t.Fatalf("writeEnvKey failed: %v", err)
	}
	// Replacing keeps the other key.
	if err := writeEnvKey(path, "ANTHROPIC_API_KEY", "sk-second"); err != nil {
		t.Fatalf("writeEnvKey failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read env file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "ANTHROPIC_API_KEY=sk-second") {
		t.Errorf("expected replaced key, got: %s", content)
	}
	if strings.Contains(content, "sk-first") {
		t.Errorf("old key should be gone, got: %s", content)
	}
	if !strings.Contains(content, "GITHUB_TOKEN=ghp_x") {
		t.Errorf("other keys should survive, got: %s", content)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat env file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("env file mode = %o, want 0600", info.Mode().Perm())
	}
}
