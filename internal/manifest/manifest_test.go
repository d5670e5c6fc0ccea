package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"golox/internal/manifest"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lox.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadValidManifest(t *testing.T) {
	path := writeManifest(t, "entry: main.lox\nrequires: \">= 0.1.0\"\n")
	m, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Entry != "main.lox" {
		t.Errorf("Entry = %q, want main.lox", m.Entry)
	}
	if err := m.CheckVersion("0.1.0"); err != nil {
		t.Errorf("CheckVersion(0.1.0) = %v, want nil", err)
	}
}

func TestCheckVersionRejectsOlderInterpreter(t *testing.T) {
	path := writeManifest(t, "entry: main.lox\nrequires: \">= 9.0.0\"\n")
	m, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.CheckVersion("0.1.0"); err == nil {
		t.Error("expected CheckVersion to reject an interpreter older than requires")
	}
}

func TestLoadRejectsInvalidConstraint(t *testing.T) {
	path := writeManifest(t, "entry: main.lox\nrequires: \"not a constraint!!\"\n")
	if _, err := manifest.Load(path); err == nil {
		t.Error("expected Load to reject an unparsable version constraint")
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeManifest(t, "entyr: main.lox\n") // typo'd field
	if _, err := manifest.Load(path); err == nil {
		t.Error("expected Load to reject an unknown manifest field")
	}
}

func TestNativeEnabledDefaultsTrue(t *testing.T) {
	path := writeManifest(t, "entry: main.lox\nnatives:\n  str: false\n")
	m, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.NativeEnabled("str") {
		t.Error("expected 'str' to be disabled")
	}
	if !m.NativeEnabled("getattr") {
		t.Error("expected 'getattr' to default to enabled")
	}
	if !m.NativeEnabled("clock") {
		t.Error("clock can never be disabled")
	}
}
