package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Annotation != AnnotationStandard {
		t.Errorf("annotation = %q, want standard", cfg.Annotation)
	}
	if cfg.NamespaceDefault != NamespaceFile {
		t.Errorf("namespace_default = %q, want file", cfg.NamespaceDefault)
	}
	if cfg.FiledbPath != ".entangled/filedb.json" {
		t.Errorf("filedb_path = %q", cfg.FiledbPath)
	}
	found := false
	for _, p := range cfg.SourcePatterns {
		if p == "**/*.md" {
			found = true
		}
	}
	if !found {
		t.Errorf("source_patterns missing **/*.md: %v", cfg.SourcePatterns)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Annotation != AnnotationStandard {
		t.Errorf("expected default annotation, got %q", cfg.Annotation)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entangled.toml")
	if err := os.WriteFile(path, []byte("annotation = \"naked\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Annotation != AnnotationNaked {
		t.Errorf("annotation = %q, want naked", cfg.Annotation)
	}
	// Unset fields keep their defaults.
	if cfg.NamespaceDefault != NamespaceFile {
		t.Errorf("namespace_default = %q, want file (default)", cfg.NamespaceDefault)
	}
}

func TestLoadFileInvalidEnum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "entangled.toml")
	if err := os.WriteFile(path, []byte("style = \"bogus\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected ConfigError for invalid style")
	}
	var cfgErr *ConfigError
	if !asConfigError(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
}

func asConfigError(err error, target **ConfigError) bool {
	ce, ok := err.(*ConfigError)
	if !ok {
		return false
	}
	*target = ce
	return true
}

func TestStyleRoundTrip(t *testing.T) {
	styles := []Style{StyleEntangledRS, StylePandoc, StyleQuarto, StyleKnitr}
	for _, s := range styles {
		if !validStyle(s) {
			t.Errorf("style %q should be valid", s)
		}
	}
	if validStyle("bogus") {
		t.Error("bogus style should be invalid")
	}
}
