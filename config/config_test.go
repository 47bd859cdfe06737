package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Weights.ID != 100 || cfg.Weights.Tag != 2.5 {
		t.Errorf("default weights = %+v", cfg.Weights)
	}
	if cfg.Classifier.Threshold != 0.5 {
		t.Errorf("default threshold = %v", cfg.Classifier.Threshold)
	}
}

func TestLoadOverridesFieldwise(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edict.yaml")
	content := "weights:\n  id: 500\nclassifier:\n  threshold: 0.9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Weights.ID != 500 {
		t.Errorf("overridden id weight = %v", cfg.Weights.ID)
	}
	if cfg.Weights.Prop != 20 {
		t.Errorf("untouched prop weight = %v, want default", cfg.Weights.Prop)
	}
	if cfg.Classifier.Threshold != 0.9 {
		t.Errorf("threshold = %v", cfg.Classifier.Threshold)
	}
	if cfg.Classifier.DryRunPrefix != "simulate" {
		t.Errorf("dry run prefix lost its default: %q", cfg.Classifier.DryRunPrefix)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/edict.yaml"); err == nil {
		t.Fatal("missing file loaded without error")
	}
}
