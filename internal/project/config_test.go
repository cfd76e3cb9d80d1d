package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[check]
extensions = [".decl", ".txt"]
max_diagnostics = 5
normalize_nfc = true

[output]
format = "json"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg.Check.Extensions, []string{".decl", ".txt"}) {
		t.Errorf("Extensions = %v", cfg.Check.Extensions)
	}
	if cfg.Check.MaxDiagnostics != 5 || !cfg.Check.NormalizeNFC || cfg.Check.Cache {
		t.Errorf("Check = %+v", cfg.Check)
	}
	// absent keys keep their defaults
	if cfg.Output.Format != "json" || cfg.Output.Color != "auto" || cfg.Output.PathMode != "auto" {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[check\n", "failed to parse TOML"},
		{"unknown key", "[check]\nlevel = 3\n", "unknown keys: check.level"},
		{"bad format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"bad color", "[output]\ncolor = \"always\"\n", "[output].color"},
		{"negative jobs", "[check]\njobs = -1\n", "[check].jobs"},
		{"bad extension", "[check]\nextensions = [\"decl\"]\n", "must start with '.'"},
		{"empty extensions", "[check]\nextensions = []\n", "must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindConfig(nested)
	if err != nil || !ok {
		t.Fatalf("FindConfig = %q, %v, %v", path, ok, err)
	}
	if filepath.Dir(path) != root {
		t.Errorf("found %q, want dir %q", path, root)
	}
}

func TestLoadNearestWithoutConfig(t *testing.T) {
	cfg, path, err := LoadNearest(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// may find a config above the temp dir on a developer machine
	if path == "" && !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := WriteDefault(path, false); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(path, false); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("second write err = %v, want ErrConfigExists", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("round trip = %+v, want %+v", cfg, DefaultConfig())
	}
}
