// Package config holds the plain option record that controls parsing dialect,
// annotation style, namespace policy, hooks, and paths, and its entangled.toml
// loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/entangled-go/entangled/internal/lang"
)

// Style selects the block-header grammar a Markdown file is parsed with.
type Style string

const (
	StyleEntangledRS Style = "entangled-rs"
	StylePandoc      Style = "pandoc"
	StyleQuarto      Style = "quarto"
	StyleKnitr       Style = "knitr"
)

// Annotation selects the begin/end marker emission policy.
type Annotation string

const (
	AnnotationStandard     Annotation = "standard"
	AnnotationNaked        Annotation = "naked"
	AnnotationSupplemental Annotation = "supplemental"
)

// NamespaceDefault selects whether a block id is prefixed by its source file.
type NamespaceDefault string

const (
	NamespaceFile NamespaceDefault = "file"
	NamespaceNone NamespaceDefault = "none"
)

// Hooks groups the post-emission hook toggles.
type Hooks struct {
	Shebang     bool `toml:"shebang"`
	SPDXLicense bool `toml:"spdx_license"`
}

// Watch groups watch-loop options.
type Watch struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Config is the plain record read from entangled.toml, merged with defaults.
// Every field corresponds to an option in the external interfaces contract.
type Config struct {
	SourcePatterns     []string         `toml:"source_patterns"`
	Style              Style            `toml:"style"`
	Annotation         Annotation       `toml:"annotation"`
	NamespaceDefault   NamespaceDefault `toml:"namespace_default"`
	FiledbPath         string           `toml:"filedb_path"`
	OutputDir          string           `toml:"output_dir"`
	StripQuartoOptions bool             `toml:"strip_quarto_options"`
	Hooks              Hooks            `toml:"hooks"`
	Languages          []lang.Language  `toml:"languages"`
	Watch              Watch            `toml:"watch"`
}

// Default returns the built-in defaults, used whenever entangled.toml is
// absent or a field is left unset.
func Default() Config {
	return Config{
		SourcePatterns:     []string{"**/*.md"},
		Style:              StyleEntangledRS,
		Annotation:         AnnotationStandard,
		NamespaceDefault:   NamespaceFile,
		FiledbPath:         ".entangled/filedb.json",
		StripQuartoOptions: true,
		Watch:              Watch{DebounceMS: 100},
	}
}

// ConfigError reports an invalid option value.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: invalid value %q for %s", e.Value, e.Field)
}

// Load reads entangled.toml from dir, falling back to Default() if the file
// does not exist. Unknown keys are ignored (the TOML decoder silently drops
// them, matching the "unknown keys ignored with a warning" contract — the
// warning itself is the caller's concern via the Printer, not this package's).
func Load(dir string) (Config, error) {
	return LoadFile(filepath.Join(dir, "entangled.toml"))
}

// LoadFile reads a specific TOML file path, applying defaults for any field
// the file does not set.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	raw := rawConfig{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := raw.applyTo(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// rawConfig mirrors Config but with every field optional (pointers / nil
// slices), so Load can tell "unset" apart from "set to the zero value" and
// only overwrite defaults for fields actually present in the file.
type rawConfig struct {
	SourcePatterns     []string        `toml:"source_patterns"`
	Style              *string         `toml:"style"`
	Annotation         *string         `toml:"annotation"`
	NamespaceDefault   *string         `toml:"namespace_default"`
	FiledbPath         *string         `toml:"filedb_path"`
	OutputDir          *string         `toml:"output_dir"`
	StripQuartoOptions *bool           `toml:"strip_quarto_options"`
	Hooks              *Hooks          `toml:"hooks"`
	Languages          []lang.Language `toml:"languages"`
	Watch              *Watch          `toml:"watch"`
}

func (r rawConfig) applyTo(cfg *Config) error {
	if len(r.SourcePatterns) > 0 {
		cfg.SourcePatterns = r.SourcePatterns
	}
	if r.Style != nil {
		s := Style(*r.Style)
		if !validStyle(s) {
			return &ConfigError{Field: "style", Value: *r.Style}
		}
		cfg.Style = s
	}
	if r.Annotation != nil {
		a := Annotation(*r.Annotation)
		if !validAnnotation(a) {
			return &ConfigError{Field: "annotation", Value: *r.Annotation}
		}
		cfg.Annotation = a
	}
	if r.NamespaceDefault != nil {
		n := NamespaceDefault(*r.NamespaceDefault)
		if !validNamespace(n) {
			return &ConfigError{Field: "namespace_default", Value: *r.NamespaceDefault}
		}
		cfg.NamespaceDefault = n
	}
	if r.FiledbPath != nil {
		cfg.FiledbPath = *r.FiledbPath
	}
	if r.OutputDir != nil {
		cfg.OutputDir = *r.OutputDir
	}
	if r.StripQuartoOptions != nil {
		cfg.StripQuartoOptions = *r.StripQuartoOptions
	}
	if r.Hooks != nil {
		cfg.Hooks = *r.Hooks
	}
	if len(r.Languages) > 0 {
		cfg.Languages = r.Languages
	}
	if r.Watch != nil {
		cfg.Watch = *r.Watch
	}
	return nil
}

func validStyle(s Style) bool {
	switch s {
	case StyleEntangledRS, StylePandoc, StyleQuarto, StyleKnitr:
		return true
	}
	return false
}

func validAnnotation(a Annotation) bool {
	switch a {
	case AnnotationStandard, AnnotationNaked, AnnotationSupplemental:
		return true
	}
	return false
}

func validNamespace(n NamespaceDefault) bool {
	switch n {
	case NamespaceFile, NamespaceNone:
		return true
	}
	return false
}
