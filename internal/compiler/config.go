package compiler

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/cppfe/internal/lower"
	"github.com/cwbudde/cppfe/internal/mangle"
)

// Config is the optional `cppfe.yaml` project file cmd/cppfe reads from
// the current working directory, selecting the mangling scheme, data model, and ABI
// a New Context is built with instead of requiring them on the command
// line every time.
type Config struct {
	Mangling  string `yaml:"mangling"`
	DataModel string `yaml:"data_model"`
	ABI       string `yaml:"abi"`
}

// LoadConfig parses a cppfe.yaml document. An empty or absent document
// is valid and resolves to every field's default via the Scheme/
// DataModelKind/ABIKind methods.
func LoadConfig(data []byte) (Config, error) {
	var cfg Config
	if len(data) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Scheme resolves the configured mangling scheme, defaulting to Itanium
// (the GCC/Clang convention) when unset or unrecognized.
func (cfg Config) Scheme() mangle.Scheme {
	if strings.EqualFold(cfg.Mangling, "msvc") {
		return mangle.SchemeMSVC
	}
	return mangle.SchemeItanium
}

// DataModelKind resolves the configured data model, defaulting to LP64
// (System V).
func (cfg Config) DataModelKind() lower.DataModel {
	if strings.EqualFold(cfg.DataModel, "llp64") {
		return lower.ModelLLP64
	}
	return lower.ModelLP64
}

// ABIKind resolves the configured calling convention, defaulting to
// System V.
func (cfg Config) ABIKind() lower.ABI {
	switch strings.ToLower(cfg.ABI) {
	case "win64", "windows", "msvc":
		return lower.ABIWindowsX64
	default:
		return lower.ABISystemV
	}
}

// NewFromConfig builds a Context using cfg's resolved scheme/model/ABI.
func NewFromConfig(cfg Config, opts ...Option) *Context {
	return New(cfg.Scheme(), cfg.DataModelKind(), cfg.ABIKind(), opts...)
}
