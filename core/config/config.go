package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/thingc24/carve/core/logger"
	"github.com/thingc24/carve/core/models"
	"github.com/thingc24/carve/core/rewrite"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "carve.yaml"
	// EnvRoot overrides the workspace root that relative service paths
	// resolve against.
	EnvRoot = "CARVE_ROOT"
)

type Config struct {
	Root string `yaml:"root"`
	// BasePackage is the monolith's root package. Imports under it that a
	// service does not own are reported after the rewrite.
	BasePackage string    `yaml:"base_package,omitempty"`
	Services    []Service `yaml:"services"`
}

// Service is one extraction target: where its files come from, where they go
// and how its entities are decoupled.
type Service struct {
	Name       string `yaml:"name"`
	SourceRoot string `yaml:"source_root"`
	DestRoot   string `yaml:"dest_root"`
	// Packages are the package prefixes the service owns.
	Packages []string           `yaml:"packages,omitempty"`
	Catalog  models.FileCatalog `yaml:"catalog"`
	Rewrites []RewriteSpec      `yaml:"rewrites,omitempty"`
}

type RewriteSpec struct {
	Target string     `yaml:"target"`
	Rules  []RuleSpec `yaml:"rules"`
}

// RuleSpec is the yaml form of a rewrite rule. Exactly one of Import, Field
// or Match must be set.
type RuleSpec struct {
	Import  string            `yaml:"import,omitempty"`
	Field   *rewrite.FieldRef `yaml:"field,omitempty"`
	Match   string            `yaml:"match,omitempty"`
	Replace string            `yaml:"replace,omitempty"`
}

// ConfigurationError reports a source root that does not exist.
type ConfigurationError struct {
	Service string
	Path    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("source root for %s not found: %s", e.Service, e.Path)
}

func (r RuleSpec) Compile() (models.RewriteRule, error) {
	set := 0
	if r.Import != "" {
		set++
	}
	if r.Field != nil {
		set++
	}
	if r.Match != "" {
		set++
	}
	if set != 1 {
		return models.RewriteRule{}, fmt.Errorf("rule must set exactly one of import, field or match")
	}

	switch {
	case r.Import != "":
		return rewrite.ImportRemoval(r.Import), nil
	case r.Field != nil:
		if r.Field.Type == "" || r.Field.Name == "" || r.Field.Column == "" {
			return models.RewriteRule{}, fmt.Errorf("field rule needs type, name and column")
		}
		return rewrite.FieldReplacement(*r.Field), nil
	default:
		return rewrite.Literal(r.Match, r.Replace), nil
	}
}

// Plan compiles the service's rewrite specs.
func (s Service) Plan() (models.RewritePlan, error) {
	plan := models.RewritePlan{Entries: make([]models.PlanEntry, 0, len(s.Rewrites))}
	for _, spec := range s.Rewrites {
		entry := models.PlanEntry{Target: spec.Target}
		for i, rs := range spec.Rules {
			rule, err := rs.Compile()
			if err != nil {
				return plan, fmt.Errorf("%s rule #%d: %w", spec.Target, i+1, err)
			}
			entry.Rules = append(entry.Rules, rule)
		}
		plan.Entries = append(plan.Entries, entry)
	}
	if err := plan.Validate(); err != nil {
		return plan, err
	}
	return plan, nil
}

func (s Service) Validate() error {
	if s.Name == "" {
		return errors.New("service has no name")
	}
	if s.SourceRoot == "" || s.DestRoot == "" {
		return fmt.Errorf("service %s needs source_root and dest_root", s.Name)
	}
	if err := s.Catalog.Validate(); err != nil {
		return fmt.Errorf("service %s: %w", s.Name, err)
	}
	if _, err := s.Plan(); err != nil {
		return fmt.Errorf("service %s: %w", s.Name, err)
	}
	return nil
}

func (c *Config) Validate() error {
	names := make(map[string]bool)
	for _, s := range c.Services {
		if err := s.Validate(); err != nil {
			return err
		}
		if names[s.Name] {
			return fmt.Errorf("service %s declared twice", s.Name)
		}
		names[s.Name] = true
	}
	return nil
}

// Select returns the named services in the order given, or every service
// when names is empty.
func (c *Config) Select(names []string) ([]Service, error) {
	if len(names) == 0 {
		return c.Services, nil
	}
	var selected []Service
	for _, name := range names {
		found := false
		for _, s := range c.Services {
			if s.Name == name {
				selected = append(selected, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown service %q", name)
		}
	}
	return selected, nil
}

func (c *Config) resolve(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.Root, filepath.FromSlash(p))
	}
	return filepath.Abs(p)
}

// SourceDir returns the absolute source root of s.
func (c *Config) SourceDir(s Service) (string, error) {
	return c.resolve(s.SourceRoot)
}

// DestDir returns the absolute destination root of s.
func (c *Config) DestDir(s Service) (string, error) {
	return c.resolve(s.DestRoot)
}

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load .env: %w", err)
	}
	logger.Debug("Loaded environment from .env")
	return nil
}

// Load reads path, or carve.yaml in the working directory when path is empty.
// Without a config file the built-in CareerMate services are used.
func Load(path string) (*Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working dir: %w", err)
		}
		for _, name := range []string{FileName, "carve.yml"} {
			p := filepath.Join(wd, name)
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	var cfg *Config
	if path == "" {
		logger.Debug("No config file found, using built-in services")
		cfg = Default()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		if cfg.Root == "" {
			cfg.Root = filepath.Dir(path)
		} else if !filepath.IsAbs(cfg.Root) {
			cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
		}
		logger.Debug("Config file found: %s", path)
	}

	if root := os.Getenv(EnvRoot); root != "" {
		logger.Debug("Using %s=%s", EnvRoot, root)
		cfg.Root = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes c as yaml to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	header := []byte("# carve extraction catalog\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
