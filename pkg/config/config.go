// Package config loads skillport settings from viper (flags, SKILLPORT_*
// environment variables and skillport.yaml) into a typed Config.
package config

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/skillport/pkg/provenance"
	"github.com/jingkaihe/skillport/pkg/rewrite"
	"github.com/jingkaihe/skillport/pkg/scaffold"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix bound by InitViper.
const EnvPrefix = "SKILLPORT"

// ProvenanceConfig selects how provenance is looked up.
type ProvenanceConfig struct {
	Backend     string `mapstructure:"backend"`
	PackageFile string `mapstructure:"package_file"`
}

// TracingConfig mirrors the tracing.* keys.
type TracingConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Sampler string  `mapstructure:"sampler"`
	Ratio   float64 `mapstructure:"ratio"`
}

// Config holds every setting a generation run needs.
type Config struct {
	Root           string              `mapstructure:"root"`
	SkillName      string              `mapstructure:"skill_name"`
	DisplayName    string              `mapstructure:"display_name"`
	OutputDir      string              `mapstructure:"output_dir"`
	SourceHome     string              `mapstructure:"source_home"`
	TargetHome     string              `mapstructure:"target_home"`
	RuntimeDir     string              `mapstructure:"runtime_dir"`
	DocExtension   string              `mapstructure:"doc_extension"`
	TextExtensions []string            `mapstructure:"text_extensions"`
	Categories     []scaffold.Category `mapstructure:"categories"`
	RewriteRules   rewrite.Rules       `mapstructure:"rewrite_rules"`
	Provenance     ProvenanceConfig    `mapstructure:"provenance"`
	Tracing        TracingConfig       `mapstructure:"tracing"`
	LogLevel       string              `mapstructure:"log_level"`
	LogFormat      string              `mapstructure:"log_format"`

	// Profile names an entry of Profiles applied on top of the base settings.
	Profile  string                            `mapstructure:"profile"`
	Profiles map[string]map[string]interface{} `mapstructure:"profiles"`
}

// NewConfig returns the defaults for the GSD to Codex conversion.
func NewConfig() *Config {
	return &Config{
		Root:           ".",
		SkillName:      "gsd-codex",
		DisplayName:    "GSD Codex",
		OutputDir:      "skills",
		SourceHome:     "~/.claude",
		TargetHome:     "~/.codex/skills",
		RuntimeDir:     "get-shit-done",
		DocExtension:   ".md",
		TextExtensions: scaffold.DefaultTextExtensions(),
		Provenance: ProvenanceConfig{
			Backend:     provenance.BackendGit,
			PackageFile: "package.json",
		},
		Tracing: TracingConfig{
			Sampler: "ratio",
			Ratio:   1,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// SetDefaults registers every scalar key with v so environment variables
// are visible to AllSettings.
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("root", d.Root)
	v.SetDefault("skill_name", d.SkillName)
	v.SetDefault("display_name", d.DisplayName)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("source_home", d.SourceHome)
	v.SetDefault("target_home", d.TargetHome)
	v.SetDefault("runtime_dir", d.RuntimeDir)
	v.SetDefault("doc_extension", d.DocExtension)
	v.SetDefault("text_extensions", d.TextExtensions)
	v.SetDefault("provenance.backend", d.Provenance.Backend)
	v.SetDefault("provenance.package_file", d.Provenance.PackageFile)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.sampler", d.Tracing.Sampler)
	v.SetDefault("tracing.ratio", d.Tracing.Ratio)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("profile", "")
}

// InitViper binds the environment and the optional skillport.yaml file.
// A missing config file is not an error; a malformed one is.
func InitViper(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("skillport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.skillport")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// Load decodes v into a Config and applies the active profile. Decoding
// starts from a zero Config and takes defaults from v, so a list setting
// replaces the default list instead of overwriting it element by element.
func Load(v *viper.Viper) (*Config, error) {
	settings := v.AllSettings()

	cfg := &Config{}
	if err := decode(settings, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if cfg.Profile != "" && cfg.Profile != "default" {
		profile, ok := cfg.Profiles[cfg.Profile]
		if !ok {
			return nil, errors.Errorf("profile %q not found (available: %s)",
				cfg.Profile, strings.Join(cfg.ProfileNames(), ", "))
		}
		return applyProfile(settings, profile)
	}

	return cfg, nil
}

func decode(input interface{}, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// applyProfile overlays profile on the base settings and decodes the result
// into a fresh Config. Nested maps merge key by key; any other value,
// lists included, replaces the base value outright.
func applyProfile(settings, profile map[string]interface{}) (*Config, error) {
	cfg := &Config{}
	if err := decode(mergeSettings(settings, profile), cfg); err != nil {
		return nil, errors.Wrap(err, "failed to apply profile configuration")
	}
	return cfg, nil
}

func mergeSettings(base, overlay map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		k = strings.ToLower(k)
		if sub, ok := v.(map[string]interface{}); ok {
			if baseSub, ok := out[k].(map[string]interface{}); ok {
				out[k] = mergeSettings(baseSub, sub)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// ProfileNames returns the configured profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkillRoot is <root>/<output_dir>/<skill_name>, or <output_dir>/<skill_name>
// when output_dir is absolute.
func (c *Config) SkillRoot() string {
	if filepath.IsAbs(c.OutputDir) {
		return filepath.Join(c.OutputDir, c.SkillName)
	}
	return filepath.Join(c.Root, c.OutputDir, c.SkillName)
}

// Rules returns rewrite_rules when set, else the table derived from the
// host settings.
func (c *Config) Rules() rewrite.Rules {
	if len(c.RewriteRules) > 0 {
		return c.RewriteRules
	}
	return rewrite.HostRules(rewrite.HostMapping{
		SourceHome: c.SourceHome,
		TargetHome: c.TargetHome,
		SkillName:  c.SkillName,
		RuntimeDir: c.RuntimeDir,
	})
}

// CategoryList returns the configured categories or the GSD defaults.
func (c *Config) CategoryList() []scaffold.Category {
	if len(c.Categories) > 0 {
		return c.Categories
	}
	return scaffold.DefaultCategories(c.RuntimeDir)
}

// Runtime returns the wholesale runtime tree, or nil when runtime_dir is
// empty.
func (c *Config) Runtime() *scaffold.RuntimeTree {
	if c.RuntimeDir == "" {
		return nil
	}
	return &scaffold.RuntimeTree{Source: c.RuntimeDir, Dest: c.RuntimeDir}
}

// IndexHeading is the title of the generated index.
func (c *Config) IndexHeading() string {
	name := c.DisplayName
	if name == "" {
		name = c.SkillName
	}
	return name + " Index"
}

// PackageFilePath resolves provenance.package_file against root. Empty
// disables the descriptor lookup.
func (c *Config) PackageFilePath() string {
	if c.Provenance.PackageFile == "" {
		return ""
	}
	if filepath.IsAbs(c.Provenance.PackageFile) {
		return c.Provenance.PackageFile
	}
	return filepath.Join(c.Root, c.Provenance.PackageFile)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Root == "" {
		result = multierror.Append(result, errors.New("root is required"))
	}
	switch {
	case c.SkillName == "":
		result = multierror.Append(result, errors.New("skill_name is required"))
	case strings.ContainsAny(c.SkillName, `/\`) || c.SkillName == "." || c.SkillName == "..":
		result = multierror.Append(result, errors.Errorf("skill_name %q must be a single path element", c.SkillName))
	}
	if c.OutputDir == "" {
		result = multierror.Append(result, errors.New("output_dir is required"))
	}
	if !strings.HasPrefix(c.DocExtension, ".") {
		result = multierror.Append(result, errors.Errorf("doc_extension %q must start with a dot", c.DocExtension))
	}
	for _, ext := range c.TextExtensions {
		if !strings.HasPrefix(ext, ".") {
			result = multierror.Append(result, errors.Errorf("text extension %q must start with a dot", ext))
		}
	}
	if len(c.RewriteRules) == 0 && (c.SourceHome == "" || c.TargetHome == "") {
		result = multierror.Append(result, errors.New("source_home and target_home are required without rewrite_rules"))
	}

	seen := make(map[string]bool)
	for _, cat := range c.CategoryList() {
		if err := cat.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
		if seen[cat.Name] {
			result = multierror.Append(result, errors.Errorf("category %s is defined twice", cat.Name))
		}
		seen[cat.Name] = true
	}

	if err := c.Rules().Validate(); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "rewrite rules"))
	}

	if _, err := provenance.New(c.Provenance.Backend, c.Root); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}
