// Package config loads generator settings from defaults, an optional
// localize.yaml, a .env file and LOCALIZE_* environment variables, in
// increasing order of precedence. Command-line flags are applied on top by
// the CLI before Validate is called.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/text/language"

	"localize-gen/internal/names"
	"localize-gen/internal/project"
)

const (
	// FileName is the configuration file looked up in the project directory.
	FileName = "localize.yaml"

	envPrefix = "LOCALIZE_"

	Debug   = "Debug"
	Release = "Release"
)

// DefaultExcludes keep the generator's own output out of the scan.
var DefaultExcludes = []string{"**/Localize.g.cs", "**/PublicApi.*.g.cs"}

type Config struct {
	ProjectDir    string `yaml:"projectDir"`
	OutputDir     string `yaml:"outputDir"`
	AssemblyName  string `yaml:"assemblyName"`
	Configuration string `yaml:"configuration"`
	// UseDependencyInjection is nil when the project file decides.
	UseDependencyInjection  *bool    `yaml:"useDependencyInjection"`
	CanonicalLanguage       string   `yaml:"canonicalLanguage"`
	CoreAssemblies          []string `yaml:"coreAssemblies"`
	ExcludeUnusedOnOptimize bool     `yaml:"excludeUnusedOnOptimize"`
	Workers                 int      `yaml:"workers"`
	CacheSize               int      `yaml:"cacheSize"`
	Exclude                 []string `yaml:"exclude"`
	LogLevel                string   `yaml:"logLevel"`
}

// Default returns the built-in settings for projectDir.
func Default(projectDir string) *Config {
	return &Config{
		ProjectDir:        projectDir,
		Configuration:     Debug,
		CanonicalLanguage: "en",
		CoreAssemblies:    append([]string(nil), names.CoreAssemblies...),
		Workers:           runtime.NumCPU(),
		CacheSize:         1024,
		LogLevel:          "info",
	}
}

// Load builds the configuration for projectDir. configFile overrides the
// default <projectDir>/localize.yaml; a missing default file is not an
// error.
func Load(projectDir, configFile string) (*Config, error) {
	cfg := Default(projectDir)

	path := configFile
	if path == "" {
		path = getEnv("CONFIG", "")
	}
	if path == "" {
		path = defaultConfigPath(projectDir)
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cfg.readYAML(path); err != nil {
		return nil, err
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = projectDir
	}

	if err := useDotEnv(filepath.Join(cfg.ProjectDir, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.readEnv(); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	return cfg, nil
}

// defaultConfigPath prefers localize.yaml and falls back to localize.yml.
func defaultConfigPath(projectDir string) string {
	path := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		yml := strings.TrimSuffix(path, ".yaml") + ".yml"
		if _, statErr := os.Stat(yml); statErr == nil {
			return yml
		}
	}
	return path
}

func (cfg *Config) readYAML(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("No YAML configuration file found, skipping")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("Loaded configuration file")
	return nil
}

// useDotEnv loads path into the environment. Variables already set win.
func useDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("No .env file found, using environment variables")
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}
	return nil
}

func (cfg *Config) readEnv() error {
	var errs *multierror.Error

	cfg.ProjectDir = getEnv("PROJECT_DIR", cfg.ProjectDir)
	cfg.OutputDir = getEnv("OUTPUT_DIR", cfg.OutputDir)
	cfg.AssemblyName = getEnv("ASSEMBLY_NAME", cfg.AssemblyName)
	cfg.Configuration = getEnv("CONFIGURATION", cfg.Configuration)
	cfg.CanonicalLanguage = getEnv("CANONICAL_LANGUAGE", cfg.CanonicalLanguage)
	cfg.CoreAssemblies = getEnvList("CORE_ASSEMBLIES", cfg.CoreAssemblies)
	cfg.Exclude = getEnvList("EXCLUDE", cfg.Exclude)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.Workers, err = getEnvInt("WORKERS", cfg.Workers); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.CacheSize, err = getEnvInt("CACHE_SIZE", cfg.CacheSize); err != nil {
		errs = multierror.Append(errs, err)
	}
	if cfg.ExcludeUnusedOnOptimize, err = getEnvBool("EXCLUDE_UNUSED_ON_OPTIMIZE", cfg.ExcludeUnusedOnOptimize); err != nil {
		errs = multierror.Append(errs, err)
	}
	if v := getEnv("USE_DEPENDENCY_INJECTION", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%sUSE_DEPENDENCY_INJECTION: %w", envPrefix, err))
		} else {
			cfg.UseDependencyInjection = &b
		}
	}
	return errs.ErrorOrNil()
}

// Validate normalizes the configuration and reports every invalid setting.
func (cfg *Config) Validate() error {
	var errs *multierror.Error

	if cfg.ProjectDir == "" {
		errs = multierror.Append(errs, errors.New("projectDir is required"))
	}

	switch {
	case strings.EqualFold(cfg.Configuration, Debug):
		cfg.Configuration = Debug
	case strings.EqualFold(cfg.Configuration, Release):
		cfg.Configuration = Release
	default:
		errs = multierror.Append(errs, fmt.Errorf("configuration %q must be %s or %s", cfg.Configuration, Debug, Release))
	}

	if _, err := language.Parse(cfg.CanonicalLanguage); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("canonicalLanguage %q: %w", cfg.CanonicalLanguage, err))
	}
	if cfg.Workers < 1 {
		errs = multierror.Append(errs, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers))
	}
	if cfg.CacheSize < 1 {
		errs = multierror.Append(errs, fmt.Errorf("cacheSize must be at least 1, got %d", cfg.CacheSize))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("logLevel %q: %w", cfg.LogLevel, err))
	}
	for _, pattern := range cfg.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("exclude pattern %q: %w", pattern, err))
		}
	}

	return errs.ErrorOrNil()
}

// Optimize reports whether this is a Release build.
func (cfg *Config) Optimize() bool {
	return strings.EqualFold(cfg.Configuration, Release)
}

// Excludes returns the default exclude globs followed by the configured ones.
func (cfg *Config) Excludes() []string {
	return lo.Uniq(append(append([]string(nil), DefaultExcludes...), cfg.Exclude...))
}

// OutputPath returns the directory generated files are written to. A
// relative OutputDir is taken relative to the project directory.
func (cfg *Config) OutputPath() string {
	switch {
	case cfg.OutputDir == "":
		return cfg.ProjectDir
	case filepath.IsAbs(cfg.OutputDir):
		return cfg.OutputDir
	default:
		return filepath.Join(cfg.ProjectDir, cfg.OutputDir)
	}
}

// Level returns the parsed log level, info when unparseable.
func (cfg *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Resolve fills the settings left unset from the project file p, which may
// be nil. The assembly name falls back to the project file name and then to
// the default namespace.
func (cfg *Config) Resolve(p *project.Project) (assembly string, useDI bool) {
	assembly = cfg.AssemblyName
	if assembly == "" && p != nil {
		assembly = p.Name()
	}
	if assembly == "" {
		assembly = names.DefaultNamespace
	}

	switch {
	case cfg.UseDependencyInjection != nil:
		useDI = *cfg.UseDependencyInjection
	case p != nil && p.UseDI != nil:
		useDI = *p.UseDI
	}
	return assembly, useDI
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return b, nil
}

// getEnvList reads a comma-separated list.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(envPrefix + key)
	if v == "" {
		return fallback
	}
	return lo.Compact(lo.Map(strings.Split(v, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
