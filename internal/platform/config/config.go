// Package config provides application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nathantilsley/kubeconform-pr/api"
	"github.com/nathantilsley/kubeconform-pr/internal/lint/domain"
)

// Environment sources, highest priority first.
var (
	BaseRevisionKeys = []string{"CI_BASE_REVISION", "GITHUB_BASE_SHA"}
	HeadRevisionKeys = []string{"CI_COMMIT_SHA", "GITHUB_SHA"}
	RemoteURLKeys    = []string{"CI_REMOTE_URL", "DRONE_REPO_LINK", "PLUGIN_REPO_LINK"}
	OwnerKeys        = []string{"PLUGIN_GITHUB_OWNER", "PLUGIN_OWNER", "GITHUB_OWNER"}
	RepoKeys         = []string{"PLUGIN_GITHUB_REPO", "PLUGIN_REPO", "GITHUB_REPO"}
	TokenKeys        = []string{"GITHUB_TOKEN", "PLUGIN_GITHUB_TOKEN"}
	WorkspaceKeys    = []string{"CI_WORKSPACE", "DRONE_WORKSPACE", "GITHUB_WORKSPACE"}
	SettingsFileKeys = []string{"LINT_CONFIG_FILE", "PLUGIN_CONFIG_FILE"}
)

const (
	requestNumberKey = "PR_NUMBER"

	DiffEngineGit   = "git"
	DiffEngineGoGit = "go-git"
)

// Config holds the configuration for a single run, assembled once at startup.
type Config struct {
	Revisions domain.RevisionPair

	// Publishing target; zero in dry-run mode.
	Coordinates   domain.RepositoryCoordinates
	RequestNumber int

	// GitHub credentials: a token, or a GitHub App installation.
	GitHubToken          string
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKey     string // PEM file contents
	GitHubAPIURL         string // empty for github.com

	// CommentMaxAttempts bounds CreateComment calls (COMMENT_MAX_ATTEMPTS,
	// default 1). Above 1, a 5xx returned after GitHub stored the comment
	// could post it twice; the publisher looks for the stored comment before
	// each retry, but an identical comment from another run in the lookup
	// window is then taken as this run's.
	CommentMaxAttempts int

	Workspace       string
	DiffEngine      string
	KubeconformBin  string
	KubeconformArgs []string
	Extensions      []string
	Concurrency     int
	ValidateTimeout time.Duration
	FailOnErrors    bool

	LogLevel    string
	OTelEnabled bool // OTEL_ENABLED feature flag
}

// LoadOptions carries command-line overrides.
type LoadOptions struct {
	DryRun       bool   // publishing target and credentials are not required
	SettingsFile string // overrides LINT_CONFIG_FILE
}

// Load reads configuration from the environment and the optional settings
// file. Any failure is returned as a domain.ConfigurationError.
func Load(opts LoadOptions) (Config, error) {
	cfg, err := load(opts)
	if err != nil && !domain.IsConfigurationError(err) {
		err = domain.NewConfigurationError(err)
	}
	return cfg, err
}

func load(opts LoadOptions) (Config, error) {
	cfg := Config{
		DiffEngine:         DiffEngineGit,
		KubeconformBin:     "kubeconform",
		Extensions:         domain.DefaultExtensions,
		Concurrency:        1,
		CommentMaxAttempts: 1,
		LogLevel:           "info",
	}

	// Revisions are checked first so a missing one aborts before anything else.
	revisions, err := domain.NewRevisionPair(FirstEnv(BaseRevisionKeys...), FirstEnv(HeadRevisionKeys...))
	if err != nil {
		return Config{}, err
	}
	cfg.Revisions = revisions

	settingsFile := domain.FirstNonEmpty(opts.SettingsFile, FirstEnv(SettingsFileKeys...))
	if settingsFile != "" {
		if err := applySettingsFile(&cfg, settingsFile); err != nil {
			return Config{}, err
		}
	}

	if err := loadValidatorConfig(&cfg); err != nil {
		return Config{}, err
	}

	if !opts.DryRun {
		if err := loadPublishConfig(&cfg); err != nil {
			return Config{}, err
		}
	}

	loadObservabilityConfig(&cfg)

	return cfg, nil
}

func loadValidatorConfig(cfg *Config) error {
	cfg.Workspace = FirstEnv(WorkspaceKeys...)
	if cfg.Workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determining workspace: %w", err)
		}
		cfg.Workspace = wd
	}

	if v := FirstEnv("DIFF_ENGINE", "PLUGIN_DIFF_ENGINE"); v != "" {
		cfg.DiffEngine = v
	}
	if cfg.DiffEngine != DiffEngineGit && cfg.DiffEngine != DiffEngineGoGit {
		return fmt.Errorf("invalid DIFF_ENGINE %q: must be %q or %q", cfg.DiffEngine, DiffEngineGit, DiffEngineGoGit)
	}

	if v := FirstEnv("KUBECONFORM_BIN", "PLUGIN_KUBECONFORM_BIN"); v != "" {
		cfg.KubeconformBin = v
	}
	if v := FirstEnv("KUBECONFORM_ARGS", "PLUGIN_KUBECONFORM_ARGS"); v != "" {
		cfg.KubeconformArgs = strings.Fields(v)
	}

	var err error
	if cfg.Concurrency, err = parseIntOrDefault("VALIDATE_CONCURRENCY", cfg.Concurrency); err != nil {
		return err
	}
	if cfg.Concurrency < 1 {
		return fmt.Errorf("invalid VALIDATE_CONCURRENCY %d: must be at least 1", cfg.Concurrency)
	}

	if cfg.ValidateTimeout, err = parseDurationOrDefault("VALIDATE_TIMEOUT", cfg.ValidateTimeout); err != nil {
		return err
	}

	if v := FirstEnv("FAIL_ON_ERRORS", "PLUGIN_FAIL_ON_ERRORS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid FAIL_ON_ERRORS %q: %w", v, err)
		}
		cfg.FailOnErrors = b
	}

	return nil
}

func loadPublishConfig(cfg *Config) error {
	coords, err := domain.ResolveCoordinates(
		FirstEnv(RemoteURLKeys...),
		FirstEnv(OwnerKeys...),
		FirstEnv(RepoKeys...),
	)
	if err != nil {
		return err
	}
	cfg.Coordinates = coords

	if cfg.RequestNumber, err = parseRequestNumber(); err != nil {
		return err
	}

	cfg.GitHubAPIURL = os.Getenv("GITHUB_API_URL")

	if cfg.CommentMaxAttempts, err = parseIntOrDefault("COMMENT_MAX_ATTEMPTS", cfg.CommentMaxAttempts); err != nil {
		return err
	}
	if cfg.CommentMaxAttempts < 1 {
		return fmt.Errorf("invalid COMMENT_MAX_ATTEMPTS %d: must be at least 1", cfg.CommentMaxAttempts)
	}

	return loadCredentials(cfg)
}

func loadCredentials(cfg *Config) error {
	cfg.GitHubToken = FirstEnv(TokenKeys...)
	if cfg.GitHubToken != "" {
		return nil
	}

	// GitHub App credentials are the alternative to a token.
	if os.Getenv("GITHUB_APP_ID") == "" {
		return fmt.Errorf("one of %s is required", strings.Join(TokenKeys, ", "))
	}

	var err error
	cfg.GitHubAppID, err = parseRequiredInt64("GITHUB_APP_ID")
	if err != nil {
		return err
	}

	cfg.GitHubInstallationID, err = parseRequiredInt64("GITHUB_INSTALLATION_ID")
	if err != nil {
		return err
	}

	cfg.GitHubPrivateKey = os.Getenv("GITHUB_PRIVATE_KEY")
	if cfg.GitHubPrivateKey == "" {
		return errors.New("GITHUB_PRIVATE_KEY is required when GITHUB_APP_ID is set")
	}

	return nil
}

func loadObservabilityConfig(cfg *Config) {
	if v := FirstEnv("LOG_LEVEL", "PLUGIN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	cfg.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"
}

// applySettingsFile reads the YAML settings file into cfg. Environment
// variables are applied afterwards and win.
func applySettingsFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}

	var s api.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing settings file %s: %w", path, err)
	}

	if len(s.Extensions) > 0 {
		for i, ext := range s.Extensions {
			if strings.TrimSpace(ext) == "" {
				return fmt.Errorf("invalid extensions[%d] in %s: must not be empty", i, path)
			}
		}
		cfg.Extensions = s.Extensions
	}
	if s.Kubeconform.Bin != "" {
		cfg.KubeconformBin = s.Kubeconform.Bin
	}
	if len(s.Kubeconform.Args) > 0 {
		cfg.KubeconformArgs = s.Kubeconform.Args
	}
	if s.Concurrency != 0 {
		cfg.Concurrency = s.Concurrency
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in %s: %w", s.Timeout, path, err)
		}
		cfg.ValidateTimeout = d
	}
	cfg.FailOnErrors = s.FailOnErrors

	return nil
}

// FirstEnv returns the value of the first set, non-empty environment variable.
func FirstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func parseRequestNumber() (int, error) {
	v := os.Getenv(requestNumberKey)
	if v == "" {
		return 0, domain.NewConfigurationError(fmt.Errorf("%w: %s is required", domain.ErrInvalidRequestNumber, requestNumberKey))
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, domain.NewConfigurationError(fmt.Errorf("%w: %s=%q", domain.ErrInvalidRequestNumber, requestNumberKey, v))
	}
	return n, nil
}

func parseRequiredInt64(envKey string) (int64, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return 0, fmt.Errorf("%s is required", envKey)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return id, nil
}

func parseIntOrDefault(envKey string, defaultValue int) (int, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return n, nil
}

func parseDurationOrDefault(envKey string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(envKey)
	if v == "" {
		return defaultValue, nil
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return dur, nil
}
