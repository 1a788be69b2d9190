package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched in order within one directory.
var configNames = []string{
	"surround.toml",
	"surround.yml",
	"surround.yaml",
	".surround.toml",
	".surround.yml",
}

var overrideNames = []string{
	"surround.override.toml",
	"surround.override.yml",
	"surround.override.yaml",
}

// Load reads, validates and defaults a single settings file.
func Load(path string) (*Settings, error) {
	s, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := finish(s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDefault loads settings starting from the current directory.
func LoadDefault() (*Settings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom loads settings with layered merging:
// 1. Global settings ($XDG_CONFIG_HOME/surround/surround.toml) - base layer
// 2. Local settings (surround.toml found from startDir upward) - overrides global
// 3. Local override (surround.override.toml next to the local file) - overrides all
//
// Running without any settings file is normal; defaults are returned.
func LoadFrom(startDir string) (*Settings, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger is LoadFrom with an explicit logger.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Settings, error) {
	final := &Settings{}

	if globalPath := findIn(paths.ConfigDir(), configNames); globalPath != "" {
		logger.WithField("path", globalPath).Debug("Loading global settings")
		global, err := readFile(globalPath)
		if err != nil {
			logger.WithError(err).Warn("Failed to read global settings, continuing without them")
		} else {
			final = mergeSettings(final, global)
		}
	}

	localPath, err := FindConfigFile(startDir)
	if err == nil && !containsPath(final.Sources, localPath) {
		logger.WithField("path", localPath).Debug("Loading local settings")
		local, err := readFile(localPath)
		if err != nil {
			return nil, err
		}
		final = mergeSettings(final, local)

		if overridePath := findIn(filepath.Dir(localPath), overrideNames); overridePath != "" {
			logger.WithField("path", overridePath).Debug("Loading override settings")
			override, err := readFile(overridePath)
			if err != nil {
				logger.WithError(err).Warn("Failed to read override file, skipping")
			} else {
				final = mergeSettings(final, override)
			}
		}
	}

	if err := finish(final); err != nil {
		return nil, err
	}
	logger.WithField("sources", final.Sources).Debug("Settings loaded and validated successfully")
	return final, nil
}

// LoadFromBytes parses settings in the given format ("toml" or "yaml").
func LoadFromBytes(data []byte, format string) (*Settings, error) {
	s, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := finish(s); err != nil {
		return nil, err
	}
	return s, nil
}

// FindConfigFile searches startDir and its parents for a settings file.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		if path := findIn(dir, configNames); path != "" {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func finish(s *Settings) error {
	validator, err := NewSchemaValidator()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(s); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}
	s.SetDefaults()
	return s.Validate()
}

func readFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read settings file").
			WithDetail("path", path)
	}
	s, err := parse(data, formatOf(path))
	if err != nil {
		if se, ok := errors.As(err); ok {
			return nil, se.WithDetail("path", path)
		}
		return nil, err
	}
	s.Sources = []string{path}
	return s, nil
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

func parse(data []byte, format string) (*Settings, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var s Settings
	switch format {
	case "toml":
		if err := toml.Unmarshal(expanded, &s); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML settings")
		}
		var raw map[string]interface{}
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML settings")
		}
		for key, value := range raw {
			if knownKeys[key] {
				continue
			}
			if s.Extensions == nil {
				s.Extensions = make(map[string]interface{})
			}
			s.Extensions[key] = value
		}
	default:
		if err := yaml.Unmarshal(expanded, &s); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML settings")
		}
	}
	return &s, nil
}

func findIn(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func containsPath(list []string, path string) bool {
	for _, p := range list {
		if p == path {
			return true
		}
	}
	return false
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
