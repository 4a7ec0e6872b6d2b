package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dpshade/formloom/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is assumed for forms and prompts that don't declare one.
const DefaultLocale = "en"

// Config holds the library-wide settings: the locale forms are authored in
// and the user's global prompt defaults. Both sit at the top of the default
// cascade, above form and field scope.
type Config struct {
	Locale string                 `yaml:"locale,omitempty"`
	Prompt *models.TemplateConfig `yaml:"prompt,omitempty"`
}

// Manager loads and saves the library configuration file. The file is YAML
// at the library root (config.yaml) so authors edit it alongside their
// forms.
type Manager struct {
	baseDir    string
	configPath string
	config     *Config
}

// NewManager creates a configuration manager for the library at baseDir.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".formloom")
	}

	m := &Manager{
		baseDir:    baseDir,
		configPath: filepath.Join(baseDir, "config.yaml"),
		config:     &Config{},
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}

	// Load existing configuration if it exists
	if err := m.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return m, nil
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}
	m.config = cfg
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(m.config); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	return os.WriteFile(m.configPath, buf.Bytes(), 0644)
}

// Config returns the loaded configuration for reading and mutation. Callers
// persist changes with Save.
func (m *Manager) Config() *Config {
	return m.config
}

// Path returns the configuration file path.
func (m *Manager) Path() string {
	return m.configPath
}

// Locale returns the configured library locale, falling back to the
// default.
func (m *Manager) Locale() string {
	if m.config.Locale != "" {
		return m.config.Locale
	}
	return DefaultLocale
}

// GlobalPrompt returns the top of the default cascade: the user's global
// record with the built-in defaults filled into whatever it leaves unset.
// The result is always fully resolved and never aliases the stored config.
func (m *Manager) GlobalPrompt() *models.TemplateConfig {
	global := m.config.Prompt.Clone()
	if global == nil {
		global = &models.TemplateConfig{}
	}
	global.ApplyDefaults(BuiltinDefaults())
	return global
}

// BuiltinDefaults returns the concrete record terminating the default
// cascade. Every option is set, so any record resolved against it comes out
// fully concrete.
func BuiltinDefaults() *models.TemplateConfig {
	sep := ", "
	lastSep := ", and "
	choiceSep := ", "
	choiceLastSep := ", or "
	format := models.DefaultChoiceFormat
	allowDefault := true
	choiceParens := true

	return &models.TemplateConfig{
		Patterns:            []string{"Please enter {&} {||}"},
		ChoiceStyle:         models.ChoiceAuto,
		ChoiceCase:          models.CaseNone,
		FieldCase:           models.CaseLower,
		ValueCase:           models.CaseInitialUpper,
		Feedback:            models.FeedbackAuto,
		Separator:           &sep,
		LastSeparator:       &lastSep,
		ChoiceSeparator:     &choiceSep,
		ChoiceLastSeparator: &choiceLastSep,
		ChoiceFormat:        &format,
		AllowDefault:        &allowDefault,
		ChoiceParens:        &choiceParens,
	}
}
