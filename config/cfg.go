package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

// AppName is used for log naming and temporary file prefixes.
const AppName = "sdx"

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	FontsConfig struct {
		Name         string  `yaml:"name" validate:"required"`
		Size         float64 `yaml:"size" validate:"gt=0"`
		TextColor    string  `yaml:"text_color" validate:"required,hexadecimal,len=6"`
		HeadingColor string  `yaml:"heading_color" validate:"required,hexadecimal,len=6"`
	}

	ImagesConfig struct {
		Border          BorderMode `yaml:"border" validate:"gte=0"`
		JPEGQuality     int        `yaml:"jpeg_quality_level" validate:"min=40,max=100"`
		MaxWidthCm      float64    `yaml:"max_width_cm" validate:"gt=0"`
		FetchTimeoutSec int        `yaml:"fetch_timeout_sec" validate:"min=1"`
	}

	DocumentConfig struct {
		FixZip       bool         `yaml:"fix_zip"`
		TemplatePath string       `yaml:"template_path" sanitize:"path_clean" validate:"omitempty,filepath"`
		Fonts        FontsConfig  `yaml:"fonts"`
		Images       ImagesConfig `yaml:"images"`
	}

	SnippetsConfig struct {
		DatabasePath string `yaml:"database_path" sanitize:"path_clean" validate:"omitempty,filepath"`
	}

	StoreConfig struct {
		Directory  string       `yaml:"directory" sanitize:"path_clean" validate:"required"`
		SigningKey SecretString `yaml:"signing_key,omitempty"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Document  DocumentConfig `yaml:"document"`
		Snippets  SnippetsConfig `yaml:"snippets"`
		Store     StoreConfig    `yaml:"store"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
