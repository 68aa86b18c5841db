package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration for the BlindStyle client.
type Config struct {
	// APIURL is the base URL of the BlindStyle API, without the /api/v1 prefix.
	APIURL string `yaml:"api_url"`

	// TokenFile is where the access/refresh token pair is persisted.
	TokenFile string `yaml:"token_file"`

	// WebcamCommand is the external command used to grab a still frame from
	// the camera. "{device}" and "{output}" are substituted before running.
	WebcamCommand string `yaml:"webcam_command"`

	// FrontDevice and BackDevice map the camera facing preference onto
	// capture devices.
	FrontDevice string `yaml:"front_device"`
	BackDevice  string `yaml:"back_device"`

	// SpeechCommand is the external text-to-speech command. Empty disables
	// narration.
	SpeechCommand string `yaml:"speech_command"`

	LogLevel string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		APIURL:        "http://localhost:8000",
		TokenFile:     defaultTokenFile(),
		WebcamCommand: "ffmpeg -y -f v4l2 -i {device} -frames:v 1 {output}",
		FrontDevice:   "/dev/video0",
		BackDevice:    "/dev/video1",
		SpeechCommand: "",
		LogLevel:      "info",
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".blindstyle/tokens.json"
	}
	return filepath.Join(home, ".blindstyle", "tokens.json")
}

// Load reads the YAML config file at path, falling back to defaults for any
// field left unset. A missing file is not an error; environment variables
// override the file.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("BLINDSTYLE_CONFIG")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".blindstyle", "config.yaml")
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.APIURL == "" {
		return cfg, fmt.Errorf("api_url must not be empty")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BLINDSTYLE_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("BLINDSTYLE_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("BLINDSTYLE_WEBCAM_COMMAND"); v != "" {
		cfg.WebcamCommand = v
	}
	if v := os.Getenv("BLINDSTYLE_SPEECH_COMMAND"); v != "" {
		cfg.SpeechCommand = v
	}
	if v := os.Getenv("BLINDSTYLE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Device returns the capture device for the given facing preference.
func (c Config) Device(facing string) string {
	if facing == "back" {
		return c.BackDevice
	}
	return c.FrontDevice
}
