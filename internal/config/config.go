package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "playlist-sync.yaml"

// Transport names accepted in file_system.
const (
	FSLocal       = "local"
	FSRemoteShell = "remote-shell"
)

type SSH struct {
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Username   string `yaml:"username"`
	PrivateKey string `yaml:"private_key"`
}

type Config struct {
	PlaylistSrc string `yaml:"playlist_src"`
	MusicSrc    string `yaml:"music_src"`
	TmpDir      string `yaml:"tmp_dir"`

	FileSystem  string `yaml:"file_system"` // local | remote-shell
	PlaylistDst string `yaml:"playlist_dst"`
	MusicDst    string `yaml:"music_dst"`

	// remote-shell only: device_id selects the adb session, otherwise
	// the ssh block is used.
	DeviceID string `yaml:"device_id,omitempty"`
	SSH      SSH    `yaml:"ssh,omitempty"`

	Playlists []string `yaml:"playlists"`

	Transcode       bool     `yaml:"transcode"`
	TranscodeFormat string   `yaml:"transcode_format,omitempty"`
	TranscodeArgs   []string `yaml:"transcode_args,omitempty"`
}

// Load reads and validates a config file. Every problem is collected
// so a broken config surfaces all at once.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and local paths. It runs before any
// remote connection is opened.
func Validate(cfg *Config) error {
	var validationErrors []string

	for _, dir := range []struct{ key, path string }{
		{"playlist_src", cfg.PlaylistSrc},
		{"music_src", cfg.MusicSrc},
		{"tmp_dir", cfg.TmpDir},
	} {
		if strings.TrimSpace(dir.path) == "" {
			validationErrors = append(validationErrors, dir.key+" cannot be empty")
			continue
		}
		if info, err := os.Stat(dir.path); err != nil || !info.IsDir() {
			validationErrors = append(validationErrors, fmt.Sprintf("%s is not a directory: %s", dir.key, dir.path))
		}
	}

	switch cfg.FileSystem {
	case FSLocal:
	case FSRemoteShell:
		if cfg.DeviceID == "" && cfg.SSH.Host == "" {
			validationErrors = append(validationErrors, "remote-shell requires either device_id or an ssh block")
		}
		if cfg.DeviceID == "" && cfg.SSH.Host != "" {
			if strings.TrimSpace(cfg.SSH.Username) == "" {
				validationErrors = append(validationErrors, "ssh.username cannot be empty")
			}
			if strings.TrimSpace(cfg.SSH.Port) == "" {
				validationErrors = append(validationErrors, "ssh.port cannot be empty")
			} else if port, err := strconv.Atoi(cfg.SSH.Port); err != nil || port <= 0 || port > 65535 {
				validationErrors = append(validationErrors, "ssh.port must be a valid number between 1-65535")
			}
			if strings.TrimSpace(cfg.SSH.PrivateKey) == "" {
				validationErrors = append(validationErrors, "ssh.private_key cannot be empty")
			} else if _, err := os.Stat(cfg.SSH.PrivateKey); os.IsNotExist(err) {
				validationErrors = append(validationErrors, fmt.Sprintf("ssh.private_key file does not exist: %s", cfg.SSH.PrivateKey))
			}
		}
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("file_system must be %q or %q, got %q", FSLocal, FSRemoteShell, cfg.FileSystem))
	}

	if strings.TrimSpace(cfg.MusicDst) == "" {
		validationErrors = append(validationErrors, "music_dst cannot be empty")
	}
	if strings.TrimSpace(cfg.PlaylistDst) == "" {
		validationErrors = append(validationErrors, "playlist_dst cannot be empty")
	}

	if len(cfg.Playlists) == 0 {
		validationErrors = append(validationErrors, "playlists cannot be empty")
	}

	if cfg.Transcode && strings.TrimSpace(cfg.TranscodeFormat) == "" {
		validationErrors = append(validationErrors, "transcode_format is required when transcode is enabled")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
