package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	BaseURL              string        `yaml:"base_url"`
	Timeout              time.Duration `yaml:"timeout"`
	UserName             string        `yaml:"user_name"`
	StorePath            string        `yaml:"store_path"`
	LogPath              string        `yaml:"log_path"`
	LogLevel             string        `yaml:"log_level"`
	AudioDir             string        `yaml:"audio_dir"`
	PlayerCommand        string        `yaml:"player_command"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	SchedulerBuffer      int           `yaml:"scheduler_buffer"`
	LocationSharing      bool          `yaml:"location_sharing"`
	Latitude             float64       `yaml:"latitude"`
	Longitude            float64       `yaml:"longitude"`
	MeditationMinutes    int           `yaml:"meditation_minutes"`
	DetoxMinutes         int           `yaml:"detox_minutes"`
}

// Dir is the per-user state directory; every default path lives under it.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".manas"
	}
	return filepath.Join(home, ".manas")
}

func Default() RuntimeConfig {
	dir := Dir()
	return RuntimeConfig{
		BaseURL:              "http://127.0.0.1:8000",
		Timeout:              90 * time.Second,
		UserName:             "Friend",
		StorePath:            filepath.Join(dir, "manas.db"),
		LogPath:              filepath.Join(dir, "manas.log"),
		LogLevel:             "info",
		AudioDir:             filepath.Join(dir, "audio"),
		DesktopNotifications: false,
		SchedulerBuffer:      64,
		MeditationMinutes:    5,
		DetoxMinutes:         30,
	}
}

// DefaultFilePath is the config file read when no --config flag is given.
func DefaultFilePath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// FromFile overlays the YAML file at path onto base. A missing file is not
// an error so first runs work without any setup.
func FromFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return base, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg.sanitize(base), nil
}

func FromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("MANAS_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := getEnvDuration("MANAS_TIMEOUT"); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := getEnvString("MANAS_USER_NAME"); ok {
		cfg.UserName = v
	}
	if v, ok := getEnvString("MANAS_STORE"); ok {
		cfg.StorePath = v
	}
	if v, ok := getEnvString("MANAS_LOG_FILE"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("MANAS_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("MANAS_AUDIO_DIR"); ok {
		cfg.AudioDir = v
	}
	if v, ok := getEnvString("MANAS_PLAYER"); ok {
		cfg.PlayerCommand = v
	}
	if v, ok := getEnvBool("MANAS_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("MANAS_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvBool("MANAS_LOCATION_SHARING"); ok {
		cfg.LocationSharing = v
	}
	if v, ok := getEnvFloat("MANAS_LATITUDE"); ok {
		cfg.Latitude = v
	}
	if v, ok := getEnvFloat("MANAS_LONGITUDE"); ok {
		cfg.Longitude = v
	}
	if v, ok := getEnvInt("MANAS_MEDITATION_MINUTES"); ok && v > 0 {
		cfg.MeditationMinutes = v
	}
	if v, ok := getEnvInt("MANAS_DETOX_MINUTES"); ok && v > 0 {
		cfg.DetoxMinutes = v
	}
	return cfg
}

// Load applies the file layer and then the environment layer.
func Load(path string) (RuntimeConfig, error) {
	if path == "" {
		path = DefaultFilePath()
	}
	cfg, err := FromFile(Default(), path)
	if err != nil {
		return Default(), err
	}
	return FromEnv(cfg), nil
}

// UsesFileStore reports whether StorePath names a JSON snapshot file
// rather than a SQLite database.
func (c RuntimeConfig) UsesFileStore() bool {
	return strings.EqualFold(filepath.Ext(c.StorePath), ".json")
}

func (c RuntimeConfig) sanitize(fallback RuntimeConfig) RuntimeConfig {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = fallback.BaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = fallback.Timeout
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = fallback.SchedulerBuffer
	}
	if c.MeditationMinutes <= 0 {
		c.MeditationMinutes = fallback.MeditationMinutes
	}
	if c.DetoxMinutes <= 0 {
		c.DetoxMinutes = fallback.DetoxMinutes
	}
	return c
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvFloat(name string) (float64, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// getEnvDuration accepts Go durations ("45s") or plain seconds ("45").
func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
