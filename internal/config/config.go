package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ngx-essentials/ngxe/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyLang           = "lang"
	KeyPK             = "pk"
	KeyOnConflict     = "on_conflict"
	KeyLogLevel       = "log_level"
	KeyPackageManager = "package_manager"
)

// Keys lists every key `config set` accepts.
var Keys = []string{KeyLang, KeyPK, KeyOnConflict, KeyLogLevel, KeyPackageManager}

// Defaults is the resolved view of the user configuration.
type Defaults struct {
	Lang           string
	PK             string
	OnConflict     string
	LogLevel       string
	PackageManager string
}

// Dir returns the path to the config directory (~/.ngxe/).
// The NGXE_HOME environment variable overrides it.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.ngxe/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyLang, "en")
	viper.SetDefault(KeyOnConflict, "skip")
	viper.SetDefault(KeyLogLevel, "info")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Current returns the configured defaults. Load must have been called.
func Current() Defaults {
	return Defaults{
		Lang:           viper.GetString(KeyLang),
		PK:             viper.GetString(KeyPK),
		OnConflict:     viper.GetString(KeyOnConflict),
		LogLevel:       viper.GetString(KeyLogLevel),
		PackageManager: viper.GetString(KeyPackageManager),
	}
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
