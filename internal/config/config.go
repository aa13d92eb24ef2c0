package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appDir    = ".cardimage"
	envPrefix = "CARDIMAGE"
)

var (
	configData Config
	v          *viper.Viper
	loadedFile string
	bindings   map[string]*pflag.Flag
)

// Config holds all configuration settings.
type Config struct {
	// Server configuration
	Server struct {
		Host string
		Port int
		// Disabled lists host command codes the server answers with error 68.
		Disabled []string
	}
	// Logging configuration
	Log struct {
		Level  string
		Format string
	}
	// Card image parsing
	Card struct {
		Root string
	}
	// Output rendering
	Output struct {
		Indent int
	}
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Initialize sets up the configuration system and writes a default config file
// under $HOME when none exists.
func Initialize() error {
	if err := ensureConfig(); err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}

	return Load("")
}

// Load reads configuration from file, or from the standard search paths when file
// is empty. Environment variables prefixed with CARDIMAGE override file values.
func Load(file string) error {
	v = viper.New()
	loadedFile = file
	bindings = nil

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")          // name of config file (without extension)
		v.SetConfigType("yaml")            // config file type
		v.AddConfigPath(".")               // optionally look for config in working directory
		v.AddConfigPath("$HOME/" + appDir) // look for config in .cardimage directory in home
		v.AddConfigPath("/etc/cardimage/") // path to look for the config file in
	}

	setDefaults()

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// It's okay if we can't find a config file, we'll use defaults
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	configData = Config{}
	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// setDefaults sets default values for all configuration options.
func setDefaults() {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 1600)
	v.SetDefault("server.disabled", []string{})

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "human")

	// Card defaults
	v.SetDefault("card.root", "EMVCoL3CardImage")
	v.SetDefault("output.indent", 2)
}

// ensureConfig creates a default config file if none exists.
func ensureConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	dir := filepath.Join(home, appDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		defaultConfig := `# Card image tooling configuration
server:
  host: localhost
  port: 1600
  # host command codes to answer with error 68, e.g. [MA, KA]
  disabled: []

log:
  level: info
  format: human

card:
  root: EMVCoL3CardImage

output:
  indent: 2
`
		if err := os.WriteFile(configFile, []byte(defaultConfig), 0o644); err != nil {
			return err
		}
	}

	return nil
}

// BindFlags binds command line flags to configuration keys so that flags set by
// the user override file and environment values, then refreshes Get.
func BindFlags(flags *pflag.FlagSet, keys map[string]string) error {
	if v == nil {
		return errors.New("configuration not initialized")
	}
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
		if bindings == nil {
			bindings = make(map[string]*pflag.Flag)
		}
		bindings[key] = f
	}

	configData = Config{}
	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// Reload re-reads the configuration source used by the last Load and restores the
// flag bindings made since, so flags keep precedence over the refreshed file.
func Reload() error {
	bound := bindings
	if err := Load(loadedFile); err != nil {
		return err
	}
	for key, f := range bound {
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	}
	bindings = bound

	configData = Config{}
	if err := v.Unmarshal(&configData); err != nil {
		return fmt.Errorf("unable to decode into config struct: %w", err)
	}

	return nil
}

// Get returns the current configuration.
func Get() *Config {
	return &configData
}

// GetViper returns the viper instance.
func GetViper() *viper.Viper {
	return v
}
