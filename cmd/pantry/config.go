// Config loading for the pantry CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// envPrefix maps config keys to environment variables:
	// user_id becomes PANTRY_USER_ID, azure.account_url becomes
	// PANTRY_AZURE_ACCOUNT_URL.
	envPrefix = "PANTRY"

	// Config keys.
	cfgKeyBackend         = "backend"
	cfgKeyUserID          = "user_id"
	cfgKeyDataDir         = "data_dir"
	cfgKeyAzureAccountURL = "azure.account_url"
	cfgKeyAzureConnString = "azure.connection_string"
	cfgKeyAzurePrivate    = "azure.private_container"
	cfgKeyAzurePublic     = "azure.public_container"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Pantry CLI configuration.

# Storage backend: sqlite, azure, or memory.
backend: sqlite

# Identity reported by whoami and stamped on created records.
# user_id:

# Data directory for the sqlite backend (optional; overridable by --data-dir)
# data_dir:

# Azure Blob Storage settings for the azure backend.
# azure:
#   account_url: https://myaccount.blob.core.windows.net
#   connection_string:
#   private_container: pantry-private
#   public_container: pantry-public
`

// loadConfig reads config.yaml from the config directory using Viper,
// layered under PANTRY_* environment variables and built-in defaults.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.DefaultBackend)
	v.SetDefault(cfgKeyAzurePrivate, types.DefaultPrivateContainer)
	v.SetDefault(cfgKeyAzurePublic, types.DefaultPublicContainer)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Defaults and environment variables still apply.
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
