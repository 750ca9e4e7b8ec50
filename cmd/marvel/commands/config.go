package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fivetwenty-io/marvel-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ConfigDirName is the directory under $HOME holding the CLI configuration.
const ConfigDirName = ".marvel"

// Config represents the CLI configuration.
type Config struct {
	API          string        `json:"api,omitempty"           yaml:"api,omitempty"`
	PublicKey    string        `json:"public_key,omitempty"    yaml:"public_key,omitempty"`
	PrivateKey   string        `json:"private_key,omitempty"   yaml:"private_key,omitempty"`
	Output       string        `json:"output,omitempty"        yaml:"output,omitempty"`
	DefaultLimit int           `json:"default_limit,omitempty" yaml:"default_limit,omitempty"`
	RateLimit    float64       `json:"rate_limit,omitempty"    yaml:"rate_limit,omitempty"`
	RetryMax     int           `json:"retry_max,omitempty"     yaml:"retry_max,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"       yaml:"timeout,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage Marvel CLI configuration including keys and defaults",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration with the private key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := loadConfig()
			if config.PrivateKey != "" {
				config.PrivateKey = Masked
			}

			return render(cmd.OutOrStdout(), config, func(out io.Writer) error {
				return displayConfigTable(out, config)
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and save it to the config file",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			err := unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		API:          viper.GetString("api"),
		PublicKey:    viper.GetString("public_key"),
		PrivateKey:   viper.GetString("private_key"),
		Output:       viper.GetString("output"),
		DefaultLimit: viper.GetInt("default_limit"),
		RateLimit:    viper.GetFloat64("rate_limit"),
		RetryMax:     viper.GetInt("retry_max"),
		Timeout:      viper.GetDuration("timeout"),
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "api":
		config.API = value
	case "public_key":
		config.PublicKey = value
	case "private_key":
		config.PrivateKey = value
	case "output":
		switch value {
		case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			config.Output = value
		default:
			return fmt.Errorf("%w: %s", ErrUnknownOutputFormat, value)
		}
	case "default_limit":
		limit, err := strconv.Atoi(value)
		if err != nil || limit < 1 || limit > constants.MaxPageLimit {
			return fmt.Errorf("%w: %q", ErrInvalidDefaultLimit, value)
		}

		config.DefaultLimit = limit
	case "rate_limit":
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil || rps < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidRateLimit, value)
		}

		config.RateLimit = rps
	case "retry_max":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidRetryMax, value)
		}

		config.RetryMax = retries
	case "timeout":
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}

		config.Timeout = timeout
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case "api":
		config.API = ""
	case "public_key":
		config.PublicKey = ""
	case "private_key":
		config.PrivateKey = ""
	case "output":
		config.Output = ""
	case "default_limit":
		config.DefaultLimit = 0
	case "rate_limit":
		config.RateLimit = 0
	case "retry_max":
		config.RetryMax = 0
	case "timeout":
		config.Timeout = 0
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	return nil
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDirName, "config.yml"), nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append("API", valueOrDefault(config.API, constants.DefaultAPIEndpoint))
	_ = table.Append("Public Key", valueOrDefault(config.PublicKey, NotAvailable))
	_ = table.Append("Private Key", valueOrDefault(config.PrivateKey, NotAvailable))
	_ = table.Append("Output", valueOrDefault(config.Output, constants.FormatTable))
	_ = table.Append("Default Limit", intOrDefault(config.DefaultLimit, constants.DefaultPageLimit))
	_ = table.Append("Rate Limit", strconv.FormatFloat(config.RateLimit, 'f', -1, 64))
	_ = table.Append("Retry Max", strconv.Itoa(config.RetryMax))
	_ = table.Append("Timeout", durationOrDefault(config.Timeout, constants.DefaultHTTPTimeout))

	return renderTable(table)
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func intOrDefault(value, fallback int) string {
	if value == 0 {
		return strconv.Itoa(fallback)
	}

	return strconv.Itoa(value)
}

func durationOrDefault(value, fallback time.Duration) string {
	if value == 0 {
		return fallback.String()
	}

	return value.String()
}
