package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/feedback-collector/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string
	seedAppend bool
)

var rootCmd = &cobra.Command{
	Use:   "feedback-collector",
	Short: "Feedback Collector",
	Long:  `Collects staff feedback, notifies department managers and reports statistics.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	// Check if we're running in Docker environment
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		// Load configuration from environment variables (Docker deployment)
		return validated(internal.LoadConfigFromEnv(), "environment")
	}

	// Load configuration from file (development)
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return validated(internal.LoadConfigFromEnv(), "environment")
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	cfg := internal.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	raw, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	if err := internal.ApplyCaseSensitiveKeys(cfg, raw); err != nil {
		return nil, err
	}

	// the original deployment's variable names still apply on top of the file
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		cfg.Security.SessionSecret = secret
	}
	if sender := os.Getenv("SENDER_EMAIL"); sender != "" {
		cfg.Mail.Sender = sender
	}
	if password := os.Getenv("SENDER_PASSWORD"); password != "" {
		cfg.Mail.Password = password
	}

	return validated(cfg, "config file")
}

func validated(cfg *internal.Config, source string) (*internal.Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config from %s: %w", source, err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")
	seedCmd.Flags().BoolVar(&seedAppend, "append", false, "Seed even when the feedback table already has rows")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}
