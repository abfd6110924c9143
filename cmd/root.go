package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "jobboard-ai"
	envPrefix = "JOBBOARD"
)

type Config struct {
	Server   *ServerConfig   `mapstructure:"server"`
	Database *DatabaseConfig `mapstructure:"database"`
	AI       *AIConfig       `mapstructure:"ai"`
	Matching *MatchingConfig `mapstructure:"matching"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	BodyLimit       int           `mapstructure:"body-limit"`
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	DSNFile  string `mapstructure:"dsn-file"`
	MaxConns int32  `mapstructure:"max-conns"`
}

type AIConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxLogLength  int           `mapstructure:"max-log-length"`
	Language      string        `mapstructure:"language"`
	MaxInputRunes int           `mapstructure:"max-input-runes"`
	Gemini        *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey          string   `mapstructure:"api-key"`
	APIKeyFile      string   `mapstructure:"api-key-file"`
	Model           string   `mapstructure:"model"`
	Temperature     *float32 `mapstructure:"temperature"`
	TopP            *float32 `mapstructure:"top-p"`
	MaxOutputTokens int32    `mapstructure:"max-output-tokens"`
}

type MatchingConfig struct {
	Concurrency      int      `mapstructure:"concurrency"`
	BatchSize        int      `mapstructure:"batch-size"`
	HideApplied      bool     `mapstructure:"hide-applied"`
	ExcludeCompanies []string `mapstructure:"exclude-companies"`
	Limit            int      `mapstructure:"limit"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobboard-ai matches job seekers and vacancies with the help of an AI model",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobboard-ai.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read-timeout", 30*time.Second)
	v.SetDefault("server.write-timeout", 60*time.Second)
	v.SetDefault("server.shutdown-timeout", 10*time.Second)
	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.dsn-file", "")
	v.SetDefault("database.max-conns", 10)
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.max-log-length", 500)
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("matching.concurrency", 4)
	v.SetDefault("matching.batch-size", 1)
}

func initConfig() {
	// A missing .env is normal outside of local development.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit config file must exist; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Database == nil {
		config.Database = &DatabaseConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}

	return config, nil
}
