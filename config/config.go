package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Catalog struct {
		Backend     string `mapstructure:"backend"`
		SeedOnStart bool   `mapstructure:"seedOnStart"`
	} `mapstructure:"catalog"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			Enabled  bool   `mapstructure:"enabled"`
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
			GeoKey   string `mapstructure:"geoKey"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Planner     PlannerConfig     `mapstructure:"planner"`
	Chatbot     ChatbotConfig     `mapstructure:"chatbot"`
	Translation TranslationConfig `mapstructure:"translation"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type PlannerConfig struct {
	StopsPerDay                int     `mapstructure:"stopsPerDay"`
	DefaultMaxTravelDays       int     `mapstructure:"defaultMaxTravelDays"`
	RelaxedMaxDistanceKm       float64 `mapstructure:"relaxedMaxDistanceKm"`
	DefaultPreferredDistanceKm float64 `mapstructure:"defaultPreferredDistanceKm"`
}

type ChatbotConfig struct {
	SessionTTL         time.Duration `mapstructure:"sessionTTL"`
	HistorySize        int           `mapstructure:"historySize"`
	RateLimitPerMinute int           `mapstructure:"rateLimitPerMinute"`
}

type TranslationConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Model    string        `mapstructure:"model"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// REPOSITORIES_POSTGRES_PASSWORD overrides repositories.postgres.password, etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// UsePostgres reports whether the catalog is served from Postgres instead of the embedded dataset.
func (c Config) UsePostgres() bool {
	return strings.EqualFold(c.Catalog.Backend, "postgres")
}
