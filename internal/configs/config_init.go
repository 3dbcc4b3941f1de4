package configs

import (
	"log"
	"sync"

	"github.com/spf13/viper"
)

// ConfigHolder interface for app config
type ConfigHolder interface {
	GetStaticConfig() interface{}
	GetDynamicConfig() interface{}
}

var (
	envOnce sync.Once
)

// InitConfig loads configuration from environment variables
func InitConfig(configHolder ConfigHolder) {
	InitEnv()

	staticConfig := configHolder.GetStaticConfig()
	cfg, ok := staticConfig.(*Configs)
	if !ok {
		log.Fatal("Failed to cast static config to *Configs")
	}

	bindEnvVars()

	// Bind environment variables to config keys
	// This maps APP_NAME (env) -> app_name (config key)
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatalf("Failed to unmarshal config from environment: %v", err)
	}

	log.Println("Configuration loaded from environment variables")
}

// InitEnv makes environment variables visible to viper
func InitEnv() {
	envOnce.Do(func() {
		viper.AutomaticEnv()
	})
}

func bindEnvVars() {
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("app_metric_sampling_rate", "APP_METRIC_SAMPLING_RATE")
	viper.BindEnv("app_port", "APP_PORT")
	viper.BindEnv("predict_endpoint", "PREDICT_ENDPOINT")
	viper.BindEnv("predict_timeout_in_ms", "PREDICT_TIMEOUT_IN_MS")
	viper.BindEnv("cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
}
