package configs

type Configs struct {
	// App configuration
	AppName               string  `mapstructure:"app_name"`
	AppEnv                string  `mapstructure:"app_env"`
	AppLogLevel           string  `mapstructure:"app_log_level"`
	AppMetricSamplingRate float64 `mapstructure:"app_metric_sampling_rate"`
	AppPort               int     `mapstructure:"app_port"`

	// Intent service configuration
	PredictEndpoint    string `mapstructure:"predict_endpoint"`
	PredictTimeoutInMs int    `mapstructure:"predict_timeout_in_ms"`

	// CORS configuration
	CorsAllowedOrigins string `mapstructure:"cors_allowed_origins"`
}

type DynamicConfigs struct{}
