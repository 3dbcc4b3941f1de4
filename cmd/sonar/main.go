package main

import (
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"

	"github.com/Meesho/BharatMLStack/sonar/internal/analysis/route"
	"github.com/Meesho/BharatMLStack/sonar/internal/configs"
	"github.com/Meesho/BharatMLStack/sonar/internal/console"
	"github.com/Meesho/BharatMLStack/sonar/internal/externalcall"
	"github.com/Meesho/BharatMLStack/sonar/pkg/httpframework"
	"github.com/Meesho/BharatMLStack/sonar/pkg/logger"
	"github.com/Meesho/BharatMLStack/sonar/pkg/metric"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Configs        configs.Configs
	DynamicConfigs configs.DynamicConfigs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

func (cfg *AppConfig) GetDynamicConfig() interface{} {
	return &cfg.DynamicConfigs
}

var (
	appConfig AppConfig
)

func main() {
	configs.InitConfig(&appConfig)

	logger.Init(appConfig.Configs)
	metric.Init(appConfig.Configs)
	externalcall.Init(appConfig.Configs)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	if appConfig.Configs.CorsAllowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(appConfig.Configs.CorsAllowedOrigins, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	httpframework.Init(cors.New(corsConfig))

	route.Init(appConfig.Configs)
	console.Init()

	port := appConfig.Configs.AppPort
	if port == 0 {
		port = 8087
		log.Warn().Int("port", port).Msg("App port not set, defaulting to 8087")
	}
	httpframework.Instance().Run(":" + strconv.Itoa(port))
}
