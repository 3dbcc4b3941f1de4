package route

import (
	"sync"

	"github.com/Meesho/BharatMLStack/sonar/internal/analysis/controller"
	"github.com/Meesho/BharatMLStack/sonar/internal/configs"
	"github.com/Meesho/BharatMLStack/sonar/pkg/httpframework"
)

var initAnalysisRouterOnce sync.Once

func Init(config configs.Configs) {
	initAnalysisRouterOnce.Do(func() {
		api := httpframework.Instance().Group("/api")
		{
			v1 := api.Group("/v1/sonar")
			{
				v1.POST("/analyze", controller.NewAnalysisController(config).Analyze)
				v1.GET("/health", controller.Health)
			}
		}
	})
}
