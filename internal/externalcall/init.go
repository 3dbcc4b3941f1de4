package externalcall

import (
	"github.com/Meesho/BharatMLStack/sonar/internal/configs"
)

func Init(config configs.Configs) {
	InitPredictClient(config.PredictEndpoint, config.PredictTimeoutInMs)
}
