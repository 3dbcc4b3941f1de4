package controller

import (
	"errors"
	"strings"
	"sync"

	"github.com/Meesho/BharatMLStack/sonar/internal/analysis/handler"
	"github.com/Meesho/BharatMLStack/sonar/internal/configs"
	"github.com/Meesho/BharatMLStack/sonar/pkg/api"
	"github.com/gin-gonic/gin"
)

type Analysis interface {
	Analyze(ctx *gin.Context)
}

var (
	analysisController Analysis
	once               sync.Once
)

type V1 struct {
	Analysis handler.Analysis
}

func NewAnalysisController(config configs.Configs) Analysis {
	if analysisController == nil {
		once.Do(func() {
			analysisController = &V1{
				Analysis: handler.InitV1AnalysisHandler(config),
			}
		})
	}
	return analysisController
}

func (c *V1) Analyze(ctx *gin.Context) {
	var request handler.AnalyzeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apiErr := api.NewBadRequestError(err.Error())
		ctx.JSON(apiErr.StatusCode, handler.ErrorResponse{
			Error: handler.ErrorBody{Message: apiErr.Message},
		})
		return
	}
	if strings.TrimSpace(request.Text) == "" {
		apiErr := api.NewBadRequestError("text is required")
		ctx.JSON(apiErr.StatusCode, handler.ErrorResponse{
			Error: handler.ErrorBody{Message: apiErr.Message},
		})
		return
	}

	model, err := c.Analysis.Analyze(ctx.Request.Context(), request)
	if err != nil {
		if errors.Is(err, handler.ErrAnalysisInFlight) {
			apiErr := api.NewTooManyRequests(err.Error())
			ctx.JSON(apiErr.StatusCode, handler.ErrorResponse{
				Error: handler.ErrorBody{Message: apiErr.Message},
			})
			return
		}
		var failure *handler.Failure
		if errors.As(err, &failure) {
			var apiErr *api.Error
			switch failure.Category {
			case handler.CategoryConnection, handler.CategoryValidation:
				apiErr = api.NewBadGatewayError(failure.Message)
			case handler.CategoryUnexpected:
				apiErr = api.NewInternalServerError(failure.Message)
			}
			ctx.JSON(apiErr.StatusCode, handler.ErrorResponse{
				Error:    handler.ErrorBody{Category: string(failure.Category), Message: failure.Message},
				Metadata: failure.Metadata,
				RawJSON:  failure.RawJSON,
			})
			return
		}
		apiErr := api.NewInternalServerError(err.Error())
		ctx.JSON(apiErr.StatusCode, handler.ErrorResponse{
			Error: handler.ErrorBody{Message: apiErr.Message},
		})
		return
	}

	ctx.JSON(200, model)
}
