package handler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Meesho/BharatMLStack/sonar/internal/configs"
	"github.com/Meesho/BharatMLStack/sonar/internal/externalcall"
	"github.com/Meesho/BharatMLStack/sonar/pkg/metric"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrAnalysisInFlight is returned while a previous analysis is still
// outstanding. Nothing was dispatched, so it carries no failure category.
var ErrAnalysisInFlight = errors.New("analysis already in progress")

type Analysis interface {
	Analyze(ctx context.Context, request AnalyzeRequest) (*DisplayModel, error)
}

type analysisHandler struct {
	Client   externalcall.PredictClient
	Endpoint string
	inFlight atomic.Bool
}

var analysisInstance Analysis

func InitV1AnalysisHandler(config configs.Configs) Analysis {
	if analysisInstance == nil {
		analysisInstance = &analysisHandler{
			Client:   externalcall.GetPredictClient(),
			Endpoint: config.PredictEndpoint,
		}
	}
	return analysisInstance
}

// Analyze runs one full pipeline pass: dispatch, validate, present. The
// returned error is either ErrAnalysisInFlight or a *Failure. Each request
// computes a fresh DisplayModel, nothing is shared across calls beyond the
// single-flight gate.
func (h *analysisHandler) Analyze(ctx context.Context, request AnalyzeRequest) (*DisplayModel, error) {
	if !h.inFlight.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInFlight
	}
	defer h.inFlight.Store(false)

	trackingID := uuid.New().String()
	start := time.Now()
	metric.Incr(metric.AnalysisCount, nil)
	log.Info().Str("tracking_id", trackingID).Msg("Analysis started")

	raw, err := h.Client.Predict(ctx, trackingID, request.Text)
	if err != nil {
		return nil, h.failed(trackingID, start, classifyDispatchError(h.Endpoint, err))
	}

	envelope, failure := decodeEnvelope(raw)
	if failure != nil {
		return nil, h.failed(trackingID, start, failure)
	}

	resultSet, failure := validatePredictions(envelope.Predictions)
	if failure != nil {
		// the envelope parsed, so the metadata panel still renders
		meta := formatMetadata(envelope)
		failure.Metadata = &meta
		failure.RawJSON = indentRawJSON(raw)
		return nil, h.failed(trackingID, start, failure)
	}

	model := present(resultSet, envelope, raw)
	latency := time.Since(start)
	metric.Timing(metric.AnalysisLatency, latency, nil)
	log.Info().
		Str("tracking_id", trackingID).
		Int("models", len(model.Tabs)).
		Dur("latency", latency).
		Msg("Analysis completed")
	return &model, nil
}

func (h *analysisHandler) failed(trackingID string, start time.Time, failure *Failure) *Failure {
	metric.Timing(metric.AnalysisLatency, time.Since(start), nil)
	metric.Incr(metric.AnalysisFailureCount, metric.BuildTag(
		metric.NewTag(metric.TagFailureCategory, string(failure.Category)),
	))
	log.Error().
		Str("tracking_id", trackingID).
		Str("category", string(failure.Category)).
		Err(failure.Detail).
		Msg(failure.Message)
	return failure
}
