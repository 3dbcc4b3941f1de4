package externalcall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/sonar/pkg/metric"
	"github.com/rs/zerolog/log"
)

const externalServiceIntent = "intent-service"

// ErrEndpointUnreachable marks transport-level dispatch failures, timeouts included.
var ErrEndpointUnreachable = errors.New("intent service unreachable")

// StatusError is returned when the intent service answered with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("intent service returned status %d: %s", e.Code, e.Body)
}

type PredictClient interface {
	Predict(ctx context.Context, trackingID string, text string) ([]byte, error)
}

type predictClientImpl struct {
	Endpoint   string
	HTTPClient *http.Client
}

var (
	initPredictOnce  sync.Once
	predictOnce      sync.Once
	predictInstance  PredictClient
	predictEndpoint  string
	predictTimeoutMs int
)

func InitPredictClient(PredictEndpoint string, PredictTimeoutInMs int) {
	initPredictOnce.Do(func() {
		if PredictEndpoint == "" {
			log.Fatal().Msg("PREDICT_ENDPOINT is required")
		}
		predictEndpoint = PredictEndpoint
		predictTimeoutMs = PredictTimeoutInMs
		if predictTimeoutMs <= 0 {
			predictTimeoutMs = 10000
			log.Warn().Int("timeout_ms", predictTimeoutMs).Msg("Predict timeout not set, defaulting to 10s")
		}
	})
}

func GetPredictClient() PredictClient {
	predictOnce.Do(func() {
		predictInstance = &predictClientImpl{
			Endpoint: predictEndpoint,
			HTTPClient: &http.Client{
				Timeout: time.Duration(predictTimeoutMs) * time.Millisecond,
			},
		}
	})
	return predictInstance
}

type predictRequest struct {
	Text string `json:"text"`
}

// Predict posts the operator text to the intent service and returns the raw
// response body. The body is not decoded here, the validator is the single
// gate for everything the service sends back.
func (p *predictClientImpl) Predict(ctx context.Context, trackingID string, text string) ([]byte, error) {
	payload, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", trackingID)

	start := time.Now()
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		p.emitMetrics(req, start, 0)
		return nil, fmt.Errorf("%w: %v", ErrEndpointUnreachable, err)
	}
	defer resp.Body.Close()
	p.emitMetrics(req, start, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read predict response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (p *predictClientImpl) emitMetrics(req *http.Request, start time.Time, statusCode int) {
	latency := time.Since(start)
	tags := metric.BuildTag(
		metric.NewTag(metric.TagExternalService, externalServiceIntent),
		metric.NewTag(metric.TagExternalServicePath, req.URL.Path),
		metric.NewTag(metric.TagExternalServiceMethod, req.Method),
		metric.NewTag(metric.TagExternalServiceStatusCode, strconv.Itoa(statusCode)),
	)
	metric.Timing(metric.ExternalApiRequestLatency, latency, tags)
	metric.Incr(metric.ExternalApiRequestCount, tags)
}
