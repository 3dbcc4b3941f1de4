package handler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Meesho/BharatMLStack/sonar/internal/externalcall"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "http://localhost:8000/predict"

type MockPredictClient struct {
	mock.Mock
}

func (m *MockPredictClient) Predict(ctx context.Context, trackingID string, text string) ([]byte, error) {
	args := m.Called(ctx, trackingID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newTestHandler(client externalcall.PredictClient) *analysisHandler {
	return &analysisHandler{Client: client, Endpoint: testEndpoint}
}

func TestAnalysisHandler_AnalyzeSuccess(t *testing.T) {
	body := []byte(`{
		"id": "req-1",
		"owner": "ml-platform",
		"timestamp": 1700000000,
		"predictions": {
			"confusion-clf": {
				"top_intent": "order_status",
				"all_probs": {"order_status": 0.82, "complaint": 0.1, "greeting": 0.08}
			}
		}
	}`)
	mockClient := new(MockPredictClient)
	mockClient.On("Predict",
		mock.Anything,
		mock.MatchedBy(func(trackingID string) bool {
			_, err := uuid.Parse(trackingID)
			return err == nil
		}),
		"where is my order").
		Return(body, nil).Once()

	model, err := newTestHandler(mockClient).Analyze(context.Background(), AnalyzeRequest{Text: "where is my order"})

	require.NoError(t, err)
	require.NotNil(t, model)
	require.Len(t, model.Tabs, 1)
	assert.Equal(t, "CONFUSION CLF", model.Tabs[0].Label)
	assert.Equal(t, "Order status", model.Tabs[0].TopIntent.Label)
	assert.Equal(t, "82.0%", model.Tabs[0].TopIntent.Percent)
	require.Len(t, model.Tabs[0].ChartRows, 3)
	assert.Equal(t, "Greeting", model.Tabs[0].ChartRows[0].Label)
	assert.Equal(t, "Order status", model.Tabs[0].ChartRows[2].Label)
	assert.Equal(t, "req-1", model.Metadata.ID)
	assert.Equal(t, "ml-platform", model.Metadata.Owner)
	assert.Equal(t, time.Unix(1700000000, 0).Format(timestampLayout), model.Metadata.Timestamp)
	assert.Contains(t, model.RawJSON, `"req-1"`)
	mockClient.AssertExpectations(t)
}

func TestAnalysisHandler_ConnectionFailure(t *testing.T) {
	mockClient := new(MockPredictClient)
	mockClient.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: dial tcp 127.0.0.1:8000: connect: connection refused",
			externalcall.ErrEndpointUnreachable)).Once()

	model, err := newTestHandler(mockClient).Analyze(context.Background(), AnalyzeRequest{Text: "hello"})

	require.Nil(t, model)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CategoryConnection, failure.Category)
	assert.Equal(t, "cannot connect to http://localhost:8000/predict; verify the service is running", failure.Message)
	assert.ErrorIs(t, failure.Detail, externalcall.ErrEndpointUnreachable)
	assert.Nil(t, failure.Metadata)
	mockClient.AssertExpectations(t)
}

func TestAnalysisHandler_UpstreamStatusFailure(t *testing.T) {
	mockClient := new(MockPredictClient)
	mockClient.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &externalcall.StatusError{Code: 500, Body: "boom"}).Once()

	model, err := newTestHandler(mockClient).Analyze(context.Background(), AnalyzeRequest{Text: "hello"})

	require.Nil(t, model)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CategoryUnexpected, failure.Category)
	assert.Equal(t, "an unexpected error occurred", failure.Message)
	var statusErr *externalcall.StatusError
	require.ErrorAs(t, failure.Detail, &statusErr)
	assert.Equal(t, 500, statusErr.Code)
	mockClient.AssertExpectations(t)
}

func TestAnalysisHandler_MalformedBody(t *testing.T) {
	mockClient := new(MockPredictClient)
	mockClient.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("{nope"), nil).Once()

	model, err := newTestHandler(mockClient).Analyze(context.Background(), AnalyzeRequest{Text: "hello"})

	require.Nil(t, model)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CategoryUnexpected, failure.Category)
	assert.Equal(t, "an unexpected error occurred", failure.Message)
	assert.Nil(t, failure.Metadata)
	assert.Empty(t, failure.RawJSON)
	mockClient.AssertExpectations(t)
}

func TestAnalysisHandler_ValidationFailureKeepsMetadata(t *testing.T) {
	mockClient := new(MockPredictClient)
	mockClient.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(`{"id":"req-9","owner":"ops","predictions":{}}`), nil).Once()

	model, err := newTestHandler(mockClient).Analyze(context.Background(), AnalyzeRequest{Text: "hello"})

	require.Nil(t, model)
	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, CategoryValidation, failure.Category)
	assert.Equal(t, "no predictions returned", failure.Message)
	require.NotNil(t, failure.Metadata)
	assert.Equal(t, "req-9", failure.Metadata.ID)
	assert.Equal(t, "ops", failure.Metadata.Owner)
	assert.Equal(t, "", failure.Metadata.Timestamp)
	assert.Contains(t, failure.RawJSON, "\n")
	assert.Contains(t, failure.RawJSON, `"req-9"`)
	mockClient.AssertExpectations(t)
}

func TestAnalysisHandler_SingleFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	mockClient := new(MockPredictClient)
	mockClient.On("Predict", mock.Anything, mock.Anything, "hold").
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]byte(`{"predictions":{"m":{"top_intent":"greeting","all_probs":{"greeting":1}}}}`), nil).
		Once()

	h := newTestHandler(mockClient)
	done := make(chan error, 1)
	var model *DisplayModel
	go func() {
		m, err := h.Analyze(context.Background(), AnalyzeRequest{Text: "hold"})
		model = m
		done <- err
	}()

	<-entered
	busyModel, busyErr := h.Analyze(context.Background(), AnalyzeRequest{Text: "second"})
	assert.Nil(t, busyModel)
	assert.ErrorIs(t, busyErr, ErrAnalysisInFlight)

	close(release)
	require.NoError(t, <-done)
	require.NotNil(t, model)
	require.Len(t, model.Tabs, 1)
	mockClient.AssertExpectations(t)
}

func TestAnalysisHandler_SequentialCallsAfterCompletion(t *testing.T) {
	mockClient := new(MockPredictClient)
	mockClient.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(`{"predictions":{"m":{"top_intent":"greeting","all_probs":{"greeting":1}}}}`), nil).
		Twice()

	h := newTestHandler(mockClient)
	_, err := h.Analyze(context.Background(), AnalyzeRequest{Text: "first"})
	require.NoError(t, err)
	_, err = h.Analyze(context.Background(), AnalyzeRequest{Text: "second"})
	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestAnalysisHandler_GateReleasedAfterFailure(t *testing.T) {
	mockClient := new(MockPredictClient)
	mockClient.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: connection refused", externalcall.ErrEndpointUnreachable)).Once()
	mockClient.On("Predict", mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(`{"predictions":{"m":{"top_intent":"greeting","all_probs":{"greeting":1}}}}`), nil).Once()

	h := newTestHandler(mockClient)
	_, err := h.Analyze(context.Background(), AnalyzeRequest{Text: "first"})
	require.Error(t, err)
	model, err := h.Analyze(context.Background(), AnalyzeRequest{Text: "second"})
	require.NoError(t, err)
	require.NotNil(t, model)
	mockClient.AssertExpectations(t)
}
