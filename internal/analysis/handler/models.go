package handler

type AnalyzeRequest struct {
	Text string `json:"text"`
}

// ModelResult is one model's prediction entry after validation.
type ModelResult struct {
	TopIntent string
	AllProbs  map[string]float64
}

// ModelEntry pins a model to its document position in the response.
type ModelEntry struct {
	Key    string
	Result ModelResult
}

// ResultSet is the validated set of model entries, in document order.
type ResultSet []ModelEntry

type DisplayModel struct {
	Metadata Metadata   `json:"metadata"`
	RawJSON  string     `json:"raw_json"`
	Tabs     []ModelTab `json:"tabs"`
}

// Metadata carries the request-identifying fields of the response. ID and
// Owner fall back to "N/A" when absent; Timestamp is empty when absent and
// the panel omits the row.
type Metadata struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Timestamp string `json:"timestamp"`
}

type ModelTab struct {
	Key       string        `json:"key"`
	Label     string        `json:"label"`
	TopIntent TopIntentCard `json:"top_intent"`
	ChartRows []ChartRow    `json:"chart_rows"`
}

type TopIntentCard struct {
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Percent string  `json:"percent"`
}

type ChartRow struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Percent    string  `json:"percent"`
	Intensity  float64 `json:"intensity"`
}

type ErrorBody struct {
	Category string `json:"category,omitempty"`
	Message  string `json:"message"`
}

type ErrorResponse struct {
	Error    ErrorBody `json:"error"`
	Metadata *Metadata `json:"metadata,omitempty"`
	RawJSON  string    `json:"raw_json,omitempty"`
}
