package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const messageNoPredictions = "no predictions returned"

// rawEnvelope is the undecoded top level of an intent service response.
// ID, Owner and Timestamp stay loosely typed so the presenter can render
// whatever the service sent; Predictions is validated separately.
type rawEnvelope struct {
	ID          any             `json:"id"`
	Owner       any             `json:"owner"`
	Timestamp   any             `json:"timestamp"`
	Predictions json.RawMessage `json:"predictions"`
}

func decodeEnvelope(raw []byte) (*rawEnvelope, *Failure) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var envelope rawEnvelope
	if err := dec.Decode(&envelope); err != nil {
		return nil, unexpectedFailure(fmt.Errorf("malformed response body: %w", err))
	}
	if dec.More() {
		return nil, unexpectedFailure(fmt.Errorf("trailing data after response body"))
	}
	return &envelope, nil
}

// validatePredictions walks the predictions object with a token decoder so
// that document order survives into the ResultSet. The whole response is
// rejected on the first malformed entry; partially valid responses are never
// rendered.
func validatePredictions(raw json.RawMessage) (ResultSet, *Failure) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, validationFailure(messageNoPredictions, nil)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	first, err := dec.Token()
	if err != nil {
		return nil, unexpectedFailure(fmt.Errorf("reading predictions: %w", err))
	}
	if delim, ok := first.(json.Delim); !ok || delim != '{' {
		return nil, validationFailure(messageNoPredictions, nil)
	}

	resultSet := make(ResultSet, 0, 4)
	position := make(map[string]int)
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, unexpectedFailure(fmt.Errorf("reading predictions: %w", err))
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, unexpectedFailure(fmt.Errorf("non-string key in predictions"))
		}

		var rawModel map[string]json.RawMessage
		if err := dec.Decode(&rawModel); err != nil {
			return nil, validationFailure(fmt.Sprintf("model %q is not an object", key), err)
		}

		result, failure := validateModelEntry(key, rawModel)
		if failure != nil {
			return nil, failure
		}

		// duplicate keys keep their first position, the last value wins
		if idx, seen := position[key]; seen {
			resultSet[idx].Result = result
		} else {
			position[key] = len(resultSet)
			resultSet = append(resultSet, ModelEntry{Key: key, Result: result})
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, unexpectedFailure(fmt.Errorf("reading predictions: %w", err))
	}

	if len(resultSet) == 0 {
		return nil, validationFailure(messageNoPredictions, nil)
	}
	return resultSet, nil
}

func validateModelEntry(key string, rawModel map[string]json.RawMessage) (ModelResult, *Failure) {
	topRaw, ok := rawModel["top_intent"]
	if !ok || isJSONNull(topRaw) {
		return ModelResult{}, validationFailure(fmt.Sprintf("model %q: missing %q", key, "top_intent"), nil)
	}
	var topIntent string
	if err := json.Unmarshal(topRaw, &topIntent); err != nil {
		return ModelResult{}, validationFailure(fmt.Sprintf("model %q: %q is not a string", key, "top_intent"), err)
	}

	probsRaw, ok := rawModel["all_probs"]
	if !ok || isJSONNull(probsRaw) {
		return ModelResult{}, validationFailure(fmt.Sprintf("model %q: missing %q", key, "all_probs"), nil)
	}
	// pointer elements keep null values distinguishable from a real zero
	var rawProbs map[string]*float64
	if err := json.Unmarshal(probsRaw, &rawProbs); err != nil {
		return ModelResult{}, validationFailure(fmt.Sprintf("model %q: %q is not a map of intent probabilities", key, "all_probs"), err)
	}
	allProbs := make(map[string]float64, len(rawProbs))
	for intent, probability := range rawProbs {
		if probability == nil {
			return ModelResult{}, validationFailure(
				fmt.Sprintf("model %q: probability for intent %q is not a number", key, intent), nil)
		}
		if *probability < 0 || *probability > 1 {
			return ModelResult{}, validationFailure(
				fmt.Sprintf("model %q: probability %g for intent %q is out of range", key, *probability, intent), nil)
		}
		allProbs[intent] = *probability
	}

	return ModelResult{TopIntent: topIntent, AllProbs: allProbs}, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
