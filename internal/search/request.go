package search

import (
	"encoding/json"
)

const StatusSuccess = "success"

var requestKeys = []string{"username", "pattern"}

type Request struct {
	Username string `json:"username" validate:"required"`
	Pattern  string `json:"pattern" validate:"required"`
}

type Result struct {
	Status   string   `json:"status"`
	Username string   `json:"username"`
	Pattern  string   `json:"pattern"`
	Matches  []string `json:"matches"`
}

// ParseRequest decodes a JSON search request. The body must be an object with exactly
// the keys username and pattern, in any order, both holding strings.
func ParseRequest(body []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return Request{}, &ValidationError{Message: "request body should be a JSON object"}
	}

	if len(fields) != len(requestKeys) {
		return Request{}, &ValidationError{Message: "request body should only contain the keys username and pattern"}
	}

	values := make(map[string]string, len(requestKeys))
	for _, key := range requestKeys {
		raw, ok := fields[key]
		if !ok {
			return Request{}, &ValidationError{Message: "request body should only contain the keys username and pattern"}
		}

		var value *string
		if err := json.Unmarshal(raw, &value); err != nil || value == nil {
			return Request{}, &ValidationError{Message: key + " should be a string"}
		}
		values[key] = *value
	}

	return Request{Username: values["username"], Pattern: values["pattern"]}, nil
}
