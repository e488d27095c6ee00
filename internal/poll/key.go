package poll

import "encoding/json"

// Key derives a deterministic cache key from an endpoint name and its
// parameter struct. Struct fields marshal in declaration order, so equal
// parameter values always produce the same key.
func Key(endpoint string, params any) string {
	if params == nil {
		return endpoint
	}
	b, err := json.Marshal(params)
	if err != nil {
		return endpoint
	}
	return endpoint + "?" + string(b)
}
