// Package decode converts loosely typed JSON objects into typed values.
package decode

import "encoding/json"

// FromMap round-trips data through JSON into T. Keys T does not declare
// are dropped; mismatched value types return an error.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(b, &result)
	return result, err
}
