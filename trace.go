package stableopts

import (
	"encoding/json"
	"time"
)

// UpdateTrace captures provenance for the most recent Update call: which
// shaped-output generation answered it, whether the cached output was reused,
// and the callable paths that received wrappers when a rebuild happened.
type UpdateTrace struct {
	Generation   string    `json:"generation"`
	Reused       bool      `json:"reused"`
	WrapperPaths []string  `json:"wrapper_paths,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t UpdateTrace) ToJSON() ([]byte, error) {
	type alias UpdateTrace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (UpdateTrace, error) {
	type alias UpdateTrace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return UpdateTrace{}, err
	}
	return UpdateTrace(trace), nil
}
