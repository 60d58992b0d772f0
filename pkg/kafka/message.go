package kafka

import (
	"encoding/json"
	"time"
)

// ImportRequest asks for a catalog reconciliation run. An empty area code
// falls back to the configured default.
type ImportRequest struct {
	AreaCode    string    `json:"area_code"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	Request *ImportRequest
}

// ParseImportRequest parses the message value as an import request.
func (m *IncomingMessage) ParseImportRequest() error {
	var req ImportRequest
	if err := json.Unmarshal(m.Value, &req); err != nil {
		return err
	}
	m.Request = &req
	return nil
}
