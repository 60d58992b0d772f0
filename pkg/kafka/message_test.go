package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImportRequest(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{"area_code": "853", "requested_by": "scheduler"}`)}
	require.NoError(t, msg.ParseImportRequest())
	assert.Equal(t, "853", msg.Request.AreaCode)
	assert.Equal(t, "scheduler", msg.Request.RequestedBy)
}

func TestParseImportRequest_EmptyBody(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`{}`)}
	require.NoError(t, msg.ParseImportRequest())
	assert.Equal(t, "", msg.Request.AreaCode)
}

func TestParseImportRequest_InvalidJSON(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`not json`)}
	assert.Error(t, msg.ParseImportRequest())
	assert.Nil(t, msg.Request)
}
