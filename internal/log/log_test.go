package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryShape(t *testing.T) {
	var buf bytes.Buffer
	old := Writer()
	SetOutput(&buf)
	defer SetOutput(old)

	Error(nil, "catalog.fetch", errors.New("connection refused"), map[string]any{"op": "list"})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "catalog.fetch", got["action"])
	assert.Equal(t, "error", got["level"])
	assert.Equal(t, "connection refused", got["err"])
	assert.NotEmpty(t, got["ts"])
	assert.Equal(t, map[string]any{"op": "list"}, got["fields"])
}

func TestAuditIsTagged(t *testing.T) {
	var buf bytes.Buffer
	old := Writer()
	SetOutput(&buf)
	defer SetOutput(old)

	Audit(nil, "order.submitted", nil)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["audit"])
	assert.Equal(t, "info", got["level"])
	assert.NotContains(t, got, "fields")
}
