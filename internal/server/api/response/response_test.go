package response

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEvent(&buf, SSEvent{Event: "status", Data: `{"branch":"ready"}`}))
	assert.Equal(t, "event: status\ndata: {\"branch\":\"ready\"}\n\n", buf.String())

	buf.Reset()
	require.NoError(t, writeEvent(&buf, SSEvent{Event: "status", Data: "a\nb"}))
	assert.Equal(t, "event: status\ndata: a\ndata: b\n\n", buf.String())

	buf.Reset()
	require.NoError(t, writeEvent(&buf, SSEvent{Data: "ping"}))
	assert.Equal(t, ": ping\n\n", buf.String())
}
