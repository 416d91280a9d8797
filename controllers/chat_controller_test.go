package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEventDataOnlyFraming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeEvent(c, w, gin.H{"delta": "Hel"})
	writeEvent(c, w, gin.H{"done": true})

	require.True(t, w.Flushed)

	var payloads []map[string]any
	for _, frame := range strings.Split(w.Body.String(), "\n\n") {
		frame = strings.TrimSpace(frame)
		if frame == "" {
			continue
		}
		raw, ok := strings.CutPrefix(frame, "data:")
		require.True(t, ok, "frame carries only a data field: %q", frame)

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload))
		payloads = append(payloads, payload)
	}

	require.Len(t, payloads, 2)
	assert.Equal(t, "Hel", payloads[0]["delta"])
	assert.Equal(t, true, payloads[1]["done"])
}
