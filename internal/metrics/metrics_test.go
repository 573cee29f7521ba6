package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeKey_SortsAndEscapes(t *testing.T) {
	key := makeKey(map[string]string{"status": "200", "path": `/a"b`})
	require.Equal(t, labelsKey(`path="/a\"b",status="200"`), key)
	require.Equal(t, labelsKey(""), makeKey(nil))
}

func TestCounterVec_IncAndValue(t *testing.T) {
	cv := NewCounterVec("test_total", "test")
	cv.Inc(map[string]string{"outcome": "ok"})
	cv.Inc(map[string]string{"outcome": "ok"})
	cv.Inc(map[string]string{"outcome": "error"})

	require.Equal(t, 2.0, cv.Value(map[string]string{"outcome": "ok"}))
	require.Equal(t, 1.0, cv.Value(map[string]string{"outcome": "error"}))
	require.Equal(t, 0.0, cv.Value(map[string]string{"outcome": "other"}))
}

func TestServeHTTP_ExportsRegisteredMetrics(t *testing.T) {
	Generations.Inc(map[string]string{"outcome": "placeholder"})
	LLMChatDur.Observe(map[string]string{"provider": "http", "outcome": "ok"}, 0.25)

	rr := httptest.NewRecorder()
	ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
	body := rr.Body.String()
	require.Contains(t, body, "# TYPE codegen_generations_total counter")
	require.Contains(t, body, `codegen_generations_total{outcome="placeholder"}`)
	require.Contains(t, body, `codegen_llm_chat_seconds_count{outcome="ok",provider="http"}`)
}
