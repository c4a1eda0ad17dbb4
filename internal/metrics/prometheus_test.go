package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const llamaServerMetrics = `# HELP llamacpp:prompt_tokens_seconds Average prompt throughput in tokens/s.
# TYPE llamacpp:prompt_tokens_seconds gauge
llamacpp:prompt_tokens_seconds 150.5
# HELP llamacpp:predicted_tokens_seconds Average generation throughput in tokens/s.
# TYPE llamacpp:predicted_tokens_seconds gauge
llamacpp:predicted_tokens_seconds 25.3
# HELP llamacpp:requests_processing Number of requests processing.
# TYPE llamacpp:requests_processing gauge
llamacpp:requests_processing 2
# HELP llamacpp:requests_deferred Number of requests deferred.
# TYPE llamacpp:requests_deferred gauge
llamacpp:requests_deferred 1
# HELP llamacpp:n_decode_total Total number of llama_decode() calls
# TYPE llamacpp:n_decode_total counter
llamacpp:n_decode_total 4096
# HELP llamacpp:kv_cache_usage_ratio KV-cache usage. 1 means 100 percent usage.
# TYPE llamacpp:kv_cache_usage_ratio gauge
llamacpp:kv_cache_usage_ratio 0.25
`

func TestParsePrometheus(t *testing.T) {
	data, err := ParsePrometheus(strings.NewReader(llamaServerMetrics))
	require.NoError(t, err)

	assert.Equal(t, 150.5, data[FamilyPromptTPS])
	assert.Equal(t, 25.3, data[FamilyPredictedTPS])
	assert.Equal(t, 2.0, data[FamilyProcessing])
	assert.Equal(t, 1.0, data[FamilyDeferred])
	assert.Equal(t, 4096.0, data[FamilyDecodeTotal])
	assert.NotContains(t, data, "llamacpp:kv_cache_usage_ratio")

	m := metricsFromFamilies(data)
	assert.Equal(t, Metrics{
		PromptTokensPerSec:    150.5,
		PredictedTokensPerSec: 25.3,
		RequestsProcessing:    2,
		RequestsDeferred:      1,
		DecodeTotal:           4096,
	}, m)
}

func TestParsePrometheus_UntypedWithLabels(t *testing.T) {
	body := `llamacpp:prompt_tokens_seconds{model="llama3.2:1b"} 150.5` + "\n"

	data, err := ParsePrometheus(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 150.5, data[FamilyPromptTPS])
}

func TestParsePrometheus_FallbackScanner(t *testing.T) {
	// duplicate TYPE lines are rejected by the strict parser
	body := `# TYPE llamacpp:requests_processing gauge
# TYPE llamacpp:requests_processing gauge
llamacpp:requests_processing 3

not a metric line
llamacpp:requests_deferred{slot="0"} 2 1700000000000
llamacpp:predicted_tokens_seconds NaNish
`

	data, err := ParsePrometheus(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 3.0, data[FamilyProcessing])
	assert.Equal(t, 2.0, data[FamilyDeferred])
	assert.NotContains(t, data, FamilyPredictedTPS)
}

func TestParsePrometheus_Empty(t *testing.T) {
	data, err := ParsePrometheus(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, Metrics{}, metricsFromFamilies(data))
}
