package metrics

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric family names exported by llama-server's /metrics endpoint.
const (
	FamilyPromptTPS    = "llamacpp:prompt_tokens_seconds"
	FamilyPredictedTPS = "llamacpp:predicted_tokens_seconds"
	FamilyProcessing   = "llamacpp:requests_processing"
	FamilyDeferred     = "llamacpp:requests_deferred"
	FamilyDecodeTotal  = "llamacpp:n_decode_total"
)

var knownFamilies = map[string]bool{
	FamilyPromptTPS:    true,
	FamilyPredictedTPS: true,
	FamilyProcessing:   true,
	FamilyDeferred:     true,
	FamilyDecodeTotal:  true,
}

// ParsePrometheus extracts the known llama.cpp families from exposition text.
// Labels are ignored; when a family has several samples the last one wins.
func ParsePrometheus(r io.Reader) (map[string]float64, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	if err != nil {
		return scanLines(body), nil
	}

	out := make(map[string]float64)
	for name, family := range families {
		if !knownFamilies[name] {
			continue
		}
		for _, m := range family.GetMetric() {
			if v, ok := sampleValue(family.GetType(), m); ok {
				out[name] = v
			}
		}
	}
	return out, nil
}

func sampleValue(t dto.MetricType, m *dto.Metric) (float64, bool) {
	switch t {
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), m.Gauge != nil
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), m.Counter != nil
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue(), m.Untyped != nil
	default:
		return 0, false
	}
}

// scanLines is the lenient fallback for bodies the strict parser rejects,
// e.g. duplicate TYPE lines. It accepts "name{labels} value [ts]" lines.
func scanLines(body []byte) map[string]float64 {
	out := make(map[string]float64)
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, rest := line, ""
		if i := strings.IndexByte(line, '{'); i >= 0 {
			j := strings.LastIndexByte(line, '}')
			if j < i {
				continue
			}
			name, rest = line[:i], line[j+1:]
		} else if i := strings.IndexAny(line, " \t"); i >= 0 {
			name, rest = line[:i], line[i+1:]
		}

		if !knownFamilies[name] {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		out[name] = v
	}
	return out
}

// metricsFromFamilies builds Metrics from parsed families; absent ones are zero.
func metricsFromFamilies(data map[string]float64) Metrics {
	return Metrics{
		PromptTokensPerSec:    data[FamilyPromptTPS],
		PredictedTokensPerSec: data[FamilyPredictedTPS],
		RequestsProcessing:    int(data[FamilyProcessing]),
		RequestsDeferred:      int(data[FamilyDeferred]),
		DecodeTotal:           int(data[FamilyDecodeTotal]),
	}
}
