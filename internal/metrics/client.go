package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/llamabar/internal/config"
	"github.com/rileyhilliard/llamabar/internal/errors"
	"github.com/rileyhilliard/llamabar/internal/logger"
)

// DefaultTimeout bounds each API request when none is configured.
const DefaultTimeout = time.Second

// Client polls the llama-swap HTTP API.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	log      logger.Logger
}

// NewClient creates a client for the configured endpoint.
func NewClient(api config.APIConfig, log logger.Logger) *Client {
	timeout := api.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Client{
		endpoint: strings.TrimRight(api.Endpoint(), "/"),
		timeout:  timeout,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Endpoint returns the base URL the client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchAll lists running models and scrapes metrics for the ready ones.
// Only a failed /running call is an error; a failed scrape yields zero metrics.
func (c *Client) FetchAll(ctx context.Context) (*AllMetrics, error) {
	running, err := c.fetchRunning(ctx)
	if err != nil {
		return nil, err
	}

	all := &AllMetrics{Models: make([]ModelMetrics, len(running.Running))}
	var wg sync.WaitGroup

	for i, rm := range running.Running {
		all.Models[i] = ModelMetrics{Name: rm.Model, State: rm.ModelState()}
		if all.Models[i].State != ModelRunning {
			continue
		}

		wg.Add(1)
		go func(i int, model string) {
			defer wg.Done()
			m, err := c.fetchModelMetrics(ctx, model)
			if err != nil {
				c.log.Debug("metrics scrape for %s failed: %v", model, err)
				return
			}
			// each goroutine owns its own slot
			all.Models[i].Metrics = m
		}(i, rm.Model)
	}

	wg.Wait()
	return all, nil
}

func (c *Client) fetchRunning(ctx context.Context) (*RunningResponse, error) {
	resp, err := c.get(ctx, "/running")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to connect to API",
			"Check llama-swap is running and listening on "+c.endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrAPI,
			fmt.Sprintf("API returned error: %s", resp.Status),
			"Check the llama-swap log")
	}

	var running RunningResponse
	if err := json.NewDecoder(resp.Body).Decode(&running); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to parse JSON",
			"The /running response did not match the expected shape")
	}
	return &running, nil
}

func (c *Client) fetchModelMetrics(ctx context.Context, model string) (Metrics, error) {
	resp, err := c.get(ctx, UpstreamMetricsPath(model))
	if err != nil {
		return Metrics{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Metrics{}, fmt.Errorf("upstream returned %s", resp.Status)
	}

	data, err := ParsePrometheus(resp.Body)
	if err != nil {
		return Metrics{}, err
	}
	return metricsFromFamilies(data), nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody releases the request context once the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// UpstreamMetricsPath returns the proxied llama-server metrics path for model.
// llama-swap expects ':' in model names escaped as %3A.
func UpstreamMetricsPath(model string) string {
	return "/upstream/" + strings.ReplaceAll(model, ":", "%3A") + "/metrics"
}
