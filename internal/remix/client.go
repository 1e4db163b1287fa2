// Package remix talks to the generative remix service that produces
// alternative posters and short teaser videos for catalog titles.
package remix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mmcdole/netkin/internal/domain"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	requestTimeout   = 30 * time.Second
	userAgent        = "Netkin/1.0"
	failureThreshold = 3
)

var (
	ErrNotConfigured = errors.New("remix service not configured")
	ErrUnauthorized  = errors.New("remix service rejected the API key")
	ErrEmptyResult   = errors.New("remix service returned no media")

	// errPending marks an operation that has not finished yet
	errPending = errors.New("operation pending")
)

// Kind is the type of media a remix produces
type Kind int

const (
	KindPoster Kind = iota
	KindTeaser
)

func (k Kind) String() string {
	switch k {
	case KindPoster:
		return "poster"
	case KindTeaser:
		return "teaser"
	default:
		return "unknown"
	}
}

// Result is a generated media blob
type Result struct {
	Kind     Kind
	MimeType string
	Data     []byte
}

// Config holds the remix service settings
type Config struct {
	BaseURL      string
	APIKey       string
	Timeout      time.Duration // Overall deadline for one generation
	PollInterval time.Duration // Between operation status checks
}

// Client is a remix service client. Calls are guarded by a circuit
// breaker so a dead service fails fast.
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// NewClient creates a new remix client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	settings := gobreaker.Settings{
		Name:        "remix",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:     logger,
	}
}

// Configured reports whether a service URL is set
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != ""
}

// GeneratePoster renders a poster for m in one of Styles
func (c *Client) GeneratePoster(ctx context.Context, m domain.Movie, style string) (Result, error) {
	if !c.Configured() {
		return Result{}, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := c.post(ctx, "/v1/posters", newRequest(m, PosterPrompt(m, style), style))
	if err != nil {
		return Result{}, err
	}

	var resp posterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{}, fmt.Errorf("failed to parse poster response: %w", err)
	}
	if len(resp.Data) == 0 {
		return Result{}, ErrEmptyResult
	}
	if resp.MimeType == "" {
		resp.MimeType = "image/png"
	}

	c.logger.Info("poster generated", "movieID", m.ID, "style", style, "bytes", len(resp.Data))
	return Result{Kind: KindPoster, MimeType: resp.MimeType, Data: resp.Data}, nil
}

// GenerateVideo starts a teaser generation, polls until the operation
// completes, then downloads the video. An empty prompt uses TeaserPrompt.
func (c *Client) GenerateVideo(ctx context.Context, m domain.Movie, prompt string) (Result, error) {
	if !c.Configured() {
		return Result{}, ErrNotConfigured
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = TeaserPrompt(m)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := c.post(ctx, "/v1/videos", newRequest(m, prompt, ""))
	if err != nil {
		return Result{}, err
	}
	var started videoResponse
	if err := json.Unmarshal(body, &started); err != nil {
		return Result{}, fmt.Errorf("failed to parse video response: %w", err)
	}
	if started.Operation == "" {
		return Result{}, fmt.Errorf("video response: missing operation")
	}
	c.logger.Info("video generation started", "movieID", m.ID, "operation", started.Operation)

	videoURI, err := c.awaitOperation(ctx, started.Operation)
	if err != nil {
		return Result{}, err
	}

	data, err := c.do(ctx, http.MethodGet, c.resolve(videoURI), nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to download generated video: %w", err)
	}
	if len(data) == 0 {
		return Result{}, ErrEmptyResult
	}

	c.logger.Info("video generated", "movieID", m.ID, "bytes", len(data))
	return Result{Kind: KindTeaser, MimeType: "video/mp4", Data: data}, nil
}

// awaitOperation polls the operation until it is done or ctx expires
func (c *Client) awaitOperation(ctx context.Context, op string) (string, error) {
	path := "/v1/operations/" + url.PathEscape(op)

	return retry.DoWithData(
		func() (string, error) {
			body, err := c.do(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
			if err != nil {
				return "", retry.Unrecoverable(err)
			}
			var status operationResponse
			if err := json.Unmarshal(body, &status); err != nil {
				return "", retry.Unrecoverable(fmt.Errorf("failed to parse operation: %w", err))
			}
			if !status.Done {
				return "", errPending
			}
			if status.Error != nil {
				return "", retry.Unrecoverable(fmt.Errorf("generation failed: %s", status.Error.Message))
			}
			if status.VideoURI == "" {
				return "", retry.Unrecoverable(ErrEmptyResult)
			}
			return status.VideoURI, nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(c.cfg.PollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("operation pending", "operation", op, "attempt", n+1)
		}),
	)
}

func (c *Client) post(ctx context.Context, path string, payload generateRequest) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.cfg.BaseURL+path, data)
}

// do performs an authenticated request through the circuit breaker
func (c *Client) do(ctx context.Context, method, reqURL string, payload []byte) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.NewString()
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		c.logger.Debug("remix request", "method", method, "url", reqURL, "requestID", requestID)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("remix request failed", "error", err, "requestID", requestID)
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, ErrUnauthorized
		}
		if resp.StatusCode != http.StatusOK {
			c.logger.Error("remix request error", "status", resp.StatusCode, "body", string(respBody), "requestID", requestID)
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return respBody, nil
	})
}

// resolve makes a service-relative URI absolute
func (c *Client) resolve(uri string) string {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	return c.cfg.BaseURL + "/" + strings.TrimLeft(uri, "/")
}

func newRequest(m domain.Movie, prompt, style string) generateRequest {
	return generateRequest{
		Prompt: prompt,
		Title:  m.Title,
		Genre:  m.Genre,
		Year:   m.Year,
		Author: m.Author,
		Style:  style,
	}
}
