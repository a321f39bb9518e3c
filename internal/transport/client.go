package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/forumclient/internal/adapter/metrics"
	"github.com/pscheid92/forumclient/internal/platform/correlation"
	apperrors "github.com/pscheid92/forumclient/internal/platform/errors"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 10 << 20

// Options configures a Client. BaseURL and Timeout are fixed for the client's lifetime.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the underlying client; its Timeout is replaced by Options.Timeout.
	HTTPClient *http.Client
	Clock      clockwork.Clock
}

// Client sends API requests relative to a base address.
type Client struct {
	baseURL      string
	http         *http.Client
	interceptors []Interceptor
	chain        *ErrorChain
	metrics      *metrics.ClientMetrics
	clock        clockwork.Clock
}

// NewClient builds a client with the JSON, user agent and correlation interceptors installed.
func NewClient(opts Options, chain *ErrorChain, m *metrics.ClientMetrics) *Client {
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		hc = &copied
	}
	hc.Timeout = opts.Timeout

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if chain == nil {
		chain = NewErrorChain()
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		chain:   chain,
		metrics: m,
		clock:   clock,
	}
	c.Use(JSONHeaders(), CorrelationID())
	if opts.UserAgent != "" {
		c.Use(UserAgent(opts.UserAgent))
	}
	return c
}

// Use appends interceptors. They run in registration order before each request is sent.
func (c *Client) Use(interceptors ...Interceptor) {
	c.interceptors = append(c.interceptors, interceptors...)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get sends a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, func() (io.Reader, string, error) {
		return nil, "", nil
	}, out)
}

// Post sends body as JSON and decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, func() (io.Reader, string, error) {
		if body == nil {
			return nil, "", nil
		}
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}, out)
}

// FilePart is a file sent as one field of a multipart form.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// PostMultipart uploads file as multipart/form-data and decodes the JSON response into out.
func (c *Client) PostMultipart(ctx context.Context, path string, query url.Values, file FilePart, out any) error {
	return c.do(ctx, http.MethodPost, path, query, func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.Field), quoteEscaper.Replace(file.Filename)))
		if file.ContentType != "" {
			header.Set("Content-Type", file.ContentType)
		}
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create multipart field: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("read upload: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("finish multipart body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	}, out)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type bodyFunc func() (io.Reader, string, error)

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body bodyFunc, out any) error {
	ctx, _ = correlation.Ensure(ctx)

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return c.fail(ctx, method, path, apperrors.ConfigurationError(err))
	}

	start := c.clock.Now()
	resp, err := c.http.Do(req)
	c.metrics.RequestDuration.WithLabelValues(method).Observe(c.clock.Since(start).Seconds())
	if err != nil {
		c.metrics.RequestsTotal.WithLabelValues(method, "0").Inc()
		return c.fail(ctx, method, path, apperrors.NetworkError(err))
	}
	defer func() { _ = resp.Body.Close() }()
	c.metrics.RequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.fail(ctx, method, path, apperrors.NetworkError(fmt.Errorf("read response body: %w", err)))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.fail(ctx, method, path, apperrors.FromStatus(resp.StatusCode, serverMessage(data)))
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return c.fail(ctx, method, path,
				apperrors.HTTPError(resp.StatusCode, "unreadable response body", err))
		}
	}

	slog.DebugContext(ctx, "API request completed", "method", method, "path", path, "status", resp.StatusCode)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body bodyFunc) (*http.Request, error) {
	u, err := c.resolve(path, query)
	if err != nil {
		return nil, err
	}

	reader, contentType, err := body()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, intercept := range c.interceptors {
		if err := intercept(req); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}
	return req, nil
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("no API base address configured")
	}

	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request address: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q in request address", u.Scheme)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// fail records the classified failure and passes it through the error chain.
func (c *Client) fail(ctx context.Context, method, path string, err *apperrors.Error) error {
	err.WithContext("method", method).WithContext("path", path)
	c.metrics.ErrorsTotal.WithLabelValues(string(err.Type)).Inc()
	slog.DebugContext(ctx, "API request failed", errorAttrs(err)...)
	return c.chain.Handle(ctx, err)
}

// serverMessage extracts the backend's explanation from an error body: "message", else "error".
func serverMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Message.(string); ok && s != "" {
		return s
	}
	if s, ok := payload.Error.(string); ok && s != "" {
		return s
	}
	return ""
}
