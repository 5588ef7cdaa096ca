// Package ingest uploads prospect spreadsheets to the ProspectScan API and
// tracks the lifecycle of each upload.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/prospectscan/internal/logger"
	"github.com/dharsanguruparan/prospectscan/internal/model"
)

// API paths served by the ProspectScan backend.
const (
	UploadPath   = "/api/ingesta/upload"
	EnrichedPath = "/api/analyze/enriched"
	HealthPath   = "/api/health"
)

// Client talks to the ProspectScan API. The base URL is fixed at
// construction.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero keeps the client's own timeout. It
// applies to a copy, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient constructs a Client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	c.logger = logger.OrNop(c.logger)
	return c
}

// BaseURL reports the API origin the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Upload sends one spreadsheet as a multipart POST with the file under the
// "file" field. Invalid names fail before any request is built.
func (c *Client) Upload(ctx context.Context, file File) (*model.UploadResult, error) {
	if err := ValidateFileName(file.Name); err != nil {
		return nil, err
	}
	name := filepath.Base(file.Name)
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	// The body is streamed so large spreadsheets never sit in memory. The
	// writer goroutine exits as soon as the transport closes the pipe.
	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, name))
		header.Set("Content-Type", ContentType(name))
		part, err := mw.CreatePart(header)
		if err == nil {
			_, err = io.Copy(part, file.Body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, transportFailure(ctx, err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, newStatusError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(ctx, err)
	}
	result, err := model.DecodeUploadResult(data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("upload accepted",
		zap.String("file", name),
		zap.String("snapshot_id", result.SnapshotID),
		zap.Int("empresas", result.EmpresasCount),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// AnalyzeEnriched asks the API for the enriched analysis of one domain.
func (c *Client) AnalyzeEnriched(ctx context.Context, domain string) (*model.AnalysisRecord, error) {
	payload, err := json.Marshal(map[string]string{"domain": domain})
	if err != nil {
		return nil, fmt.Errorf("marshal analysis request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EnrichedPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	data, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return model.DecodeAnalysis(data)
}

// Health calls the API's health endpoint and returns its JSON document.
func (c *Client) Health(ctx context.Context) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}
	data, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &model.MalformedResponseError{Kind: "health", Violations: []string{err.Error()}}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportFailure(ctx, err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, newStatusError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportFailure(ctx, err)
	}
	return data, nil
}

func isSuccess(code int) bool { return code >= 200 && code <= 299 }

func newStatusError(resp *http.Response) *StatusError {
	// resp.Status looks like "500 Internal Server Error"; keep the text only.
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Status: text}
}

func transportFailure(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", ErrCancelled, context.Canceled)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	return &TransportError{Err: err}
}
