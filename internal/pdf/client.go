package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/utils"
)

// Renderer is the document rendering boundary: HTML plus a base URL for
// relative assets in, PDF bytes out. Rendering must be deterministic for
// identical inputs.
type Renderer interface {
	Render(ctx context.Context, html string, baseURL string) ([]byte, error)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	timeoutSec := utils.GetEnvAsInt("PDF_RENDERER_TIMEOUT_SECONDS", 60, log)
	return Config{
		BaseURL: strings.TrimSpace(utils.GetEnv("PDF_RENDERER_URL", "http://localhost:3000", log)),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}

// client speaks the Gotenberg chromium conversion API.
type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewFromEnv(log *logger.Logger) (Renderer, error) {
	return New(log, ConfigFromEnv(log))
}

func New(log *logger.Logger, cfg Config) (Renderer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing PDF_RENDERER_URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &client{
		log:        log.With("client", "PDFRenderer"),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *client) Render(ctx context.Context, html string, baseURL string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("Failed to build render request: %w", err)
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, fmt.Errorf("Failed to build render request: %w", err)
	}
	if baseURL != "" {
		if err := mw.WriteField("url", baseURL); err != nil {
			return nil, fmt.Errorf("Failed to build render request: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("Failed to build render request: %w", err)
	}

	endpoint := c.baseURL + "/forms/chromium/convert/html"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("Failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PDF renderer call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("PDF renderer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	pdfBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Failed to read rendered PDF: %w", err)
	}
	return pdfBytes, nil
}
