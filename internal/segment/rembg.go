package segment

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/UnendingLoop/MaskRefiner/internal/imgio"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

const defaultTimeout = 120 * time.Second

// RembgClient talks to a rembg-style server: the image goes out as a
// multipart upload, the cut-out comes back as PNG, its alpha channel is
// the raw mask.
type RembgClient struct {
	baseURL string
	model   string
	cli     *http.Client
	log     zerolog.Logger
}

// NewRembgClient creates a client for the given server base URL. Model name
// is passed through to the server as-is; empty model lets the server pick
// its default.
func NewRembgClient(baseURL, model string, log zerolog.Logger) *RembgClient {
	return &RembgClient{
		baseURL: baseURL,
		model:   model,
		cli:     &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

func (c *RembgClient) Segment(ctx context.Context, img image.Image) (*image.Gray, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := imaging.Encode(part, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image for upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	endpoint := c.baseURL + "/api/remove"
	if c.model != "" {
		endpoint += "?model=" + url.QueryEscape(c.model)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rembg server returned %d: %s", resp.StatusCode, payload)
	}

	result, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode rembg response: %w", err)
	}

	mask, err := imgio.AlphaFromImage(result)
	if err != nil {
		return nil, fmt.Errorf("extract alpha from rembg response: %w", err)
	}

	c.log.Debug().
		Str("model", c.model).
		Dur("took", time.Since(start)).
		Msg("Remote segmentation done")

	return mask, nil
}
