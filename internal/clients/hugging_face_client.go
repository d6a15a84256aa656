package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spacesedan/textpulse/config"
	"github.com/spacesedan/textpulse/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	huggingFaceInstance *HuggingFaceClient
	huggingFaceOnce     sync.Once
)

// HuggingFaceClient calls a summarization inference endpoint that accepts
// {"inputs", "parameters"} and answers [{"summary_text"}].
type HuggingFaceClient struct {
	Client   *http.Client
	endpoint string
	token    string
	backoff  time.Duration
}

func GetHuggingFaceClient(cfg config.HuggingFaceConfig) *HuggingFaceClient {
	huggingFaceOnce.Do(func() {
		huggingFaceInstance = NewHuggingFaceClient(cfg)
	})
	return huggingFaceInstance
}

// NewHuggingFaceClient authenticates with OAuth2 client credentials when a
// client ID is configured, otherwise with the static API token if any.
func NewHuggingFaceClient(cfg config.HuggingFaceConfig) *HuggingFaceClient {
	client := &http.Client{Timeout: cfg.Timeout}
	auth := "none"

	if cfg.OAuthClientID != "" {
		oauthConf := &clientcredentials.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			TokenURL:     cfg.OAuthTokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		client = oauthConf.Client(context.Background())
		client.Timeout = cfg.Timeout
		auth = "oauth2"
	} else if cfg.APIToken != "" {
		auth = "token"
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.String("endpoint", cfg.SummaryEndpoint),
		slog.String("auth", auth),
		slog.Duration("timeout", cfg.Timeout))

	h := &HuggingFaceClient{
		Client:   client,
		endpoint: cfg.SummaryEndpoint,
		backoff:  INITIAL_BACKOFF,
	}
	if auth == "token" {
		h.token = cfg.APIToken
	}
	return h
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. The request body is rewound through GetBody between attempts.
func (h *HuggingFaceClient) DoWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	backoff := h.backoff

	var lastErr error
	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			req.Body = body
		}

		resp, err := h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		lastErr = fmt.Errorf("%s", errMsg(err, resp))
		if resp != nil {
			resp.Body.Close()
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return nil, fmt.Errorf("gave up after %d attempts: %w", MAX_RETRIES, lastErr)
}

func (h *HuggingFaceClient) GetSummary(ctx context.Context, input models.SummaryRequest) (string, error) {
	var result models.SummaryBatchResponse
	slog.Info("[HuggingFaceClient] Requesting summary from summarization service")
	start := time.Now()

	if err := h.postJSON(ctx, h.endpoint, input, &result); err != nil {
		slog.Error("[HuggingFaceClient] Summary Request Failed",
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}

	slog.Info("[HuggingFaceClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))

	if len(result) == 0 {
		return "", nil
	}
	return result[0].SummaryText, nil
}

// HealthCheck reports whether the endpoint answers a GET without a server error.
func (h *HuggingFaceClient) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint, nil)
	if err != nil {
		return false
	}
	h.authorize(req)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Debug("[HuggingFaceClient] Health check failed", slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode < 500
}

func (h *HuggingFaceClient) authorize(req *http.Request) {
	req.Header.Set("User-Agent", USER_AGENT)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input any, output any) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	h.authorize(req)

	resp, err := h.DoWithRetry(req)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		slog.Error("[HuggingFaceClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
