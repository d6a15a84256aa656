package clients

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIRequestTimeout = 60 * time.Second

var (
	aiClientInstance *AIClient
	aiClientOnce     sync.Once
)

type AIClient struct {
	Client *openai.Client
}

func GetAIClient(apiKey string, opts ...option.RequestOption) *AIClient {
	aiClientOnce.Do(func() {
		aiClientInstance = NewAIClient(apiKey, opts...)
	})
	return aiClientInstance
}

// NewAIClient builds an OpenAI client with a bounded HTTP timeout. Extra
// options (for example option.WithBaseURL) are applied last.
func NewAIClient(apiKey string, opts ...option.RequestOption) *AIClient {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
	}

	client := openai.NewClient(append(base, opts...)...)
	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.Duration("timeout", openAIRequestTimeout))

	return &AIClient{Client: client}
}
