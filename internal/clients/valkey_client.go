package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/textpulse/config"
	"github.com/valkey-io/valkey-go"
)

const VALKEY_RETRIES = 3

type ValkeyClient struct {
	Client valkey.Client
	opts   valkey.ClientOption
	mu     sync.RWMutex
}

func valkeyOptions(cfg config.ValkeyConfig) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func dialValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

// NewValkeyClient connects and pings the configured Valkey server.
func NewValkeyClient(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	opts := valkeyOptions(cfg)
	client, err := dialValkey(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))
	return &ValkeyClient{Client: client, opts: opts}, nil
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := dialValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// Get returns the cached value for key. A missing key is not an error.
func (vc *ValkeyClient) Get(ctx context.Context, key string) (string, bool, error) {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	}, VALKEY_RETRIES)

	val, err := res.ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[ValkeyClient] get %s: %w", key, err)
	}
	return val, true, nil
}

func (vc *ValkeyClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Set().Key(key).Value(value).ExSeconds(ttlSeconds(ttl)).Build()
	}, VALKEY_RETRIES)

	if err := res.Error(); err != nil {
		return fmt.Errorf("[ValkeyClient] set %s: %w", key, err)
	}
	return nil
}

// DoWithRetry builds the command against the current client on every attempt,
// so a recreated client is picked up. Nil replies are returned without retrying.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		c := vc.client()
		result = c.Do(ctx, build(c))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		if isConnectionError(err) {
			vc.recreateClient()
		}

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

func ttlSeconds(ttl time.Duration) int64 {
	return max(int64(ttl/time.Second), 1)
}
