// Package cache provides an optional Valkey-backed lookaside for resolved
// video titles. Comment fetching is never cached; only metadata lookups,
// which are pure and slow-changing, go through here.
package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	titleKeyPrefix  = "youtube:title:"
	titleTTLSeconds = 86400
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	client valkey.Client
	mu     sync.Mutex
}

// InitValkey connects the title cache. Returns nil (cache disabled) when no
// address is configured or the connection cannot be established; the
// metadata adapter treats a nil cache as a permanent miss.
func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		addr := os.Getenv("VALKEY_INIT_ADDRESS")
		if addr == "" {
			slog.Info("[ValkeyClient] No address configured, title cache disabled")
			return
		}

		client, err := newClient(addr)
		if err != nil {
			slog.Error("[ValkeyClient] Failed to connect, title cache disabled",
				slog.String("error", err.Error()))
			return
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{client: client}
	})
	return valkeyInstance
}

func newClient(addr string) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         os.Getenv("VALKEY_PASSWORD"),
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if os.Getenv("VALKEY_TLS") == "true" {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.client.Close()
	}
}

// GetTitle looks up a cached title. Any cache problem reads as a miss.
func (vc *ValkeyClient) GetTitle(ctx context.Context, videoID string) (string, bool) {
	res := vc.doWithRetry(ctx, vc.client.B().Get().Key(titleKeyPrefix+videoID).Build(), 3)
	if err := res.Error(); err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyClient] Title lookup failed",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
			if isConnectionError(err) {
				vc.recreateClient()
			}
		}
		return "", false
	}

	title, err := res.ToString()
	if err != nil {
		return "", false
	}
	return title, true
}

// SetTitle caches a resolved title with a day's TTL. Failures only cost the
// next lookup a network round trip.
func (vc *ValkeyClient) SetTitle(ctx context.Context, videoID, title string) {
	key := titleKeyPrefix + videoID
	completed := []valkey.Completed{
		vc.client.B().Set().Key(key).Value(title).Build(),
		vc.client.B().Expire().Key(key).Seconds(titleTTLSeconds).Build(),
	}

	for _, res := range vc.doMultiWithRetry(ctx, completed, 3) {
		if err := res.Error(); err != nil {
			slog.Warn("[ValkeyClient] Failed to cache title",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
			return
		}
	}
}

func (vc *ValkeyClient) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.client.Do(ctx, completed)
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}
	return result
}

func (vc *ValkeyClient) doMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(250 * time.Millisecond)
	}

	return results
}

func (vc *ValkeyClient) recreateClient() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[ValkeyClient] Recreate failed and was recovered from panic",
				slog.Any("panic", r))
		}
	}()

	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	vc.client.Close()

	client, err := newClient(os.Getenv("VALKEY_INIT_ADDRESS"))
	if err != nil {
		panic(err)
	}
	vc.client = client
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
