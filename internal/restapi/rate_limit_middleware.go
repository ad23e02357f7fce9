package restapi

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"disruptions.onebusaway.org/internal/app"
	"disruptions.onebusaway.org/internal/clock"
	"disruptions.onebusaway.org/internal/logging"
	"disruptions.onebusaway.org/internal/models"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL      = 10 * time.Minute
	limiterSweepEvery   = 5 * time.Minute
	anonymousClientName = "anon:"
)

type rateLimitClient struct {
	limiter *rate.Limiter
	// lastSeen is unix nanoseconds.
	lastSeen atomic.Int64
}

// RateLimitMiddleware limits requests per API key. Requests without a key
// are limited per client address.
type RateLimitMiddleware struct {
	mu       sync.RWMutex
	clients  map[string]*rateLimitClient
	limit    rate.Limit
	burst    int
	exempt   map[string]bool
	clock    clock.Clock
	ticker   *time.Ticker
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimitMiddleware allows ratePerInterval requests per interval for
// each client, with bursts of the same size. A negative rate disables
// limiting and zero blocks every non-exempt request.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration, exemptKeys []string, c clock.Clock) *RateLimitMiddleware {
	var limit rate.Limit
	switch {
	case ratePerInterval < 0:
		limit = rate.Inf
	case ratePerInterval == 0:
		limit = 0
	default:
		limit = rate.Every(interval / time.Duration(ratePerInterval))
	}

	exempt := make(map[string]bool, len(exemptKeys))
	for _, key := range exemptKeys {
		if key = strings.TrimSpace(key); key != "" {
			exempt[key] = true
		}
	}
	if c == nil {
		c = clock.RealClock{}
	}

	rl := &RateLimitMiddleware{
		clients: make(map[string]*rateLimitClient),
		limit:   limit,
		burst:   max(ratePerInterval, 0),
		exempt:  exempt,
		clock:   c,
		ticker:  time.NewTicker(limiterSweepEvery),
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := app.APIKey(r)
			if rl.exempt[key] {
				next.ServeHTTP(w, r)
				return
			}
			if key == "" {
				key = anonymousClientName + clientAddress(r)
			}
			if !rl.limiterFor(key).AllowN(rl.clock.Now(), 1) {
				rl.reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimitMiddleware) limiterFor(key string) *rate.Limiter {
	now := rl.clock.Now().UnixNano()

	rl.mu.RLock()
	client, ok := rl.clients[key]
	rl.mu.RUnlock()
	if ok {
		client.lastSeen.Store(now)
		return client.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if client, ok = rl.clients[key]; !ok {
		client = &rateLimitClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen.Store(now)
	return client.limiter
}

func (rl *RateLimitMiddleware) retryAfter() time.Duration {
	switch rl.limit {
	case 0:
		return time.Hour
	case rate.Inf:
		return time.Second
	}
	return max(time.Duration(float64(time.Second)/float64(rl.limit)), time.Second)
}

func (rl *RateLimitMiddleware) reject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(rl.retryAfter().Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	response := models.ResponseModel{
		Code:        http.StatusTooManyRequests,
		CurrentTime: rl.clock.NowUnixMilli(),
		Text:        "Rate limit exceeded. Please try again later.",
		Version:     2,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(slog.Default(), "failed to encode rate limit response", err,
			slog.String("path", r.URL.Path))
	}
}

// sweep drops clients idle for longer than limiterIdleTTL.
func (rl *RateLimitMiddleware) sweep() {
	cutoff := rl.clock.Now().Add(-limiterIdleTTL).UnixNano()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, client := range rl.clients {
		if client.lastSeen.Load() < cutoff {
			delete(rl.clients, key)
		}
	}
}

func (rl *RateLimitMiddleware) sweepLoop() {
	for {
		select {
		case <-rl.ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// Stop ends the sweep goroutine. Safe to call repeatedly.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.ticker.Stop()
		close(rl.stop)
	})
}
