package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

var ErrRateLimited = errors.New("too many requests, try again later")

const rateLimitPrefix = "splitzytip:ratelimit"

// NewRateLimiter builds a limiter for the formatted rate ("10-M"). Counters
// live in Redis when client is non-nil so every instance shares them, and in
// process memory otherwise.
func NewRateLimiter(formatted string, client *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	var store limiter.Store
	if client != nil {
		store, err = limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, err
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: time.Minute,
		})
	}

	return limiter.New(store, rate), nil
}

// RateLimit returns an interceptor that throttles the listed procedures per
// client address. Other procedures pass through untouched.
func RateLimit(l *limiter.Limiter, procedures map[string]bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			if !procedures[procedure] {
				return next(ctx, req)
			}

			key := procedure + ":" + clientIP(req.Peer().Addr)
			lctx, err := l.Get(ctx, key)
			if err != nil {
				// Fail open on store errors.
				slog.WarnContext(ctx, "Rate limiter unavailable", "procedure", procedure, "error", err)
				return next(ctx, req)
			}

			if lctx.Reached {
				cerr := connect.NewError(connect.CodeResourceExhausted, ErrRateLimited)
				retry := time.Until(time.Unix(lctx.Reset, 0))
				if retry < time.Second {
					retry = time.Second
				}
				cerr.Meta().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				return nil, cerr
			}
			return next(ctx, req)
		}
	}
}

func clientIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
