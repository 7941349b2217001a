package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// callLog is filled in by interceptors further down the chain.
type callLog struct {
	userID string
}

type callLogKey struct{}

// noteUserID records the caller on the enclosing LoggingInterceptor, if any.
func noteUserID(ctx context.Context, userID string) {
	if l, ok := ctx.Value(callLogKey{}).(*callLog); ok {
		l.userID = userID
	}
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// Install it before RequireAuth so rejected calls are logged too; the user
// ID is picked up once RequireAuth accepts the session.
// It logs the procedure name, user ID, duration, and any error codes/messages.
// Client errors are logged at WARN, everything unexpected at ERROR.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			call := &callLog{userID: GetUserID(ctx)}

			resp, err := next(context.WithValue(ctx, callLogKey{}, call), req)

			userID := call.userID // empty if the session was rejected
			duration := time.Since(start).Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
					logger.WarnContext(ctx, "RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"user_id", userID,
						"duration_ms", duration,
					)
				} else {
					logger.ErrorContext(ctx, "RPC error",
						"procedure", procedure,
						"error", err,
						"user_id", userID,
						"duration_ms", duration,
					)
				}
			} else {
				logger.InfoContext(ctx, "RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
