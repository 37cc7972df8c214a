package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

type contextKey string

const ctxActor contextKey = "actor"

const adminHeader = "X-Admin"

// ActorFromContext returns the admin actor attached to the request, or the
// empty string when none was identified.
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActor).(string); ok {
		return v
	}
	return ""
}

// WithActor injects the actor into the context.
func WithActor(ctx context.Context, actor string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorContext reads the admin header and attaches the acting identity to
// the request context and log fields. Pricing attribution falls back to a
// system sentinel downstream when the header is absent.
func ActorContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(adminHeader))
			ctx := WithActor(r.Context(), actor)
			if logg != nil && actor != "" {
				ctx = logg.WithActor(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
