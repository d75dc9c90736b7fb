package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Guard validates the API key carried by incoming calls.
type Guard struct {
	enabled bool
	header  string
	key     []byte
}

// New returns a Guard. header is lowercased, matching how gRPC normalises
// metadata keys.
func New(mode, header, key string) *Guard {
	return &Guard{
		enabled: mode == "apikey" && key != "",
		header:  strings.ToLower(header),
		key:     []byte(key),
	}
}

// Enabled reports whether calls are checked at all.
func (g *Guard) Enabled() bool { return g.enabled }

// Header returns the header or metadata key the Guard reads.
func (g *Guard) Header() string { return g.header }

func (g *Guard) valid(got string) bool {
	if !g.enabled {
		return true
	}
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), g.key) == 1
}

// UnaryInterceptor returns a gRPC interceptor enforcing the key.
func (g *Guard) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !g.enabled {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		var got string
		if vals := md.Get(g.header); len(vals) > 0 {
			got = vals[0]
		}
		if !g.valid(got) {
			return nil, status.Error(codes.Unauthenticated, "invalid api key")
		}

		return handler(ctx, req)
	}
}

// Middleware wraps next so that requests without the key get 401.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	if !g.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.valid(r.Header.Get(g.header)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
				"error": "invalid api key",
				"kind":  "Unauthenticated",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
