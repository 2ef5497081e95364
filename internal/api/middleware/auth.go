package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/rushmax/internal/api/apierr"
	"github.com/mcoot/rushmax/internal/model"
	"github.com/mcoot/rushmax/internal/services/registry"
)

type contextKey string

const playerContextKey contextKey = "player"

// PlayerIDHeader carries a player id for clients that do not hold a session token
const PlayerIDHeader = "X-Player-ID"

// Auth creates authentication middleware. Every authenticated request counts as a heartbeat.
func Auth(registryService registry.ServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			playerID := model.PlayerID(strings.TrimSpace(r.Header.Get(PlayerIDHeader)))
			if token == "" && playerID == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			player, err := registryService.Heartbeat(r.Context(), playerID, token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// GetPlayer returns the authenticated player from the request context
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// MustGetPlayer returns the authenticated player or panics
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("no player in context - auth middleware not applied?")
	}
	return player
}
