package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/api/handlers"
	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderTenantID = "X-Tenant-ID"

	msgMissingIdentity = "отсутствуют заголовки пользователя"
	msgInvalidRole     = "некорректная роль пользователя"
)

type contextKey int

const (
	actorKey contextKey = iota
	tenantKey
)

// Auth извлекает пользователя, роль и автошколу из заголовков шлюза
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		tenantID := strings.TrimSpace(r.Header.Get(HeaderTenantID))
		role := domain.ActorKind(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))))

		if userID == "" || tenantID == "" {
			handlers.RespondUnauthorized(w, msgMissingIdentity)
			return
		}
		if !role.IsValid() {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, domain.Actor{Kind: role, ID: userID})
		ctx = context.WithValue(ctx, tenantKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor возвращает пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetTenantID возвращает автошколу из контекста
func GetTenantID(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantKey).(string)
	return tenantID, ok && tenantID != ""
}

// WithIdentity кладет пользователя в контекст (для тестов обработчиков)
func WithIdentity(ctx context.Context, actor domain.Actor, tenantID string) context.Context {
	ctx = context.WithValue(ctx, actorKey, actor)
	return context.WithValue(ctx, tenantKey, tenantID)
}
