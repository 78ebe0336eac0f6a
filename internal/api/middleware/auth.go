// Package middleware содержит HTTP middleware сервиса.
package middleware

import (
	"context"
	"net/http"

	"github.com/agendly/appointment-service/internal/api/handlers"
)

// HeaderTenantID заголовок, через который клиент передаёт арендатора
const HeaderTenantID = "X-Tenant-ID"

type ctxKey struct{}

var tenantKey ctxKey

// Auth извлекает ID арендатора из заголовка X-Tenant-ID и кладёт его
// в контекст запроса. Запросы без заголовка отклоняются.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(HeaderTenantID)
		if tenantID == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "missing "+HeaderTenantID+" header")
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TenantFromContext возвращает ID арендатора, положенный Auth middleware
func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantKey).(string)
	return tenantID, ok
}
