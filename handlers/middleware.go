package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"jobquote/services"
)

type contextKey string

const BusinessInfoKey contextKey = "businessInfo"

// GetBusinessInfo extracts the sender profile stored by BusinessProfileMiddleware.
func GetBusinessInfo(r *http.Request) services.BusinessInfo {
	if val, ok := r.Context().Value(BusinessInfoKey).(services.BusinessInfo); ok {
		return val
	}
	return services.BusinessInfo{}
}

// BusinessProfileMiddleware loads the business profile from the settings
// collection once per request so document handlers can read it from the
// context.
func BusinessProfileMiddleware(app core.App) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		info := services.NewSettingsStore(app).BusinessInfo()
		ctx := context.WithValue(e.Request.Context(), BusinessInfoKey, info)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
