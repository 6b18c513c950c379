package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX. An existing HX-Trigger JSON object is kept and the
// toast is merged into it.
// It also sets a flash cookie so toasts survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	toast := map[string]string{"message": message, "type": toastType}

	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			zap.L().Warn("toast: existing HX-Trigger is not valid JSON, overwriting", zap.Error(err))
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = toast

	data, err := json.Marshal(trigger)
	if err != nil {
		zap.L().Error("toast: failed to marshal HX-Trigger JSON", zap.Error(err))
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	if cookieVal, err := json.Marshal(toast); err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // read by the page script
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
