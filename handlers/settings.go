package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"jobquote/services"
)

type businessSettings struct {
	services.BusinessInfo
	DefaultCurrency string `json:"default_currency"`
}

// HandleBusinessSettings returns the business profile and default currency.
func HandleBusinessSettings(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings := services.NewSettingsStore(app)
		return e.JSON(http.StatusOK, businessSettings{
			BusinessInfo:    settings.BusinessInfo(),
			DefaultCurrency: settings.DefaultCurrency(),
		})
	}
}

// HandleBusinessSettingsSave stores the profile form. An empty
// default_currency leaves the current setting alone.
func HandleBusinessSettingsSave(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		info := services.BusinessInfo{
			Name:    strings.TrimSpace(e.Request.FormValue("business_name")),
			Phone:   strings.TrimSpace(e.Request.FormValue("business_phone")),
			Email:   strings.TrimSpace(e.Request.FormValue("business_email")),
			Address: strings.TrimSpace(e.Request.FormValue("business_address")),
			Website: strings.TrimSpace(e.Request.FormValue("business_website")),
		}

		settings := services.NewSettingsStore(app)
		if raw := strings.TrimSpace(e.Request.FormValue("default_currency")); raw != "" {
			code, ok := services.CanonicalCurrency(raw)
			if !ok {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Unknown currency code")
			}
			if err := settings.Set(services.SettingDefaultCurrency, code); err != nil {
				zap.L().Error("settings: could not save default currency", zap.Error(err))
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		if err := settings.SaveBusinessInfo(info); err != nil {
			zap.L().Error("settings: could not save business profile", zap.Error(err))
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Business profile saved")
		return e.JSON(http.StatusOK, businessSettings{
			BusinessInfo:    info,
			DefaultCurrency: settings.DefaultCurrency(),
		})
	}
}
