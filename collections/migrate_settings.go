package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"jobquote/services"
)

// defaultSettings are seeded on first start. Existing keys are never touched.
var defaultSettings = map[string]string{
	services.SettingBusinessName:    "",
	services.SettingBusinessPhone:   "",
	services.SettingBusinessEmail:   "",
	services.SettingBusinessAddress: "",
	services.SettingBusinessWebsite: "",
	services.SettingDefaultCurrency: services.DefaultCurrencyCode,
}

// MigrateDefaultSettings creates any missing settings records. Safe to call
// on every startup.
func MigrateDefaultSettings(app core.App, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	settingsCol, err := app.FindCollectionByNameOrId(services.SettingsCollection)
	if err != nil {
		return fmt.Errorf("migrate_settings: could not find settings collection: %w", err)
	}

	for key, value := range defaultSettings {
		existing, _ := app.FindFirstRecordByData(settingsCol, "key", key)
		if existing != nil {
			continue
		}

		record := core.NewRecord(settingsCol)
		record.Set("key", key)
		record.Set("value", value)
		if err := app.Save(record); err != nil {
			logger.Warn("migrate_settings: failed to create setting", zap.String("key", key), zap.Error(err))
			continue
		}
		logger.Debug("migrate_settings: seeded", zap.String("key", key))
	}

	return nil
}
