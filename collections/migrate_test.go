package collections_test

import (
	"testing"

	"go.uber.org/zap"

	"jobquote/collections"
	"jobquote/services"
	"jobquote/testhelpers"
)

var settingKeys = []string{
	services.SettingBusinessName,
	services.SettingBusinessPhone,
	services.SettingBusinessEmail,
	services.SettingBusinessAddress,
	services.SettingBusinessWebsite,
	services.SettingDefaultCurrency,
}

func TestMigrateDefaultSettings_CreatesDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateDefaultSettings(app, zap.NewNop()); err != nil {
		t.Fatalf("MigrateDefaultSettings() error: %v", err)
	}

	for _, key := range settingKeys {
		if _, err := app.FindFirstRecordByData(services.SettingsCollection, "key", key); err != nil {
			t.Errorf("expected settings record for %q: %v", key, err)
		}
	}

	if got := services.NewSettingsStore(app).DefaultCurrency(); got != "GBP" {
		t.Errorf("DefaultCurrency() = %q, want GBP", got)
	}
}

func TestMigrateDefaultSettings_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateDefaultSettings(app, zap.NewNop()); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if err := collections.MigrateDefaultSettings(app, zap.NewNop()); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	records, err := app.FindAllRecords(services.SettingsCollection)
	if err != nil {
		t.Fatalf("FindAllRecords() error: %v", err)
	}
	if len(records) != len(settingKeys) {
		t.Errorf("expected %d settings records, got %d", len(settingKeys), len(records))
	}
}

func TestMigrateDefaultSettings_KeepsExistingValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SetTestSetting(t, app, services.SettingDefaultCurrency, "EUR")
	testhelpers.SetTestSetting(t, app, services.SettingBusinessName, "Acme Gardens")

	if err := collections.MigrateDefaultSettings(app, zap.NewNop()); err != nil {
		t.Fatalf("MigrateDefaultSettings() error: %v", err)
	}

	settings := services.NewSettingsStore(app)
	if got := settings.DefaultCurrency(); got != "EUR" {
		t.Errorf("DefaultCurrency() = %q, want EUR", got)
	}
	if got := settings.BusinessInfo().Name; got != "Acme Gardens" {
		t.Errorf("business name = %q, want Acme Gardens", got)
	}
}
