package services_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"jobquote/services"
	"jobquote/testhelpers"
)

func TestSettingsStore_BusinessInfo(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	settings := services.NewSettingsStore(app)

	if got := settings.BusinessInfo(); got != (services.BusinessInfo{}) {
		t.Errorf("empty store BusinessInfo() = %+v", got)
	}

	want := services.BusinessInfo{
		Name:    "Green Thumb",
		Phone:   "01234 567890",
		Email:   "hello@example.com",
		Address: "Mill Lane",
		Website: "greenthumb.example",
	}
	if err := settings.SaveBusinessInfo(want); err != nil {
		t.Fatalf("SaveBusinessInfo() error = %v", err)
	}
	if got := settings.BusinessInfo(); got != want {
		t.Errorf("BusinessInfo() = %+v, want %+v", got, want)
	}

	want.Phone = ""
	if err := settings.SaveBusinessInfo(want); err != nil {
		t.Fatalf("second SaveBusinessInfo() error = %v", err)
	}
	if got := settings.Get(services.SettingBusinessPhone); got != "" {
		t.Errorf("phone = %q, want cleared", got)
	}
}

func TestSettingsStore_DefaultCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"unset", "", "GBP"},
		{"euro", "EUR", "EUR"},
		{"lower case", "usd", "USD"},
		{"garbage", "pounds", "GBP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			if tt.value != "" {
				testhelpers.SetTestSetting(t, app, services.SettingDefaultCurrency, tt.value)
			}
			if got := services.NewSettingsStore(app).DefaultCurrency(); got != tt.want {
				t.Errorf("DefaultCurrency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSettingsStore_SetOverwrites(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	settings := services.NewSettingsStore(app)

	if err := settings.Set("businessName", "First"); err != nil {
		t.Fatal(err)
	}
	if err := settings.Set("businessName", "Second"); err != nil {
		t.Fatal(err)
	}
	if got := settings.Get("businessName"); got != "Second" {
		t.Errorf("Get() = %q, want Second", got)
	}
	records, _ := app.FindAllRecords(services.SettingsCollection)
	if len(records) != 1 {
		t.Errorf("expected one record, got %d", len(records))
	}
}

func TestSettingsStore_LookupFailures(t *testing.T) {
	tests := []struct {
		name     string
		drop     bool
		wantWarn int
	}{
		{"missing key is not logged", false, 0},
		{"broken collection is logged", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			if tt.drop {
				col, err := app.FindCollectionByNameOrId(services.SettingsCollection)
				if err != nil {
					t.Fatalf("FindCollectionByNameOrId() error = %v", err)
				}
				if err := app.Delete(col); err != nil {
					t.Fatalf("Delete() error = %v", err)
				}
			}

			obsCore, logs := observer.New(zapcore.WarnLevel)
			settings := services.NewSettingsStore(app).WithLogger(zap.New(obsCore))

			if got := settings.Get(services.SettingBusinessName); got != "" {
				t.Errorf("Get() = %q, want empty", got)
			}
			if got := settings.BusinessInfo(); got != (services.BusinessInfo{}) {
				t.Errorf("BusinessInfo() = %+v, want empty", got)
			}
			if got := logs.FilterMessage("settings: lookup failed").Len(); got != tt.wantWarn {
				t.Errorf("warnings = %d, want %d", got, tt.wantWarn)
			}
		})
	}
}
