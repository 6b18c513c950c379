package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const SettingsCollection = "settings"

// Settings keys.
const (
	SettingBusinessName    = "businessName"
	SettingBusinessPhone   = "businessPhone"
	SettingBusinessEmail   = "businessEmail"
	SettingBusinessAddress = "businessAddress"
	SettingBusinessWebsite = "businessWebsite"
	SettingDefaultCurrency = "defaultCurrency"
)

var businessKeys = []string{
	SettingBusinessName,
	SettingBusinessPhone,
	SettingBusinessEmail,
	SettingBusinessAddress,
	SettingBusinessWebsite,
}

// SettingsStore reads and writes the key/value "settings" collection.
type SettingsStore struct {
	app    core.App
	logger *zap.Logger
}

func NewSettingsStore(app core.App) *SettingsStore {
	return &SettingsStore{app: app, logger: zap.L()}
}

// WithLogger replaces the logger used for failed lookups.
func (s *SettingsStore) WithLogger(logger *zap.Logger) *SettingsStore {
	s.logger = logger
	return s
}

// Get returns the value for key, or "" when it is not set. A lookup that
// fails for any other reason is logged and also reads as "".
func (s *SettingsStore) Get(key string) string {
	record, err := s.app.FindFirstRecordByData(SettingsCollection, "key", key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("settings: lookup failed", zap.String("key", key), zap.Error(err))
		}
		return ""
	}
	return cast.ToString(record.Get("value"))
}

// Set creates or overwrites a single setting.
func (s *SettingsStore) Set(key, value string) error {
	record, err := s.app.FindFirstRecordByData(SettingsCollection, "key", key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("settings: find %s: %w", key, err)
		}
		col, err := s.app.FindCollectionByNameOrId(SettingsCollection)
		if err != nil {
			return fmt.Errorf("settings: find collection: %w", err)
		}
		record = core.NewRecord(col)
		record.Set("key", key)
	}
	record.Set("value", value)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("settings: save %s: %w", key, err)
	}
	return nil
}

// values loads the given keys in one query.
func (s *SettingsStore) values(keys ...string) map[string]string {
	in := make([]any, len(keys))
	for i, k := range keys {
		in[i] = k
	}
	out := make(map[string]string, len(keys))
	records, err := s.app.FindAllRecords(SettingsCollection, dbx.In("key", in...))
	if err != nil {
		s.logger.Warn("settings: lookup failed", zap.Strings("keys", keys), zap.Error(err))
		return out
	}
	for _, r := range records {
		out[r.GetString("key")] = cast.ToString(r.Get("value"))
	}
	return out
}

// BusinessInfo assembles the sender profile. Missing keys read as "".
func (s *SettingsStore) BusinessInfo() BusinessInfo {
	v := s.values(businessKeys...)
	return BusinessInfo{
		Name:    v[SettingBusinessName],
		Phone:   v[SettingBusinessPhone],
		Email:   v[SettingBusinessEmail],
		Address: v[SettingBusinessAddress],
		Website: v[SettingBusinessWebsite],
	}
}

func (s *SettingsStore) SaveBusinessInfo(b BusinessInfo) error {
	pairs := map[string]string{
		SettingBusinessName:    b.Name,
		SettingBusinessPhone:   b.Phone,
		SettingBusinessEmail:   b.Email,
		SettingBusinessAddress: b.Address,
		SettingBusinessWebsite: b.Website,
	}
	return s.app.RunInTransaction(func(txApp core.App) error {
		tx := &SettingsStore{app: txApp, logger: s.logger}
		for _, key := range businessKeys {
			if err := tx.Set(key, pairs[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

// DefaultCurrency is the canonical defaultCurrency setting, or GBP when it
// is unset or not a valid code.
func (s *SettingsStore) DefaultCurrency() string {
	if code, ok := CanonicalCurrency(s.Get(SettingDefaultCurrency)); ok {
		return code
	}
	return DefaultCurrencyCode
}
