package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"jobquote/services"
)

// Setup creates the quotes and settings collections when they are missing.
func Setup(app core.App, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	templateLabels := make([]string, 0, len(services.Templates()))
	for _, t := range services.Templates() {
		templateLabels = append(templateLabels, string(t))
	}

	_, err := ensureCollection(app, logger, services.QuotesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "uid", Required: true, Max: 64})
		c.Fields.Add(&core.SelectField{
			Name:      "template",
			Required:  true,
			Values:    templateLabels,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "items", MaxSize: 1 << 20})
		c.Fields.Add(&core.JSONField{Name: "extras", MaxSize: 1 << 20})
		c.Fields.Add(&core.JSONField{Name: "customer", MaxSize: 1 << 16})
		c.Fields.Add(&core.TextField{Name: "notes", Max: 20000})
		c.Fields.Add(&core.TextField{Name: "job_address", Max: 2000})
		c.Fields.Add(&core.NumberField{Name: "tax_rate"})
		c.Fields.Add(&core.DateField{Name: "date", Required: true})
		c.Fields.Add(&core.BoolField{Name: "is_invoice"})
		c.Fields.Add(&core.TextField{Name: "currency_code", Max: 3})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotes_uid", true, "uid", "")
		c.AddIndex("idx_quotes_date", false, "date", "")
	})
	if err != nil {
		return err
	}

	_, err = ensureCollection(app, logger, services.SettingsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "key", Required: true, Max: 100})
		c.Fields.Add(&core.TextField{Name: "value", Max: 2000})
		c.AddIndex("idx_settings_key", true, "key", "")
	})
	return err
}

// ensureCollection returns the named collection, creating it with the fields
// added by addFields when it does not exist yet.
func ensureCollection(app core.App, logger *zap.Logger, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("collections: already exists", zap.String("collection", name))
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("collections: create %q: %w", name, err)
	}

	logger.Info("collections: created", zap.String("collection", name), zap.String("id", collection.Id))
	return collection, nil
}
