package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"deskprefs/internal/common"
	domain "deskprefs/internal/domain/preferences"
	"deskprefs/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database persists the preference tree in SQLite. It implements
// preferences.Persistence.
type Database struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewDatabase opens (or creates) the database at dbPath and migrates the
// schema. Pass ":memory:" for an in-memory database.
func NewDatabase(dbPath string, log *slog.Logger) (*Database, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&models.PreferencesRecord{}); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &Database{db: db, logger: log}, nil
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadPreferences returns the stored preference document as written, which
// may predate fields added later.
func (d *Database) LoadPreferences(ctx context.Context) (json.RawMessage, error) {
	rec, err := models.GetOrCreatePreferences(d.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	return rec.RawPreferences()
}

// SavePreferences replaces the stored document.
func (d *Database) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	db := d.db.WithContext(ctx)
	rec, err := models.GetOrCreatePreferences(db)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	if err := rec.SetPreferences(prefs); err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := db.Save(rec).Error; err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}

	d.logger.Debug("Preferences saved", "decoders", len(prefs.Decoder))
	return nil
}

// RestoreDefaults overwrites the stored document with factory defaults and
// returns them.
func (d *Database) RestoreDefaults(ctx context.Context) (domain.Preferences, error) {
	defaults := domain.DefaultPreferences()
	if err := d.SavePreferences(ctx, defaults); err != nil {
		return domain.Preferences{}, fmt.Errorf("restoring defaults: %w", err)
	}

	d.logger.Info("Preferences restored to defaults")
	return defaults, nil
}

// WindowSize returns the persisted window geometry, falling back to the
// default size when nothing usable was stored.
func (d *Database) WindowSize(ctx context.Context) (width, height int, maximised bool) {
	prefs, err := d.decoded(ctx)
	if err != nil {
		d.logger.Warn("Could not read window size, using defaults", "error", err)
		return common.DefaultWindowWidth, common.DefaultWindowHeight, false
	}

	width, height = prefs.Behavior.WindowWidth, prefs.Behavior.WindowHeight
	if width < common.MinWindowWidth || height < common.MinWindowHeight {
		width, height = common.DefaultWindowWidth, common.DefaultWindowHeight
	}
	return width, height, prefs.Behavior.WindowMaximised
}

// SaveWindowSize stores the window geometry without touching other sections.
// A maximised window keeps the last normal size.
func (d *Database) SaveWindowSize(ctx context.Context, width, height int, maximised bool) error {
	prefs, err := d.decoded(ctx)
	if err != nil {
		return err
	}

	prefs.Behavior.WindowMaximised = maximised
	if !maximised {
		prefs.Behavior.WindowWidth = width
		prefs.Behavior.WindowHeight = height
	}
	return d.SavePreferences(ctx, prefs)
}

func (d *Database) decoded(ctx context.Context) (domain.Preferences, error) {
	raw, err := d.LoadPreferences(ctx)
	if err != nil {
		return domain.Preferences{}, err
	}

	prefs := domain.DefaultPreferences()
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("decoding preferences: %w", err)
	}
	return prefs, nil
}
