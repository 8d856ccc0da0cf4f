package models

import (
	"encoding/json"
	"errors"
	"time"

	domain "deskprefs/internal/domain/preferences"

	"gorm.io/gorm"
)

// preferencesRowID is the id of the single preferences row.
const preferencesRowID = 1

// PreferencesRecord represents the persisted preference tree in the database
type PreferencesRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PreferencesJSON string    `gorm:"type:text" json:"preferences_json"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName keeps the table name stable across model renames.
func (PreferencesRecord) TableName() string {
	return "user_preferences"
}

// RawPreferences returns the stored document, or the defaults when the row
// has never been written.
func (r *PreferencesRecord) RawPreferences() (json.RawMessage, error) {
	if r.PreferencesJSON == "" {
		return json.Marshal(domain.DefaultPreferences())
	}
	return json.RawMessage(r.PreferencesJSON), nil
}

// SetPreferences sets the preferences data
func (r *PreferencesRecord) SetPreferences(prefs domain.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	r.PreferencesJSON = string(data)
	return nil
}

// GetOrCreatePreferences gets or creates the single preferences row
func GetOrCreatePreferences(db *gorm.DB) (*PreferencesRecord, error) {
	var rec PreferencesRecord

	err := db.First(&rec, preferencesRowID).Error
	if err == nil {
		return &rec, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Create default preferences
	rec = PreferencesRecord{ID: preferencesRowID}
	if err := rec.SetPreferences(domain.DefaultPreferences()); err != nil {
		return nil, err
	}
	if err := db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
