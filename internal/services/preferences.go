package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"deskprefs/internal/common"
	domain "deskprefs/internal/domain/preferences"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

// Option is a selectable value with its translation key.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FontOption is a selectable installed font.
type FontOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Store holds the live preference state and reconciles it with the
// persistence backend. A Store is not safe for concurrent use; callers
// serialise access.
type Store struct {
	prefs          domain.Preferences
	lastPref       *domain.Preferences
	fontList       []domain.FontItem
	buildInDecoder []domain.BuiltInDecoder
	registry       *DecoderRegistry

	persistence domain.Persistence
	fonts       domain.FontCatalog
	decoders    domain.DecoderCatalog
	osTheme     domain.OSTheme
	logger      *slog.Logger
}

// StoreDeps are the collaborators of a Store. FontCatalog, DecoderCatalog and
// OSTheme are optional.
type StoreDeps struct {
	Persistence    domain.Persistence
	FontCatalog    domain.FontCatalog
	DecoderCatalog domain.DecoderCatalog
	OSTheme        domain.OSTheme
	Logger         *slog.Logger
}

// NewStore creates a store initialised with the factory defaults.
func NewStore(deps StoreDeps) *Store {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		prefs:          domain.DefaultPreferences(),
		fontList:       []domain.FontItem{},
		buildInDecoder: []domain.BuiltInDecoder{},
		persistence:    deps.Persistence,
		fonts:          deps.FontCatalog,
		decoders:       deps.DecoderCatalog,
		osTheme:        deps.OSTheme,
		logger:         logger,
	}
	s.registry = NewDecoderRegistry(&s.prefs.Decoder)
	return s
}

// Load fetches the persisted preferences and overlays them onto the live
// state. On failure the live state is left untouched.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.persistence.LoadPreferences(ctx)
	if err != nil {
		return common.NewPreferencesError("load", err)
	}

	doc, err := normalizeDocument(raw, s.logger)
	if err == nil {
		doc, err = defaultEditorToggles(doc)
	}
	if err != nil {
		return common.NewPreferencesError("load", err)
	}
	merged, err := s.overlay(doc)
	if err != nil {
		return common.NewPreferencesError("load", err)
	}

	s.prefs = merged
	snapshot := merged.Clone()
	s.lastPref = &snapshot

	s.logger.Debug("Preferences loaded", "decoders", len(merged.Decoder))
	return nil
}

// Save sends the persisted subset of the live state to the backend.
func (s *Store) Save(ctx context.Context) error {
	if err := s.persistence.SavePreferences(ctx, s.prefs.Clone()); err != nil {
		return common.NewPreferencesError("save", err)
	}
	return nil
}

// ResetToLastPreferences discards unsaved edits by reapplying the snapshot
// taken at the last successful Load. It reports false when no snapshot exists.
func (s *Store) ResetToLastPreferences() bool {
	if s.lastPref == nil {
		return false
	}
	s.prefs = s.lastPref.Clone()
	return true
}

// RestoreToDefault asks the backend for the factory defaults and applies them.
func (s *Store) RestoreToDefault(ctx context.Context) error {
	defaults, err := s.persistence.RestoreDefaults(ctx)
	if err != nil {
		return common.NewPreferencesError("restore", err)
	}
	s.prefs = defaults.Clone()
	if s.prefs.Decoder == nil {
		s.prefs.Decoder = []domain.DecoderConfig{}
	}
	s.logger.Info("Preferences restored to defaults")
	return nil
}

// LoadFontList refreshes the installed font catalog. A failed fetch leaves
// an empty catalog.
func (s *Store) LoadFontList(ctx context.Context) ([]domain.FontItem, error) {
	if s.fonts == nil {
		s.fontList = []domain.FontItem{}
		return s.FontList(), nil
	}
	fonts, err := s.fonts.ListFonts(ctx)
	if err != nil {
		s.fontList = []domain.FontItem{}
		return s.FontList(), common.NewPreferencesError("load fonts", err)
	}
	s.fontList = append([]domain.FontItem{}, fonts...)
	return s.FontList(), nil
}

// LoadBuildInDecoders refreshes the built-in decoder catalog. A failed fetch
// leaves an empty list.
func (s *Store) LoadBuildInDecoders(ctx context.Context) error {
	if s.decoders == nil {
		s.buildInDecoder = []domain.BuiltInDecoder{}
		return nil
	}
	list, err := s.decoders.ListBuiltIn(ctx)
	if err != nil {
		s.buildInDecoder = []domain.BuiltInDecoder{}
		return common.NewPreferencesError("load decoders", err)
	}
	s.buildInDecoder = append([]domain.BuiltInDecoder{}, list...)
	return nil
}

// IsDark resolves the effective colour scheme. The auto theme follows the
// operating system and is read on every call.
func (s *Store) IsDark() bool {
	if s.prefs.General.Theme != domain.ThemeAuto {
		return s.prefs.General.Theme == domain.ThemeDark
	}
	return s.osTheme != nil && s.osTheme.Current() == domain.ThemeDark
}

func (s *Store) GeneralFont() FontStyle {
	return ResolveCSSFont(SurfaceGeneral, s.prefs.General.FontFamily, s.prefs.General.FontSize)
}

func (s *Store) EditorFont() FontStyle {
	return ResolveCSSFont(SurfaceEditor, s.prefs.Editor.FontFamily, s.prefs.Editor.FontSize)
}

func (s *Store) CLIFont() TermFont {
	return ResolveTermFont(s.prefs.CLI.FontFamily, s.prefs.CLI.FontSize)
}

func (s *Store) ShowLineNum() bool     { return s.prefs.Editor.ShowLineNum }
func (s *Store) ShowFolding() bool     { return s.prefs.Editor.ShowFolding }
func (s *Store) DropText() bool        { return s.prefs.Editor.DropText }
func (s *Store) EditorLinks() bool     { return s.prefs.Editor.Links }
func (s *Store) AutoCheckUpdate() bool { return s.prefs.General.CheckUpdate }
func (s *Store) KeyIconStyle() int     { return s.prefs.General.KeyIconStyle }
func (s *Store) SkipVersion() string   { return s.prefs.General.SkipVersion }

// Separator is the key path separator shown in the UI.
func (s *Store) Separator() string {
	return ":"
}

// Preferences returns a deep copy of the live state.
func (s *Store) Preferences() domain.Preferences {
	return s.prefs.Clone()
}

func (s *Store) FontList() []domain.FontItem {
	return append([]domain.FontItem{}, s.fontList...)
}

func (s *Store) BuildInDecoders() []domain.BuiltInDecoder {
	return append([]domain.BuiltInDecoder{}, s.buildInDecoder...)
}

func (s *Store) ThemeOptions() []Option {
	return []Option{
		{Value: string(domain.ThemeLight), Label: "preferences.general.theme_light"},
		{Value: string(domain.ThemeDark), Label: "preferences.general.theme_dark"},
		{Value: string(domain.ThemeAuto), Label: "preferences.general.theme_auto"},
	}
}

func (s *Store) CursorStyleOptions() []Option {
	return []Option{
		{Value: string(domain.CursorBlock), Label: "preferences.cli.cursor_style_block"},
		{Value: string(domain.CursorUnderline), Label: "preferences.cli.cursor_style_underline"},
		{Value: string(domain.CursorBar), Label: "preferences.cli.cursor_style_bar"},
	}
}

// FontOptions lists the installed fonts as selectable options.
func (s *Store) FontOptions() []FontOption {
	return lo.Map(s.fontList, func(f domain.FontItem, _ int) FontOption {
		return FontOption{Value: f.Name, Label: f.Name, Path: f.Path}
	})
}

// SetAsWelcomed records that onboarding finished along with the telemetry
// choice, then saves.
func (s *Store) SetAsWelcomed(ctx context.Context, acceptTrack bool) error {
	s.prefs.Behavior.Welcomed = true
	s.prefs.General.AllowTrack = acceptTrack
	return s.Save(ctx)
}

func (s *Store) SetSkipVersion(version string) {
	s.prefs.General.SkipVersion = version
}

// Update applies fn to the live state. Decoder edits belong to Decoders().
func (s *Store) Update(fn func(p *domain.Preferences)) {
	fn(&s.prefs)
	if s.prefs.Decoder == nil {
		s.prefs.Decoder = []domain.DecoderConfig{}
	}
}

// ApplyDocument overlays a partial preferences document onto the live state
// without touching the snapshot. Unknown and invalid fields are dropped as in
// Load, but absent fields are never defaulted.
func (s *Store) ApplyDocument(doc json.RawMessage) error {
	normalized, err := normalizeDocument(doc, s.logger)
	if err != nil {
		return common.NewPreferencesError("apply", err)
	}
	merged, err := s.overlay(normalized)
	if err != nil {
		return common.NewPreferencesError("apply", err)
	}
	s.prefs = merged
	return nil
}

// overlay returns a copy of the live state with the normalised doc merged in.
// Fields absent from doc keep their current values; a present decoder list
// replaces the current one.
func (s *Store) overlay(normalized json.RawMessage) (domain.Preferences, error) {
	merged := s.prefs.Clone()
	if gjson.GetBytes(normalized, "decoder").Exists() {
		merged.Decoder = nil
	}
	if err := mergeInto(&merged, normalized, s.logger); err != nil {
		return domain.Preferences{}, err
	}
	if merged.Decoder == nil {
		merged.Decoder = []domain.DecoderConfig{}
	}
	return merged, nil
}

// Decoders returns the registry over the live custom decoder collection.
func (s *Store) Decoders() *DecoderRegistry {
	return s.registry
}

func (s *Store) AddCustomDecoder(cfg domain.DecoderConfig) bool {
	return s.registry.Add(cfg)
}

func (s *Store) UpdateCustomDecoder(oldName string, cfg domain.DecoderConfig) bool {
	return s.registry.Update(oldName, cfg)
}

func (s *Store) RemoveCustomDecoder(name string) bool {
	return s.registry.Remove(name)
}
