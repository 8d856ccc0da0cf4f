package preferences

import (
	"context"
	"encoding/json"
)

// Theme is the colour scheme selection stored in general.theme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// CursorStyle is the cursor shape of the command-line surface.
type CursorStyle string

const (
	CursorBlock     CursorStyle = "block"
	CursorUnderline CursorStyle = "underline"
	CursorBar       CursorStyle = "bar"
)

// Preferences is the persisted preference tree. The font and decoder
// catalogs are not part of it.
type Preferences struct {
	Behavior Behavior        `json:"behavior"`
	General  General         `json:"general"`
	Editor   Editor          `json:"editor"`
	CLI      CLI             `json:"cli"`
	Decoder  []DecoderConfig `json:"decoder"`
}

// Behavior holds ephemeral UI state that is persisted but not shown as a setting.
type Behavior struct {
	Welcomed        bool `json:"welcomed"`
	AsideWidth      int  `json:"asideWidth"`
	WindowWidth     int  `json:"windowWidth"`
	WindowHeight    int  `json:"windowHeight"`
	WindowMaximised bool `json:"windowMaximised"`
}

type General struct {
	Theme           Theme    `json:"theme"`
	Language        string   `json:"language"`
	FontFamily      []string `json:"fontFamily"`
	FontSize        int      `json:"fontSize"`
	ScanSize        int      `json:"scanSize"`
	KeyIconStyle    int      `json:"keyIconStyle"`
	UseSysProxy     bool     `json:"useSysProxy"`
	UseSysProxyHTTP bool     `json:"useSysProxyHttp"`
	CheckUpdate     bool     `json:"checkUpdate"`
	SkipVersion     string   `json:"skipVersion"`
	AllowTrack      bool     `json:"allowTrack"`
}

type Editor struct {
	FontFamily  []string `json:"fontFamily"`
	FontSize    int      `json:"fontSize"`
	ShowLineNum bool     `json:"showLineNum"`
	ShowFolding bool     `json:"showFolding"`
	DropText    bool     `json:"dropText"`
	Links       bool     `json:"links"`
}

type CLI struct {
	FontFamily  []string    `json:"fontFamily"`
	FontSize    int         `json:"fontSize"`
	CursorStyle CursorStyle `json:"cursorStyle"`
}

// DecoderConfig is a user-defined encode/decode transformation backed by
// external executables. Name is unique within a collection.
type DecoderConfig struct {
	Name       string   `json:"name"`
	Enable     bool     `json:"enable"`
	Auto       bool     `json:"auto"`
	EncodePath string   `json:"encodePath"`
	EncodeArgs []string `json:"encodeArgs"`
	DecodePath string   `json:"decodePath"`
	DecodeArgs []string `json:"decodeArgs"`
}

// BuiltInDecoder describes a decoder shipped with the application.
type BuiltInDecoder struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// FontItem is an installed system font.
type FontItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// CheckResult is the response contract of the update service.
type CheckResult struct {
	Version string `json:"version"`
	Latest  string `json:"latest"`
	PageURL string `json:"page_url"`
}

// Default values shared by the store and the persistence layer.
const (
	DefaultFontSize   = 14
	DefaultScanSize   = 3000
	DefaultAsideWidth = 300
	DefaultLanguage   = "auto"
)

// DefaultPreferences returns the factory preference tree.
func DefaultPreferences() Preferences {
	return Preferences{
		Behavior: Behavior{
			AsideWidth: DefaultAsideWidth,
		},
		General: General{
			Theme:       ThemeAuto,
			Language:    DefaultLanguage,
			FontFamily:  []string{},
			FontSize:    DefaultFontSize,
			ScanSize:    DefaultScanSize,
			CheckUpdate: true,
			AllowTrack:  true,
		},
		Editor: Editor{
			FontFamily:  []string{},
			FontSize:    DefaultFontSize,
			ShowLineNum: true,
			ShowFolding: true,
			DropText:    true,
			Links:       true,
		},
		CLI: CLI{
			FontFamily:  []string{},
			FontSize:    DefaultFontSize,
			CursorStyle: CursorBlock,
		},
		Decoder: []DecoderConfig{},
	}
}

// Clone returns a deep copy that shares no slices with p.
func (p Preferences) Clone() Preferences {
	cp := p
	cp.General.FontFamily = cloneStrings(p.General.FontFamily)
	cp.Editor.FontFamily = cloneStrings(p.Editor.FontFamily)
	cp.CLI.FontFamily = cloneStrings(p.CLI.FontFamily)
	if p.Decoder != nil {
		cp.Decoder = make([]DecoderConfig, len(p.Decoder))
		for i, d := range p.Decoder {
			cp.Decoder[i] = d.Clone()
		}
	}
	return cp
}

// Clone returns a deep copy of the decoder configuration.
func (d DecoderConfig) Clone() DecoderConfig {
	cp := d
	cp.EncodeArgs = cloneStrings(d.EncodeArgs)
	cp.DecodeArgs = cloneStrings(d.DecodeArgs)
	return cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Persistence stores the preference tree. LoadPreferences may return a
// partial document; missing paths keep their in-memory values.
type Persistence interface {
	LoadPreferences(ctx context.Context) (json.RawMessage, error)
	SavePreferences(ctx context.Context, prefs Preferences) error
	RestoreDefaults(ctx context.Context) (Preferences, error)
}

type FontCatalog interface {
	ListFonts(ctx context.Context) ([]FontItem, error)
}

type DecoderCatalog interface {
	ListBuiltIn(ctx context.Context) ([]BuiltInDecoder, error)
}

type UpdateService interface {
	CheckForUpdate(ctx context.Context) (CheckResult, error)
}

// OSTheme reports the operating system colour scheme. It may change at any
// time, so callers read it on every use.
type OSTheme interface {
	Current() Theme
}

// Navigator opens a URL outside the application.
type Navigator interface {
	OpenExternal(url string)
}
