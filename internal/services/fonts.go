package services

import (
	"strconv"
	"strings"

	domain "deskprefs/internal/domain/preferences"

	"github.com/samber/lo"
)

// Surface identifies where a font is rendered.
type Surface int

const (
	SurfaceGeneral Surface = iota
	SurfaceEditor
	SurfaceCLI
)

// Fallback families used when no family is configured. The general UI has
// none and inherits the platform default.
const (
	EditorFallbackFamily = "monaco"
	CLIFallbackFamily    = "Courier New"
)

// FontStyle is a CSS font declaration for the UI surfaces.
type FontStyle struct {
	FontSize   string `json:"fontSize"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// TermFont is the font declaration for the terminal surface, which takes a
// plain size.
type TermFont struct {
	FontSize   int    `json:"fontSize"`
	FontFamily string `json:"fontFamily"`
}

// ResolveFontFamily quotes each family name and joins them with ",". An
// empty list resolves to the surface fallback.
func ResolveFontFamily(surface Surface, families []string) string {
	names := lo.Filter(families, func(f string, _ int) bool {
		return strings.TrimSpace(f) != ""
	})
	if len(names) == 0 {
		return fallbackFamily(surface)
	}
	quoted := lo.Map(names, func(f string, _ int) string {
		return strconv.Quote(f)
	})
	return strings.Join(quoted, ",")
}

// ResolveFontSize applies the default size for surfaces that have one.
func ResolveFontSize(surface Surface, size int) int {
	if surface != SurfaceGeneral && size <= 0 {
		return domain.DefaultFontSize
	}
	return size
}

// ResolveCSSFont computes the font style of a UI surface.
func ResolveCSSFont(surface Surface, families []string, size int) FontStyle {
	return FontStyle{
		FontSize:   strconv.Itoa(ResolveFontSize(surface, size)) + "px",
		FontFamily: ResolveFontFamily(surface, families),
	}
}

// ResolveTermFont computes the font of the command-line surface.
func ResolveTermFont(families []string, size int) TermFont {
	return TermFont{
		FontSize:   ResolveFontSize(SurfaceCLI, size),
		FontFamily: ResolveFontFamily(SurfaceCLI, families),
	}
}

func fallbackFamily(surface Surface) string {
	switch surface {
	case SurfaceEditor:
		return EditorFallbackFamily
	case SurfaceCLI:
		return CLIFallbackFamily
	default:
		return ""
	}
}
