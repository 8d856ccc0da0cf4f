package services

import "testing"

func TestResolveFontFamily(t *testing.T) {
	tests := []struct {
		name     string
		surface  Surface
		families []string
		expected string
	}{
		{"cli empty", SurfaceCLI, nil, CLIFallbackFamily},
		{"editor empty", SurfaceEditor, []string{}, EditorFallbackFamily},
		{"general empty", SurfaceGeneral, nil, ""},
		{"blank names ignored", SurfaceEditor, []string{" ", ""}, EditorFallbackFamily},
		{"single", SurfaceGeneral, []string{"Fira Code"}, `"Fira Code"`},
		{"ordered list", SurfaceCLI, []string{"JetBrains Mono", "Menlo"}, `"JetBrains Mono","Menlo"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveFontFamily(tt.surface, tt.families); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestResolveCSSFont(t *testing.T) {
	style := ResolveCSSFont(SurfaceEditor, nil, 0)
	if style.FontSize != "14px" {
		t.Errorf("Expected editor size to default to 14px, got %s", style.FontSize)
	}
	if style.FontFamily != EditorFallbackFamily {
		t.Errorf("Expected editor fallback family, got %s", style.FontFamily)
	}

	general := ResolveCSSFont(SurfaceGeneral, []string{"Inter"}, 13)
	if general.FontSize != "13px" || general.FontFamily != `"Inter"` {
		t.Errorf("Unexpected general font %+v", general)
	}
}

func TestResolveTermFont(t *testing.T) {
	font := ResolveTermFont(nil, 16)
	if font.FontSize != 16 {
		t.Errorf("Expected raw size 16, got %d", font.FontSize)
	}
	if font.FontFamily != CLIFallbackFamily {
		t.Errorf("Expected CLI fallback family, got %s", font.FontFamily)
	}
}
