package services

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"deskprefs/internal/common"
	domain "deskprefs/internal/domain/preferences"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"golang.org/x/image/font/sfnt"
)

var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// FontScanner lists installed fonts by reading the family name of every font
// file under a set of directories.
type FontScanner struct {
	dirs   []string
	logger *slog.Logger
}

// NewFontScanner creates a scanner over dirs. With no dirs it scans the
// platform font directories.
func NewFontScanner(logger *slog.Logger, dirs ...string) *FontScanner {
	if len(dirs) == 0 {
		dirs = DefaultFontDirs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FontScanner{dirs: dirs, logger: logger}
}

// DefaultFontDirs returns the system and user font directories of the
// running platform.
func DefaultFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/System/Library/Fonts",
			"/Library/Fonts",
			filepath.Join(home, "Library", "Fonts"),
		}
	case "windows":
		dirs := []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	default:
		return []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, ".fonts"),
		}
	}
}

// ListFonts scans the font directories concurrently and returns one entry
// per family, sorted by name.
func (s *FontScanner) ListFonts(ctx context.Context) ([]domain.FontItem, error) {
	files := s.fontFiles(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []domain.FontItem{}, nil
	}

	maxConcurrency := runtime.NumCPU()
	if maxConcurrency > common.MaxConcurrencyLimit {
		maxConcurrency = common.MaxConcurrencyLimit
	}
	pool, err := ants.NewPool(maxConcurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	items := make([]domain.FontItem, len(files))
	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		index, file := i, path
		err := pool.Submit(func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
			}
			items[index] = domain.FontItem{Name: familyName(file), Path: file}
		})
		if err != nil {
			wg.Done()
			s.logger.Warn("Failed to submit font task", "file", file, "error", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fonts := lo.UniqBy(lo.Filter(items, func(f domain.FontItem, _ int) bool {
		return f.Name != ""
	}), func(f domain.FontItem) string {
		return f.Name
	})
	sort.Slice(fonts, func(i, j int) bool {
		return strings.ToLower(fonts[i].Name) < strings.ToLower(fonts[j].Name)
	})

	s.logger.Debug("Scanned fonts", "files", len(files), "families", len(fonts))
	return fonts, nil
}

func (s *FontScanner) fontFiles(ctx context.Context) []string {
	var files []string
	for _, dir := range s.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir {
					return fs.SkipDir
				}
				return nil
			}
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if !d.IsDir() && fontExtensions[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			s.logger.Debug("Skipping font directory", "dir", dir, "error", err)
		}
	}
	return files
}

// familyName reads the family name of the first face in a font file,
// falling back to the file name.
func familyName(path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	var f *sfnt.Font
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		c, err := sfnt.ParseCollection(data)
		if err != nil || c.NumFonts() == 0 {
			return fallback
		}
		if f, err = c.Font(0); err != nil {
			return fallback
		}
	default:
		if f, err = sfnt.Parse(data); err != nil {
			return fallback
		}
	}

	var buf sfnt.Buffer
	for _, id := range []sfnt.NameID{sfnt.NameIDTypographicFamily, sfnt.NameIDFamily} {
		if name, err := f.Name(&buf, id); err == nil && strings.TrimSpace(name) != "" {
			return name
		}
	}
	return fallback
}
