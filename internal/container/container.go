package container

import (
	"fmt"
	"log/slog"
	"sync"

	"deskprefs/internal/config"
	"deskprefs/internal/database"
	domain "deskprefs/internal/domain/preferences"
	"deskprefs/internal/services"
)

// Options selects the presentation side of the container. Unset fields fall
// back to headless implementations.
type Options struct {
	Presenter services.Presenter
	Navigator domain.Navigator
	OSTheme   domain.OSTheme
	StoreLock sync.Locker
	FontDirs  []string
}

// Container holds all dependencies for the application
type Container struct {
	config *config.Config
	db     *database.Database
	logger *slog.Logger

	// Services
	store   *services.Store
	checker *services.Checker
	release *services.ReleaseClient
	fonts   *services.FontScanner
}

// New creates a new dependency injection container
func New(cfg *config.Config, opts Options) (*Container, error) {
	db, err := database.NewDatabase(cfg.DatabasePath, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return NewWithDatabase(cfg, db, opts), nil
}

// NewWithDatabase builds the container around an open database.
func NewWithDatabase(cfg *config.Config, db *database.Database, opts Options) *Container {
	c := &Container{
		config: cfg,
		db:     db,
		logger: cfg.Logger,
	}

	c.initServices(opts)
	return c
}

// initServices initializes all services with their dependencies
func (c *Container) initServices(opts Options) {
	if opts.Presenter == nil {
		opts.Presenter = NewLogPresenter(c.logger)
	}
	if opts.Navigator == nil {
		opts.Navigator = NewBrowserNavigator(c.logger)
	}
	if opts.OSTheme == nil {
		opts.OSTheme = StaticTheme(domain.ThemeLight)
	}

	c.fonts = services.NewFontScanner(c.logger, opts.FontDirs...)
	c.release = services.NewReleaseClient(c.config.UpdateURL, c.config.AppVersion, c.config.UpdateTimeout, c.logger)

	c.store = services.NewStore(services.StoreDeps{
		Persistence:    c.db,
		FontCatalog:    c.fonts,
		DecoderCatalog: services.NewBuiltInCatalog(),
		OSTheme:        opts.OSTheme,
		Logger:         c.logger,
	})

	c.checker = services.NewChecker(services.CheckerDeps{
		Store:     c.store,
		StoreLock: opts.StoreLock,
		Service:   c.release,
		Presenter: opts.Presenter,
		Navigator: opts.Navigator,
		Logger:    c.logger,
	})
}

// Store returns the preference store
func (c *Container) Store() *services.Store {
	return c.store
}

// Checker returns the update checker
func (c *Container) Checker() *services.Checker {
	return c.checker
}

// Database returns the persistence backend
func (c *Container) Database() *database.Database {
	return c.db
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// Close releases the database connection.
func (c *Container) Close() error {
	return c.db.Close()
}
