package main

import (
	"embed"
	"os"
	goruntime "runtime"

	"deskprefs/internal/application"
	"deskprefs/internal/common"
	"deskprefs/internal/config"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

var version = "0.0.0"

func main() {
	cfg := config.New(version)

	// Create an instance of the app structure
	app, err := application.NewApp(cfg)
	if err != nil {
		cfg.Logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	windowWidth, windowHeight, maximised := app.WindowSize()
	windowStartState := options.Normal
	if maximised {
		windowStartState = options.Maximised
	}

	appMenu := menu.NewMenu()
	if goruntime.GOOS == "darwin" {
		appMenu.Append(menu.AppMenu())
		appMenu.Append(menu.EditMenu())
		appMenu.Append(menu.WindowMenu())
	}

	// Create application with options
	err = wails.Run(&options.App{
		Title:            cfg.AppName,
		Width:            windowWidth,
		Height:           windowHeight,
		MinWidth:         common.MinWindowWidth,
		MinHeight:        common.MinWindowHeight,
		WindowStartState: windowStartState,
		Menu:             appMenu,

		AssetServer: &assetserver.Options{
			Assets: assets,
		},

		OnStartup:  app.OnStartup,
		OnShutdown: app.OnShutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
