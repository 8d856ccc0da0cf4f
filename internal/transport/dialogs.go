package transport

import (
	"context"
	"runtime"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

type dialogsHandler struct {
	ctx context.Context
}

func NewDialogsHandler(ctx context.Context) DialogHandler {
	return &dialogsHandler{
		ctx: ctx,
	}
}

// SelectExecutable asks for the program backing a custom decoder.
func (h *dialogsHandler) SelectExecutable(title string) (string, error) {
	return wailsruntime.OpenFileDialog(h.ctx, wailsruntime.OpenDialogOptions{
		Title:   title,
		Filters: executableFilters(runtime.GOOS),
	})
}

func (h *dialogsHandler) OpenFile(filePath string) error {
	wailsruntime.BrowserOpenURL(h.ctx, "file://"+filePath)
	return nil
}

func executableFilters(goos string) []wailsruntime.FileFilter {
	if goos == "windows" {
		return []wailsruntime.FileFilter{
			{DisplayName: "Executables (*.exe;*.bat;*.cmd)", Pattern: "*.exe;*.bat;*.cmd"},
			{DisplayName: "All Files (*.*)", Pattern: "*.*"},
		}
	}
	return nil
}
