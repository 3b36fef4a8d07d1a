package command

import (
	"github.com/yukibot/yuki/internal/core"
	"github.com/yukibot/yuki/internal/locales"
	"github.com/yukibot/yuki/internal/service/limiter"
	"github.com/yukibot/yuki/internal/service/session"
)

type Deps struct {
	Locales    *locales.Bundle
	Active     *session.ActiveSet
	WaifuAuth  *session.AuthCache
	Downloads  *session.Pending[string]
	Generation *limiter.Window

	Assistant  Resetter
	Images     core.ImageGenerator
	Waifus     WaifuPicker
	Releases   ReleaseSource
	Modules    ModuleCatalog
	Downloader Downloader
	Models     ModelSwitcher

	OwnerID  int64
	MaxBytes int64
}

// NewCommands builds the command set. The waifu command is returned separately
// as well because the assistant triggers it directly.
func NewCommands(d Deps) ([]core.Command, *WaifuCommand) {
	waifu := NewWaifuCommand(d.Waifus, d.WaifuAuth, d.Locales)
	return []core.Command{
		NewStartCommand(d.Locales),
		NewGetYukiCommand(d.Active, d.Locales),
		NewSleepCommand(d.Active, d.Locales),
		NewResetCommand(d.Assistant, d.Locales),
		NewGenCommand(d.Images, d.Generation, d.Locales),
		waifu,
		NewMagiskCommand(d.Releases, d.MaxBytes, d.Locales),
		NewKsuNextCommand(d.Releases, d.MaxBytes, d.Locales),
		NewModulesCommand(d.Modules, d.Locales),
		NewModuleCommand(d.Modules, d.MaxBytes, d.Locales),
		NewQdlCommand(d.Downloader, d.Downloads, d.Locales),
		NewModelCommand(d.Models, d.OwnerID, d.Locales),
	}, waifu
}
