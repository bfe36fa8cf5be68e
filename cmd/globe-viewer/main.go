package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
	"github.com/sudorandom/route-globe/pkg/config"
	"github.com/sudorandom/route-globe/pkg/globeengine"
	"github.com/sudorandom/route-globe/pkg/logging"
)

var cli struct {
	Config       string        `help:"YAML config file." type:"path" env:"GLOBE_CONFIG"`
	Headless     bool          `help:"Run the timeline without a window."`
	For          time.Duration `help:"Stop after this long (headless only, 0 runs until interrupted)."`
	Width        int           `help:"Internal rendering width."`
	Height       int           `help:"Internal rendering height."`
	WindowWidth  int           `help:"Initial window width." default:"1280"`
	WindowHeight int           `help:"Initial window height." default:"800"`
	TPS          int           `name:"tps" help:"Ticks per second."`
	Capture      string        `help:"Directory to write PNG frames to." type:"path"`
	Cities       string        `help:"Destinations GeoJSON file or URL. Overrides data.cities (GLOBE_DATA__CITIES); the default data/citiesfilter.json is not shipped." placeholder:"PATH"`
	Seed         int64         `help:"Seed for the route choice sequence."`
	LogLevel     string        `help:"Log level (trace, debug, info, warn, error)."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("globe-viewer"),
		kong.Description("Interactive globe of routes from a home city."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("invalid flags")
	}
	logging.Init(cfg.Logging)

	data, err := globeengine.LoadData(cfg.Data)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load datasets")
	}

	engine := globeengine.NewEngine(cfg, data, nil)
	engine.Focus()

	if cfg.Render.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if cli.For > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cli.For)
			defer cancel()
		}
		if err := engine.RunHeadless(ctx); err != nil {
			logging.Fatal().Err(err).Msg("headless run failed")
		}
		return
	}

	ebiten.SetTPS(cfg.Render.TPS)
	ebiten.SetWindowSize(cli.WindowWidth, cli.WindowHeight)
	ebiten.SetWindowTitle(cfg.Render.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(engine); err != nil {
		logging.Fatal().Err(err).Msg("game loop exited")
	}
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cfg *config.Config) {
	if cli.Headless {
		cfg.Render.Headless = true
	}
	if cli.Width > 0 {
		cfg.Render.Width = cli.Width
	}
	if cli.Height > 0 {
		cfg.Render.Height = cli.Height
	}
	if cli.TPS > 0 {
		cfg.Render.TPS = cli.TPS
	}
	if cli.Capture != "" {
		cfg.Render.CaptureDir = cli.Capture
	}
	if cli.Cities != "" {
		cfg.Data.Cities = cli.Cities
	}
	if cli.Seed != 0 {
		cfg.Flights.Seed = cli.Seed
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
}
