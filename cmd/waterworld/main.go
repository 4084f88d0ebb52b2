// Command waterworld is a small underwater game: steer the fish with the
// arrow keys, pop air bubbles and avoid the swordfish and poison bubbles.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep"
	debugui_ebiten "github.com/plus3/sprout/engine/debugui/ebiten"
	"github.com/plus3/sprout/media"
	"github.com/plus3/sprout/stage"
	"go.uber.org/zap"
)

var (
	configPath    = flag.String("config", "", "path to a TOML config file")
	assetsDir     = flag.String("assets", "assets", "directory holding images/ and audio/")
	debug         = flag.Bool("debug", false, "show the debug overlay at start")
	spawnInterval = flag.Duration("bubbles", 400*time.Millisecond, "interval between bubbles")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfig() *stage.Config {
	cfg := stage.Defaults()
	cfg.Game.Title = "Waterworld 2"
	cfg.Game.Width = 1204
	cfg.Game.Height = 903
	return cfg
}

func run() error {
	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := stage.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *debug {
		cfg.Debug.Enabled = true
	}

	logger, err := stage.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	var player media.Player
	if cfg.Audio.Enabled {
		player, err = media.NewSpeakerPlayer(beep.SampleRate(cfg.Audio.SampleRate), cfg.Audio.Buffer)
		if err != nil {
			logger.Warn("audio disabled", zap.Error(err))
			player = nil
		}
	}

	s := stage.New(*cfg, logger, os.DirFS(*assetsDir), player)
	s.SetOverlay(debugui_ebiten.NewOverlay(cfg.Game.Title, cfg.Game.Width, cfg.Game.Height))
	s.AddScene(titleScene, stage.NewStaticScene(titleSetup{}))
	s.AddScene(levelScene, stage.NewDynamicScene(&levelSetup{spawnInterval: *spawnInterval}))

	logger.Info("starting",
		zap.String("title", cfg.Game.Title),
		zap.Int("width", cfg.Game.Width),
		zap.Int("height", cfg.Game.Height),
		zap.String("assets", *assetsDir),
	)
	return s.Run()
}
