package main

import (
	"flag"
	"os"

	"github.com/decker502/shmup/pkg/app"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/embedded"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	stageFlag   = flag.Int("stage", 0, "起始关卡索引（0 开始）")
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	catalogPath = flag.String("catalog", "", "属性目录文件，默认使用内置目录")
	watch       = flag.Bool("watch", false, "监视 --catalog 文件，修改后在下一关生效")
	seed        = flag.Int64("seed", 1, "随机种子")
)

func main() {
	flag.Parse()
	logger.Init(*verbose)
	log := logger.For("main")

	embedded.Init(dataFS)

	var (
		catalog *config.Catalog
		err     error
	)
	if *catalogPath != "" {
		catalog, err = config.LoadCatalog(*catalogPath)
	} else {
		catalog, err = config.LoadEmbeddedCatalog()
	}
	if err != nil {
		log.WithError(err).Error("catalog load failed")
		os.Exit(1)
	}
	if *watch && *catalogPath == "" {
		log.Warn("--watch requires --catalog, ignoring")
	}

	settings, scores := app.OpenStorage(app.AppName)

	gameApp, err := app.NewApp(app.Config{
		Stage:       *stageFlag,
		Seed:        *seed,
		CatalogPath: *catalogPath,
		Watch:       *watch,
	}, catalog, settings, scores)
	if err != nil {
		log.WithError(err).Error("game init failed")
		os.Exit(1)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.ScreenWidth*app.WindowScale, config.ScreenHeight*app.WindowScale)
	ebiten.SetWindowTitle("Shmup")
	ebiten.SetTPS(config.TicksPerSecond)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(settings.GetSettings().Fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.WithError(err).Error("game exited with error")
		os.Exit(1)
	}
}
