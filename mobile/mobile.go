//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前需要把 data/catalog.yaml
// 复制到 mobile/data/ 下：
//
//	mkdir -p mobile/data && cp data/catalog.yaml mobile/data/
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.shmup -o build/android/shmup.aar -v ./mobile
package mobile

import (
	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/shmup/pkg/app"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/embedded"
	"github.com/decker502/shmup/pkg/logger"
)

func init() {
	logger.Init(false)
	log := logger.For("mobile")

	embedded.Init(dataFS)
	catalog, err := config.LoadEmbeddedCatalog()
	if err != nil {
		log.WithError(err).Fatal("catalog load failed")
	}

	settings, scores := app.OpenStorage(app.AppName)
	gameApp, err := app.NewApp(app.Config{Seed: 1}, catalog, settings, scores)
	if err != nil {
		log.WithError(err).Fatal("game init failed")
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
