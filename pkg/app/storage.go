package app

import (
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/utils"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "shmup"

// OpenStorage 打开设置和最高分存储
//
// gdata 打开失败时退化为仅内存模式，游戏仍可运行。
func OpenStorage(appName string) (*game.SettingsManager, *game.HighScoreManager) {
	log := logger.For("App")
	if err := utils.EnsureStorageDir(); err != nil {
		log.WithError(err).Warn("storage directory unavailable")
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.WithError(err).Warn("gdata unavailable, settings and high score will not persist")
		m = nil
	}
	return game.NewSettingsManager(m), game.NewHighScoreManager(m)
}
