// Package app 把关卡模拟接到 ebiten 上运行
//
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
// App 持有渲染、音频和输入协作方，在关卡结束后切换到下一关或续关。
package app

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/stage"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
)

// WindowScale 窗口相对逻辑画面的放大倍数
const WindowScale = 2

// ResultDelayFrames 结算画面停留的帧数
var ResultDelayFrames = config.Seconds(3)

var background = color.RGBA{0x10, 0x10, 0x20, 0xff}

// Config 定义应用启动配置
type Config struct {
	// Stage 起始关卡索引
	Stage int
	// Seed 随机种子，每关在此基础上偏移
	Seed int64
	// CatalogPath 属性目录文件，为空表示使用嵌入的目录
	CatalogPath string
	// Watch 监视 CatalogPath 所在目录，文件变化后在下一关开始时生效
	Watch bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg      Config
	catalog  *config.Catalog
	pending  *config.Catalog // 热重载得到的目录，下一关生效
	settings *game.SettingsManager
	scores   *game.HighScoreManager

	audio    *CueAudio
	input    *EbitenInput
	renderer *DebugRenderer
	hud      *HUD
	watcher  *config.CatalogWatcher

	stage        *stage.Stage
	continues    int
	resultFrames int
	paused       bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数

	log *logrus.Entry
}

// NewApp 创建并初始化游戏应用
//
// 参数：
//   - cfg: 启动配置
//   - catalog: 已校验的属性目录
//   - settings: 设置管理器
//   - scores: 最高分管理器
//
// 返回：
//   - *App: 已载入起始关卡的应用
//   - error: 关卡创建或目录监视失败
func NewApp(cfg Config, catalog *config.Catalog, settings *game.SettingsManager, scores *game.HighScoreManager) (*App, error) {
	if catalog == nil {
		return nil, stage.ErrNoCatalog
	}
	a := &App{
		cfg:      cfg,
		catalog:  catalog,
		settings: settings,
		scores:   scores,
		audio:    NewCueAudio(audio.NewContext(SampleRate), settings),
		input:    NewEbitenInput(),
		renderer: NewDebugRenderer(catalog),
		hud:      NewHUD(),
		log:      logger.For("App"),
	}
	a.renderer.SetShowHitRects(settings.GetSettings().ShowHitRects)

	if cfg.Watch && cfg.CatalogPath != "" {
		w, err := config.NewCatalogWatcher(filepath.Dir(cfg.CatalogPath))
		if err != nil {
			return nil, fmt.Errorf("catalog watcher: %w", err)
		}
		a.watcher = w
		a.log.WithField("path", cfg.CatalogPath).Info("watching catalog")
	}

	if err := a.startStage(WrapStage(cfg.Stage, catalog.StageCount())); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// StageSeed 某一关某次续关使用的随机种子
func StageSeed(base int64, index, continues int) int64 {
	return base + int64(index)*1000 + int64(continues)
}

// WrapStage 把关卡索引限制在目录范围内，越界回到第一关
func WrapStage(index, count int) int {
	if count <= 0 || index < 0 || index >= count {
		return 0
	}
	return index
}

// NextStage 根据结算结果决定下一关
//
// 返回：
//   - index: 下一关索引，通关最后一关后回到第一关
//   - continues: 续关次数，失败时加一，通关后保持
func NextStage(outcome game.Outcome, index, continues, count int) (int, int) {
	switch outcome {
	case game.OutcomeCleared:
		return WrapStage(index+1, count), continues
	case game.OutcomeGameOver, game.OutcomeTimeOver:
		return index, continues + 1
	default:
		return index, continues
	}
}

func (a *App) startStage(index int) error {
	if a.stage != nil {
		a.stage.Close()
		a.stage = nil
	}
	if a.pending != nil {
		a.catalog = a.pending
		a.pending = nil
		a.renderer.SetCatalog(a.catalog)
		a.log.Info("reloaded catalog applied")
	}
	a.input.Reset()

	st, err := stage.New(index, a.continues, StageSeed(a.cfg.Seed, index, a.continues), game.Collaborators{
		Renderer:   a.renderer,
		Audio:      a.audio,
		Input:      a.input,
		Catalog:    a.catalog,
		HighScores: a.scores,
	})
	if err != nil {
		return fmt.Errorf("start stage %d: %w", index, err)
	}
	a.stage = st
	a.resultFrames = 0
	a.log.WithFields(logrus.Fields{"stage": index, "continues": a.continues}).Info("stage started")
	return nil
}

// Update 更新游戏逻辑，每个 tick 调用一次
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.ScreenWidth*WindowScale, config.ScreenHeight*WindowScale)
			a.pendingWindowSizeReset = false
		}
	}
	a.handleDebugKeys()
	a.pollWatcher()

	if a.paused {
		return nil
	}

	if a.stage.Finished() {
		a.resultFrames++
		if a.resultFrames < ResultDelayFrames {
			return nil
		}
		res := a.stage.Result()
		next, continues := NextStage(res.Outcome, res.Stage, a.continues, a.catalog.StageCount())
		a.continues = continues
		return a.startStage(next)
	}

	a.input.Poll()
	return a.stage.Update()
}

func (a *App) handleDebugKeys() {
	changed := false
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.renderer.SetShowHitRects(a.settings.ToggleHitRects())
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		if a.settings.ToggleSound() {
			a.audio.Play(a.stage.Music())
		} else {
			a.audio.StopAll()
		}
		changed = true
	}
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if a.settings.ToggleFullscreen() {
			ebiten.SetFullscreen(true)
		} else {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		}
		changed = true
	}
	if changed {
		if err := a.settings.Save(); err != nil {
			a.log.WithError(err).Warn("failed to save settings")
		}
	}
}

// pollWatcher 非阻塞地读取目录变化，解析成功的目录留到下一关使用
func (a *App) pollWatcher() {
	if a.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-a.watcher.Events:
			if !ok {
				a.watcher = nil
				return
			}
			if filepath.Clean(path) != filepath.Clean(a.cfg.CatalogPath) {
				continue
			}
			cat, err := config.LoadCatalog(a.cfg.CatalogPath)
			if err != nil {
				a.log.WithError(err).Warn("catalog reload rejected")
				continue
			}
			a.pending = cat
			a.log.Info("catalog reloaded, applying at next stage")
		case err, ok := <-a.watcher.Errors:
			if ok {
				a.log.WithError(err).Warn("catalog watcher error")
			}
		default:
			return
		}
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	a.renderer.Draw(screen)
	a.hud.Draw(screen, Snapshot(a.stage, a.scores.HighScore()))
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

// Close 销毁当前关卡并停止目录监视
func (a *App) Close() {
	if a.stage != nil {
		a.stage.Close()
		a.stage = nil
	}
	a.audio.StopAll()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close catalog watcher")
		}
		a.watcher = nil
	}
}
