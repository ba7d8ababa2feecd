package app

import (
	"fmt"
	"image/color"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/stage"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	hudMargin    = 6.0
	hudLineH     = 14.0
	gaugeBarW    = 80.0
	gaugeBarH    = 6.0
	bossBarH     = 4.0
	overlayAlpha = 0xb0
)

var (
	hudText   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	hudGauge  = color.RGBA{0x40, 0xa0, 0xff, 0xff}
	hudReady  = color.RGBA{0xff, 0xd0, 0x30, 0xff}
	hudBossHP = color.RGBA{0xe0, 0x30, 0x30, 0xff}
	hudFrame  = color.RGBA{0x60, 0x60, 0x60, 0xff}
)

// HUDView 一帧 HUD 需要的全部数据
type HUDView struct {
	Stage      int
	Score      int
	HighScore  int
	Combo      int
	Multiplier int
	Gauge      int
	GaugeReady bool
	PlayerHP   int
	TimerOn    bool
	Seconds    int
	BossHP     int
	BossMaxHP  int
	HasBoss    bool
	Outcome    game.Outcome
	NewRecord  bool
}

// Snapshot 从关卡读取 HUD 数据
func Snapshot(st *stage.Stage, highScore int) HUDView {
	s := st.State()
	v := HUDView{
		Stage:      st.Index(),
		Score:      s.Score,
		HighScore:  highScore,
		Combo:      s.Combo.Count,
		Multiplier: s.Combo.Multiplier(),
		Gauge:      s.Gauge.Value,
		GaugeReady: s.Gauge.Ready,
		TimerOn:    s.Timer.Active,
		Seconds:    s.Timer.Seconds(),
		Outcome:    s.Outcome,
	}
	if hp, _, ok := st.PlayerHealth(); ok {
		v.PlayerHP = hp
	}
	v.BossHP, v.BossMaxHP, v.HasBoss = st.BossHealth()
	if st.Finished() {
		v.NewRecord = st.Result().NewHighScore
	}
	if v.Score > v.HighScore {
		v.HighScore = v.Score
	}
	return v
}

// Lines 左上角的文字行
func (v HUDView) Lines() []string {
	lines := []string{
		fmt.Sprintf("STAGE %d", v.Stage+1),
		fmt.Sprintf("SCORE %d", v.Score),
		fmt.Sprintf("HI %d", v.HighScore),
		fmt.Sprintf("LIFE %d", v.PlayerHP),
	}
	if v.Combo > 0 {
		lines = append(lines, fmt.Sprintf("COMBO %d x%d", v.Combo, v.Multiplier))
	}
	return lines
}

// Banner 结算时屏幕中央的文字，进行中返回空串
func (v HUDView) Banner() string {
	var s string
	switch v.Outcome {
	case game.OutcomeCleared:
		s = "STAGE CLEAR"
	case game.OutcomeGameOver:
		s = "GAME OVER"
	case game.OutcomeTimeOver:
		s = "TIME OVER"
	default:
		return ""
	}
	if v.NewRecord {
		s += "\nNEW RECORD"
	}
	return s
}

// HUD 绘制分数、连击、CA 槽和 Boss 信息
type HUD struct {
	face text.Face
}

// NewHUD 使用内置位图字体创建 HUD
func NewHUD() *HUD {
	return &HUD{face: text.NewGoXFace(basicfont.Face7x13)}
}

// Draw 绘制 HUD
func (h *HUD) Draw(screen *ebiten.Image, v HUDView) {
	for i, line := range v.Lines() {
		h.drawText(screen, line, hudMargin, hudMargin+float64(i)*hudLineH, text.AlignStart, hudText)
	}

	// CA 槽
	gx, gy := float32(hudMargin), float32(config.ScreenHeight-hudMargin-gaugeBarH)
	fill := hudGauge
	if v.GaugeReady {
		fill = hudReady
	}
	vector.DrawFilledRect(screen, gx, gy, gaugeBarW, gaugeBarH, hudFrame, false)
	ratio := float32(v.Gauge) / float32(config.GaugeMax)
	if ratio > 1 {
		ratio = 1
	}
	vector.DrawFilledRect(screen, gx, gy, gaugeBarW*ratio, gaugeBarH, fill, false)
	if v.GaugeReady {
		h.drawText(screen, "CA READY", float64(gx)+gaugeBarW+hudMargin, float64(gy)-4, text.AlignStart, hudReady)
	}

	if v.TimerOn {
		h.drawText(screen, fmt.Sprintf("%02d", v.Seconds), config.ScreenWidth-hudMargin, hudMargin, text.AlignEnd, hudText)
	}
	if v.HasBoss && v.BossMaxHP > 0 {
		w := float32(config.ScreenWidth - 2*hudMargin - 24)
		y := float32(hudMargin + hudLineH*5)
		vector.DrawFilledRect(screen, hudMargin, y, w, bossBarH, hudFrame, false)
		vector.DrawFilledRect(screen, hudMargin, y, w*float32(v.BossHP)/float32(v.BossMaxHP), bossBarH, hudBossHP, false)
	}

	if banner := v.Banner(); banner != "" {
		vector.DrawFilledRect(screen, 0, config.ScreenHeight/2-30, config.ScreenWidth, 60, color.RGBA{0, 0, 0, overlayAlpha}, false)
		h.drawText(screen, banner, config.CenterX, config.ScreenHeight/2-hudLineH, text.AlignCenter, hudText)
	}
}

func (h *HUD) drawText(screen *ebiten.Image, s string, x, y float64, align text.Align, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.PrimaryAlign = align
	op.LineSpacing = hudLineH
	text.Draw(screen, s, h.face, op)
}
