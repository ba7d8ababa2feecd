package app

import (
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyboardStep 方向键每帧移动目标的距离
const keyboardStep = 6.0

// EbitenInput 读取鼠标、触摸和键盘
//
// 鼠标按住或触摸时目标为指针的横坐标；
// 否则方向键推动一个虚拟目标。
type EbitenInput struct {
	target     float64
	hasTarget  bool
	touchIDs   []ebiten.TouchID
	specialReq bool
}

// NewEbitenInput 创建输入协作方，虚拟目标初始位于屏幕中央
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{target: config.CenterX}
}

// Poll 每帧在关卡更新之前调用一次
func (in *EbitenInput) Poll() {
	in.hasTarget = false
	in.specialReq = inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyX) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	pressed, x, ids := utils.PointerState(in.touchIDs)
	in.touchIDs = ids
	// 第二根手指点击发动 CA
	if utils.ExtraTouchJustPressed(ids) {
		in.specialReq = true
	}
	if pressed {
		in.set(float64(x))
		return
	}
	if utils.IsMobile() {
		return
	}
	if dir := utils.KeyAxis(); dir != 0 {
		in.set(in.target + float64(dir)*keyboardStep)
	}
}

func (in *EbitenInput) set(x float64) {
	if x < 0 {
		x = 0
	}
	if x > config.ScreenWidth {
		x = config.ScreenWidth
	}
	in.target = x
	in.hasTarget = true
}

// TargetX 实现 game.InputSource
func (in *EbitenInput) TargetX() (float64, bool) {
	return in.target, in.hasTarget
}

// SpecialPressed 实现 game.InputSource
func (in *EbitenInput) SpecialPressed() bool {
	return in.specialReq
}

// Reset 关卡切换时把虚拟目标放回中央
func (in *EbitenInput) Reset() {
	in.target = config.CenterX
	in.hasTarget = false
	in.specialReq = false
}
