// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 触摸优先，其次鼠标左键
//
// 参数：
//   - touches: 可复用的触摸 ID 缓冲
//
// 返回：
//   - pressed: 是否有触摸或左键按下
//   - x: 指针横坐标
//   - ids: 当前所有触摸 ID
func PointerState(touches []ebiten.TouchID) (pressed bool, x int, ids []ebiten.TouchID) {
	ids = ebiten.AppendTouchIDs(touches[:0])
	if len(ids) > 0 {
		x, _ = ebiten.TouchPosition(ids[0])
		return true, x, ids
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, _ = ebiten.CursorPosition()
		return true, x, ids
	}
	return false, 0, ids
}

// ExtraTouchJustPressed 已有一根手指按住时，另一根手指是否刚刚按下
func ExtraTouchJustPressed(ids []ebiten.TouchID) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		if id != ids[0] {
			return true
		}
	}
	return false
}

// KeyAxis 左右方向键（及 A/D）合成的方向：-1、0 或 1
func KeyAxis() int {
	left := ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA)
	right := ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD)
	return axis(left, right)
}

func axis(neg, pos bool) int {
	switch {
	case neg && !pos:
		return -1
	case pos && !neg:
		return 1
	default:
		return 0
	}
}
