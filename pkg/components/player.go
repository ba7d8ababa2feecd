package components

import "github.com/decker502/shmup/pkg/types"

// PlayerComponent 玩家状态
type PlayerComponent struct {
	Speed         float64
	ShootMode     types.ShootMode
	ShootCounter  int
	SpeedBoost    int // 射击间隔减少的帧数
	TargetX       float64
	BarrierFrames int // 剩余护盾帧数
	InvulnFrames  int // 剩余无敌帧数
}

// BarrierActive 护盾是否生效
func (p *PlayerComponent) BarrierActive() bool {
	return p.BarrierFrames > 0
}

// Invulnerable 受伤后的无敌时间内
func (p *PlayerComponent) Invulnerable() bool {
	return p.InvulnFrames > 0
}
