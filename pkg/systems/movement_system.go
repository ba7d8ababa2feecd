package systems

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
)

// MovementSystem 速度积分和出界清理
//
// 追踪弹先悬停 DelayFrames 帧，然后一边下落一边向玩家X靠拢。
// 杂兵、子弹和道具完全离开画面（含边距）后被移除。
type MovementSystem struct {
	em        *ecs.EntityManager
	clock     *SimulationClock
	lifecycle *LifecycleSystem
	state     *game.SimulationState
}

// NewMovementSystem 创建移动系统
func NewMovementSystem(em *ecs.EntityManager, clock *SimulationClock, lifecycle *LifecycleSystem,
	state *game.SimulationState) *MovementSystem {
	return &MovementSystem{
		em:        em,
		clock:     clock,
		lifecycle: lifecycle,
		state:     state,
	}
}

// Update 移动一帧并清理出界实体
//
// 返回:
//   - int: 本帧移除的出界实体数量
func (s *MovementSystem) Update() int {
	if s.clock.IsFrozen() {
		return 0
	}
	playerX, hasPlayer := s.playerX()

	for _, id := range ecs.GetEntitiesWith2[*components.PositionComponent, *components.VelocityComponent](s.em) {
		if !s.lifecycle.IsAlive(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)

		if homing, ok := ecs.GetComponent[*components.HomingComponent](s.em, id); ok {
			if homing.DelayFrames > 0 {
				homing.DelayFrames--
				continue
			}
			if hasPlayer {
				pos.X += (playerX - pos.X) * homing.Factor
			}
			pos.Y += homing.Speed
			continue
		}

		vel, _ := ecs.GetComponent[*components.VelocityComponent](s.em, id)
		pos.X += vel.VX
		pos.Y += vel.VY
	}
	return s.purgeOffscreen()
}

// Offscreen 坐标是否完全离开画面（含边距）
func Offscreen(x, y float64) bool {
	m := config.OffscreenMargin
	return x < -m || x > config.ScreenWidth+m || y < -m || y > config.ScreenHeight+m
}

func (s *MovementSystem) purgeOffscreen() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith2[*components.CombatantComponent, *components.PositionComponent](s.em) {
		c, _ := ecs.GetComponent[*components.CombatantComponent](s.em, id)
		switch c.Role {
		case types.RoleEnemy, types.RolePlayerBullet, types.RoleEnemyBullet, types.RoleItem:
		default:
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
		if Offscreen(pos.X, pos.Y) && s.lifecycle.IsAlive(id) {
			s.lifecycle.Purge(id)
			n++
		}
	}
	return n
}

func (s *MovementSystem) playerX() (float64, bool) {
	if !s.lifecycle.IsAlive(s.state.PlayerID) {
		return 0, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, s.state.PlayerID)
	if !ok {
		return 0, false
	}
	return pos.X, true
}
