package systems

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/types"
	"github.com/sirupsen/logrus"
)

const (
	// soliderAFollow SoliderA 每帧向玩家X靠拢的比例
	soliderAFollow = 0.005
	// soliderBSideSpeed SoliderB 水平移动速度（像素/帧）
	soliderBSideSpeed = 1.0
)

// EnemySystem 杂兵 AI：移动方式和定时射击
type EnemySystem struct {
	em        *ecs.EntityManager
	clock     *SimulationClock
	lifecycle *LifecycleSystem
	state     *game.SimulationState
	bullets   *entities.BulletFactory
	log       *logrus.Entry
}

// NewEnemySystem 创建杂兵系统
func NewEnemySystem(em *ecs.EntityManager, clock *SimulationClock, lifecycle *LifecycleSystem,
	state *game.SimulationState, bullets *entities.BulletFactory) *EnemySystem {
	return &EnemySystem{
		em:        em,
		clock:     clock,
		lifecycle: lifecycle,
		state:     state,
		bullets:   bullets,
		log:       logger.For("EnemySystem"),
	}
}

// Update 处理一帧杂兵逻辑
func (s *EnemySystem) Update() {
	if s.clock.IsFrozen() {
		return
	}
	playerX, playerY, hasPlayer := s.playerPos()

	for _, id := range ecs.GetEntitiesWith2[*components.EnemyComponent, *components.PositionComponent](s.em) {
		if !s.lifecycle.IsAlive(id) {
			continue
		}
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)

		switch enemy.Movement {
		case components.MovementSoliderA:
			if hasPlayer && pos.Y >= config.ScreenHeight/1.5 {
				pos.X += (playerX - pos.X) * soliderAFollow
			}
		case components.MovementSoliderB:
			if pos.Y >= config.ScreenHeight/3 {
				pos.X += enemy.SideDir * soliderBSideSpeed
			}
		}

		s.updateShooting(id, enemy, pos, playerX, playerY, hasPlayer)
	}
}

// CanShoot 敌人在该位置是否可以射击
// 障碍物不射击；进入画面前和接近画面底部时停止射击
func CanShoot(enemy *components.EnemyComponent, y float64) bool {
	if enemy.Obstacle || enemy.ShootInterval <= 0 {
		return false
	}
	return y >= 0 && y <= config.EnemyShootCutoff
}

func (s *EnemySystem) updateShooting(id ecs.EntityID, enemy *components.EnemyComponent, pos *components.PositionComponent,
	playerX, playerY float64, hasPlayer bool) {
	enemy.ShootCounter++
	if !CanShoot(enemy, pos.Y) || enemy.ShootCounter%enemy.ShootInterval != 0 {
		return
	}
	if enemy.BulletTemplate == "" {
		return
	}

	angle := entities.AngleDown
	if tmpl, ok := s.bullets.Template(enemy.BulletTemplate); ok && tmpl.Aimed && hasPlayer {
		angle = entities.AngleTo(pos.X, pos.Y, playerX, playerY)
	}
	_, err := s.bullets.Spawn(entities.BulletSpec{
		Template: enemy.BulletTemplate,
		Owner:    types.RoleEnemy,
		OwnerID:  id,
		X:        pos.X,
		Y:        pos.Y,
		Angle:    angle,
	})
	if err != nil {
		s.log.WithError(err).WithField("bullet", enemy.BulletTemplate).Warn("enemy bullet spawn failed")
	}
}

func (s *EnemySystem) playerPos() (x, y float64, ok bool) {
	if !s.lifecycle.IsAlive(s.state.PlayerID) {
		return 0, 0, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, s.state.PlayerID)
	if !ok {
		return 0, 0, false
	}
	return pos.X, pos.Y, true
}
