package systems

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/types"
	"github.com/decker502/shmup/pkg/utils"
	"github.com/sirupsen/logrus"
)

// PlayerSystem 玩家移动、自动射击和状态计时
type PlayerSystem struct {
	em        *ecs.EntityManager
	clock     *SimulationClock
	lifecycle *LifecycleSystem
	state     *game.SimulationState
	input     game.InputSource
	audio     game.AudioPlayer
	bullets   *entities.BulletFactory
	shoot     map[string]string
	log       *logrus.Entry
}

// NewPlayerSystem 创建玩家系统
func NewPlayerSystem(em *ecs.EntityManager, clock *SimulationClock, lifecycle *LifecycleSystem,
	state *game.SimulationState, catalog game.Catalog, bullets *entities.BulletFactory,
	input game.InputSource, audio game.AudioPlayer) *PlayerSystem {
	return &PlayerSystem{
		em:        em,
		clock:     clock,
		lifecycle: lifecycle,
		state:     state,
		input:     input,
		audio:     audio,
		bullets:   bullets,
		shoot:     catalog.PlayerTemplate().Shoot,
		log:       logger.For("PlayerSystem"),
	}
}

// Update 处理一帧玩家逻辑
func (s *PlayerSystem) Update() {
	if s.clock.IsFrozen() {
		return
	}
	id := s.state.PlayerID
	if !s.lifecycle.IsAlive(id) {
		return
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.em, id)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return
	}

	if x, ok := s.input.TargetX(); ok {
		player.TargetX = utils.Clamp(x, 0, config.ScreenWidth)
	}
	s.move(player, pos)
	s.tickTimers(id, player)
	s.updateShooting(id, player, pos)
}

// move 以固定速度向目标X移动，不越过目标
func (s *PlayerSystem) move(player *components.PlayerComponent, pos *components.PositionComponent) {
	dx := player.TargetX - pos.X
	step := player.Speed
	if dx > step {
		dx = step
	} else if dx < -step {
		dx = -step
	}
	pos.X = utils.Clamp(pos.X+dx, 0, config.ScreenWidth)
}

func (s *PlayerSystem) tickTimers(id ecs.EntityID, player *components.PlayerComponent) {
	if player.InvulnFrames > 0 {
		player.InvulnFrames--
		if player.InvulnFrames == 0 {
			if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id); ok && anim.Current == "damage" {
				anim.Current = "idle"
			}
		}
	}
	if player.BarrierFrames > 0 {
		player.BarrierFrames--
		if player.BarrierFrames == 0 {
			s.audio.Play(game.CueBarrierEnd)
			s.log.Debug("barrier expired")
		}
	}
}

// ShootInterval 当前射击模式下的射击间隔帧数
// 基础间隔来自子弹模板，减去加速值；结果 <= 0 时每帧射击
func (s *PlayerSystem) ShootInterval(player *components.PlayerComponent) int {
	interval := 1
	if tmpl, ok := s.bullets.Template(s.shoot[player.ShootMode.String()]); ok {
		interval = tmpl.Interval
	}
	interval -= player.SpeedBoost
	if interval < 1 {
		interval = 1
	}
	return interval
}

func (s *PlayerSystem) updateShooting(id ecs.EntityID, player *components.PlayerComponent, pos *components.PositionComponent) {
	player.ShootCounter++
	if player.ShootCounter < s.ShootInterval(player) {
		return
	}
	player.ShootCounter = 0

	key, ok := s.shoot[player.ShootMode.String()]
	if !ok {
		s.log.WithField("mode", player.ShootMode).Warn("no bullet for shoot mode")
		return
	}
	y := pos.Y
	if col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id); ok {
		_, y, _, _ = col.WorldRect(pos.X, pos.Y)
	}

	angles := []float64{entities.AngleUp}
	if player.ShootMode == types.ShootThreeWay {
		angles = []float64{
			entities.AngleUp - config.ThreeWaySpread,
			entities.AngleUp,
			entities.AngleUp + config.ThreeWaySpread,
		}
	}
	for _, angle := range angles {
		_, err := s.bullets.Spawn(entities.BulletSpec{
			Template: key,
			Owner:    types.RolePlayer,
			OwnerID:  id,
			X:        pos.X,
			Y:        y,
			Angle:    angle,
		})
		if err != nil {
			s.log.WithError(err).Warn("player bullet spawn failed")
			return
		}
	}
}
