package systems

import (
	"math"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/types"
	"github.com/sirupsen/logrus"
)

// SpecialAttackSystem CA（全屏必杀）
//
// 演出：清除玩家子弹并冻结 -> 切入 1.9 秒 -> 横扫 0.3 秒
// -> 逐个溅射画面内的敌人 -> 1 秒后解除冻结。
type SpecialAttackSystem struct {
	em         *ecs.EntityManager
	clock      *SimulationClock
	scheduler  *StepScheduler
	lifecycle  *LifecycleSystem
	collision  *CollisionSystem
	dispatcher *event.Dispatcher
	state      *game.SimulationState
	input      game.InputSource
	audio      game.AudioPlayer
	damage     int
	log        *logrus.Entry
}

// NewSpecialAttackSystem 创建 CA 系统
//
// 参数:
//   - damage: 每个目标受到的溅射伤害
func NewSpecialAttackSystem(em *ecs.EntityManager, clock *SimulationClock, scheduler *StepScheduler,
	lifecycle *LifecycleSystem, collision *CollisionSystem, dispatcher *event.Dispatcher,
	state *game.SimulationState, input game.InputSource, audio game.AudioPlayer, damage int) *SpecialAttackSystem {
	return &SpecialAttackSystem{
		em:         em,
		clock:      clock,
		scheduler:  scheduler,
		lifecycle:  lifecycle,
		collision:  collision,
		dispatcher: dispatcher,
		state:      state,
		input:      input,
		audio:      audio,
		damage:     damage,
		log:        logger.For("SpecialAttackSystem"),
	}
}

// Update 读取输入，按下时尝试发动
func (s *SpecialAttackSystem) Update() {
	if s.input.SpecialPressed() {
		s.Fire()
	}
}

// Fire 发动 CA
//
// 返回:
//   - bool: 是否发动成功（需要 ready 且未在发动中，玩家存活，世界未冻结）
func (s *SpecialAttackSystem) Fire() bool {
	g := &s.state.Gauge
	if !g.Ready || g.Firing || s.clock.IsFrozen() || !s.lifecycle.IsAlive(s.state.PlayerID) {
		return false
	}
	g.Firing = true
	g.Value = 0
	g.Ready = false

	purged := s.lifecycle.PurgeRole(types.RolePlayerBullet)
	s.clock.Freeze(FreezeSpecial)
	s.log.WithField("purged", purged).Info("special fired")
	s.dispatcher.Publish(event.SpecialFiredEvent{})

	var targets []ecs.EntityID
	hit := 0
	splash := func(progress float64) {
		elapsed := int(math.Round(progress * float64(config.SpecialRecoverFrames)))
		for hit < len(targets) && (progress >= 1 || hit*config.SplashStaggerFrames < elapsed) {
			s.lifecycle.ApplyDamage(targets[hit], s.damage, types.HitNormal)
			hit++
		}
	}

	s.scheduler.Start(Sequence{
		Name:      "special",
		Cinematic: true,
		Steps: []Step{
			{
				Name:   "cut_in",
				Frames: config.CutInFrames,
				Enter: func() {
					s.audio.Play(game.CueSpecial)
					s.setAnim(s.state.PlayerID, "ca")
				},
			},
			{Name: "sweep", Frames: config.SweepFrames},
			{
				Name:   "splash",
				Frames: config.SpecialRecoverFrames,
				Enter: func() {
					targets = s.Targets()
					s.setAnim(s.state.PlayerID, "idle")
				},
				Update: splash,
			},
		},
		OnComplete: func() {
			s.finish()
			s.dispatcher.Publish(event.SpecialDoneEvent{Targets: len(targets)})
		},
		OnAbort: s.finish,
	})
	return true
}

// Targets 当前画面内可见的敌人和 Boss，按实体 ID 排序
func (s *SpecialAttackSystem) Targets() []ecs.EntityID {
	var targets []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.CombatantComponent](s.em) {
		c, _ := ecs.GetComponent[*components.CombatantComponent](s.em, id)
		if !c.Role.IsHostile() || !s.lifecycle.IsAlive(id) {
			continue
		}
		box, ok := s.collision.HitBox(id)
		if !ok || !Overlaps(box.left, box.top, box.right, box.bottom, 0, 0, config.ScreenWidth, config.ScreenHeight) {
			continue
		}
		targets = append(targets, id)
	}
	return targets
}

func (s *SpecialAttackSystem) finish() {
	s.state.Gauge.Firing = false
	s.clock.Release(FreezeSpecial)
}

func (s *SpecialAttackSystem) setAnim(id ecs.EntityID, name string) {
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id); ok {
		anim.Current = name
	}
}
