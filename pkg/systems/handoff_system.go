package systems

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/types"
	"github.com/sirupsen/logrus"
)

// HandoffSystem Boss 身份交接（维加 -> 豪鬼）
//
// 流程：冻结世界 -> 原 Boss 淡出 -> 在同一位置生成新 Boss（已交战）
// -> 淡入 -> 停顿 -> 请求切换 BGM（MusicEvent）-> 解除冻结。
// 每个步骤开始前确认当前 Boss 仍是交接中的实体。
type HandoffSystem struct {
	em         *ecs.EntityManager
	clock      *SimulationClock
	scheduler  *StepScheduler
	lifecycle  *LifecycleSystem
	dispatcher *event.Dispatcher
	state      *game.SimulationState
	catalog    game.Catalog

	active bool
	log    *logrus.Entry
}

// NewHandoffSystem 创建交接系统并订阅 BossTransformEvent
func NewHandoffSystem(em *ecs.EntityManager, clock *SimulationClock, scheduler *StepScheduler,
	lifecycle *LifecycleSystem, dispatcher *event.Dispatcher, state *game.SimulationState,
	catalog game.Catalog) *HandoffSystem {
	s := &HandoffSystem{
		em:         em,
		clock:      clock,
		scheduler:  scheduler,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		state:      state,
		catalog:    catalog,
		log:        logger.For("HandoffSystem"),
	}
	dispatcher.Subscribe(event.TypeBossTransform, func(e event.Event) {
		s.onTransform(e.(event.BossTransformEvent))
	})
	return s
}

// Active 交接是否正在进行
func (s *HandoffSystem) Active() bool {
	return s.active
}

func (s *HandoffSystem) onTransform(e event.BossTransformEvent) {
	if s.active || e.Entity != s.state.BossID || !s.lifecycle.IsAlive(e.Entity) {
		return
	}
	s.active = true
	s.clock.Freeze(FreezeHandoff)
	s.log.WithFields(logrus.Fields{"from": e.From, "to": e.To}).Info("boss handoff started")

	current := e.Entity
	failed := false
	valid := func() bool {
		return !failed && current == s.state.BossID && s.lifecycle.IsAlive(current)
	}

	steps := []Step{
		{
			Name:   "fade_out",
			Frames: config.HandoffFadeOutFrames,
			Update: func(progress float64) { s.setAlpha(current, 1-progress) },
		},
		{
			Name: "swap",
			Enter: func() {
				id, err := s.swap(current, e.To)
				if err != nil {
					s.log.WithError(err).Error("handoff spawn failed")
					// 原 Boss 继续战斗，剩余步骤全部放弃
					failed = true
					s.setAlpha(current, 1)
					if boss, ok := ecs.GetComponent[*components.BossComponent](s.em, current); ok {
						boss.Phase = components.BossIdle
						boss.DelayFrames = config.BossLoopDelayFrames
					}
					return
				}
				current = id
			},
		},
		{
			Name:   "fade_in",
			Frames: config.HandoffFadeInFrames,
			Update: func(progress float64) { s.setAlpha(current, progress) },
		},
		{Name: "hold", Frames: config.HandoffSwapFrames},
		{
			Name:  "bgm",
			Enter: func() { s.dispatcher.Publish(event.MusicEvent{Cue: s.bgm(e.To)}) },
		},
	}

	s.scheduler.Start(Sequence{
		Name:      "handoff",
		Cinematic: true,
		Valid:     valid,
		Steps:     steps,
		OnComplete: func() {
			s.log.WithField("boss", current).Info("boss handoff complete")
			s.release()
		},
		OnAbort: func() {
			s.log.Warn("boss handoff aborted")
			s.release()
		},
	})
}

// swap 移除原 Boss 并在原位置生成新 Boss
func (s *HandoffSystem) swap(original ecs.EntityID, to types.BossKind) (ecs.EntityID, error) {
	x, y := config.CenterX, config.BossEngageY
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, original); ok {
		x, y = pos.X, pos.Y
	}
	id, err := entities.NewBoss(s.em, s.catalog, to, x, y, false)
	if err != nil {
		return ecs.InvalidEntity, err
	}
	s.lifecycle.Purge(original)

	boss, _ := ecs.GetComponent[*components.BossComponent](s.em, id)
	boss.Phase = components.BossIdle
	boss.EngageY = y
	boss.DelayFrames = config.BossLoopDelayFrames
	s.setAlpha(id, 0)

	s.state.BossID = id
	s.dispatcher.Publish(event.BossSpawnedEvent{Entity: id, Kind: to})
	return id, nil
}

func (s *HandoffSystem) bgm(kind types.BossKind) string {
	if tmpl, ok := s.catalog.BossTemplate(kind); ok && tmpl.BGM != "" {
		return tmpl.BGM
	}
	return game.CueGokiBGM
}

func (s *HandoffSystem) setAlpha(id ecs.EntityID, alpha float64) {
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id); ok {
		anim.Alpha = alpha
	}
}

func (s *HandoffSystem) release() {
	s.active = false
	s.clock.Release(FreezeHandoff)
}
