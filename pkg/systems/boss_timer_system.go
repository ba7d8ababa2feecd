package systems

import (
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/types"
	"github.com/sirupsen/logrus"
)

// BossTimerSystem Boss 战倒计时
// Boss 第一次到达交战位置时开始，只在未冻结时倒数，Boss 死亡时停止
type BossTimerSystem struct {
	clock      *SimulationClock
	dispatcher *event.Dispatcher
	state      *game.SimulationState
	log        *logrus.Entry
}

// NewBossTimerSystem 创建倒计时系统，订阅 BossEngagedEvent 和 DeadEvent
func NewBossTimerSystem(clock *SimulationClock, dispatcher *event.Dispatcher, state *game.SimulationState) *BossTimerSystem {
	s := &BossTimerSystem{
		clock:      clock,
		dispatcher: dispatcher,
		state:      state,
		log:        logger.For("BossTimerSystem"),
	}
	dispatcher.Subscribe(event.TypeBossEngaged, func(event.Event) { s.Start() })
	dispatcher.Subscribe(event.TypeDead, func(e event.Event) {
		if e.(event.DeadEvent).Role == types.RoleBoss {
			s.state.Timer.Active = false
		}
	})
	return s
}

// Start 开始倒计时（每关只生效一次）
func (s *BossTimerSystem) Start() {
	timer := &s.state.Timer
	if timer.Active || timer.Expired || timer.Frames > 0 {
		return
	}
	timer.Active = true
	timer.Frames = config.BossTimerSeconds * config.TicksPerSecond
	s.log.WithField("seconds", config.BossTimerSeconds).Debug("boss timer started")
}

// Update 倒数一帧，归零时发布 TimeOverEvent
func (s *BossTimerSystem) Update() {
	timer := &s.state.Timer
	if !timer.Active || s.clock.IsFrozen() {
		return
	}
	timer.Frames--
	if timer.Frames > 0 {
		return
	}
	timer.Frames = 0
	timer.Active = false
	timer.Expired = true
	s.log.Info("boss timer expired")
	s.dispatcher.Publish(event.TimeOverEvent{})
}
