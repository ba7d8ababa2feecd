package systems

import (
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ComboGaugeSystem 连击、得分与 CA 槽
//
// 每个敌人或 Boss 的 DeadEvent：
//   - 连击 +1，衰减计时重置
//   - 按增加后的倍率加分
//   - 未在发动 CA 时累积 CA 槽，满 100 时 ready
//
// 衰减在未冻结的帧倒计时，击杀当帧不计。
type ComboGaugeSystem struct {
	clock      *SimulationClock
	dispatcher *event.Dispatcher
	state      *game.SimulationState
	audio      game.AudioPlayer

	justKilled bool
	log        *logrus.Entry
}

// NewComboGaugeSystem 创建连击系统并订阅 DeadEvent
func NewComboGaugeSystem(clock *SimulationClock, dispatcher *event.Dispatcher,
	state *game.SimulationState, audio game.AudioPlayer) *ComboGaugeSystem {
	s := &ComboGaugeSystem{
		clock:      clock,
		dispatcher: dispatcher,
		state:      state,
		audio:      audio,
		log:        logger.For("ComboGaugeSystem"),
	}
	dispatcher.Subscribe(event.TypeDead, func(e event.Event) {
		s.onDead(e.(event.DeadEvent))
	})
	return s
}

// RegisterKill 记录一次击杀
//
// 参数:
//   - score: 基础得分
//   - gauge: 增加的 CA 槽
//
// 返回:
//   - popup: 分数弹出显示使用的倍率（增加前）
//   - gained: 实际加到总分的分数
func (s *ComboGaugeSystem) RegisterKill(score, gauge int) (popup, gained int) {
	combo := &s.state.Combo
	popup = combo.Multiplier()

	combo.Count++
	combo.DecayFrames = config.ComboWindowFrames
	if combo.Count > combo.MaxCount {
		combo.MaxCount = combo.Count
	}
	gained = score * combo.Multiplier()
	s.state.Score += gained
	s.justKilled = true

	s.addGauge(gauge)
	return popup, gained
}

func (s *ComboGaugeSystem) onDead(e event.DeadEvent) {
	if !e.Role.IsHostile() {
		return
	}
	popup, gained := s.RegisterKill(e.ScoreValue, e.GaugeValue)
	s.log.WithFields(logrus.Fields{
		"combo":  s.state.Combo.Count,
		"gained": gained,
		"score":  s.state.Score,
	}).Debug("kill registered")
	s.dispatcher.Publish(event.ScoreEvent{
		Entity:     e.Entity,
		Points:     e.ScoreValue,
		Multiplier: popup,
		X:          e.X,
		Y:          e.Y,
	})
}

// addGauge 累积 CA 槽，发动期间忽略
func (s *ComboGaugeSystem) addGauge(amount int) {
	g := &s.state.Gauge
	if g.Firing || amount == 0 {
		return
	}
	g.Value += amount
	if g.Value < 0 {
		g.Value = 0
	}
	if g.Value >= config.GaugeMax {
		g.Value = config.GaugeMax
		if !g.Ready {
			g.Ready = true
			s.audio.Play(game.CueCaReady)
			s.dispatcher.Publish(event.SpecialReadyEvent{})
		}
	}
}

// Update 连击衰减
func (s *ComboGaugeSystem) Update() {
	if s.clock.IsFrozen() {
		return
	}
	if s.justKilled {
		s.justKilled = false
		return
	}
	combo := &s.state.Combo
	if combo.Count == 0 || combo.DecayFrames <= 0 {
		return
	}
	combo.DecayFrames--
	if combo.DecayFrames == 0 {
		s.log.WithField("count", combo.Count).Debug("combo expired")
		combo.Count = 0
	}
}
