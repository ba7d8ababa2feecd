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

// CaptureAnim 豪鬼瞬狱杀的动画名，只有该动画期间接触玩家才会触发抓取
const CaptureAnim = "syngoku"

// captureHitSpread 连击特效相对玩家位置的随机偏移范围
const captureHitSpread = 24.0

// CaptureSystem Boss 抓取演出
//
// 收到 CaptureEvent 后冻结世界，清除玩家子弹，播放连击特效，
// 在固定时刻对玩家造成伤害后解除冻结。同一时间只运行一个抓取。
type CaptureSystem struct {
	em        *ecs.EntityManager
	clock     *SimulationClock
	scheduler *StepScheduler
	lifecycle *LifecycleSystem
	state     *game.SimulationState
	audio     game.AudioPlayer

	active   bool
	captured bool
	log      *logrus.Entry
}

// NewCaptureSystem 创建抓取系统并订阅 CaptureEvent
func NewCaptureSystem(em *ecs.EntityManager, clock *SimulationClock, scheduler *StepScheduler,
	lifecycle *LifecycleSystem, dispatcher *event.Dispatcher, state *game.SimulationState,
	audio game.AudioPlayer) *CaptureSystem {
	s := &CaptureSystem{
		em:        em,
		clock:     clock,
		scheduler: scheduler,
		lifecycle: lifecycle,
		state:     state,
		audio:     audio,
		log:       logger.For("CaptureSystem"),
	}
	dispatcher.Subscribe(event.TypeCapture, func(e event.Event) {
		s.onCapture(e.(event.CaptureEvent))
	})
	return s
}

// Active 抓取演出是否正在进行
func (s *CaptureSystem) Active() bool {
	return s.active
}

func (s *CaptureSystem) onCapture(e event.CaptureEvent) {
	if s.active || s.captured || s.clock.IsFrozen() {
		return
	}
	if !s.lifecycle.IsAlive(e.Boss) || !s.lifecycle.IsAlive(e.Player) {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, e.Player)
	if !ok {
		return
	}
	originX, originY := pos.X, pos.Y

	s.active = true
	s.captured = true
	s.clock.Freeze(FreezeCapture)
	purged := s.lifecycle.PurgeRole(types.RolePlayerBullet)
	s.audio.Play(game.CueShungokusatsu)
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, e.Player); ok {
		anim.Current = "captured"
	}
	s.log.WithFields(logrus.Fields{"boss": e.Boss, "purged": purged}).Info("player captured")

	interval := config.CaptureHitIntervalFrames
	steps := make([]Step, 0, config.CaptureHits+2)
	for i := 0; i < config.CaptureHits; i++ {
		steps = append(steps, Step{
			Name:   "capture_hit",
			Frames: interval,
			Enter: func() {
				dx := (s.state.Rand.Float64()*2 - 1) * captureHitSpread
				dy := (s.state.Rand.Float64()*2 - 1) * captureHitSpread
				entities.NewEffect(s.em, entities.EffectHit, originX+dx, originY+dy, config.HitEffectFrames)
				s.audio.Play(game.CueDamage)
			},
		})
	}
	player := e.Player
	damage := func() {
		if p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, player); ok {
			p.InvulnFrames = 0
			p.BarrierFrames = 0
		}
		s.lifecycle.ApplyDamage(player, config.CaptureDamage, types.HitNormal)
	}
	// 伤害落在第 CaptureDamageAtFrames 帧，即停顿步骤的最后一帧
	if rest := config.CaptureDamageAtFrames - config.CaptureHits*interval; rest > 0 {
		steps = append(steps, Step{
			Name:   "capture_hold",
			Frames: rest,
			Update: func(progress float64) {
				if progress >= 1 {
					damage()
				}
			},
		})
	} else {
		steps = append(steps, Step{Name: "capture_damage", Enter: damage})
	}

	s.scheduler.Start(Sequence{
		Name:       "capture",
		Owner:      player,
		Cinematic:  true,
		Valid:      func() bool { return s.lifecycle.IsAlive(player) },
		Steps:      steps,
		OnComplete: s.release,
		OnAbort:    s.release,
	})
}

func (s *CaptureSystem) release() {
	s.active = false
	s.clock.Release(FreezeCapture)
}
