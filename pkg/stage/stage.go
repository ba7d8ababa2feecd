// Package stage 组装一个关卡的战斗模拟，按固定顺序推进所有系统
package stage

import (
	"errors"
	"fmt"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/systems"
	"github.com/decker502/shmup/pkg/types"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoCatalog 协作方中没有属性目录
	ErrNoCatalog = errors.New("stage requires a catalog")
	// ErrClosed 关卡已经销毁
	ErrClosed = errors.New("stage closed")
)

// Result 关卡结算
type Result struct {
	Stage        int
	Score        int
	MaxCombo     int
	Outcome      game.Outcome
	NewHighScore bool
}

// Stage 单个关卡的模拟
//
// 每帧的更新顺序是固定的，逻辑只依赖帧数，
// 相同的种子和输入序列产生相同的结果。
type Stage struct {
	index  int
	collab game.Collaborators

	em         *ecs.EntityManager
	clock      *systems.SimulationClock
	scheduler  *systems.StepScheduler
	dispatcher *event.Dispatcher
	state      *game.SimulationState

	lifecycle  *systems.LifecycleSystem
	collision  *systems.CollisionSystem
	attack     *systems.AttackPatternSystem
	capture    *systems.CaptureSystem
	handoff    *systems.HandoffSystem
	combo      *systems.ComboGaugeSystem
	special    *systems.SpecialAttackSystem
	player     *systems.PlayerSystem
	enemy      *systems.EnemySystem
	items      *systems.ItemSystem
	movement   *systems.MovementSystem
	timer      *systems.BossTimerSystem
	spawn      *systems.SpawnSystem
	flash      *systems.FlashEffectSystem
	lifetime   *systems.LifetimeSystem
	renderSync *systems.RenderSyncSystem

	bgm       string
	submitted bool
	result    Result
	closed    bool
	log       *logrus.Entry
}

// New 创建关卡并生成玩家
//
// 参数:
//   - index: 关卡索引
//   - continues: 已使用的续关次数
//   - seed: 随机数种子
//   - collab: 外部协作方，Catalog 必须设置
//
// 返回:
//   - *Stage: 关卡
//   - error: 缺少属性目录
func New(index, continues int, seed int64, collab game.Collaborators) (*Stage, error) {
	if collab.Catalog == nil {
		return nil, ErrNoCatalog
	}
	collab = collab.WithDefaults()

	s := &Stage{
		index:      index,
		collab:     collab,
		em:         ecs.NewEntityManager(),
		clock:      systems.NewSimulationClock(),
		dispatcher: event.NewDispatcher(),
		state:      game.NewSimulationState(index, continues, seed),
		log:        logger.For("Stage").WithField("stage", index),
	}
	s.scheduler = systems.NewStepScheduler(s.clock)
	s.wireSystems()
	s.subscribe()

	s.state.PlayerID = entities.NewPlayer(s.em, collab.Catalog, config.CenterX, config.PlayerStartY)

	if cfg, ok := collab.Catalog.Stage(index); ok && cfg.BGM != "" {
		s.playBGM(cfg.BGM)
	}
	s.log.WithFields(logrus.Fields{"continues": continues, "seed": seed}).Info("stage started")
	return s, nil
}

func (s *Stage) wireSystems() {
	c := s.collab
	bullets := entities.NewBulletFactory(s.em, c.Catalog)
	caDamage := c.Catalog.CADamage()

	s.lifecycle = systems.NewLifecycleSystem(s.em, s.clock, s.scheduler, s.dispatcher, s.state, c.Audio, caDamage)
	s.collision = systems.NewCollisionSystem(s.em, s.clock, s.lifecycle, s.dispatcher, s.state)
	s.attack = systems.NewAttackPatternSystem(s.em, s.clock, s.scheduler, s.lifecycle, s.dispatcher, s.state, c.Catalog, bullets, c.Audio)
	s.capture = systems.NewCaptureSystem(s.em, s.clock, s.scheduler, s.lifecycle, s.dispatcher, s.state, c.Audio)
	s.handoff = systems.NewHandoffSystem(s.em, s.clock, s.scheduler, s.lifecycle, s.dispatcher, s.state, c.Catalog)
	s.combo = systems.NewComboGaugeSystem(s.clock, s.dispatcher, s.state, c.Audio)
	s.special = systems.NewSpecialAttackSystem(s.em, s.clock, s.scheduler, s.lifecycle, s.collision, s.dispatcher, s.state, c.Input, c.Audio, caDamage)
	s.player = systems.NewPlayerSystem(s.em, s.clock, s.lifecycle, s.state, c.Catalog, bullets, c.Input, c.Audio)
	s.enemy = systems.NewEnemySystem(s.em, s.clock, s.lifecycle, s.state, bullets)
	s.items = systems.NewItemSystem(s.em, s.dispatcher, c.Catalog, c.Audio)
	s.movement = systems.NewMovementSystem(s.em, s.clock, s.lifecycle, s.state)
	s.timer = systems.NewBossTimerSystem(s.clock, s.dispatcher, s.state)
	s.flash = systems.NewFlashEffectSystem(s.em)
	s.lifetime = systems.NewLifetimeSystem(s.em)
	s.renderSync = systems.NewRenderSyncSystem(s.em, c.Renderer)

	cfg, ok := c.Catalog.Stage(s.index)
	if !ok {
		s.log.Warn("stage not in catalog, no waves will spawn")
	}
	s.spawn = systems.NewSpawnSystem(s.em, s.clock, c.Catalog, s.state, s.dispatcher, cfg)
}

// subscribe 订阅决定关卡结果的事件
func (s *Stage) subscribe() {
	s.dispatcher.Subscribe(event.TypeDeadComplete, func(e event.Event) {
		dc := e.(event.DeadCompleteEvent)
		if dc.Role == types.RoleBoss && dc.Entity == s.state.BossID {
			s.state.Finish(game.OutcomeCleared)
		}
	})
	s.dispatcher.Subscribe(event.TypeGameOver, func(event.Event) {
		s.state.Finish(game.OutcomeGameOver)
	})
	s.dispatcher.Subscribe(event.TypeTimeOver, func(event.Event) {
		s.state.Finish(game.OutcomeTimeOver)
	})
	s.dispatcher.Subscribe(event.TypeMusic, func(e event.Event) {
		s.playBGM(e.(event.MusicEvent).Cue)
	})
	s.dispatcher.Subscribe(event.TypeBossSpawned, func(e event.Event) {
		// 交接产生的 Boss 由交接演出自己切换音乐
		if s.handoff.Active() {
			return
		}
		bs := e.(event.BossSpawnedEvent)
		if tmpl, ok := s.collab.Catalog.BossTemplate(bs.Kind); ok && tmpl.BGM != "" {
			s.playBGM(tmpl.BGM)
		}
	})
}

func (s *Stage) playBGM(cue string) {
	if s.bgm == cue {
		return
	}
	if s.bgm != "" {
		s.collab.Audio.Stop(s.bgm)
	}
	s.bgm = cue
	s.collab.Audio.Play(cue)
}

// Update 推进一帧
//
// 返回:
//   - error: 关卡已销毁
func (s *Stage) Update() error {
	if s.closed {
		return ErrClosed
	}
	if s.state.Finished() {
		return nil
	}

	s.clock.Tick()              // 1. 帧计数
	s.scheduler.Update()        // 2. 序列（攻击模式、死亡、演出）
	s.attack.Update()           // 3. Boss 状态机
	s.enemy.Update()            // 3.1 杂兵 AI
	s.player.Update()           // 3.2 玩家移动和射击
	s.special.Update()          // 3.3 CA 输入
	s.movement.Update()         // 4. 移动和出界清理
	s.collision.Update()        // 5. 碰撞
	s.dispatcher.Flush()        // 6. 分发本帧事件
	s.combo.Update()            // 7. 连击衰减
	s.timer.Update()            // 7.1 Boss 倒计时
	s.spawn.Update()            // 8. 出怪
	s.flash.Update()            // 9. 受击闪白
	s.lifetime.Update()         // 9.1 特效寿命
	s.dispatcher.Flush()        // 9.2 出怪和到期产生的事件
	s.em.RemoveMarkedEntities() // 10. 清理实体（始终在渲染同步前）
	s.renderSync.Update()       // 10.1 同步渲染节点

	if s.state.Finished() {
		s.settle()
	}
	return nil
}

// settle 结算并提交最高分（每关一次）
func (s *Stage) settle() {
	if s.submitted {
		return
	}
	s.submitted = true
	s.result = Result{
		Stage:    s.index,
		Score:    s.state.Score,
		MaxCombo: s.state.Combo.MaxCount,
		Outcome:  s.state.Outcome,
	}
	record := game.ScoreRecord{Score: s.state.Score, MaxCombo: s.state.Combo.MaxCount, Stage: s.index}
	saved, err := s.collab.HighScores.Submit(record)
	if err != nil {
		s.log.WithError(err).Warn("high score not saved")
	}
	s.result.NewHighScore = saved
	s.log.WithFields(logrus.Fields{
		"outcome":  s.result.Outcome,
		"score":    s.result.Score,
		"maxCombo": s.result.MaxCombo,
		"frames":   s.clock.Frame(),
	}).Info("stage finished")
}

// Finished 关卡是否已经出结果
func (s *Stage) Finished() bool {
	return s.state.Finished()
}

// Result 关卡结算，未结束时 Outcome 为 OutcomePlaying
func (s *Stage) Result() Result {
	if !s.submitted {
		return Result{Stage: s.index, Score: s.state.Score, MaxCombo: s.state.Combo.MaxCount, Outcome: s.state.Outcome}
	}
	return s.result
}

// Index 关卡索引
func (s *Stage) Index() int {
	return s.index
}

// State 关卡状态（只读使用，HUD 显示）
func (s *Stage) State() *game.SimulationState {
	return s.state
}

// Music 当前播放的 BGM 名
func (s *Stage) Music() string {
	return s.bgm
}

// Frozen 世界是否处于冻结演出中
func (s *Stage) Frozen() bool {
	return s.clock.IsFrozen()
}

// BossHealth 当前 Boss 的生命值
func (s *Stage) BossHealth() (current, max int, ok bool) {
	return s.health(s.state.BossID)
}

// PlayerHealth 玩家的生命值
func (s *Stage) PlayerHealth() (current, max int, ok bool) {
	return s.health(s.state.PlayerID)
}

func (s *Stage) health(id ecs.EntityID) (int, int, bool) {
	if id == ecs.InvalidEntity || !s.em.Exists(id) {
		return 0, 0, false
	}
	h, ok := ecs.GetComponent[*components.HealthComponent](s.em, id)
	if !ok {
		return 0, 0, false
	}
	return h.CurrentHealth, h.MaxHealth, true
}

// FireSpecial 由宿主直接请求 CA（输入协作方之外的入口，例如触摸按钮）
func (s *Stage) FireSpecial() bool {
	return s.special.Fire()
}

// Close 销毁关卡，之后 Update 返回 ErrClosed
func (s *Stage) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.scheduler.CancelAll()
	s.clock.ReleaseAll()
	s.renderSync.Clear()
	if s.bgm != "" {
		s.collab.Audio.Stop(s.bgm)
	}
	s.dispatcher.Reset()
	s.log.Debug("stage closed")
}

// String 调试用描述
func (s *Stage) String() string {
	return fmt.Sprintf("stage %d (%s, frame %d)", s.index, s.state.Outcome, s.clock.Frame())
}
