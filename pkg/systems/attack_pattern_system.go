package systems

import (
	"errors"
	"math"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/decker502/shmup/pkg/types"
	"github.com/decker502/shmup/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ErrNoPatterns Boss 类型没有配置攻击模式
var ErrNoPatterns = errors.New("no attack patterns")

// 追踪弹的水平靠拢系数
const swarmHomingFactor = 0.009

// AttackPatternSystem Boss 攻击引擎
//
// 状态机：Entering -> Idle -> Executing -> Idle -> ...
// 攻击模式作为 Boss 拥有的非过场序列运行，冻结时随时钟一起暂停。
type AttackPatternSystem struct {
	em         *ecs.EntityManager
	clock      *SimulationClock
	scheduler  *StepScheduler
	lifecycle  *LifecycleSystem
	dispatcher *event.Dispatcher
	state      *game.SimulationState
	catalog    game.Catalog
	bullets    *entities.BulletFactory
	audio      game.AudioPlayer
	log        *logrus.Entry
}

// NewAttackPatternSystem 创建攻击引擎
func NewAttackPatternSystem(em *ecs.EntityManager, clock *SimulationClock, scheduler *StepScheduler,
	lifecycle *LifecycleSystem, dispatcher *event.Dispatcher, state *game.SimulationState,
	catalog game.Catalog, bullets *entities.BulletFactory, audio game.AudioPlayer) *AttackPatternSystem {
	return &AttackPatternSystem{
		em:         em,
		clock:      clock,
		scheduler:  scheduler,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		state:      state,
		catalog:    catalog,
		bullets:    bullets,
		audio:      audio,
		log:        logger.For("AttackPatternSystem"),
	}
}

// Update 推进所有 Boss 的状态机
func (s *AttackPatternSystem) Update() {
	if s.clock.IsFrozen() {
		return
	}
	for _, id := range ecs.GetEntitiesWith2[*components.BossComponent, *components.PositionComponent](s.em) {
		if !s.lifecycle.IsAlive(id) {
			continue
		}
		boss, _ := ecs.GetComponent[*components.BossComponent](s.em, id)
		if boss.Frozen {
			continue
		}
		switch boss.Phase {
		case components.BossEntering:
			s.updateEntering(id, boss)
		case components.BossIdle:
			boss.EngagedFrames++
			if boss.LoopEnded {
				boss.LoopEnded = false
				continue
			}
			if boss.DelayFrames > 0 {
				boss.DelayFrames--
				continue
			}
			s.selectPattern(id, boss)
		case components.BossExecuting:
			boss.EngagedFrames++
		}
	}
}

// updateEntering 从画面外移动到交战高度
func (s *AttackPatternSystem) updateEntering(id ecs.EntityID, boss *components.BossComponent) {
	pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
	pos.Y += boss.EntrySpeed
	if pos.Y < boss.EngageY {
		return
	}
	pos.Y = boss.EngageY
	boss.Phase = components.BossIdle
	boss.DelayFrames = config.BossLoopDelayFrames
	s.log.WithField("kind", boss.Kind).Debug("boss engaged")
	s.dispatcher.Publish(event.BossEngagedEvent{Entity: id, Kind: boss.Kind})
}

// Freeze 暂停或恢复单个 Boss 的攻击序列和动画
func (s *AttackPatternSystem) Freeze(id ecs.EntityID, frozen bool) {
	boss, ok := ecs.GetComponent[*components.BossComponent](s.em, id)
	if !ok {
		return
	}
	boss.Frozen = frozen
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id); ok {
		anim.Paused = frozen
	}
	if boss.SequenceID == 0 {
		return
	}
	if frozen {
		s.scheduler.Pause(SequenceID(boss.SequenceID))
	} else {
		s.scheduler.Resume(SequenceID(boss.SequenceID))
	}
}

func (s *AttackPatternSystem) conditionVars(id ecs.EntityID, boss *components.BossComponent) config.ConditionVars {
	vars := config.ConditionVars{
		Elapsed: float64(boss.EngagedFrames) / config.TicksPerSecond,
		Stage:   s.state.StageIndex,
		Loops:   boss.Loops,
	}
	if h, ok := ecs.GetComponent[*components.HealthComponent](s.em, id); ok {
		vars.HP = h.CurrentHealth
		vars.MaxHP = h.MaxHealth
	}
	return vars
}

// selectPattern Idle 状态：检查交接条件，否则按权重选择攻击模式并启动
func (s *AttackPatternSystem) selectPattern(id ecs.EntityID, boss *components.BossComponent) {
	tmpl, ok := s.catalog.BossTemplate(boss.Kind)
	if !ok {
		s.log.WithField("kind", boss.Kind).Warn("boss template missing")
		boss.DelayFrames = config.BossLoopDelayFrames
		return
	}
	vars := s.conditionVars(id, boss)

	if boss.HandoffPending && !boss.HandoffDone && s.evalCondition(tmpl.TransformCondition(), vars, "transformWhen") {
		to, err := types.ParseBossKind(tmpl.TransformTo)
		if err != nil {
			s.log.WithError(err).Warn("invalid transformTo")
		} else {
			boss.HandoffDone = true
			boss.Phase = components.BossExecuting
			s.log.WithFields(logrus.Fields{"from": boss.Kind, "to": to}).Info("boss handoff requested")
			s.dispatcher.Publish(event.BossTransformEvent{Entity: id, From: boss.Kind, To: to})
			return
		}
	}
	boss.Enraged = s.evalCondition(tmpl.EnrageCondition(), vars, "enrageWhen")

	patterns := config.Patterns(boss.Kind)
	if len(patterns) == 0 {
		s.log.WithError(ErrNoPatterns).WithField("kind", boss.Kind).Warn("boss idles")
		boss.DelayFrames = config.BossLoopDelayFrames
		return
	}
	pattern := ChoosePattern(patterns, s.state.Rand.Float64())

	steps := make([]Step, 0, len(pattern.Steps))
	for _, def := range pattern.Steps {
		steps = append(steps, s.buildStep(id, tmpl, def))
	}

	boss.Phase = components.BossExecuting
	boss.LastPattern = pattern.Name
	seq := s.scheduler.Start(Sequence{
		Name:  pattern.Name,
		Owner: id,
		Valid: func() bool { return s.lifecycle.IsAlive(id) },
		Steps: steps,
		OnComplete: func() {
			boss.Phase = components.BossIdle
			boss.SequenceID = 0
			boss.Loops++
			boss.LoopEnded = true
			boss.DelayFrames = config.BossLoopDelayFrames
			if boss.Enraged {
				boss.DelayFrames /= 2
			}
		},
	})
	boss.SequenceID = uint64(seq)
	s.log.WithFields(logrus.Fields{"kind": boss.Kind, "pattern": pattern.Name}).Debug("pattern started")
}

func (s *AttackPatternSystem) evalCondition(cond *config.Condition, vars config.ConditionVars, name string) bool {
	ok, err := cond.Eval(vars)
	if err != nil {
		s.log.WithError(err).WithField("condition", name).Warn("condition evaluation failed")
		return false
	}
	return ok
}

// ChoosePattern 按权重选择攻击模式
//
// 参数:
//   - patterns: 候选模式（权重为正）
//   - roll: [0, 1) 的随机数
//
// 返回:
//   - config.PatternDef: 选中的模式
func ChoosePattern(patterns []config.PatternDef, roll float64) config.PatternDef {
	total := 0.0
	for _, p := range patterns {
		total += p.Weight
	}
	target := roll * total
	acc := 0.0
	for _, p := range patterns {
		acc += p.Weight
		if target < acc {
			return p
		}
	}
	return patterns[len(patterns)-1]
}

// buildStep 将步骤定义转换为调度器步骤
func (s *AttackPatternSystem) buildStep(id ecs.EntityID, tmpl *config.BossTemplate, def config.StepDef) Step {
	step := Step{Name: stepName(def), Frames: def.Frames}
	switch def.Kind {
	case config.StepAnim:
		step.Enter = func() { s.setAnim(id, def.Anim) }
	case config.StepCue:
		step.Enter = func() { s.audio.Play(def.Cue) }
	case config.StepTeleport:
		step.Enter = func() {
			pos, col, ok := s.body(id)
			if !ok {
				return
			}
			pos.X = s.resolveX(def.X, pos, col)
			pos.Y = s.resolveY(def.Y, id, pos, col)
		}
	case config.StepMove:
		var fromX, fromY, toX, toY float64
		step.Enter = func() {
			pos, col, ok := s.body(id)
			if !ok {
				return
			}
			fromX, fromY = pos.X, pos.Y
			toX = s.resolveX(def.X, pos, col)
			toY = s.resolveY(def.Y, id, pos, col)
		}
		step.Update = func(progress float64) {
			pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
			if !ok {
				return
			}
			t := utils.EaseOutQuad(progress)
			pos.X = utils.Lerp(fromX, toX, t)
			pos.Y = utils.Lerp(fromY, toY, t)
		}
	case config.StepEmit:
		step.Enter = func() { s.emit(id, tmpl, def.Emit) }
	}
	return step
}

func stepName(def config.StepDef) string {
	switch def.Kind {
	case config.StepAnim:
		return "anim:" + def.Anim
	case config.StepCue:
		return "cue:" + def.Cue
	case config.StepMove:
		return "move"
	case config.StepTeleport:
		return "teleport"
	case config.StepEmit:
		return "emit"
	default:
		return "wait"
	}
}

func (s *AttackPatternSystem) body(id ecs.EntityID) (*components.PositionComponent, *components.CollisionComponent, bool) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return nil, nil, false
	}
	col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id)
	if !ok {
		col = &components.CollisionComponent{}
	}
	return pos, col, true
}

// xRange Boss 命中框保持在画面内时的水平活动范围
func xRange(col *components.CollisionComponent) (minX, maxX float64) {
	left, _, right, _ := col.WorldRect(0, 0)
	minX = -left
	maxX = config.ScreenWidth - right
	if minX > maxX {
		minX, maxX = config.CenterX, config.CenterX
	}
	return minX, maxX
}

func (s *AttackPatternSystem) playerX() (float64, bool) {
	if !s.lifecycle.IsAlive(s.state.PlayerID) {
		return 0, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, s.state.PlayerID)
	if !ok {
		return 0, false
	}
	return pos.X, true
}

func (s *AttackPatternSystem) resolveX(c config.Coord, pos *components.PositionComponent, col *components.CollisionComponent) float64 {
	minX, maxX := xRange(col)
	switch c.Mode {
	case config.CoordAbs:
		return c.Value
	case config.CoordPlayer:
		if x, ok := s.playerX(); ok {
			return utils.Clamp(x, minX, maxX)
		}
		return pos.X
	case config.CoordRandom:
		lo, hi := minX, maxX
		if c.Max != 0 {
			lo, hi = c.Value, c.Max
		}
		return lo + s.state.Rand.Float64()*(hi-lo)
	case config.CoordMinX:
		return minX + c.Value
	case config.CoordMaxX:
		return maxX - c.Value
	case config.CoordCenter:
		return config.CenterX + c.Value
	default:
		return pos.X
	}
}

func (s *AttackPatternSystem) resolveY(c config.Coord, id ecs.EntityID, pos *components.PositionComponent, col *components.CollisionComponent) float64 {
	_, top, _, bottom := col.WorldRect(0, 0)
	switch c.Mode {
	case config.CoordAbs:
		return c.Value
	case config.CoordEngage:
		engage := config.BossEngageY
		if boss, ok := ecs.GetComponent[*components.BossComponent](s.em, id); ok {
			engage = boss.EngageY
		}
		return engage + c.Value
	case config.CoordBottom:
		return config.ScreenHeight - bottom - c.Value
	case config.CoordRandom:
		return c.Value + s.state.Rand.Float64()*(c.Max-c.Value)
	case config.CoordCenter:
		return config.ScreenHeight/2 + c.Value
	case config.CoordAbove:
		return -bottom - math.Abs(top)
	default:
		return pos.Y
	}
}

// emit 按发射参数生成子弹
func (s *AttackPatternSystem) emit(id ecs.EntityID, tmpl *config.BossTemplate, def *config.EmitDef) {
	if def == nil {
		return
	}
	key, ok := tmpl.Bullets[def.Slot]
	if !ok {
		s.log.WithFields(logrus.Fields{"boss": tmpl.Name, "slot": def.Slot}).Warn("bullet slot not configured")
		return
	}
	bt, ok := s.bullets.Template(key)
	if !ok {
		s.log.WithField("bullet", key).Warn("bullet template missing")
		return
	}
	pos, col, ok := s.body(id)
	if !ok {
		return
	}

	spawn := func(x, y, angle float64, homing *components.HomingComponent) {
		_, err := s.bullets.Spawn(entities.BulletSpec{
			Template: key,
			Owner:    types.RoleBoss,
			OwnerID:  id,
			X:        x,
			Y:        y,
			Angle:    angle,
			Homing:   homing,
		})
		if err != nil {
			s.log.WithError(err).Warn("bullet spawn failed")
		}
	}

	switch def.Formation {
	case config.FormationRing:
		count := def.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			angle := 360 * float64(i) / float64(count)
			dx, dy := entities.Heading(angle, def.Radius)
			spawn(pos.X+dx, pos.Y+dy, angle, nil)
		}

	case config.FormationSwarm:
		left, _, right, bottom := col.WorldRect(pos.X, pos.Y)
		width := right - left
		for i := 0; i < def.Count; i++ {
			x := left + (float64(i)+0.5)*width/float64(def.Count)
			spawn(x, bottom, entities.AngleDown, &components.HomingComponent{
				DelayFrames: def.Stagger * i,
				Factor:      swarmHomingFactor,
			})
		}

	case config.FormationCone:
		count := def.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			angle := def.MinAngle + s.state.Rand.Float64()*(def.MaxAngle-def.MinAngle)
			spawn(pos.X, pos.Y, angle, nil)
		}

	default:
		emitters := def.Emitters
		if len(emitters) == 0 {
			emitters = []float64{0}
		}
		for _, offset := range emitters {
			x := pos.X + offset
			angles := def.Angles
			if len(angles) == 0 {
				angles = []float64{s.defaultAngle(x, pos.Y, bt.Aimed)}
			}
			for _, angle := range angles {
				spawn(x, pos.Y, angle, nil)
			}
		}
	}
}

// defaultAngle 未指定角度时：瞄准弹朝向玩家，否则垂直向下
func (s *AttackPatternSystem) defaultAngle(x, y float64, aimed bool) float64 {
	if !aimed {
		return entities.AngleDown
	}
	px, ok := s.playerX()
	if !ok {
		return entities.AngleDown
	}
	ppos, _ := ecs.GetComponent[*components.PositionComponent](s.em, s.state.PlayerID)
	return entities.AngleTo(x, y, px, ppos.Y)
}

func (s *AttackPatternSystem) setAnim(id ecs.EntityID, name string) {
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id); ok {
		anim.Current = name
	}
}
