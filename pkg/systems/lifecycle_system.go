package systems

import (
	"math"

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

// InfiniteDamage 必杀伤害（子弹互相抵消、护盾撞击）
const InfiniteDamage = math.MaxInt32

// LifecycleSystem 实体生命周期
//
// 负责受伤、死亡转换和移除：
//   - ApplyDamage 是唯一设置 DeadFlag 的地方
//   - DeadEvent 在死亡动画开始前发布
//   - DeadCompleteEvent 在死亡序列结束后发布，随后实体被标记移除
type LifecycleSystem struct {
	em         *ecs.EntityManager
	clock      *SimulationClock
	scheduler  *StepScheduler
	dispatcher *event.Dispatcher
	state      *game.SimulationState
	audio      game.AudioPlayer
	caDamage   int
	log        *logrus.Entry
}

// NewLifecycleSystem 创建生命周期系统
//
// 参数:
//   - em: 实体管理器
//   - clock: 逻辑帧时钟，Boss 击破演出期间冻结
//   - scheduler: 死亡序列使用的调度器
//   - dispatcher: 事件分发器
//   - state: 关卡状态（随机数）
//   - audio: 音频协作方
//   - caDamage: CA 伤害，用于 Boss 危险提示
//
// 返回:
//   - *LifecycleSystem: 系统实例
func NewLifecycleSystem(em *ecs.EntityManager, clock *SimulationClock, scheduler *StepScheduler,
	dispatcher *event.Dispatcher, state *game.SimulationState, audio game.AudioPlayer, caDamage int) *LifecycleSystem {
	return &LifecycleSystem{
		em:         em,
		clock:      clock,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		state:      state,
		audio:      audio,
		caDamage:   caDamage,
		log:        logger.For("LifecycleSystem"),
	}
}

// IsAlive 实体存在、未标记移除且未死亡
func (s *LifecycleSystem) IsAlive(id ecs.EntityID) bool {
	if id == ecs.InvalidEntity || !s.em.Exists(id) || s.em.IsMarkedForRemoval(id) {
		return false
	}
	lc, ok := ecs.GetComponent[*components.LifecycleComponent](s.em, id)
	return ok && !lc.DeadFlag
}

// ApplyDamage 对实体造成伤害
//
// 参数:
//   - id: 目标实体
//   - amount: 伤害值
//   - hit: 命中类型，HitInfinity 播放格挡音效
//
// 返回:
//   - bool: 本次伤害是否致死
func (s *LifecycleSystem) ApplyDamage(id ecs.EntityID, amount int, hit types.HitType) bool {
	if !s.IsAlive(id) || amount <= 0 {
		return false
	}
	lc, _ := ecs.GetComponent[*components.LifecycleComponent](s.em, id)
	health, ok := ecs.GetComponent[*components.HealthComponent](s.em, id)
	if !ok {
		return false
	}
	role := s.roleOf(id)

	if role == types.RolePlayer {
		if p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, id); ok && p.Invulnerable() {
			return false
		}
	}

	if health.Infinite {
		s.flash(id)
		s.playHitCue(role, types.HitInfinity)
		return false
	}

	health.CurrentHealth -= amount
	if health.CurrentHealth > 0 {
		if lc.State.CanTransitionTo(types.StateDamaged) {
			lc.State = types.StateDamaged
		}
		s.flash(id)
		s.playHitCue(role, hit)
		s.afterDamage(id, role, health)
		s.dispatcher.Publish(event.DamagedEvent{
			Entity:    id,
			Role:      role,
			Amount:    amount,
			HitType:   hit,
			Remaining: health.CurrentHealth,
		})
		return false
	}

	health.CurrentHealth = 0
	s.die(id, lc, role)
	return true
}

// afterDamage 处理非致命伤害的附加效果
func (s *LifecycleSystem) afterDamage(id ecs.EntityID, role types.EntityRole, health *components.HealthComponent) {
	switch role {
	case types.RolePlayer:
		if p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, id); ok {
			p.InvulnFrames = config.InvulnerableFrames
		}
		s.setAnim(id, "damage")
	case types.RoleBoss:
		boss, ok := ecs.GetComponent[*components.BossComponent](s.em, id)
		if ok && !boss.DangerShown && health.CurrentHealth <= s.caDamage {
			boss.DangerShown = true
			s.audio.Play(game.CueDanger)
			s.dispatcher.Publish(event.BossDangerEvent{Entity: id})
		}
	}
}

// die 死亡转换：设置 DeadFlag，发布 DeadEvent，开始死亡序列
func (s *LifecycleSystem) die(id ecs.EntityID, lc *components.LifecycleComponent, role types.EntityRole) {
	lc.DeadFlag = true
	lc.State = types.StateDying

	if vel, ok := ecs.GetComponent[*components.VelocityComponent](s.em, id); ok {
		vel.VX, vel.VY = 0, 0
	}
	ecs.RemoveComponent[*components.HomingComponent](s.em, id)

	// 放弃正在执行的攻击模式等序列
	s.scheduler.CancelOwner(id)

	dead := event.DeadEvent{Entity: id, Role: role, ItemDrop: types.ItemNone}
	if c, ok := ecs.GetComponent[*components.CombatantComponent](s.em, id); ok {
		dead.TemplateKey = c.TemplateKey
		dead.ScoreValue = c.ScoreValue
		dead.GaugeValue = c.GaugeValue
	}
	if enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.em, id); ok {
		dead.ItemDrop = enemy.ItemDrop
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id); ok {
		dead.X, dead.Y = pos.X, pos.Y
	}
	s.dispatcher.Publish(dead)

	s.setAnim(id, "dead")
	if boss, ok := ecs.GetComponent[*components.BossComponent](s.em, id); ok {
		boss.Phase = components.BossDefeated
		boss.SequenceID = 0
		s.startBossDeath(id, boss.Kind)
		return
	}
	if !role.IsBullet() && role != types.RoleItem {
		s.audio.Play(game.CueExplosion)
	}
	s.startDeath(id, lc.DeathFrames)
}

// startDeath 普通死亡：播放一段固定长度的死亡动画
func (s *LifecycleSystem) startDeath(id ecs.EntityID, frames int) {
	s.scheduler.Start(Sequence{
		Name:       "death",
		Owner:      id,
		Cinematic:  true,
		Valid:      func() bool { return s.em.Exists(id) && !s.em.IsMarkedForRemoval(id) },
		Steps:      []Step{{Name: "dying", Frames: frames}},
		OnComplete: func() { s.finish(id) },
	})
}

// startBossDeath Boss 死亡：命中框内随机位置连续爆炸，最后一次爆炸结束后完成
//
// 演出期间世界冻结，场上子弹全部清除，玩家不能再受伤或射击。
// 演出结束、被取消或 Boss 被强制移除时解除冻结。
func (s *LifecycleSystem) startBossDeath(id ecs.EntityID, kind types.BossKind) {
	s.audio.Play(config.KOCue(kind))
	s.clock.Freeze(FreezeBossDeath)
	s.purgeBullets()

	steps := make([]Step, 0, config.BossDeathBursts*2)
	for i := 0; i < config.BossDeathBursts; i++ {
		steps = append(steps, Step{Name: "burst", Enter: func() { s.burst(id) }})
		wait := config.BossBurstIntervalFrames
		if i == config.BossDeathBursts-1 {
			wait = config.ExplosionFrames
		}
		steps = append(steps, Step{Name: "burst_wait", Frames: wait})
	}

	s.scheduler.Start(Sequence{
		Name:      "boss_death",
		Owner:     id,
		Cinematic: true,
		Valid:     func() bool { return s.em.Exists(id) && !s.em.IsMarkedForRemoval(id) },
		Steps:     steps,
		OnComplete: func() {
			s.purgeBullets()
			s.clock.Release(FreezeBossDeath)
			s.finish(id)
		},
		OnAbort: func() { s.clock.Release(FreezeBossDeath) },
	})
}

// purgeBullets 清除场上所有子弹
func (s *LifecycleSystem) purgeBullets() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.CombatantComponent](s.em) {
		if s.roleOf(id).IsBullet() && !s.em.IsMarkedForRemoval(id) {
			s.Purge(id)
			n++
		}
	}
	if n > 0 {
		s.log.WithField("count", n).Debug("bullets cleared for boss defeat")
	}
	return n
}

// burst 在 Boss 命中框内的随机位置生成一次爆炸
func (s *LifecycleSystem) burst(id ecs.EntityID) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return
	}
	x, y := pos.X, pos.Y
	if col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id); ok && col.Valid() {
		left, top, right, bottom := col.WorldRect(pos.X, pos.Y)
		x = left + s.state.Rand.Float64()*(right-left)
		y = top + s.state.Rand.Float64()*(bottom-top)
	}
	entities.NewEffect(s.em, entities.EffectExplosion, x, y, config.ExplosionFrames)
	s.audio.Play(game.CueExplosion)
}

// finish 死亡序列结束：发布 DeadCompleteEvent 并标记移除
func (s *LifecycleSystem) finish(id ecs.EntityID) {
	role := s.roleOf(id)
	if lc, ok := ecs.GetComponent[*components.LifecycleComponent](s.em, id); ok {
		lc.State = types.StateRemoved
		lc.Visible = false
	}
	s.dispatcher.Publish(event.DeadCompleteEvent{Entity: id, Role: role})
	if role == types.RolePlayer {
		s.dispatcher.Publish(event.GameOverEvent{Player: id})
	}
	s.em.DestroyEntity(id)
}

// Purge 强制移除实体（离开画面、被拾取、关卡销毁）
// 不发布 DeadCompleteEvent，可重复调用
func (s *LifecycleSystem) Purge(id ecs.EntityID) {
	if !s.em.Exists(id) || s.em.IsMarkedForRemoval(id) {
		return
	}
	s.scheduler.CancelOwner(id)
	if lc, ok := ecs.GetComponent[*components.LifecycleComponent](s.em, id); ok {
		lc.State = types.StateRemoved
		lc.Visible = false
	}
	s.em.DestroyEntity(id)
}

// PurgeRole 强制移除某一角色的全部实体，返回移除数量
func (s *LifecycleSystem) PurgeRole(role types.EntityRole) int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.CombatantComponent](s.em) {
		if s.roleOf(id) == role && !s.em.IsMarkedForRemoval(id) {
			s.Purge(id)
			n++
		}
	}
	return n
}

func (s *LifecycleSystem) roleOf(id ecs.EntityID) types.EntityRole {
	if c, ok := ecs.GetComponent[*components.CombatantComponent](s.em, id); ok {
		return c.Role
	}
	return types.RoleUnknown
}

func (s *LifecycleSystem) flash(id ecs.EntityID) {
	if f, ok := ecs.GetComponent[*components.FlashEffectComponent](s.em, id); ok {
		f.Elapsed = 0
		return
	}
	ecs.AddComponent(s.em, id, &components.FlashEffectComponent{
		Frames:    config.FlashFrames,
		Intensity: 1,
	})
}

func (s *LifecycleSystem) playHitCue(role types.EntityRole, hit types.HitType) {
	if role.IsBullet() || role == types.RoleItem {
		return
	}
	if hit == types.HitInfinity {
		s.audio.Play(game.CueGuard)
		return
	}
	s.audio.Play(game.CueDamage)
}

func (s *LifecycleSystem) setAnim(id ecs.EntityID, name string) {
	if anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id); ok {
		anim.Current = name
	}
}
