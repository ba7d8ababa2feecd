package systems

import (
	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/entities"
	"github.com/decker502/shmup/pkg/event"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
)

// hitBox 一个参与碰撞检测的实体及其世界矩形
type hitBox struct {
	id                       ecs.EntityID
	left, top, right, bottom float64
}

// Overlaps 严格重叠检测：边缘相接不算碰撞
func Overlaps(aL, aT, aR, aB, bL, bT, bR, bB float64) bool {
	return aL < bR && bL < aR && aT < bB && bT < aB
}

func (h hitBox) overlaps(o hitBox) bool {
	return Overlaps(h.left, h.top, h.right, h.bottom, o.left, o.top, o.right, o.bottom)
}

// CollisionSystem 碰撞检测
//
// 每个未冻结的帧按固定顺序检测五组配对：
//  1. 玩家子弹 × 敌人（含 Boss）
//  2. 敌方子弹 × 玩家
//  3. 玩家子弹 × 敌方子弹
//  4. 敌人 × 玩家
//  5. 道具 × 玩家
//
// 实体数量有限，逐对检测，按实体 ID 顺序遍历。
type CollisionSystem struct {
	em         *ecs.EntityManager
	clock      *SimulationClock
	lifecycle  *LifecycleSystem
	dispatcher *event.Dispatcher
	state      *game.SimulationState
}

// NewCollisionSystem 创建碰撞系统
func NewCollisionSystem(em *ecs.EntityManager, clock *SimulationClock, lifecycle *LifecycleSystem,
	dispatcher *event.Dispatcher, state *game.SimulationState) *CollisionSystem {
	return &CollisionSystem{
		em:         em,
		clock:      clock,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		state:      state,
	}
}

// HitBox 计算实体当前的世界命中矩形
// 实体已死亡、不可见或没有有效命中框时返回 false
func (s *CollisionSystem) HitBox(id ecs.EntityID) (hitBox, bool) {
	lc, ok := ecs.GetComponent[*components.LifecycleComponent](s.em, id)
	if !ok || lc.DeadFlag || !lc.Visible || s.em.IsMarkedForRemoval(id) {
		return hitBox{}, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.em, id)
	if !ok {
		return hitBox{}, false
	}
	col, ok := ecs.GetComponent[*components.CollisionComponent](s.em, id)
	if !ok || !col.Valid() {
		return hitBox{}, false
	}
	l, t, r, b := col.WorldRect(pos.X, pos.Y)
	return hitBox{id: id, left: l, top: t, right: r, bottom: b}, true
}

// alive 检测过程中实体可能死亡，每次测试前重新确认
func (s *CollisionSystem) alive(id ecs.EntityID) bool {
	return s.lifecycle.IsAlive(id)
}

// collect 按角色收集可检测的命中框
func (s *CollisionSystem) collect() map[types.EntityRole][]hitBox {
	groups := make(map[types.EntityRole][]hitBox)
	for _, id := range ecs.GetEntitiesWith2[*components.CombatantComponent, *components.CollisionComponent](s.em) {
		c, _ := ecs.GetComponent[*components.CombatantComponent](s.em, id)
		box, ok := s.HitBox(id)
		if !ok {
			continue
		}
		role := c.Role
		if role == types.RoleBoss {
			role = types.RoleEnemy
		}
		groups[role] = append(groups[role], box)
	}
	return groups
}

// Update 执行一帧碰撞检测
func (s *CollisionSystem) Update() {
	if s.clock.IsFrozen() {
		return
	}
	groups := s.collect()
	playerBullets := groups[types.RolePlayerBullet]
	enemyBullets := groups[types.RoleEnemyBullet]
	enemies := groups[types.RoleEnemy]
	items := groups[types.RoleItem]

	s.playerBulletsVsEnemies(playerBullets, enemies)

	player, hasPlayer := s.HitBox(s.state.PlayerID)
	if hasPlayer {
		s.enemyBulletsVsPlayer(enemyBullets, player)
	}
	s.bulletsVsBullets(playerBullets, enemyBullets)
	if hasPlayer {
		s.enemiesVsPlayer(enemies, player)
		s.itemsVsPlayer(items, player)
	}
}

func (s *CollisionSystem) playerBulletsVsEnemies(bullets, enemies []hitBox) {
	for _, b := range bullets {
		bullet, ok := ecs.GetComponent[*components.BulletComponent](s.em, b.id)
		if !ok {
			continue
		}
		for _, e := range enemies {
			if !s.alive(b.id) {
				break
			}
			if !s.alive(e.id) || !b.overlaps(e) {
				continue
			}

			hit := types.HitNormal
			if h, ok := ecs.GetComponent[*components.HealthComponent](s.em, e.id); ok && h.Infinite {
				hit = types.HitInfinity
			}

			if bullet.Piercing {
				tracker, ok := ecs.GetComponent[*components.HitTrackerComponent](s.em, b.id)
				if ok && !tracker.TryHit(e.id) {
					continue
				}
			}

			s.lifecycle.ApplyDamage(e.id, bullet.Damage, hit)
			s.lifecycle.ApplyDamage(b.id, 1, hit)
			s.hitEffect(b)
		}
	}
}

func (s *CollisionSystem) enemyBulletsVsPlayer(bullets []hitBox, player hitBox) {
	if p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, player.id); ok && p.BarrierActive() {
		return
	}
	for _, b := range bullets {
		if !s.alive(player.id) {
			return
		}
		if !s.alive(b.id) || !b.overlaps(player) {
			continue
		}
		damage := 1
		if bullet, ok := ecs.GetComponent[*components.BulletComponent](s.em, b.id); ok {
			damage = bullet.Damage
		}
		s.lifecycle.ApplyDamage(player.id, damage, types.HitNormal)
		s.lifecycle.ApplyDamage(b.id, InfiniteDamage, types.HitNormal)
	}
}

func (s *CollisionSystem) bulletsVsBullets(playerBullets, enemyBullets []hitBox) {
	for _, pb := range playerBullets {
		for _, eb := range enemyBullets {
			if !s.alive(pb.id) {
				break
			}
			if !s.alive(eb.id) || !pb.overlaps(eb) {
				continue
			}
			s.lifecycle.ApplyDamage(pb.id, InfiniteDamage, types.HitInfinity)
			s.lifecycle.ApplyDamage(eb.id, InfiniteDamage, types.HitInfinity)
		}
	}
}

func (s *CollisionSystem) enemiesVsPlayer(enemies []hitBox, player hitBox) {
	p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, player.id)
	if !ok {
		return
	}
	for _, e := range enemies {
		if !s.alive(player.id) {
			return
		}
		if !s.alive(e.id) || !e.overlaps(player) {
			continue
		}

		boss, isBoss := ecs.GetComponent[*components.BossComponent](s.em, e.id)
		if isBoss && boss.Kind.CanCapture() && s.capturing(e.id) {
			s.dispatcher.Publish(event.CaptureEvent{Boss: e.id, Player: player.id})
			continue
		}

		if p.BarrierActive() {
			// 护盾承受撞击并摧毁杂兵，Boss 不会被一击消灭
			if !isBoss {
				s.lifecycle.ApplyDamage(e.id, InfiniteDamage, types.HitInfinity)
			}
			continue
		}
		s.lifecycle.ApplyDamage(player.id, 1, types.HitNormal)
		s.lifecycle.ApplyDamage(e.id, 1, types.HitNormal)
	}
}

// capturing Boss 正在执行可抓取的动作
func (s *CollisionSystem) capturing(id ecs.EntityID) bool {
	anim, ok := ecs.GetComponent[*components.AnimationComponent](s.em, id)
	return ok && anim.Current == CaptureAnim
}

func (s *CollisionSystem) itemsVsPlayer(items []hitBox, player hitBox) {
	for _, it := range items {
		if !s.alive(it.id) || !it.overlaps(player) {
			continue
		}
		item, ok := ecs.GetComponent[*components.ItemComponent](s.em, it.id)
		if !ok {
			continue
		}
		s.lifecycle.Purge(it.id)
		s.dispatcher.Publish(event.ItemPickedEvent{Player: player.id, Item: item.Item})
	}
}

func (s *CollisionSystem) hitEffect(b hitBox) {
	x := (b.left + b.right) / 2
	entities.NewEffect(s.em, entities.EffectHit, x, b.top, config.HitEffectFrames)
}
