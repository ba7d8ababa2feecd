package entities

import (
	"fmt"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
)

// combatSpec 战斗实体的公共组件参数
type combatSpec struct {
	role        types.EntityRole
	key         string
	x, y        float64
	hp          int
	infinite    bool
	rect        config.Rect
	score       int
	gauge       int
	deathFrames int
	anim        string
}

// newCombatEntity 创建带有位置、生命、命中框和生命周期组件的实体
func newCombatEntity(em *ecs.EntityManager, spec combatSpec) ecs.EntityID {
	id := em.CreateEntity()

	hp := spec.hp
	if spec.infinite && hp <= 0 {
		hp = 1
	}
	ecs.AddComponent(em, id, &components.PositionComponent{X: spec.x, Y: spec.y})
	ecs.AddComponent(em, id, &components.VelocityComponent{})
	ecs.AddComponent(em, id, &components.HealthComponent{
		CurrentHealth: hp,
		MaxHealth:     hp,
		Infinite:      spec.infinite,
	})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		OffsetX: spec.rect.X,
		OffsetY: spec.rect.Y,
		Width:   spec.rect.W,
		Height:  spec.rect.H,
		Scale:   1,
	})
	ecs.AddComponent(em, id, &components.LifecycleComponent{
		State:       types.StateActive,
		Visible:     true,
		DeathFrames: spec.deathFrames,
	})
	ecs.AddComponent(em, id, &components.CombatantComponent{
		Role:        spec.role,
		TemplateKey: spec.key,
		ScoreValue:  spec.score,
		GaugeValue:  spec.gauge,
	})
	ecs.AddComponent(em, id, &components.AnimationComponent{
		Current: spec.anim,
		Alpha:   1,
	})
	return id
}

// NewPlayer 创建玩家实体
//
// 参数:
//   - em: 实体管理器
//   - catalog: 属性目录
//   - x, y: 初始位置
//
// 返回:
//   - ecs.EntityID: 玩家实体ID
func NewPlayer(em *ecs.EntityManager, catalog game.Catalog, x, y float64) ecs.EntityID {
	tmpl := catalog.PlayerTemplate()
	id := newCombatEntity(em, combatSpec{
		role:        types.RolePlayer,
		key:         "player",
		x:           x,
		y:           y,
		hp:          tmpl.HP,
		rect:        tmpl.HitRect,
		deathFrames: config.DefaultDeathFrames,
		anim:        "idle",
	})
	ecs.AddComponent(em, id, &components.PlayerComponent{
		Speed:     tmpl.Speed,
		ShootMode: types.ShootNormal,
		TargetX:   x,
	})
	return id
}

// NewEnemy 创建杂兵实体
//
// 参数:
//   - em: 实体管理器
//   - catalog: 属性目录
//   - key: 杂兵模板键（如 "enemyA"）
//   - drop: 死亡时掉落的道具
//   - x, y: 出场位置
//
// 返回:
//   - ecs.EntityID: 杂兵实体ID
//   - error: 模板不存在
func NewEnemy(em *ecs.EntityManager, catalog game.Catalog, key string, drop types.ItemType, x, y float64) (ecs.EntityID, error) {
	tmpl, ok := catalog.EnemyTemplate(key)
	if !ok {
		return ecs.InvalidEntity, fmt.Errorf("enemy template %q not found", key)
	}

	id := newCombatEntity(em, combatSpec{
		role:        types.RoleEnemy,
		key:         key,
		x:           x,
		y:           y,
		hp:          tmpl.HP,
		infinite:    tmpl.Infinite,
		rect:        tmpl.HitRect,
		score:       tmpl.Score,
		gauge:       tmpl.Gauge,
		deathFrames: config.DefaultDeathFrames,
		anim:        "idle",
	})

	enemy := &components.EnemyComponent{
		Speed:          tmpl.Speed,
		Obstacle:       tmpl.IsObstacle(),
		BulletTemplate: tmpl.Bullet,
		ItemDrop:       drop,
		Movement:       components.ParseMovementKind(tmpl.Movement),
		SideDir:        1,
	}
	if !enemy.Obstacle {
		enemy.ShootInterval = tmpl.Interval
	}

	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	vel.VY = tmpl.Speed

	// SoliderB 从最近的侧边进入画面
	if enemy.Movement == components.MovementSoliderB {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		if x < config.CenterX {
			pos.X = -tmpl.HitRect.W / 2
			enemy.SideDir = 1
		} else {
			pos.X = config.ScreenWidth + tmpl.HitRect.W/2
			enemy.SideDir = -1
		}
	}

	ecs.AddComponent(em, id, enemy)
	return id, nil
}

// NewBoss 创建 Boss 实体（从画面上方进入）
//
// 参数:
//   - em: 实体管理器
//   - catalog: 属性目录
//   - kind: Boss 类型
//   - x, y: 初始位置
//   - handoff: 该实例是否会交接为另一种 Boss
//
// 返回:
//   - ecs.EntityID: Boss 实体ID
//   - error: 模板不存在
func NewBoss(em *ecs.EntityManager, catalog game.Catalog, kind types.BossKind, x, y float64, handoff bool) (ecs.EntityID, error) {
	tmpl, ok := catalog.BossTemplate(kind)
	if !ok {
		return ecs.InvalidEntity, fmt.Errorf("boss template %q not found", kind)
	}

	id := newCombatEntity(em, combatSpec{
		role:        types.RoleBoss,
		key:         kind.String(),
		x:           x,
		y:           y,
		hp:          tmpl.HP,
		rect:        tmpl.HitRect,
		score:       tmpl.Score,
		gauge:       tmpl.Gauge,
		deathFrames: config.DefaultDeathFrames,
		anim:        "idle",
	})
	ecs.AddComponent(em, id, &components.BossComponent{
		Kind:           kind,
		Phase:          components.BossEntering,
		EngageY:        config.EngageY(kind),
		EntrySpeed:     config.EntrySpeed(kind),
		HandoffPending: handoff,
	})
	return id, nil
}

// NewItem 创建掉落道具
//
// 参数:
//   - em: 实体管理器
//   - catalog: 属性目录
//   - item: 道具类型
//   - x, y: 掉落位置
//
// 返回:
//   - ecs.EntityID: 道具实体ID
//   - error: 道具类型为空或模板不存在
func NewItem(em *ecs.EntityManager, catalog game.Catalog, item types.ItemType, x, y float64) (ecs.EntityID, error) {
	if item == types.ItemNone {
		return ecs.InvalidEntity, fmt.Errorf("cannot spawn empty item")
	}
	tmpl, ok := catalog.ItemTemplate(item)
	if !ok {
		return ecs.InvalidEntity, fmt.Errorf("item template %q not found", item)
	}

	id := newCombatEntity(em, combatSpec{
		role:        types.RoleItem,
		key:         item.String(),
		x:           x,
		y:           y,
		hp:          1,
		rect:        tmpl.HitRect,
		deathFrames: 0,
		anim:        item.String(),
	})
	vel, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	vel.VY = tmpl.Speed
	ecs.AddComponent(em, id, &components.ItemComponent{Item: item})
	return id, nil
}
