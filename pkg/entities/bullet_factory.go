package entities

import (
	"fmt"
	"math"

	"github.com/decker502/shmup/pkg/components"
	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
)

// 常用方向（度，0 为向右，90 为向下）
const (
	AngleDown = 90.0
	AngleUp   = -90.0
)

// BulletSpec 发射一发子弹的参数
type BulletSpec struct {
	Template string
	Owner    types.EntityRole // RolePlayer / RoleEnemy / RoleBoss
	OwnerID  ecs.EntityID
	X, Y     float64
	Angle    float64 // 度
	Homing   *components.HomingComponent
}

// BulletFactory 按子弹模板创建子弹实体
type BulletFactory struct {
	em      *ecs.EntityManager
	catalog game.Catalog
}

// NewBulletFactory 创建子弹工厂
func NewBulletFactory(em *ecs.EntityManager, catalog game.Catalog) *BulletFactory {
	return &BulletFactory{em: em, catalog: catalog}
}

// Template 查询子弹模板
func (f *BulletFactory) Template(key string) (*config.BulletTemplate, bool) {
	return f.catalog.BulletTemplate(key)
}

// Spawn 创建一发子弹
//
// 参数:
//   - spec: 发射参数
//
// 返回:
//   - ecs.EntityID: 子弹实体ID
//   - error: 模板不存在
func (f *BulletFactory) Spawn(spec BulletSpec) (ecs.EntityID, error) {
	tmpl, ok := f.catalog.BulletTemplate(spec.Template)
	if !ok {
		return ecs.InvalidEntity, fmt.Errorf("bullet template %q not found", spec.Template)
	}

	role := types.RoleEnemyBullet
	if spec.Owner == types.RolePlayer {
		role = types.RolePlayerBullet
	}

	id := newCombatEntity(f.em, combatSpec{
		role:        role,
		key:         spec.Template,
		x:           spec.X,
		y:           spec.Y,
		hp:          tmpl.HP,
		rect:        tmpl.HitRect,
		deathFrames: config.BulletDeathFrames,
		anim:        "fly",
	})

	ecs.AddComponent(f.em, id, &components.BulletComponent{
		Owner:    spec.Owner,
		OwnerID:  spec.OwnerID,
		Damage:   tmpl.Damage,
		Template: spec.Template,
		Piercing: tmpl.Piercing,
	})
	if tmpl.Piercing {
		ecs.AddComponent(f.em, id, components.NewHitTracker(config.PiercingHitCadence, config.PiercingHitCap))
	}

	vel, _ := ecs.GetComponent[*components.VelocityComponent](f.em, id)
	if spec.Homing != nil {
		homing := *spec.Homing
		if homing.Speed == 0 {
			homing.Speed = tmpl.Speed
		}
		ecs.AddComponent(f.em, id, &homing)
	} else {
		vel.VX, vel.VY = Heading(spec.Angle, tmpl.Speed)
	}
	return id, nil
}

// Heading 将角度（度）和速度换算为每帧位移
func Heading(angle, speed float64) (vx, vy float64) {
	rad := angle * math.Pi / 180
	return math.Cos(rad) * speed, math.Sin(rad) * speed
}

// AngleTo 从 (x, y) 指向 (tx, ty) 的角度（度）
func AngleTo(x, y, tx, ty float64) float64 {
	return math.Atan2(ty-y, tx-x) * 180 / math.Pi
}
