package types

// EntityRole 战斗实体的角色
// 碰撞配对和事件路由都按角色区分
type EntityRole int

const (
	RoleUnknown EntityRole = iota
	RolePlayer
	RoleEnemy
	RoleBoss
	RolePlayerBullet
	RoleEnemyBullet
	RoleItem
	RoleEffect
)

// String 返回角色名称（用于日志）
func (r EntityRole) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleEnemy:
		return "enemy"
	case RoleBoss:
		return "boss"
	case RolePlayerBullet:
		return "player_bullet"
	case RoleEnemyBullet:
		return "enemy_bullet"
	case RoleItem:
		return "item"
	case RoleEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// IsHostile 敌人和 Boss 都算敌对单位（连击、CA 溅射的目标）
func (r EntityRole) IsHostile() bool {
	return r == RoleEnemy || r == RoleBoss
}

// IsBullet 是否为子弹角色
func (r EntityRole) IsBullet() bool {
	return r == RolePlayerBullet || r == RoleEnemyBullet
}
