package components

import "github.com/decker502/shmup/pkg/types"

// MovementKind 杂兵的移动方式
type MovementKind int

const (
	MovementStraight MovementKind = iota // 直线下落
	MovementSoliderA                     // 到达画面下部后向玩家X靠拢
	MovementSoliderB                     // 从最近的侧边进入，到达画面上部后水平移动
)

// ParseMovementKind 将目录中的移动方式名解析为枚举，未知名称按直线处理
func ParseMovementKind(name string) MovementKind {
	switch name {
	case "soliderA":
		return MovementSoliderA
	case "soliderB":
		return MovementSoliderB
	default:
		return MovementStraight
	}
}

// EnemyComponent 杂兵 AI 状态
type EnemyComponent struct {
	Speed          float64
	ShootInterval  int // <= 0 不射击
	ShootCounter   int
	Obstacle       bool
	BulletTemplate string
	ItemDrop       types.ItemType
	Movement       MovementKind
	SideDir        float64 // SoliderB 水平移动方向（-1 / 1）
}
