package types

import "fmt"

// BossKind Boss 种类
// 每种 Boss 的行为由 config.PatternTable 中的数据驱动，不再通过子类覆写
type BossKind int

const (
	BossUnknown BossKind = iota
	BossBison
	BossBarlog
	BossSagat
	BossVega
	BossGoki
	BossFang
)

var bossKindNames = map[BossKind]string{
	BossBison:  "bison",
	BossBarlog: "barlog",
	BossSagat:  "sagat",
	BossVega:   "vega",
	BossGoki:   "goki",
	BossFang:   "fang",
}

// String 返回 Boss 在目录中的键名
func (k BossKind) String() string {
	if name, ok := bossKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseBossKind 根据目录键名解析 Boss 种类
func ParseBossKind(name string) (BossKind, error) {
	for kind, n := range bossKindNames {
		if n == name {
			return kind, nil
		}
	}
	return BossUnknown, fmt.Errorf("unknown boss kind %q", name)
}

// BossKindForStage 返回关卡对应的 Boss
// 0=bison, 1=barlog, 2=sagat, 3=vega, 4=fang，其他关卡返回错误
func BossKindForStage(stage int) (BossKind, error) {
	switch stage {
	case 0:
		return BossBison, nil
	case 1:
		return BossBarlog, nil
	case 2:
		return BossSagat, nil
	case 3:
		return BossVega, nil
	case 4:
		return BossFang, nil
	default:
		return BossUnknown, fmt.Errorf("no boss defined for stage %d", stage)
	}
}

// CanCapture 是否拥有接触即发动的抓取技（瞬狱杀）
func (k BossKind) CanCapture() bool {
	return k == BossGoki
}
