package types

// ShootMode 玩家射击模式
type ShootMode int

const (
	ShootNormal ShootMode = iota
	ShootBig
	ShootThreeWay
)

// String 返回射击模式对应的子弹模板槽位名
func (m ShootMode) String() string {
	switch m {
	case ShootBig:
		return "big"
	case ShootThreeWay:
		return "3way"
	default:
		return "normal"
	}
}
