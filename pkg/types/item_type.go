package types

import "fmt"

// ItemType 敌人死亡时掉落的道具类型
type ItemType int

const (
	ItemNone ItemType = iota
	ItemBig
	ItemThreeWay
	ItemSpeedUp
	ItemBarrier
)

// ParseItemCode 解析出怪码的第二个字符
// '1'=Big, '2'=ThreeWay, '3'=SpeedUp, '9'=Barrier，其余均为无掉落
func ParseItemCode(code byte) ItemType {
	switch code {
	case '1':
		return ItemBig
	case '2':
		return ItemThreeWay
	case '3':
		return ItemSpeedUp
	case '9':
		return ItemBarrier
	default:
		return ItemNone
	}
}

// String 返回道具的目录键名
func (i ItemType) String() string {
	switch i {
	case ItemBig:
		return "big"
	case ItemThreeWay:
		return "3way"
	case ItemSpeedUp:
		return "speed_high"
	case ItemBarrier:
		return "barrier"
	default:
		return "none"
	}
}

// ParseItemType 将目录键名解析为道具类型
func ParseItemType(name string) (ItemType, error) {
	for _, item := range []ItemType{ItemBig, ItemThreeWay, ItemSpeedUp, ItemBarrier} {
		if item.String() == name {
			return item, nil
		}
	}
	return ItemNone, fmt.Errorf("unknown item type %q", name)
}
