package components

import "github.com/decker502/shmup/pkg/types"

// ItemComponent 掉落道具
type ItemComponent struct {
	Item types.ItemType
}
