package systems

import (
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

// ItemSystem 道具掉落与拾取效果
type ItemSystem struct {
	em      *ecs.EntityManager
	catalog game.Catalog
	audio   game.AudioPlayer
	log     *logrus.Entry
}

// NewItemSystem 创建道具系统，订阅 DeadEvent 和 ItemPickedEvent
func NewItemSystem(em *ecs.EntityManager, dispatcher *event.Dispatcher, catalog game.Catalog, audio game.AudioPlayer) *ItemSystem {
	s := &ItemSystem{
		em:      em,
		catalog: catalog,
		audio:   audio,
		log:     logger.For("ItemSystem"),
	}
	dispatcher.Subscribe(event.TypeDead, func(e event.Event) {
		s.onDead(e.(event.DeadEvent))
	})
	dispatcher.Subscribe(event.TypeItemPicked, func(e event.Event) {
		picked := e.(event.ItemPickedEvent)
		s.Apply(picked.Player, picked.Item)
	})
	return s
}

func (s *ItemSystem) onDead(e event.DeadEvent) {
	if e.Role != types.RoleEnemy || e.ItemDrop == types.ItemNone {
		return
	}
	if _, err := entities.NewItem(s.em, s.catalog, e.ItemDrop, e.X, e.Y); err != nil {
		s.log.WithError(err).Warn("item drop skipped")
	}
}

// Apply 对玩家应用道具效果
//
// 参数:
//   - player: 玩家实体
//   - item: 道具类型
func (s *ItemSystem) Apply(player ecs.EntityID, item types.ItemType) {
	p, ok := ecs.GetComponent[*components.PlayerComponent](s.em, player)
	if !ok {
		return
	}
	switch item {
	case types.ItemBig:
		s.setMode(p, types.ShootBig)
	case types.ItemThreeWay:
		s.setMode(p, types.ShootThreeWay)
	case types.ItemSpeedUp:
		p.SpeedBoost = config.SpeedUpBoost
		s.audio.Play(game.CuePowerUp)
	case types.ItemBarrier:
		p.BarrierFrames = config.BarrierFrames
		s.audio.Play(game.CueBarrierStart)
	default:
		return
	}
	s.log.WithField("item", item).Debug("item applied")
}

// setMode 切换射击模式时重置加速
func (s *ItemSystem) setMode(p *components.PlayerComponent, mode types.ShootMode) {
	if p.ShootMode != mode {
		p.ShootMode = mode
		p.SpeedBoost = 0
	}
	s.audio.Play(game.CuePowerUp)
}
