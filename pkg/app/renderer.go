package app

import (
	"image/color"
	"sort"

	"github.com/decker502/shmup/pkg/config"
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 特效节点没有命中框时使用的绘制尺寸
const effectSize = 16.0

// node 一个渲染节点
type node struct {
	role      types.EntityRole
	template  string
	anim      string
	transform game.Transform
	rect      config.Rect
}

// DebugRenderer 以色块绘制实体的渲染器
// 节点以实体 ID 为键，尺寸取自属性目录中的命中框
type DebugRenderer struct {
	catalog  game.Catalog
	nodes    map[ecs.EntityID]*node
	hitRects bool
}

// NewDebugRenderer 创建调试渲染器
func NewDebugRenderer(catalog game.Catalog) *DebugRenderer {
	return &DebugRenderer{
		catalog: catalog,
		nodes:   make(map[ecs.EntityID]*node),
	}
}

// SetCatalog 切换属性目录（热重载后的新关卡使用）
func (r *DebugRenderer) SetCatalog(catalog game.Catalog) {
	r.catalog = catalog
}

// SetShowHitRects 是否额外描边命中框
func (r *DebugRenderer) SetShowHitRects(show bool) {
	r.hitRects = show
}

// CreateNode 创建节点
func (r *DebugRenderer) CreateNode(id ecs.EntityID, role types.EntityRole, template string) {
	r.nodes[id] = &node{role: role, template: template, rect: r.rectFor(role, template)}
}

// DestroyNode 销毁节点
func (r *DebugRenderer) DestroyNode(id ecs.EntityID) {
	delete(r.nodes, id)
}

// SetAnimation 记录当前动画名
func (r *DebugRenderer) SetAnimation(id ecs.EntityID, name string) {
	if n, ok := r.nodes[id]; ok {
		n.anim = name
	}
}

// SetTransform 更新位置和显示参数
func (r *DebugRenderer) SetTransform(id ecs.EntityID, t game.Transform) {
	if n, ok := r.nodes[id]; ok {
		n.transform = t
	}
}

// Bounds 节点在世界坐标中的矩形
func (r *DebugRenderer) Bounds(id ecs.EntityID) (game.Rect, bool) {
	n, ok := r.nodes[id]
	if !ok {
		return game.Rect{}, false
	}
	return nodeRect(n), true
}

// Len 当前节点数量
func (r *DebugRenderer) Len() int {
	return len(r.nodes)
}

func nodeRect(n *node) game.Rect {
	scale := n.transform.Scale
	if scale == 0 {
		scale = 1
	}
	return game.Rect{
		X: n.transform.X + n.rect.X*scale,
		Y: n.transform.Y + n.rect.Y*scale,
		W: n.rect.W * scale,
		H: n.rect.H * scale,
	}
}

// rectFor 从目录中查找模板的命中框
func (r *DebugRenderer) rectFor(role types.EntityRole, template string) config.Rect {
	fallback := config.Rect{X: -effectSize / 2, Y: -effectSize / 2, W: effectSize, H: effectSize}
	if r.catalog == nil {
		return fallback
	}
	switch role {
	case types.RolePlayer:
		return r.catalog.PlayerTemplate().HitRect
	case types.RoleEnemy:
		if t, ok := r.catalog.EnemyTemplate(template); ok {
			return t.HitRect
		}
	case types.RoleBoss:
		if kind, err := types.ParseBossKind(template); err == nil {
			if t, ok := r.catalog.BossTemplate(kind); ok {
				return t.HitRect
			}
		}
	case types.RolePlayerBullet, types.RoleEnemyBullet:
		if t, ok := r.catalog.BulletTemplate(template); ok {
			return t.HitRect
		}
	case types.RoleItem:
		if item, err := types.ParseItemType(template); err == nil {
			if t, ok := r.catalog.ItemTemplate(item); ok {
				return t.HitRect
			}
		}
	}
	return fallback
}

func roleColor(role types.EntityRole) color.RGBA {
	switch role {
	case types.RolePlayer:
		return color.RGBA{R: 80, G: 160, B: 255, A: 255}
	case types.RoleEnemy:
		return color.RGBA{R: 220, G: 80, B: 60, A: 255}
	case types.RoleBoss:
		return color.RGBA{R: 170, G: 40, B: 200, A: 255}
	case types.RolePlayerBullet:
		return color.RGBA{R: 250, G: 240, B: 120, A: 255}
	case types.RoleEnemyBullet:
		return color.RGBA{R: 255, G: 140, B: 40, A: 255}
	case types.RoleItem:
		return color.RGBA{R: 90, G: 230, B: 120, A: 255}
	default:
		return color.RGBA{R: 255, G: 255, B: 255, A: 160}
	}
}

// Draw 按实体 ID 顺序绘制所有可见节点
func (r *DebugRenderer) Draw(screen *ebiten.Image) {
	ids := make([]ecs.EntityID, 0, len(r.nodes))
	for id := range r.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := r.nodes[id]
		if !n.transform.Visible {
			continue
		}
		rect := nodeRect(n)
		c := roleColor(n.role)
		if n.transform.Flash > 0 {
			c = mix(c, color.RGBA{R: 255, G: 255, B: 255, A: 255}, n.transform.Flash)
		}
		c.A = uint8(float64(c.A) * clamp01(n.transform.Alpha))
		if n.anim == "dead" {
			c.A /= 2
		}
		vector.DrawFilledRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), c, false)
		if r.hitRects {
			vector.StrokeRect(screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), 1, color.White, false)
		}
	}
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	lerp := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: a.A}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
