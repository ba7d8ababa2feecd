package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/decker502/shmup/pkg/embedded"
	"github.com/decker502/shmup/pkg/types"
	"gopkg.in/yaml.v3"
)

// EmbeddedCatalogPath 内置目录文件路径
const EmbeddedCatalogPath = "data/catalog.yaml"

// ErrInvalidCatalog 目录数据校验失败
var ErrInvalidCatalog = errors.New("invalid catalog")

// Rect 局部命中矩形（相对实体原点）
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Valid 宽高都为正数
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0
}

// AnimationSet 动画名称 -> 帧名列表
type AnimationSet map[string][]string

// PlayerTemplate 玩家属性
type PlayerTemplate struct {
	HP       int               `yaml:"hp"`
	Speed    float64           `yaml:"speed"`
	HitRect  Rect              `yaml:"hitRect"`
	CADamage int               `yaml:"caDamage"`
	Shoot    map[string]string `yaml:"shoot"` // 射击模式 -> 子弹模板
	Anim     AnimationSet      `yaml:"anim"`
}

// EnemyTemplate 杂兵属性
type EnemyTemplate struct {
	Name     string       `yaml:"name"`
	HP       int          `yaml:"hp"`
	Infinite bool         `yaml:"infinite"` // 不可破坏的障碍物
	Speed    float64      `yaml:"speed"`
	Interval int          `yaml:"interval"` // 射击间隔帧数，<= -1 表示障碍物
	Score    int          `yaml:"score"`
	Gauge    int          `yaml:"gauge"`
	Bullet   string       `yaml:"bullet"`
	Movement string       `yaml:"movement"` // straight / soliderA / soliderB
	HitRect  Rect         `yaml:"hitRect"`
	Anim     AnimationSet `yaml:"anim"`
}

// IsObstacle 障碍物不射击
func (e *EnemyTemplate) IsObstacle() bool {
	return e.Interval <= -1
}

// BossTemplate Boss 属性
type BossTemplate struct {
	Name          string            `yaml:"name"`
	HP            int               `yaml:"hp"`
	Score         int               `yaml:"score"`
	Gauge         int               `yaml:"gauge"`
	HitRect       Rect              `yaml:"hitRect"`
	Bullets       map[string]string `yaml:"bullets"` // 槽位(A/B/C) -> 子弹模板
	TransformWhen string            `yaml:"transformWhen"`
	TransformTo   string            `yaml:"transformTo"`
	EnrageWhen    string            `yaml:"enrageWhen"`
	BGM           string            `yaml:"bgm"`
	Anim          AnimationSet      `yaml:"anim"`

	transform *Condition
	enrage    *Condition
}

// TransformCondition 身份交接条件（未配置时为 nil）
func (b *BossTemplate) TransformCondition() *Condition {
	return b.transform
}

// EnrageCondition 狂暴条件（满足时攻击间隔缩短）
func (b *BossTemplate) EnrageCondition() *Condition {
	return b.enrage
}

// BulletTemplate 子弹属性
type BulletTemplate struct {
	Damage   int          `yaml:"damage"`
	HP       int          `yaml:"hp"`
	Interval int          `yaml:"interval"` // 玩家子弹的射击间隔帧数
	Speed    float64      `yaml:"speed"`
	Piercing bool         `yaml:"piercing"`
	Aimed    bool         `yaml:"aimed"` // 朝玩家方向发射
	HitRect  Rect         `yaml:"hitRect"`
	Anim     AnimationSet `yaml:"anim"`
}

// ItemTemplate 道具属性
type ItemTemplate struct {
	Speed   float64      `yaml:"speed"`
	HitRect Rect         `yaml:"hitRect"`
	Anim    AnimationSet `yaml:"anim"`
}

// StageConfig 关卡出怪配置
type StageConfig struct {
	Name string `yaml:"name"`
	// BossAfterClear 为 true 时，出怪队列耗尽后等场上杂兵清空才放出 Boss
	BossAfterClear bool       `yaml:"bossAfterClear"`
	Waves          [][]string `yaml:"waves"`
	BGM            string     `yaml:"bgm"`
}

// Catalog 只读的属性目录
type Catalog struct {
	Player  PlayerTemplate            `yaml:"player"`
	Enemies map[string]EnemyTemplate  `yaml:"enemies"`
	Bosses  map[string]BossTemplate   `yaml:"bosses"`
	Bullets map[string]BulletTemplate `yaml:"bullets"`
	Items   map[string]ItemTemplate   `yaml:"items"`
	Stages  []StageConfig             `yaml:"stages"`
}

// LoadCatalog 从文件系统加载目录
//
// 参数：
//
//	path - 配置文件路径
//
// 返回：
//
//	*Catalog - 解析并校验后的目录
//	error - 读取、解析或校验失败
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return catalog, nil
}

// LoadEmbeddedCatalog 加载内置目录
func LoadEmbeddedCatalog() (*Catalog, error) {
	data, err := embedded.ReadFile(EmbeddedCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog 解析 YAML 目录并校验
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := catalog.compileConditions(); err != nil {
		return nil, err
	}
	if err := validateCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return &catalog, nil
}

func (c *Catalog) compileConditions() error {
	for key, boss := range c.Bosses {
		transform, err := CompileCondition(boss.TransformWhen)
		if err != nil {
			return fmt.Errorf("boss %s transformWhen: %w", key, err)
		}
		enrage, err := CompileCondition(boss.EnrageWhen)
		if err != nil {
			return fmt.Errorf("boss %s enrageWhen: %w", key, err)
		}
		boss.transform = transform
		boss.enrage = enrage
		c.Bosses[key] = boss
	}
	return nil
}

// validateCatalog 验证目录的完整性和合法性
func validateCatalog(c *Catalog) error {
	if len(c.Enemies) == 0 {
		return fmt.Errorf("at least one enemy template is required")
	}
	if c.Player.HP <= 0 {
		return fmt.Errorf("player: hp must be positive, got %d", c.Player.HP)
	}
	if !c.Player.HitRect.Valid() {
		return fmt.Errorf("player: hitRect must have positive size")
	}
	for mode, bullet := range c.Player.Shoot {
		if _, ok := c.Bullets[bullet]; !ok {
			return fmt.Errorf("player: shoot mode %s references unknown bullet %q", mode, bullet)
		}
	}
	if _, ok := c.Player.Shoot[types.ShootNormal.String()]; !ok {
		return fmt.Errorf("player: shoot mode %q is required", types.ShootNormal.String())
	}

	for _, key := range sortedKeys(c.Enemies) {
		e := c.Enemies[key]
		if !e.Infinite && e.HP <= 0 {
			return fmt.Errorf("enemy %s: hp must be positive unless infinite, got %d", key, e.HP)
		}
		if e.Score < 0 || e.Gauge < 0 {
			return fmt.Errorf("enemy %s: score and gauge cannot be negative", key)
		}
		if e.Interval > 0 && e.Bullet == "" {
			return fmt.Errorf("enemy %s: shooting enemy needs a bullet template", key)
		}
		if e.Bullet != "" {
			if _, ok := c.Bullets[e.Bullet]; !ok {
				return fmt.Errorf("enemy %s: unknown bullet %q", key, e.Bullet)
			}
		}
	}

	for _, key := range sortedKeys(c.Bosses) {
		b := c.Bosses[key]
		if _, err := types.ParseBossKind(key); err != nil {
			return fmt.Errorf("boss %s: %w", key, err)
		}
		if b.HP <= 0 {
			return fmt.Errorf("boss %s: hp must be positive, got %d", key, b.HP)
		}
		for slot, bullet := range b.Bullets {
			if _, ok := c.Bullets[bullet]; !ok {
				return fmt.Errorf("boss %s: bullet slot %s references unknown bullet %q", key, slot, bullet)
			}
		}
		if b.TransformWhen != "" {
			if _, ok := c.Bosses[b.TransformTo]; !ok {
				return fmt.Errorf("boss %s: transformTo %q is not a known boss", key, b.TransformTo)
			}
		}
	}

	for key, bullet := range c.Bullets {
		if bullet.Damage <= 0 {
			return fmt.Errorf("bullet %s: damage must be positive, got %d", key, bullet.Damage)
		}
		if bullet.HP <= 0 {
			return fmt.Errorf("bullet %s: hp must be positive, got %d", key, bullet.HP)
		}
	}

	for i, stage := range c.Stages {
		if len(stage.Waves) == 0 {
			return fmt.Errorf("stage %d: at least one wave row is required", i)
		}
		for r, row := range stage.Waves {
			for col, code := range row {
				if len(code) != 2 {
					return fmt.Errorf("stage %d row %d col %d: spawn code %q must have 2 characters", i, r, col, code)
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnemyTemplate 查询杂兵模板
func (c *Catalog) EnemyTemplate(key string) (*EnemyTemplate, bool) {
	t, ok := c.Enemies[key]
	if !ok {
		return nil, false
	}
	return &t, true
}

// BossTemplate 查询 Boss 模板
func (c *Catalog) BossTemplate(kind types.BossKind) (*BossTemplate, bool) {
	t, ok := c.Bosses[kind.String()]
	if !ok {
		return nil, false
	}
	return &t, true
}

// BulletTemplate 查询子弹模板
func (c *Catalog) BulletTemplate(key string) (*BulletTemplate, bool) {
	t, ok := c.Bullets[key]
	if !ok {
		return nil, false
	}
	return &t, true
}

// ItemTemplate 查询道具模板
func (c *Catalog) ItemTemplate(item types.ItemType) (*ItemTemplate, bool) {
	t, ok := c.Items[item.String()]
	if !ok {
		return nil, false
	}
	return &t, true
}

// Stage 查询关卡配置
func (c *Catalog) Stage(index int) (*StageConfig, bool) {
	if index < 0 || index >= len(c.Stages) {
		return nil, false
	}
	s := c.Stages[index]
	return &s, true
}

// CADamage CA 对每个目标的伤害
func (c *Catalog) CADamage() int {
	if c.Player.CADamage > 0 {
		return c.Player.CADamage
	}
	return DefaultCADamage
}

// PlayerTemplate 玩家属性
func (c *Catalog) PlayerTemplate() *PlayerTemplate {
	p := c.Player
	return &p
}

// StageCount 关卡数量
func (c *Catalog) StageCount() int {
	return len(c.Stages)
}
