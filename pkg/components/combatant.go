package components

import "github.com/decker502/shmup/pkg/types"

// CombatantComponent 参与战斗的实体的身份信息
type CombatantComponent struct {
	Role        types.EntityRole
	TemplateKey string // 目录中的模板键，如 "enemyA"、"vega"
	ScoreValue  int    // 击杀得分（未乘倍率）
	GaugeValue  int    // 击杀增加的 CA 槽
}
