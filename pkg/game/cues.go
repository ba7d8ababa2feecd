package game

import "github.com/decker502/shmup/pkg/types"

// 音效名
const (
	CueExplosion     = "se_explosion"
	CueDamage        = "se_damage"
	CueGuard         = "se_guard"
	CueSpecial       = "se_ca"
	CueBarrierStart  = "se_barrier_start"
	CueBarrierEnd    = "se_barrier_end"
	CuePowerUp       = "g_powerup_voice"
	CueCaReady       = "g_ca_voice"
	CueDanger        = "se_danger"
	CueGokiBGM       = "boss_goki_bgm"
	CueShungokusatsu = "boss_goki_voice_syungokusatu"
)

// BossVoice 拼接 Boss 语音名，如 boss_vega_voice_add
func BossVoice(kind types.BossKind, name string) string {
	return "boss_" + kind.String() + "_voice_" + name
}
