package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/decker502/shmup/pkg/types"
)

const minimalCatalog = `
player:
  hp: 3
  speed: 6
  hitRect: { x: -4, y: -4, w: 8, h: 8 }
  shoot: { normal: shot }
enemies:
  enemyA: { hp: 1, interval: 30, score: 100, gauge: 10, bullet: shot, hitRect: { x: -8, y: -8, w: 16, h: 16 } }
bosses:
  vega:
    hp: 100
    bullets: { A: shot }
    transformWhen: elapsed >= 3
    transformTo: goki
  goki: { hp: 120 }
bullets:
  shot: { damage: 1, hp: 1, speed: 3, hitRect: { x: -2, y: -2, w: 4, h: 4 } }
items:
  big: { speed: 1 }
stages:
  - name: one
    waves:
      - [A0, "00"]
`

func TestLoadCatalog_RepositoryData(t *testing.T) {
	catalog, err := LoadCatalog("../../data/catalog.yaml")
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}

	if len(catalog.Stages) != 5 {
		t.Errorf("expected 5 stages, got %d", len(catalog.Stages))
	}
	for stage := 0; stage < 5; stage++ {
		kind, err := types.BossKindForStage(stage)
		if err != nil {
			t.Fatalf("BossKindForStage(%d): %v", stage, err)
		}
		if _, ok := catalog.BossTemplate(kind); !ok {
			t.Errorf("stage %d boss %s missing from catalog", stage, kind)
		}
	}
	if _, ok := catalog.BossTemplate(types.BossGoki); !ok {
		t.Error("goki template missing")
	}

	// 每个 Boss 攻击模式引用的子弹槽都要在目录中配置
	for kind, patterns := range PatternTable {
		boss, ok := catalog.BossTemplate(kind)
		if !ok {
			t.Errorf("pattern table references boss %s without template", kind)
			continue
		}
		for _, p := range patterns {
			for _, s := range p.Steps {
				if s.Kind != StepEmit {
					continue
				}
				if _, ok := boss.Bullets[s.Emit.Slot]; !ok {
					t.Errorf("boss %s pattern %s emits from unconfigured slot %s", kind, p.Name, s.Emit.Slot)
				}
			}
		}
	}
}

func TestParseCatalog_Minimal(t *testing.T) {
	catalog, err := ParseCatalog([]byte(minimalCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	enemy, ok := catalog.EnemyTemplate("enemyA")
	if !ok {
		t.Fatal("enemyA not found")
	}
	if enemy.Score != 100 || enemy.Gauge != 10 {
		t.Errorf("unexpected enemy stats: %+v", enemy)
	}
	if _, ok := catalog.EnemyTemplate("enemyZ"); ok {
		t.Error("enemyZ should not exist")
	}

	vega, _ := catalog.BossTemplate(types.BossVega)
	if vega.TransformCondition() == nil {
		t.Fatal("vega transform condition should be compiled")
	}
	ok, err = vega.TransformCondition().Eval(ConditionVars{Elapsed: 3.5})
	if err != nil || !ok {
		t.Errorf("transform condition at 3.5s = %v, %v; want true", ok, err)
	}

	goki, _ := catalog.BossTemplate(types.BossGoki)
	if goki.TransformCondition() != nil {
		t.Error("goki has no transform condition")
	}

	if catalog.CADamage() != DefaultCADamage {
		t.Errorf("CADamage() = %d, want default %d", catalog.CADamage(), DefaultCADamage)
	}
	if _, ok := catalog.ItemTemplate(types.ItemBig); !ok {
		t.Error("big item template missing")
	}
	if _, ok := catalog.Stage(1); ok {
		t.Error("stage 1 should not exist")
	}
}

func TestParseCatalog_Lookups_ReturnCopies(t *testing.T) {
	catalog, err := ParseCatalog([]byte(minimalCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	enemy, _ := catalog.EnemyTemplate("enemyA")
	enemy.HP = 999
	again, _ := catalog.EnemyTemplate("enemyA")
	if again.HP != 1 {
		t.Errorf("catalog mutated through lookup, hp = %d", again.HP)
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{"unknown bullet", [2]string{"bullet: shot", "bullet: nope"}, "unknown bullet"},
		{"bad spawn code", [2]string{`[A0, "00"]`, `[A0, "0"]`}, "spawn code"},
		{"unknown boss key", [2]string{"goki: { hp: 120 }", "ryu: { hp: 120 }"}, "ryu"},
		{"zero enemy hp", [2]string{"enemyA: { hp: 1,", "enemyA: { hp: 0,"}, "hp must be positive"},
		{"missing normal shoot", [2]string{"shoot: { normal: shot }", "shoot: { big: shot }"}, "normal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(minimalCatalog, tt.replace[0], tt.replace[1], 1)
			_, err := ParseCatalog([]byte(data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseCatalog_ErrorKinds(t *testing.T) {
	if _, err := ParseCatalog([]byte("player: [")); err == nil || errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("syntax error should not be ErrInvalidCatalog, got %v", err)
	}

	data := strings.Replace(minimalCatalog, "hp: 3", "hp: 0", 1)
	if _, err := ParseCatalog([]byte(data)); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("validation error should wrap ErrInvalidCatalog, got %v", err)
	}

	bad := strings.Replace(minimalCatalog, "elapsed >= 3", "elapsed >=", 1)
	if _, err := ParseCatalog([]byte(bad)); err == nil {
		t.Error("expected compile error for broken transformWhen")
	}
}
