package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGData 在临时 HOME 下打开 gdata
func openTestGData(t *testing.T, app string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.MusicVolume != 0.7 || s.SoundVolume != 0.8 {
		t.Errorf("unexpected default volumes: %+v", s)
	}
	if !s.MusicEnabled || !s.SoundEnabled {
		t.Error("audio should be enabled by default")
	}
	if s.Fullscreen || s.ShowHitRects {
		t.Error("fullscreen and hit rects should be off by default")
	}
}

func TestGameSettings_CueVolume(t *testing.T) {
	s := DefaultSettings()
	if got := s.CueVolume("boss_goki_bgm"); got != 0.7 {
		t.Errorf("bgm volume = %v, want 0.7", got)
	}
	if got := s.CueVolume("se_explosion"); got != 0.8 {
		t.Errorf("se volume = %v, want 0.8", got)
	}
	s.SoundEnabled = false
	if got := s.CueVolume("se_explosion"); got != 0 {
		t.Errorf("disabled se volume = %v, want 0", got)
	}
	if got := s.CueVolume("stage0_bgm"); got != 0.7 {
		t.Errorf("music should be unaffected by sound switch, got %v", got)
	}
}

func TestSettingsManager_SaveAndReload(t *testing.T) {
	m := openTestGData(t, "test_shmup_settings")

	sm := NewSettingsManager(m)
	sm.SetSoundVolume(1.5)
	sm.ToggleHitRects()
	if err := sm.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewSettingsManager(m)
	s := reloaded.GetSettings()
	if s.SoundVolume != 1.0 {
		t.Errorf("SoundVolume = %v, want clamped 1.0", s.SoundVolume)
	}
	if !s.ShowHitRects {
		t.Error("ShowHitRects should persist")
	}
}

func TestSettingsManager_DegradedMode(t *testing.T) {
	sm := NewSettingsManager(nil)
	if err := sm.Save(); err != nil {
		t.Errorf("Save in degraded mode should not fail: %v", err)
	}
	if sm.ToggleSound() {
		t.Error("ToggleSound from enabled should disable")
	}
	if sm.GetSettings().SoundEnabled || sm.GetSettings().MusicEnabled {
		t.Error("both switches should be off")
	}
}
