package game

import "testing"

func TestHighScoreManager_SubmitOnlyWhenHigher(t *testing.T) {
	m := openTestGData(t, "test_shmup_highscore")

	hs := NewHighScoreManager(m)
	if hs.HighScore() != 0 {
		t.Fatalf("fresh high score = %d, want 0", hs.HighScore())
	}

	saved, err := hs.Submit(ScoreRecord{Score: 1200, MaxCombo: 14, Stage: 1})
	if err != nil || !saved {
		t.Fatalf("Submit(1200) = %v, %v", saved, err)
	}
	saved, err = hs.Submit(ScoreRecord{Score: 800, Stage: 2})
	if err != nil || saved {
		t.Errorf("Submit(800) should not save, got %v, %v", saved, err)
	}
	saved, _ = hs.Submit(ScoreRecord{Score: 1200, Stage: 2})
	if saved {
		t.Error("equal score should not replace the record")
	}

	reloaded := NewHighScoreManager(m)
	best := reloaded.Best()
	if best.Score != 1200 || best.MaxCombo != 14 || best.Stage != 1 {
		t.Errorf("reloaded record = %+v", best)
	}
}

func TestHighScoreManager_DegradedMode(t *testing.T) {
	hs := NewHighScoreManager(nil)
	saved, err := hs.Submit(ScoreRecord{Score: 50})
	if err != nil || !saved {
		t.Fatalf("Submit in memory = %v, %v", saved, err)
	}
	if hs.HighScore() != 50 {
		t.Errorf("HighScore = %d, want 50", hs.HighScore())
	}
}
