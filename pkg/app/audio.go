package app

import (
	"bytes"
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/decker502/shmup/pkg/game"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sirupsen/logrus"
)

// SampleRate 音频采样率
const SampleRate = 44100

const (
	soundSeconds = 0.18
	musicSeconds = 2.0
	// 音高范围（Hz）
	minPitch = 180.0
	maxPitch = 880.0
)

// CueAudio 音频协作方
//
// 没有音频素材时，每个音效名映射到一段合成音：
// 音效为短促的衰减音，BGM 为循环的两音琶音。音量取自设置。
type CueAudio struct {
	ctx      *audio.Context
	settings *game.SettingsManager
	players  map[string]*audio.Player
	log      *logrus.Entry
}

// NewCueAudio 创建音频协作方
//
// 参数：
//   - ctx: ebiten 音频上下文，为 nil 时静音
//   - settings: 设置管理器，可为 nil（使用默认音量）
func NewCueAudio(ctx *audio.Context, settings *game.SettingsManager) *CueAudio {
	return &CueAudio{
		ctx:      ctx,
		settings: settings,
		players:  make(map[string]*audio.Player),
		log:      logger.For("CueAudio"),
	}
}

func (a *CueAudio) volume(cue string) float64 {
	if a.settings == nil {
		return game.DefaultSettings().CueVolume(cue)
	}
	return a.settings.GetSettings().CueVolume(cue)
}

// Play 播放音效；BGM 已在播放时不重新开始
func (a *CueAudio) Play(cue string) {
	if a.ctx == nil || cue == "" {
		return
	}
	vol := a.volume(cue)
	if vol <= 0 {
		return
	}
	p := a.player(cue)
	if p == nil {
		return
	}
	p.SetVolume(vol)
	if game.IsMusicCue(cue) && p.IsPlaying() {
		return
	}
	if err := p.Rewind(); err != nil {
		a.log.WithError(err).WithField("cue", cue).Warn("rewind failed")
		return
	}
	p.Play()
}

// Stop 停止音效（主要用于 BGM）
func (a *CueAudio) Stop(cue string) {
	if p, ok := a.players[cue]; ok {
		p.Pause()
	}
}

// StopAll 停止所有正在播放的音效
func (a *CueAudio) StopAll() {
	for _, p := range a.players {
		p.Pause()
	}
}

func (a *CueAudio) player(cue string) *audio.Player {
	if p, ok := a.players[cue]; ok {
		return p
	}
	var p *audio.Player
	if game.IsMusicCue(cue) {
		pcm := SynthesizeMusic(cue, SampleRate)
		loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
		var err error
		p, err = a.ctx.NewPlayer(loop)
		if err != nil {
			a.log.WithError(err).WithField("cue", cue).Warn("music player creation failed")
			return nil
		}
	} else {
		p = a.ctx.NewPlayerFromBytes(SynthesizeSound(cue, SampleRate))
	}
	a.players[cue] = p
	return p
}

// CuePitch 音效名对应的基础音高，同名总是得到同一音高
func CuePitch(cue string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cue))
	return minPitch + float64(h.Sum32()%1000)/1000*(maxPitch-minPitch)
}

// SynthesizeSound 生成音效 PCM（16 位立体声小端）
func SynthesizeSound(cue string, sampleRate int) []byte {
	n := int(soundSeconds * float64(sampleRate))
	freq := CuePitch(cue)
	return synthesize(n, func(i int) float64 {
		t := float64(i) / float64(sampleRate)
		env := math.Exp(-t * 18)
		return math.Sin(2*math.Pi*freq*t) * env * 0.6
	})
}

// SynthesizeMusic 生成可循环的 BGM PCM（16 位立体声小端）
func SynthesizeMusic(cue string, sampleRate int) []byte {
	n := int(musicSeconds * float64(sampleRate))
	base := CuePitch(cue) / 2
	notes := []float64{base, base * 1.25, base * 1.5, base * 1.25}
	noteLen := n / len(notes)
	return synthesize(n, func(i int) float64 {
		note := notes[(i/noteLen)%len(notes)]
		t := float64(i) / float64(sampleRate)
		local := float64(i%noteLen) / float64(noteLen)
		env := 1 - local*0.7
		return math.Sin(2*math.Pi*note*t) * env * 0.3
	})
}

func synthesize(samples int, wave func(i int) float64) []byte {
	buf := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		v := int16(clampUnit(wave(i)) * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
