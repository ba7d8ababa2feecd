package systems

import (
	"github.com/decker502/shmup/pkg/ecs"
	"github.com/decker502/shmup/pkg/logger"
	"github.com/sirupsen/logrus"
)

// SequenceID 步骤序列标识，0 表示无效
type SequenceID uint64

// Step 序列中的一个定时步骤
//
// Enter 在步骤成为当前步骤时执行一次；Update 在步骤占用的每一帧执行，
// progress ∈ (0, 1]。Frames 为 0 的步骤在同一帧完成并立即进入下一步。
type Step struct {
	Name   string
	Frames int
	Enter  func()
	Update func(progress float64)
}

// Sequence 一组按顺序执行的步骤
type Sequence struct {
	Name  string
	Owner ecs.EntityID // 所属实体，实体销毁时由 CancelOwner 取消
	// Cinematic 为 true 时冻结期间照常推进（死亡爆炸、CA 演出、交接）
	Cinematic bool
	// Valid 在每个步骤开始前检查，返回 false 时丢弃剩余步骤
	Valid func() bool
	// OnComplete 全部步骤执行完后调用
	OnComplete func()
	// OnAbort 序列被取消或失效时调用，OnComplete 不会再被调用
	OnAbort func()
	Steps   []Step
}

type runningSequence struct {
	id      SequenceID
	seq     Sequence
	index   int
	elapsed int
	entered bool
	paused  bool
	done    bool
}

// StepScheduler 协作式步骤调度器
//
// 所有序列在单线程中按启动顺序推进，没有真正的阻塞等待。
// 在 Update 期间启动的序列从下一次 Update 开始执行。
type StepScheduler struct {
	clock    *SimulationClock
	nextID   SequenceID
	running  []*runningSequence
	pending  []*runningSequence
	byID     map[SequenceID]*runningSequence
	updating bool
	log      *logrus.Entry
}

// NewStepScheduler 创建调度器
//
// 参数:
//   - clock: 用于判断非过场序列是否暂停
//
// 返回:
//   - *StepScheduler: 调度器实例
func NewStepScheduler(clock *SimulationClock) *StepScheduler {
	return &StepScheduler{
		clock: clock,
		byID:  make(map[SequenceID]*runningSequence),
		log:   logger.For("StepScheduler"),
	}
}

// Start 登记一个序列，返回其 ID
func (s *StepScheduler) Start(seq Sequence) SequenceID {
	s.nextID++
	rs := &runningSequence{id: s.nextID, seq: seq}
	s.pending = append(s.pending, rs)
	s.byID[rs.id] = rs
	s.log.WithFields(logrus.Fields{"id": rs.id, "name": seq.Name, "owner": seq.Owner}).Debug("sequence started")
	return rs.id
}

// Cancel 取消序列
func (s *StepScheduler) Cancel(id SequenceID) {
	if rs, ok := s.byID[id]; ok {
		s.abort(rs)
	}
}

// CancelOwner 取消某实体拥有的全部序列
func (s *StepScheduler) CancelOwner(owner ecs.EntityID) int {
	if owner == ecs.InvalidEntity {
		return 0
	}
	cancelled := 0
	for _, rs := range s.ordered() {
		if rs.seq.Owner == owner && !rs.done {
			s.abort(rs)
			cancelled++
		}
	}
	return cancelled
}

// CancelAll 取消全部序列（关卡销毁时使用）
func (s *StepScheduler) CancelAll() {
	for _, rs := range s.ordered() {
		if !rs.done {
			s.abort(rs)
		}
	}
	s.compact()
}

// Pause 暂停序列，当前步骤的进度原样保留
func (s *StepScheduler) Pause(id SequenceID) {
	if rs, ok := s.byID[id]; ok {
		rs.paused = true
	}
}

// Resume 从暂停处继续
func (s *StepScheduler) Resume(id SequenceID) {
	if rs, ok := s.byID[id]; ok {
		rs.paused = false
	}
}

// IsActive 序列是否仍在运行（含暂停中和待启动）
func (s *StepScheduler) IsActive(id SequenceID) bool {
	rs, ok := s.byID[id]
	return ok && !rs.done
}

// Len 活动序列数量
func (s *StepScheduler) Len() int {
	n := 0
	for _, rs := range s.byID {
		if !rs.done {
			n++
		}
	}
	return n
}

// Update 推进所有序列一帧
func (s *StepScheduler) Update() {
	s.running = append(s.running, s.pending...)
	s.pending = s.pending[:0]

	frozen := s.clock != nil && s.clock.IsFrozen()

	s.updating = true
	for _, rs := range s.running {
		if rs.done || rs.paused {
			continue
		}
		if frozen && !rs.seq.Cinematic {
			continue
		}
		s.advance(rs)
	}
	s.updating = false
	s.compact()
}

// advance 推进一个序列：执行所有零帧步骤，直到一个定时步骤消耗掉本帧
func (s *StepScheduler) advance(rs *runningSequence) {
	for !rs.done {
		if rs.index >= len(rs.seq.Steps) {
			s.complete(rs)
			return
		}
		step := rs.seq.Steps[rs.index]

		if !rs.entered {
			if rs.seq.Valid != nil && !rs.seq.Valid() {
				s.log.WithFields(logrus.Fields{"id": rs.id, "name": rs.seq.Name, "step": step.Name}).Debug("sequence invalidated")
				s.abort(rs)
				return
			}
			rs.entered = true
			rs.elapsed = 0
			if step.Enter != nil {
				step.Enter()
			}
			if rs.done {
				return
			}
		}

		if step.Frames <= 0 {
			if step.Update != nil {
				step.Update(1)
			}
			rs.index++
			rs.entered = false
			continue
		}

		rs.elapsed++
		if step.Update != nil {
			step.Update(float64(rs.elapsed) / float64(step.Frames))
		}
		if rs.done {
			return
		}
		if rs.elapsed >= step.Frames {
			rs.index++
			rs.entered = false
			if rs.index >= len(rs.seq.Steps) {
				s.complete(rs)
			}
		}
		return
	}
}

func (s *StepScheduler) complete(rs *runningSequence) {
	rs.done = true
	delete(s.byID, rs.id)
	if rs.seq.OnComplete != nil {
		rs.seq.OnComplete()
	}
}

func (s *StepScheduler) abort(rs *runningSequence) {
	if rs.done {
		return
	}
	rs.done = true
	delete(s.byID, rs.id)
	s.log.WithFields(logrus.Fields{"id": rs.id, "name": rs.seq.Name}).Debug("sequence cancelled")
	if rs.seq.OnAbort != nil {
		rs.seq.OnAbort()
	}
}

// ordered 按启动顺序返回所有序列
func (s *StepScheduler) ordered() []*runningSequence {
	all := make([]*runningSequence, 0, len(s.running)+len(s.pending))
	all = append(all, s.running...)
	all = append(all, s.pending...)
	return all
}

func (s *StepScheduler) compact() {
	if s.updating {
		return
	}
	kept := s.running[:0]
	for _, rs := range s.running {
		if !rs.done {
			kept = append(kept, rs)
		}
	}
	for i := len(kept); i < len(s.running); i++ {
		s.running[i] = nil
	}
	s.running = kept

	pending := s.pending[:0]
	for _, rs := range s.pending {
		if !rs.done {
			pending = append(pending, rs)
		}
	}
	s.pending = pending
}
