// Package event 提供带类型载荷的事件总线
//
// 实体不再直接回调场景对象：系统把事件发布到 Dispatcher，
// 在每帧的事件分发阶段统一按发布顺序派发给订阅者。
package event

// EventType 事件类型
type EventType string

// Event 所有事件载荷都实现此接口
type Event interface {
	Type() EventType
}

// Handler 事件处理函数
type Handler func(Event)

// maxFlushRounds 单次 Flush 的最大轮数
// 处理函数可能在分发过程中继续发布事件，超过上限的事件留到下一帧
const maxFlushRounds = 16

// Dispatcher 事件分发器
type Dispatcher struct {
	handlers map[EventType][]Handler
	queue    []Event
}

// NewDispatcher 创建事件分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[EventType][]Handler),
		queue:    make([]Event, 0, 32),
	}
}

// Subscribe 订阅事件
// 同一类型的处理函数按订阅顺序调用
func (d *Dispatcher) Subscribe(eventType EventType, handler Handler) {
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Publish 将事件加入队列，等待 Flush 时派发
func (d *Dispatcher) Publish(e Event) {
	d.queue = append(d.queue, e)
}

// Dispatch 立即派发事件（不经过队列）
func (d *Dispatcher) Dispatch(e Event) {
	for _, h := range d.handlers[e.Type()] {
		h(e)
	}
}

// Pending 队列中待派发的事件数量
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Flush 按发布顺序派发队列中的所有事件
// 返回: 本次派发的事件数量
func (d *Dispatcher) Flush() int {
	dispatched := 0
	for round := 0; round < maxFlushRounds && len(d.queue) > 0; round++ {
		batch := d.queue
		d.queue = make([]Event, 0, len(batch))
		for _, e := range batch {
			d.Dispatch(e)
			dispatched++
		}
	}
	return dispatched
}

// Reset 丢弃队列并清空所有订阅（场景销毁时使用）
func (d *Dispatcher) Reset() {
	d.handlers = make(map[EventType][]Handler)
	d.queue = d.queue[:0]
}
