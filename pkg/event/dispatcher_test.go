package event

import "testing"

func TestPublishIsDeferredUntilFlush(t *testing.T) {
	d := NewDispatcher()
	got := 0
	d.Subscribe(TypeDead, func(Event) { got++ })

	d.Publish(DeadEvent{Entity: 1})
	if got != 0 {
		t.Fatal("handler ran before Flush")
	}

	if n := d.Flush(); n != 1 {
		t.Errorf("Flush() = %d, want 1", n)
	}
	if got != 1 {
		t.Errorf("handler called %d times, want 1", got)
	}
}

func TestFlushKeepsPublishOrder(t *testing.T) {
	d := NewDispatcher()
	var order []EventType
	record := func(e Event) { order = append(order, e.Type()) }
	d.Subscribe(TypeDead, record)
	d.Subscribe(TypeDeadComplete, record)
	d.Subscribe(TypeScore, record)

	d.Publish(DeadEvent{})
	d.Publish(ScoreEvent{})
	d.Publish(DeadCompleteEvent{})
	d.Flush()

	want := []EventType{TypeDead, TypeScore, TypeDeadComplete}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestEventsPublishedDuringFlushAreDelivered(t *testing.T) {
	d := NewDispatcher()
	scores := 0
	d.Subscribe(TypeDead, func(e Event) {
		d.Publish(ScoreEvent{Entity: e.(DeadEvent).Entity, Points: 100})
	})
	d.Subscribe(TypeScore, func(Event) { scores++ })

	d.Publish(DeadEvent{Entity: 7})
	d.Flush()

	if scores != 1 {
		t.Errorf("score handler called %d times, want 1", scores)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestRunawayPublishIsCapped(t *testing.T) {
	d := NewDispatcher()
	d.Subscribe(TypeScore, func(e Event) { d.Publish(e) })

	d.Publish(ScoreEvent{})
	if n := d.Flush(); n != maxFlushRounds {
		t.Errorf("Flush() = %d, want %d", n, maxFlushRounds)
	}
	if d.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1 carried to next frame", d.Pending())
	}
}

func TestReset(t *testing.T) {
	d := NewDispatcher()
	called := false
	d.Subscribe(TypeTimeOver, func(Event) { called = true })
	d.Publish(TimeOverEvent{})
	d.Reset()
	d.Flush()
	d.Dispatch(TimeOverEvent{})
	if called {
		t.Error("handler should not run after Reset")
	}
}
