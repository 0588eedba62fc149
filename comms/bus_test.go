package comms

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestInMemoryBus_Subscribe_Unsubscribe(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()

	var received int32
	unsub := bus.Subscribe(TypeTaskPut, func(_ context.Context, _ *Event) error {
		atomic.AddInt32(&received, 1)
		return nil
	})

	ev := NewEvent(TypeTaskPut, "task-1")
	if err := bus.Publish(ctx, ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if atomic.LoadInt32(&received) != 1 {
		t.Errorf("received = %d, want 1", received)
	}

	// Unsubscribe and verify no more events
	unsub()
	if err := bus.Publish(ctx, ev); err != nil {
		t.Fatalf("Publish after unsub: %v", err)
	}
	if atomic.LoadInt32(&received) != 1 {
		t.Errorf("received after unsub = %d, want 1", received)
	}
}

func TestInMemoryBus_TypeRouting(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()

	var tasks, inventory, all int32
	bus.Subscribe(TypeTaskPut, func(_ context.Context, _ *Event) error {
		atomic.AddInt32(&tasks, 1)
		return nil
	})
	bus.Subscribe(TypeInventoryPut, func(_ context.Context, _ *Event) error {
		atomic.AddInt32(&inventory, 1)
		return nil
	})
	bus.Subscribe(AllTypes, func(_ context.Context, _ *Event) error {
		atomic.AddInt32(&all, 1)
		return nil
	})

	for _, ev := range []*Event{
		NewEvent(TypeTaskPut, "t1"),
		NewEvent(TypeTaskDeleted, "t1"),
		NewEvent(TypeInventoryPut, "Wood"),
	} {
		if err := bus.Publish(ctx, ev); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	if tasks != 1 || inventory != 1 || all != 3 {
		t.Errorf("tasks=%d inventory=%d all=%d, want 1 1 3", tasks, inventory, all)
	}
}

func TestInMemoryBus_HandlerErrors(t *testing.T) {
	bus := NewInMemoryBus()
	var ran int32
	bus.Subscribe(AllTypes, func(_ context.Context, _ *Event) error { return errors.New("first") })
	bus.Subscribe(AllTypes, func(_ context.Context, _ *Event) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	err := bus.Publish(context.Background(), NewEvent(TypeTaskPut, "t1"))
	if err == nil {
		t.Fatal("expected error from failing handler")
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Error("second handler should still run")
	}
}

func TestInMemoryBus_History(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()

	evs := []*Event{
		NewEvent(TypeTaskPut, "t1"),
		NewEvent(TypeInventoryPut, "Wood"),
		NewEvent(TypeTaskDeleted, "t1"),
		NewEvent(TypeTaskPut, "t2"),
	}
	for _, ev := range evs {
		bus.Publish(ctx, ev)
	}

	hist, err := bus.History(TypeTaskPut, 100)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 || hist[0].Subject != "t1" || hist[1].Subject != "t2" {
		t.Errorf("History(task.put) = %v, want t1, t2", hist)
	}

	all, _ := bus.History(AllTypes, 0)
	if len(all) != 4 {
		t.Errorf("History(all) len = %d, want 4", len(all))
	}
}

func TestInMemoryBus_History_Limit(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()

	var last *Event
	for i := 0; i < 10; i++ {
		last = NewEvent(TypeInventoryPut, "Wood")
		bus.Publish(ctx, last)
	}

	hist, err := bus.History(AllTypes, 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 5 {
		t.Errorf("History with limit 5 returned %d events", len(hist))
	}
	if hist[len(hist)-1] != last {
		t.Error("History should end with the latest event")
	}
}

func TestInMemoryBus_HistoryCap(t *testing.T) {
	bus := NewInMemoryBus()
	ctx := context.Background()
	for i := 0; i < DefaultHistory+10; i++ {
		bus.Publish(ctx, NewEvent(TypeTaskPut, "t"))
	}
	hist, _ := bus.History(AllTypes, 0)
	if len(hist) != DefaultHistory {
		t.Errorf("History len = %d, want %d", len(hist), DefaultHistory)
	}
}

func TestNewEvent(t *testing.T) {
	a := NewEvent(TypeTaskPut, "t1")
	b := NewEvent(TypeTaskPut, "t1")
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("event IDs should be unique, got %q and %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("event should be timestamped")
	}
}
