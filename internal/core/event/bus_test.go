package event

import "testing"

func TestBusDeliversEventsOnlyAfterSwap(t *testing.T) {
	b := NewBus()
	var got []EntityDied
	Subscribe(b, func(ev EntityDied) { got = append(got, ev) })

	Emit(b, EntityDied{EntityID: 1})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("expected no delivery before swap, got %v", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].EntityID != 1 {
		t.Fatalf("expected one delivered event, got %v", got)
	}

	// A second dispatch without an intervening emit+swap redelivers the
	// same front buffer — callers are expected to swap once per tick.
	b.DispatchAll()
	if len(got) != 2 {
		t.Fatalf("expected redelivery on repeated DispatchAll, got %v", got)
	}
}

func TestBusHandlesMultipleEventTypesIndependently(t *testing.T) {
	b := NewBus()
	var died []EntityDied
	var failed []ScriptExecutionFailed
	Subscribe(b, func(ev EntityDied) { died = append(died, ev) })
	Subscribe(b, func(ev ScriptExecutionFailed) { failed = append(failed, ev) })

	Emit(b, EntityDied{EntityID: 5})
	Emit(b, ScriptExecutionFailed{Bot: 6, Err: "boom"})
	b.SwapBuffers()
	b.DispatchAll()

	if len(died) != 1 || died[0].EntityID != 5 {
		t.Fatalf("expected EntityDied delivered, got %v", died)
	}
	if len(failed) != 1 || failed[0].Bot != 6 || failed[0].Err != "boom" {
		t.Fatalf("expected ScriptExecutionFailed delivered, got %v", failed)
	}
}
