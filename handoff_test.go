package reactor

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestHandoffQueueDrainIntoMovesAllWrappers(t *testing.T) {
	var h handoffQueue
	h.init()

	var dst eventQueue
	dst.init()

	h.enqueue(newEvent(nil, "x"))
	h.enqueue(newEvent(nil, "y"))

	h.drainInto(&dst)

	if h.count.Load() != 0 {
		t.Fatalf("count = %d, want 0 after drain", h.count.Load())
	}
	var order []string
	for {
		e := dst.head()
		if e == nil {
			break
		}
		dst.remove(e)
		order = append(order, e.data.(string))
	}
	if len(order) != 2 || order[0] != "x" || order[1] != "y" {
		t.Fatalf("got %v, want [x y]", order)
	}
}

func TestHandoffQueueEnqueueSetsPostedFlag(t *testing.T) {
	var h handoffQueue
	h.init()

	e := newEvent(func(*event) {}, "x")
	if e.posted {
		t.Fatal("a fresh event must not start posted")
	}

	h.enqueue(e)
	if !e.posted {
		t.Fatal("enqueue must set posted so the event is linked-in-a-posted-queue invariant holds")
	}

	var p postedQueue
	p.init()
	h.drainInto(&p.q)
	if !e.posted {
		t.Fatal("drainInto only splices the list node; posted must still be true until the event actually runs")
	}

	p.drain()
	if e.posted {
		t.Fatal("posted must be cleared once the wrapper's drain turn runs")
	}
}

func TestHandoffQueueDrainIntoEmptyIsNoop(t *testing.T) {
	var h handoffQueue
	h.init()
	var dst eventQueue
	dst.init()

	h.drainInto(&dst)

	if !dst.isEmpty() {
		t.Fatal("draining an empty hand-off queue must not touch dst")
	}
}

// TestHandoffQueueConcurrentEnqueueNoLoss enqueues concurrently from N
// goroutines, each adding one wrapper; after all have returned, a
// single drain must observe every one of them exactly once.
func TestHandoffQueueConcurrentEnqueueNoLoss(t *testing.T) {
	var h handoffQueue
	h.init()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			h.enqueue(newEvent(nil, i))
		}()
	}
	wg.Wait()

	var dst eventQueue
	dst.init()
	h.drainInto(&dst)

	seen := make(map[int]bool, n)
	count := 0
	for {
		e := dst.head()
		if e == nil {
			break
		}
		dst.remove(e)
		seen[e.data.(int)] = true
		count++
	}
	if count != n {
		t.Fatalf("drained %d wrappers, want %d", count, n)
	}
	for i := 0; i < n; i++ {
		if !seen[i] {
			t.Fatalf("wrapper %d was lost", i)
		}
	}
}

func TestSafeAddInvokesHookOnTargetAfterDrainAndPost(t *testing.T) {
	r, err := NewReactor(LoopExitWhenIdle, 16, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewReactor: %v", err)
	}
	defer r.Close()

	inner := newEvent(nil, "payload")
	invoked := false
	safeAdd(r, inner, func(got *Reactor, e *event) {
		if got != r {
			t.Fatal("hook must receive the target reactor")
		}
		if e != inner {
			t.Fatal("hook must receive the original inner event")
		}
		invoked = true
	})

	r.handoff.drainInto(&r.posted.q)
	r.posted.drain()

	if !invoked {
		t.Fatal("hook was never invoked")
	}
}
