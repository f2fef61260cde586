package resilience

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[string]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, _ := g.Do("roster", func() (string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return "ok", nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if v != "ok" {
				t.Errorf("unexpected value %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_PanicBecomesError(t *testing.T) {
	var g SingleFlight[int]

	v, err, shared := g.Do("boom", func() (int, error) {
		panic("loader exploded")
	})
	if err == nil || !strings.Contains(err.Error(), "loader exploded") {
		t.Fatalf("expected panic converted to error, got %v", err)
	}
	if v != 0 || shared {
		t.Fatalf("unexpected result v=%d shared=%t", v, shared)
	}

	v, err, _ = g.Do("boom", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("key must be reusable after a panic, got v=%d err=%v", v, err)
	}
}
