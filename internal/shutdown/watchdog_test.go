package shutdown

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestWatchdogFiresAfterGrace(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan int, 1)
	w := &Watchdog{
		Grace: 20 * time.Millisecond,
		Exit:  func(code int) { fired <- code },
		Out:   &bytes.Buffer{},
	}
	disarm := w.Arm(ctx)
	defer disarm()

	cancel()
	select {
	case code := <-fired:
		if code != 1 {
			t.Fatalf("exit code = %d", code)
		}
	case <-time.After(time.Second):
		t.Fatal("watchdog never fired")
	}
}

func TestWatchdogDisarmedBeforeCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan int, 1)
	w := &Watchdog{
		Grace: 10 * time.Millisecond,
		Exit:  func(code int) { fired <- code },
		Out:   &bytes.Buffer{},
	}
	disarm := w.Arm(ctx)
	disarm()
	cancel()

	select {
	case <-fired:
		t.Fatal("watchdog fired after disarm")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogDisarmedDuringGrace(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan int, 1)
	w := &Watchdog{
		Grace: 100 * time.Millisecond,
		Exit:  func(code int) { fired <- code },
		Out:   &bytes.Buffer{},
	}
	disarm := w.Arm(ctx)

	cancel()
	time.Sleep(20 * time.Millisecond)
	disarm() // drain finished inside the grace window

	select {
	case <-fired:
		t.Fatal("watchdog fired after clean drain")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchdogDisarmTwice(t *testing.T) {
	w := &Watchdog{Exit: func(int) {}, Out: &bytes.Buffer{}}
	disarm := w.Arm(context.Background())
	disarm()
	disarm()
}
