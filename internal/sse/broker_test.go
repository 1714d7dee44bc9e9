package sse

import (
	"strings"
	"testing"
	"time"
)

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.Publish(Event{Type: "sync.started", Data: map[string]any{"force": false}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: sync.started") {
			t.Errorf("message = %q", s)
		}
		if !strings.Contains(s, `"force":false`) {
			t.Errorf("payload missing: %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestNotifyBroadcasts(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.Notify("sync.importing", map[string]any{"count": 3})

	select {
	case msg := <-ch:
		if !strings.Contains(string(msg), "event: sync.importing") {
			t.Errorf("message = %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestClientCount(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount = %d, want 0", n)
	}
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	if n := b.ClientCount(); n != 2 {
		t.Errorf("ClientCount = %d, want 2", n)
	}
	b.Unsubscribe(ch1)
	b.Unsubscribe(ch2)
}

func TestPublishAfterCloseIsSafe(t *testing.T) {
	b := NewBroker()
	b.Close()
	b.Publish(Event{Type: "sync.complete"})
	b.Notify("sync.failed", nil)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount = %d after close", n)
	}
	ch := b.Subscribe()
	if _, ok := <-ch; ok {
		t.Error("subscribe after close should return closed channel")
	}
}
