package hub

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/corrupted-brain/Valley-Yatra/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func delta(t *testing.T, routeNumber, busNumber string) domain.TrackingDelta {
	t.Helper()
	return domain.TrackingDelta{
		Type: domain.DeltaUpdate,
		Tracking: &domain.BusTracking{
			RouteNumber: routeNumber,
			BusNumber:   busNumber,
		},
		RouteNumber: routeNumber,
	}
}

func TestClientLineSubscriptions(t *testing.T) {
	c := NewClient("c1", 8)

	c.AddLines([]string{"KTM-01", "KTM-02"})
	if !c.HasLine("KTM-01") || !c.HasLine("KTM-02") {
		t.Error("added lines missing")
	}

	c.RemoveLines([]string{"KTM-01"})
	if c.HasLine("KTM-01") {
		t.Error("removed line still present")
	}
	if lines := c.Lines(); len(lines) != 1 || lines[0] != "KTM-02" {
		t.Errorf("lines = %v, want [KTM-02]", lines)
	}
}

func TestHubFanoutBySubscription(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	subscribed := NewClient("subscribed", 8)
	other := NewClient("other", 8)

	h.Register(subscribed)
	h.Register(other)
	h.Subscribe(subscribed, []string{"KTM-01"})
	h.Subscribe(other, []string{"KTM-02"})

	h.Broadcast([]domain.TrackingDelta{delta(t, "KTM-01", "B1")})

	select {
	case data := <-subscribed.Send:
		var msg DeltaMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal delta message: %v", err)
		}
		if msg.Type != "delta" {
			t.Errorf("message type = %q, want delta", msg.Type)
		}
		if len(msg.Payload.Updates) != 1 || msg.Payload.Updates[0].BusNumber != "B1" {
			t.Errorf("payload = %+v, want one update for B1", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscribed client received nothing")
	}

	select {
	case data := <-other.Send:
		t.Fatalf("unsubscribed client received %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	client := NewClient("c1", 8)
	h.Register(client)
	h.Subscribe(client, []string{"KTM-01"})
	h.Unsubscribe(client, []string{"KTM-01"})

	h.Broadcast([]domain.TrackingDelta{delta(t, "KTM-01", "B1")})

	select {
	case data := <-client.Send:
		t.Fatalf("unsubscribed client received %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBuildDeltaMessageSplitsUpdatesAndRemoves(t *testing.T) {
	msg := buildDeltaMessage([]domain.TrackingDelta{
		delta(t, "KTM-01", "B1"),
		{Type: domain.DeltaRemove, BusNumber: "B2", RouteNumber: "KTM-01"},
	})

	if len(msg.Payload.Updates) != 1 || msg.Payload.Updates[0].BusNumber != "B1" {
		t.Errorf("updates = %+v, want B1", msg.Payload.Updates)
	}
	if len(msg.Payload.Removes) != 1 || msg.Payload.Removes[0] != "B2" {
		t.Errorf("removes = %v, want [B2]", msg.Payload.Removes)
	}
}

func TestBroadcastIgnoresEmpty(t *testing.T) {
	h := NewHub(testLogger())

	// Must not block or enqueue anything without a running hub.
	h.Broadcast(nil)

	select {
	case deltas := <-h.broadcast:
		t.Fatalf("empty broadcast enqueued %v", deltas)
	default:
	}
}
