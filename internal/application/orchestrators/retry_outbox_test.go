package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"studio/internal/adapters/email"
	"studio/internal/domain/outbox"
)

type failingExecutor struct{ calls int }

func (e *failingExecutor) Execute(context.Context, string) (string, error) {
	e.calls++
	return "", errors.New("provider down")
}

func receiptEntry(t *testing.T, id string) outbox.Entry {
	t.Helper()
	payload, err := json.Marshal(outbox.ReceiptPayload{
		PaymentID: "p1", MemberID: "m1", To: "ayse@example.com", Name: "Ayşe Yılmaz", Amount: "1.200", Date: "01/01/24",
	})
	if err != nil {
		t.Fatal(err)
	}
	return outbox.Entry{
		ID: id, ActionType: outbox.ActionTypeReceiptEmail, Payload: string(payload),
		Status: outbox.StatusPending, MaxAttempts: 2, CreatedAt: fixedTime,
	}
}

func TestOutboxProcessor_DeliversReceipt(t *testing.T) {
	store := newMockOutboxStore()
	_ = store.Save(context.Background(), receiptEntry(t, "e1"))
	sender := email.NewNoopSender()

	p := NewOutboxProcessor(store, map[string]ActionExecutor{
		outbox.ActionTypeReceiptEmail: &ReceiptExecutor{Sender: sender, StudioName: "Pilates Loft"},
	})
	p.now = fixedNow
	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}

	e := store.entries["e1"]
	if e.Status != outbox.StatusDone || e.ExternalID != "noop-1" {
		t.Errorf("entry = %+v, want done", e)
	}
	sent := sender.Sent()
	if len(sent) != 1 || sent[0].To[0] != "ayse@example.com" || !strings.Contains(sent[0].HTML, "1.200") {
		t.Errorf("sent = %+v", sent)
	}
}

func TestOutboxProcessor_BackoffAndFailure(t *testing.T) {
	store := newMockOutboxStore()
	_ = store.Save(context.Background(), receiptEntry(t, "e1"))
	exec := &failingExecutor{}
	now := fixedTime

	p := NewOutboxProcessor(store, map[string]ActionExecutor{outbox.ActionTypeReceiptEmail: exec})
	p.now = func() time.Time { return now }
	ctx := context.Background()

	_ = p.ProcessPending(ctx)
	if e := store.entries["e1"]; e.Status != outbox.StatusRetrying || e.Attempts != 1 {
		t.Fatalf("after first attempt = %+v", e)
	}

	// Still inside the backoff window: no new attempt.
	now = now.Add(10 * time.Second)
	_ = p.ProcessPending(ctx)
	if exec.calls != 1 {
		t.Errorf("calls inside backoff = %d, want 1", exec.calls)
	}

	now = now.Add(2 * time.Hour)
	_ = p.ProcessPending(ctx)
	if e := store.entries["e1"]; e.Status != outbox.StatusFailed || e.Attempts != 2 {
		t.Errorf("after max attempts = %+v, want failed", e)
	}

	now = now.Add(2 * time.Hour)
	_ = p.ProcessPending(ctx)
	if exec.calls != 2 {
		t.Errorf("failed entry was retried: calls = %d", exec.calls)
	}
}

func TestOutboxProcessor_UnknownActionAbandoned(t *testing.T) {
	store := newMockOutboxStore()
	_ = store.Save(context.Background(), outbox.Entry{ID: "x", ActionType: "sms", Payload: "{}", Status: outbox.StatusPending, CreatedAt: fixedTime})

	p := NewOutboxProcessor(store, map[string]ActionExecutor{})
	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatal(err)
	}
	if e := store.entries["x"]; e.Status != outbox.StatusAbandoned {
		t.Errorf("status = %q, want abandoned", e.Status)
	}
	if err := p.ProcessSingle(context.Background(), "x"); err == nil {
		t.Error("ProcessSingle(terminal) error = nil")
	}
}

func TestStartOutboxWorker_StopsCleanly(t *testing.T) {
	store := newMockOutboxStore()
	p := NewOutboxProcessor(store, nil)

	stop := StartOutboxWorker(context.Background(), p, OutboxWorkerConfig{Interval: time.Millisecond, Enabled: true})
	time.Sleep(5 * time.Millisecond)
	stop()

	disabled := StartOutboxWorker(context.Background(), p, OutboxWorkerConfig{Enabled: false})
	disabled()
}
