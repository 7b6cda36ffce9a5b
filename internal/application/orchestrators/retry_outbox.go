package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"studio/internal/adapters/email"
	"studio/internal/adapters/metrics"
	domain "studio/internal/domain/outbox"
)

// OutboxStore defines the persistence needed by the outbox processor.
type OutboxStore interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, e domain.Entry) error
	ListPending(ctx context.Context, limit int) ([]domain.Entry, error)
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload and returns the
	// provider's id for it.
	Execute(ctx context.Context, payload string) (string, error)
}

// OutboxProcessor delivers pending outbox entries with exponential backoff.
type OutboxProcessor struct {
	store     OutboxStore
	executors map[string]ActionExecutor
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
	now       func() time.Time
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store OutboxStore, executors map[string]ActionExecutor) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
		now:       time.Now,
	}
}

// ProcessPending attempts every due entry in one batch.
// PRE: Context is valid
// POST: Delivered entries are done; failures are rescheduled or failed after max attempts
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}

	for _, entry := range entries {
		if !entry.DueAt(p.now(), p.baseDelay, p.maxDelay) {
			continue
		}
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("outbox_event", "event", "process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err)
		}
	}
	return nil
}

func (p *OutboxProcessor) processEntry(ctx context.Context, entry domain.Entry) error {
	executor, ok := p.executors[entry.ActionType]
	if !ok {
		entry.MarkAbandoned()
		entry.ErrorMessage = "no executor registered for action type: " + entry.ActionType
		metrics.OutboxDead(entry.ActionType)
		return p.store.Save(ctx, entry)
	}

	entry.MarkAttempt(p.now())
	externalID, err := executor.Execute(ctx, entry.Payload)
	if err != nil {
		entry.MarkFailed(err)
		metrics.OutboxDispatched(entry.ActionType, "error")
		if entry.Status == domain.StatusFailed {
			metrics.OutboxDead(entry.ActionType)
		}
		slog.Warn("outbox_event", "event", "action_failed", "entry_id", entry.ID, "attempt", entry.Attempts, "error", err)
	} else {
		entry.MarkSuccess(externalID)
		metrics.OutboxDispatched(entry.ActionType, "success")
		slog.Info("outbox_event", "event", "action_succeeded", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

// ProcessSingle attempts one entry immediately, ignoring backoff.
// PRE: entryID is non-empty
func (p *OutboxProcessor) ProcessSingle(ctx context.Context, entryID string) error {
	entry, err := p.store.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get outbox entry: %w", err)
	}
	if entry.IsTerminal() {
		return invalid(fmt.Errorf("entry %s is %s and cannot be retried", entryID, entry.Status))
	}
	return p.processEntry(ctx, entry)
}

// ReceiptExecutor renders and sends payment receipt emails.
type ReceiptExecutor struct {
	Sender     email.Sender
	StudioName string
}

// Execute sends the receipt described by a domain.ReceiptPayload.
// PRE: payload is valid JSON matching domain.ReceiptPayload
// POST: email handed to the sender; returns its message ID
func (e *ReceiptExecutor) Execute(ctx context.Context, payload string) (string, error) {
	var p domain.ReceiptPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("unmarshal receipt payload: %w", err)
	}
	if p.To == "" {
		return "", fmt.Errorf("receipt %s has no recipient", p.PaymentID)
	}

	subject, html, err := email.RenderReceipt(email.Receipt{
		StudioName: e.StudioName,
		MemberName: p.Name,
		Amount:     p.Amount,
		Date:       p.Date,
		Package:    p.Package,
	})
	if err != nil {
		return "", err
	}
	res, err := e.Sender.Send(ctx, email.SendRequest{To: []string{p.To}, Subject: subject, HTML: html})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}

// OutboxWorkerConfig holds configuration for the background worker.
type OutboxWorkerConfig struct {
	Interval time.Duration
	Enabled  bool
}

// StartOutboxWorker runs ProcessPending on every tick until the returned stop
// function is called or ctx is cancelled.
// POST: stop blocks until the worker goroutine has exited
func StartOutboxWorker(ctx context.Context, processor *OutboxProcessor, cfg OutboxWorkerConfig) (stop func()) {
	if !cfg.Enabled || cfg.Interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("outbox_event", "event", "worker_stopped")
				return
			case <-ticker.C:
				runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
				if err := processor.ProcessPending(runCtx); err != nil {
					slog.Error("outbox_event", "event", "worker_tick_failed", "error", err)
				}
				runCancel()
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
