package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/billtrack/backend/internal/domain/billing"
	"github.com/billtrack/backend/internal/domain/organization"
	"go.uber.org/zap"
)

// ReconcilerConfig holds configuration for the bill reconciliation worker
type ReconcilerConfig struct {
	// Enabled indicates if the reconciler is enabled
	Enabled bool
	// TickTimeout is the maximum time a single sweep over all organizations can run
	TickTimeout time.Duration
}

// DefaultReconcilerConfig returns default reconciler configuration
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		Enabled:     true,
		TickTimeout: 30 * time.Minute,
	}
}

// SweepSummary records what a single reconciliation sweep did
type SweepSummary struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	Organizations int
	UpdatedBills  int
	FailedOrgs    int
}

// BillReconciler periodically moves every organization's bills through
// the lifecycle state machine. It wakes at the top of each hour, sweeps
// all organizations sequentially, and persists changed bills per
// organization in a single batch. One organization failing never stops
// the sweep for the rest.
type BillReconciler struct {
	config   ReconcilerConfig
	orgRepo  organization.Repository
	billRepo billing.BillRepository
	logger   *zap.Logger

	// now is injectable for tests
	now func() time.Time

	runCtx    context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweeping  bool

	lastRunAt   *time.Time
	nextRunAt   *time.Time
	lastSummary *SweepSummary
}

// NewBillReconciler creates a new bill reconciliation worker
func NewBillReconciler(
	config ReconcilerConfig,
	orgRepo organization.Repository,
	billRepo billing.BillRepository,
	logger *zap.Logger,
) *BillReconciler {
	if config.TickTimeout <= 0 {
		config.TickTimeout = DefaultReconcilerConfig().TickTimeout
	}
	return &BillReconciler{
		config:   config,
		orgRepo:  orgRepo,
		billRepo: billRepo,
		logger:   logger.Named("reconciler"),
		now:      time.Now,
	}
}

// Start starts the reconciler loop. The first sweep runs immediately;
// subsequent sweeps run at the top of each hour.
func (r *BillReconciler) Start(ctx context.Context) error {
	if !r.config.Enabled {
		r.logger.Info("Bill reconciler disabled by configuration")
		return nil
	}

	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = true
	r.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	r.runCtx = ctx
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(ctx)

	r.logger.Info("Bill reconciler started")
	return nil
}

// Stop stops the reconciler and waits for an in-flight sweep to finish,
// bounded by the given context
func (r *BillReconciler) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return nil
	}
	r.isRunning = false
	r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Bill reconciler stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("Bill reconciler stop timed out")
		return ctx.Err()
	}
}

// loop runs sweeps until the context is cancelled, sleeping to the top
// of the next hour between them
func (r *BillReconciler) loop(ctx context.Context) {
	defer r.wg.Done()

	for {
		r.runSweep(ctx)

		next := nextTopOfHour(r.now())
		r.mu.Lock()
		r.nextRunAt = &next
		r.mu.Unlock()

		timer := time.NewTimer(next.Sub(r.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// nextTopOfHour returns the next hour boundary strictly after now
func nextTopOfHour(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}

// runSweep reconciles every organization once. Only one sweep runs at
// a time; overlapping triggers are rejected. A panic escaping the
// whole sweep is contained here so the loop survives to the next tick.
func (r *BillReconciler) runSweep(ctx context.Context) (summary SweepSummary) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Reconciliation sweep panicked",
				zap.Any("panic", rec),
			)
			summary.FinishedAt = r.now()
			r.recordSummary(summary)
		}
	}()

	r.mu.Lock()
	if r.sweeping {
		r.mu.Unlock()
		return SweepSummary{}
	}
	r.sweeping = true
	started := r.now()
	r.lastRunAt = &started
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.sweeping = false
		r.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, r.config.TickTimeout)
	defer cancel()

	summary = SweepSummary{StartedAt: started}

	orgs, err := r.orgRepo.FindAllActive(ctx)
	if err != nil {
		r.logger.Error("Failed to load organizations for reconciliation", zap.Error(err))
		summary.FinishedAt = r.now()
		r.recordSummary(summary)
		return summary
	}
	summary.Organizations = len(orgs)

	for i := range orgs {
		if ctx.Err() != nil {
			r.logger.Warn("Reconciliation sweep cancelled",
				zap.Int("organizations_done", i),
				zap.Int("organizations_total", len(orgs)),
			)
			break
		}

		org := &orgs[i]
		updated, err := r.reconcileOrganization(ctx, org)
		if err != nil {
			summary.FailedOrgs++
			r.logger.Error("Failed to reconcile organization",
				zap.String("organization_id", org.ID.String()),
				zap.Error(err),
			)
			continue
		}
		summary.UpdatedBills += updated
	}

	summary.FinishedAt = r.now()
	r.recordSummary(summary)

	r.logger.Info("Reconciliation sweep finished",
		zap.Int("organizations", summary.Organizations),
		zap.Int("updated_bills", summary.UpdatedBills),
		zap.Int("failed_orgs", summary.FailedOrgs),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	return summary
}

func (r *BillReconciler) recordSummary(summary SweepSummary) {
	r.mu.Lock()
	r.lastSummary = &summary
	r.mu.Unlock()
}

// reconcileOrganization moves one organization's bills through the
// lifecycle state machine against the organization's local date. A
// panic inside is contained so one bad tenant cannot take down the
// whole sweep.
func (r *BillReconciler) reconcileOrganization(ctx context.Context, org *organization.Organization) (updated int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during reconciliation: %v", rec)
		}
	}()

	localToday := org.LocalDate(r.now())

	var changed []*billing.Bill

	// First pass: promote not-yet-due bills to Due or Overdue
	pending, err := r.billRepo.FindByOrganizationAndStatuses(ctx, org.ID,
		[]billing.BillStatus{billing.BillStatusCreated, billing.BillStatusUpcoming})
	if err != nil {
		return 0, fmt.Errorf("load pending bills: %w", err)
	}
	for i := range pending {
		bill := &pending[i]
		next := billing.NextStatus(bill.Status, bill.DueDate, localToday)
		if bill.ApplyStatus(next) {
			changed = append(changed, bill)
		}
	}

	// Second pass: demote Due bills whose date has passed to Overdue
	due, err := r.billRepo.FindByOrganizationAndStatuses(ctx, org.ID,
		[]billing.BillStatus{billing.BillStatusDue})
	if err != nil {
		return 0, fmt.Errorf("load due bills: %w", err)
	}
	for i := range due {
		bill := &due[i]
		next := billing.NextStatus(bill.Status, bill.DueDate, localToday)
		if bill.ApplyStatus(next) {
			changed = append(changed, bill)
		}
	}

	if len(changed) == 0 {
		return 0, nil
	}

	if err := r.billRepo.SaveBatch(ctx, changed); err != nil {
		return 0, fmt.Errorf("persist %d reconciled bills: %w", len(changed), err)
	}

	r.logger.Debug("Reconciled organization",
		zap.String("organization_id", org.ID.String()),
		zap.String("local_date", localToday.String()),
		zap.Int("updated_bills", len(changed)),
	)

	return len(changed), nil
}

// TriggerManualRun starts a sweep outside the hourly schedule. The
// sweep runs on the reconciler's lifecycle context, not the caller's,
// so an HTTP request finishing does not cancel it mid-flight but Stop
// still does, and Stop waits for it like any scheduled sweep.
func (r *BillReconciler) TriggerManualRun() error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		if !r.config.Enabled {
			return ErrReconcilerDisabled
		}
		return ErrReconcilerNotRunning
	}
	if r.sweeping {
		r.mu.Unlock()
		return ErrSweepAlreadyRunning
	}
	runCtx := r.runCtx
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		r.runSweep(runCtx)
	}()
	return nil
}

// RunOnce performs a single synchronous sweep and returns its summary.
// It does not require the reconciler loop to be running.
func (r *BillReconciler) RunOnce(ctx context.Context) SweepSummary {
	return r.runSweep(ctx)
}

// GetStatus returns the current status of the reconciler
func (r *BillReconciler) GetStatus() map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := map[string]any{
		"enabled":     r.config.Enabled,
		"is_running":  r.isRunning,
		"sweeping":    r.sweeping,
		"last_run_at": r.lastRunAt,
		"next_run_at": r.nextRunAt,
	}
	if r.lastSummary != nil {
		status["last_sweep"] = map[string]any{
			"organizations": r.lastSummary.Organizations,
			"updated_bills": r.lastSummary.UpdatedBills,
			"failed_orgs":   r.lastSummary.FailedOrgs,
			"started_at":    r.lastSummary.StartedAt,
			"finished_at":   r.lastSummary.FinishedAt,
		}
	}
	return status
}
