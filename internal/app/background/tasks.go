package background

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var timeNow = time.Now

type BackgroundTasks struct {
	reconciler *Reconciler
	cronSpec   string
	timeout    time.Duration
	cron       *cron.Cron
	logger     *zap.Logger
}

func NewBackgroundTasks(reconciler *Reconciler, cronSpec string, timeout time.Duration, logger *zap.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		reconciler: reconciler,
		cronSpec:   cronSpec,
		timeout:    timeout,
		logger:     logger.Named("background"),
	}
}

// StartAll schedules the reconcile job. Seconds field is supported in cronSpec.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	cronLogger := zapCronLogger{bt.logger.Sugar()}
	bt.cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)))

	if _, err := bt.cron.AddFunc(bt.cronSpec, func() { bt.reconcile(ctx) }); err != nil {
		return fmt.Errorf("schedule reconciler: %w", err)
	}
	bt.cron.Start()
	bt.logger.Info("background tasks started", zap.String("cron_spec", bt.cronSpec))
	return nil
}

// StopAll waits for a running reconcile to finish.
func (bt *BackgroundTasks) StopAll() {
	if bt.cron != nil {
		<-bt.cron.Stop().Done()
	}
}

func (bt *BackgroundTasks) reconcile(ctx context.Context) {
	runCtx := ctx
	if bt.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, bt.timeout)
		defer cancel()
	}

	result, err := bt.reconciler.RunOnce(runCtx)
	if err != nil {
		bt.logger.Warn("reconcile run failed", zap.Error(err))
		return
	}
	if result.Scanned > 0 {
		bt.logger.Info("reconcile run finished",
			zap.Int("scanned", result.Scanned),
			zap.Int("resolved", result.Resolved),
			zap.Int("failed", result.Failed),
		)
	}
}

type zapCronLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
