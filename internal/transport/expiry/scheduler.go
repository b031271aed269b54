package expiry

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// cronLogger адаптер logrus под cron.Logger.
type cronLogger struct {
	l *logrus.Entry
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.WithFields(toFields(keysAndValues)).WithError(err).Error(msg)
}

func toFields(keysAndValues []any) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2) //nolint:mnd
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}

// Scheduler запускает фоновые задачи по расписанию cron. Задача не запускается повторно, пока не завершен
// предыдущий запуск.
type Scheduler struct {
	cron *cron.Cron
	l    *logrus.Entry
}

func NewScheduler(l *logrus.Logger) *Scheduler {
	entry := l.WithFields(logrus.Fields{
		"component": "expiry",
		"module":    "scheduler",
	})
	logger := cronLogger{l: entry}

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		l: entry,
	}
}

// Add регистрирует задачу. spec в формате cron или дескриптор вида `@every 1m`.
func (s *Scheduler) Add(name, spec string, job func()) error {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("scheduling job `%s` with spec `%s`: %w", name, spec, err)
	}
	s.l.WithFields(logrus.Fields{"job": name, "spec": spec}).Info("Job scheduled")
	return nil
}

// Run запускает планировщик и блокируется до отмены контекста. Перед выходом дожидается завершения
// выполняющихся задач.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.l.Info("Starting")

	<-ctx.Done()
	s.l.Info("Got stop signal, waiting for running jobs...")
	<-s.cron.Stop().Done()
}
