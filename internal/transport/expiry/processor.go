// Package expiry возвращает отправителям средства по ожидающим переводам, срок получения которых истек.
package expiry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsdevblog/remit-ledger/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultLimitPerIteration uint = 100
	defaultExpiryWorkers     uint = 4
)

// Processor отменяет просроченные ожидающие переводы.
type Processor struct {
	svs               Servicer
	observer          Observer
	l                 *logrus.Entry
	limitPerIteration uint
	workers           uint
}

func New(svs Servicer, l *logrus.Logger) *Processor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "expiry",
		"module":    "processor",
	})

	return &Processor{
		svs:               svs,
		l:                 loggerEntry,
		limitPerIteration: defaultLimitPerIteration,
		workers:           defaultExpiryWorkers,
	}
}

// SetLimitPerIteration устанавливает кол-во переводов, обрабатываемых за один запуск.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	if limit > 0 {
		p.limitPerIteration = limit
	}
	return p
}

// SetWorkers устанавливает кол-во воркеров.
func (p *Processor) SetWorkers(workers uint) *Processor {
	if workers > 0 {
		p.workers = workers
	}
	return p
}

func (p *Processor) SetObserver(o Observer) *Processor {
	p.observer = o
	return p
}

// Job возвращает задачу для планировщика. Каждый запуск обрабатывает одну пачку просроченных переводов.
func (p *Processor) Job(ctx context.Context) func() {
	return func() {
		expired, err := p.Process(ctx)
		if err != nil {
			if !errors.Is(err, ErrNoTransfers) {
				p.l.WithError(err).Error("process error")
			}
			return
		}
		p.l.WithField("expired", expired).Info("Batch done")
	}
}

// Process выбирает через сервисный слой просроченные переводы и раздает их воркерам.
// Ошибка по отдельному переводу логируется и не прерывает обработку остальных.
// Возвращает кол-во успешно отмененных переводов или ErrNoTransfers, если обрабатывать нечего.
func (p *Processor) Process(ctx context.Context) (int, error) {
	transfers, err := p.produce(ctx)
	if err != nil {
		return 0, fmt.Errorf("process: %w", err)
	}

	var expired int
	for _, result := range p.runWorkers(ctx, transfers) {
		l := p.l.WithFields(logrus.Fields{
			"worker":    result.WorkerID,
			"reference": result.Transfer.Reference,
		})
		if p.observer != nil {
			p.observer.ExpiryProcessed(result.Error == nil)
		}
		if result.Error != nil {
			// перевод успели получить или отменить между выборкой и обработкой.
			if errors.Is(result.Error, domain.ErrInvalidTransition) {
				l.WithError(result.Error).Warn("transfer is no longer pending")
				continue
			}
			l.WithError(result.Error).Error("expire transfer")
			continue
		}
		expired++
		l.WithField("refund", result.Transfer.TotalDebit).Debug("Expired")
	}
	return expired, nil
}

type workerResult struct {
	WorkerID uint
	Transfer *domain.Transfer
	Error    error
}

// runWorkers fan-out/fan-in: переводы раздаются воркерам через канал, результаты собираются после их завершения.
func (p *Processor) runWorkers(ctx context.Context, transfers []domain.Transfer) []workerResult {
	taskCh := make(chan *domain.Transfer, len(transfers))
	for i := range transfers {
		taskCh <- &transfers[i]
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	resultCh := make(chan workerResult, len(transfers))

	for i := range min(p.workers, uint(len(transfers))) {
		wg.Add(1)
		go p.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()
	close(resultCh)

	results := make([]workerResult, 0, len(transfers))
	for result := range resultCh {
		results = append(results, result)
	}
	return results
}

func (p *Processor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.Transfer,
	resultCh chan<- workerResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
			_, err := p.svs.Expire(reqCtx, task.Reference)
			cancel()
			resultCh <- workerResult{WorkerID: workerID, Transfer: task, Error: err}
		}
	}
}

func (p *Processor) produce(ctx context.Context) ([]domain.Transfer, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	transfers, err := p.svs.ExpiredPending(produceCtx, p.limitPerIteration)
	if err != nil {
		return nil, fmt.Errorf("produce: %w", err)
	}
	if len(transfers) == 0 {
		return nil, ErrNoTransfers
	}
	return transfers, nil
}
