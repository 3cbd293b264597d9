// Package scheduler drives the time based transitions: auctions past their end
// time get closed and delivered transactions get completed once the buyer's
// confirmation window elapsed.
package scheduler

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/goroutine"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/auction"
	"github.com/x-xyz/saleengine/domain/keys"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/domain/transaction"
	"github.com/x-xyz/saleengine/service/redis"
)

const (
	DefaultInterval = 5 * time.Second
	batchSize       = 100
)

var met = metrics.New("scheduler")

// Commands are submitted through the dispatcher like any client command
type Commands interface {
	CloseAuction(ctx ctx.Ctx, objectID string) (*auction.CloseOutcome, error)
	AutoComplete(ctx ctx.Ctx, txID string) (*transaction.Transaction, error)
}

type Config struct {
	Interval          time.Duration
	AutoCompleteAfter time.Duration
	Clock             clock.Clock
	Commands          Commands
	SaleObjectRepo    saleobject.Repo
	TransactionRepo   transaction.Repo
	// Lease elects one sweeping instance when several share the database.
	// Every instance sweeps when it is nil.
	Lease    redis.Service
	Instance string
}

type Scheduler struct {
	interval          time.Duration
	autoCompleteAfter time.Duration
	clock             clock.Clock
	commands          Commands
	saleObjectRepo    saleobject.Repo
	transactionRepo   transaction.Repo
	lease             redis.Service
	instance          string

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Instance == "" {
		cfg.Instance = domain.NewID()
	}
	return &Scheduler{
		interval:          cfg.Interval,
		autoCompleteAfter: cfg.AutoCompleteAfter,
		clock:             cfg.Clock,
		commands:          cfg.Commands,
		saleObjectRepo:    cfg.SaleObjectRepo,
		transactionRepo:   cfg.TransactionRepo,
		lease:             cfg.Lease,
		instance:          cfg.Instance,
		done:              make(chan struct{}),
	}
}

// Start runs a sweep every interval until Stop
func (s *Scheduler) Start(c ctx.Ctx) {
	s.wg.Add(1)
	goroutine.RecoverableGo(func() {
		ticker := s.clock.Ticker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick(c)
			case <-s.done:
				return
			case <-c.Done():
				return
			}
		}
	}, goroutine.WithName("scheduler"), goroutine.WithAfterEnded(s.wg.Done))
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Tick runs one sweep when this instance holds the lease
func (s *Scheduler) Tick(c ctx.Ctx) {
	defer met.BumpTime("tick.time").End()

	if !s.acquire(c) {
		return
	}
	now := s.clock.Now()
	s.closeDueAuctions(c, now)
	s.completeDelivered(c, now)
}

func (s *Scheduler) acquire(c ctx.Ctx) bool {
	if s.lease == nil {
		return true
	}

	key := keys.RedisKey(keys.PfxSchedulerLease)
	ttl := 2 * s.interval
	ok, err := s.lease.SetNX(c, key, []byte(s.instance), ttl)
	if err != nil {
		c.WithField("err", err).Warn("lease.SetNX failed, skipping sweep")
		return false
	}
	if ok {
		return true
	}

	holder, err := s.lease.Get(c, key)
	if err != nil {
		if err != redis.ErrNotFound {
			c.WithField("err", err).Warn("lease.Get failed, skipping sweep")
		}
		return false
	}
	if string(holder) != s.instance {
		return false
	}
	if err := s.lease.Set(c, key, []byte(s.instance), ttl); err != nil {
		c.WithField("err", err).Warn("lease.Set failed")
	}
	return true
}

func (s *Scheduler) closeDueAuctions(c ctx.Ctx, now time.Time) {
	objs, err := s.saleObjectRepo.FindAll(c,
		saleobject.WithAuctionStates(saleobject.AuctionStateOpen, saleobject.AuctionStateExtending),
		saleobject.WithEndTimeLTE(now),
		saleobject.WithPagination(0, batchSize),
	)
	if err != nil {
		c.WithField("err", err).Error("saleObjectRepo.FindAll failed")
		return
	}

	for _, obj := range objs {
		if _, err := s.commands.CloseAuction(c, obj.ID); err != nil {
			// a concurrent bid or another instance may have closed it already
			if domain.KindOf(err) != domain.KindState {
				c.WithFields(log.Fields{"objectId": obj.ID, "err": err}).Error("CloseAuction failed")
			}
			met.BumpSum("close.err", 1)
			continue
		}
		met.BumpSum("close", 1)
	}
}

func (s *Scheduler) completeDelivered(c ctx.Ctx, now time.Time) {
	txs, err := s.transactionRepo.FindAll(c,
		transaction.WithStatuses(transaction.StatusDelivered),
		transaction.WithDeliveredBefore(now.Add(-s.autoCompleteAfter)),
		transaction.WithPagination(0, batchSize),
	)
	if err != nil {
		c.WithField("err", err).Error("transactionRepo.FindAll failed")
		return
	}

	for _, tx := range txs {
		if _, err := s.commands.AutoComplete(c, tx.ID); err != nil {
			c.WithFields(log.Fields{"txId": tx.ID, "err": err}).Error("AutoComplete failed")
			met.BumpSum("autocomplete.err", 1)
			continue
		}
		met.BumpSum("autocomplete", 1)
	}
}
