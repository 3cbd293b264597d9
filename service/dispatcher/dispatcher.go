// Package dispatcher serializes commands per key. Every key owns one actor
// goroutine draining a FIFO mailbox, so commands of the same sale object run
// one at a time while different objects proceed in parallel.
package dispatcher

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/x-xyz/saleengine/base/counter"
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/goroutine"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/base/metrics"
	"github.com/x-xyz/saleengine/base/utils"
	"github.com/x-xyz/saleengine/domain"
)

const (
	DefaultIdleTimeout = 5 * time.Minute
	DefaultMailboxSize = 64
)

var met = metrics.New("dispatcher")

// Command runs inside the key's slot. It may read and write everything the
// key owns without further locking.
type Command func(ctx ctx.Ctx) error

type Dispatcher interface {
	// Submit enqueues fn behind the commands already queued for key and waits
	// for its result. A fn whose ctx is done before it starts is skipped and
	// reports ctx.Err(), a started fn always reports its own result.
	Submit(ctx ctx.Ctx, key string, fn Command) error
	// Close rejects new commands, lets every actor drain its mailbox and
	// waits for them to exit.
	Close()
}

type Config struct {
	// IdleTimeout evicts an actor whose mailbox stayed empty that long
	IdleTimeout time.Duration
	MailboxSize int
	Clock       clock.Clock
}

type command struct {
	ctx    ctx.Ctx
	fn     Command
	result chan error
	queued time.Time
}

type actor struct {
	key     string
	mailbox chan *command
	exited  chan struct{}
	// pending counts submitters that picked this actor and have not handed
	// their command over yet, eviction waits for it to reach zero
	pending int64
}

type impl struct {
	idleTimeout time.Duration
	mailboxSize int
	clock       clock.Clock

	// live counts running actor goroutines, evicted ones included until they exit
	live *counter.Counter

	mu     sync.Mutex
	actors map[string]*actor
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func New(cfg Config) Dispatcher {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.MailboxSize <= 0 {
		cfg.MailboxSize = DefaultMailboxSize
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &impl{
		idleTimeout: cfg.IdleTimeout,
		mailboxSize: cfg.MailboxSize,
		clock:       cfg.Clock,
		live:        counter.NewCounter(),
		actors:      make(map[string]*actor),
		done:        make(chan struct{}),
	}
}

func (im *impl) Submit(ctx ctx.Ctx, key string, fn Command) error {
	a, err := im.acquire(key)
	if err != nil {
		return err
	}

	cmd := &command{
		ctx:    ctx,
		fn:     fn,
		result: make(chan error, 1),
		queued: im.clock.Now(),
	}

	select {
	case a.mailbox <- cmd:
		atomic.AddInt64(&a.pending, -1)
	case <-ctx.Done():
		atomic.AddInt64(&a.pending, -1)
		return ctx.Err()
	case <-a.exited:
		return domain.ErrDispatcherClosed
	}

	// handed over, the outcome is reported even when ctx is done meanwhile
	select {
	case err := <-cmd.result:
		return err
	case <-a.exited:
		// the actor may have run it right before exiting
		select {
		case err := <-cmd.result:
			return err
		default:
			return domain.ErrDispatcherClosed
		}
	}
}

// acquire returns the live actor of key, spawning one when needed
func (im *impl) acquire(key string) (*actor, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if im.closed {
		return nil, domain.ErrDispatcherClosed
	}

	a, ok := im.actors[key]
	if !ok {
		a = &actor{
			key:     key,
			mailbox: make(chan *command, im.mailboxSize),
			exited:  make(chan struct{}),
		}
		im.actors[key] = a
		im.wg.Add(1)
		im.spawn(a)
	}
	atomic.AddInt64(&a.pending, 1)
	return a, nil
}

func (im *impl) spawn(a *actor) {
	met.BumpAvg("actor.live", float64(im.live.Add(1)))
	goroutine.RecoverableGo(
		func() { im.loop(a) },
		goroutine.WithName("dispatcher:"+a.key),
		goroutine.WithAfterEnded(func() {
			im.mu.Lock()
			if im.actors[a.key] == a {
				delete(im.actors, a.key)
			}
			im.mu.Unlock()
			met.BumpAvg("actor.live", float64(im.live.Add(-1)))
			close(a.exited)
			im.wg.Done()
		}),
	)
}

func (im *impl) loop(a *actor) {
	idle := im.clock.Timer(im.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case cmd := <-a.mailbox:
			im.run(a, cmd)
			idle.Reset(im.idleTimeout)
		case <-idle.C:
			if im.evict(a) {
				return
			}
			idle.Reset(im.idleTimeout)
		case <-im.done:
			im.drain(a)
			return
		}
	}
}

// evict removes a from the registry when nobody is about to use it
func (im *impl) evict(a *actor) bool {
	im.mu.Lock()
	defer im.mu.Unlock()

	if atomic.LoadInt64(&a.pending) > 0 || len(a.mailbox) > 0 {
		return false
	}
	delete(im.actors, a.key)
	met.BumpSum("actor.evicted", 1)
	return true
}

func (im *impl) drain(a *actor) {
	for {
		select {
		case cmd := <-a.mailbox:
			im.run(a, cmd)
		default:
			return
		}
	}
}

func (im *impl) run(a *actor, cmd *command) {
	met.BumpHistogram("mailbox.wait", float64(im.clock.Since(cmd.queued).Milliseconds()))

	if err := cmd.ctx.Err(); err != nil {
		cmd.result <- err
		return
	}

	defer met.BumpTime("command.time").End()
	cmd.result <- im.safeRun(a, cmd)
}

// safeRun keeps the actor alive when a command panics
func (im *impl) safeRun(a *actor, cmd *command) (err error) {
	defer func() {
		if p := recover(); p != nil {
			cmd.ctx.WithFields(log.Fields{
				"key":   a.key,
				"err":   p,
				"stack": string(utils.Stack(3)),
			}).Error("command panicked")
			met.BumpSum("command.panic", 1)
			err = domain.ErrInternalServerError
		}
	}()
	return cmd.fn(cmd.ctx)
}

func (im *impl) Close() {
	im.mu.Lock()
	if im.closed {
		im.mu.Unlock()
		return
	}
	im.closed = true
	close(im.done)
	im.mu.Unlock()

	im.wg.Wait()
}
