package usecase

import (
	"sync"
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/saleengine/base/backoff"
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/sale"
	"github.com/x-xyz/saleengine/domain/transaction"
)

const scheduleTimeout = 3 * time.Second

// payments runs capture and refund calls off the dispatcher. Outcomes come
// back as ordinary payment commands.
type payments struct {
	pool       *goroutines.Pool
	retryLimit int
	retryStart time.Duration
	wg         sync.WaitGroup
}

func (p *payments) schedule(c ctx.Ctx, name string, fn func(ctx ctx.Ctx)) {
	bg := ctx.WithLogFields(ctx.Detach(c), log.Fields{"job": name})

	p.wg.Add(1)
	if err := p.pool.ScheduleWithTimeout(scheduleTimeout, func() {
		defer p.wg.Done()
		fn(bg)
	}); err != nil {
		p.wg.Done()
		bg.WithField("err", err).Error("workerPool.ScheduleWithTimeout failed")
		met.BumpSum("payment.schedule.err", 1, "job", name)
	}
}

// retry repeats fn with exponential backoff while it fails with an external error
func (p *payments) retry(c ctx.Ctx, fn func() error) error {
	b := backoff.NewExponential(p.retryStart, 30*time.Second)
	return backoff.Retry(c, b, p.retryLimit, func(err error) bool {
		return domain.IsKind(err, domain.KindExternal)
	}, fn)
}

func (p *payments) close() {
	p.wg.Wait()
	p.pool.Release()
}

func (im *impl) capture(c ctx.Ctx, tx *transaction.Transaction) {
	req := domain.CaptureRequest{
		TransactionID: tx.ID,
		BuyerID:       tx.BuyerID,
		Amount:        tx.TotalAmount,
	}
	im.payments.schedule(c, "capture", func(ctx ctx.Ctx) {
		hook := sale.PaymentWebhook{TransactionID: tx.ID, Event: sale.PaymentCaptured}
		if err := im.payments.retry(ctx, func() error {
			return im.payment.CaptureFunds(ctx, req)
		}); err != nil {
			ctx.WithFields(log.Fields{"txId": tx.ID, "err": err}).Error("payment.CaptureFunds failed")
			met.BumpSum("payment.capture.err", 1)
			hook = sale.PaymentWebhook{TransactionID: tx.ID, Event: sale.PaymentFailed, Reason: err.Error()}
		}
		if _, err := im.HandlePayment(ctx, hook); err != nil {
			ctx.WithFields(log.Fields{"txId": tx.ID, "event": hook.Event, "err": err}).Error("HandlePayment failed")
		}
	})
}

func (im *impl) refund(c ctx.Ctx, tx *transaction.Transaction, reason string) {
	req := domain.RefundRequest{
		TransactionID: tx.ID,
		Amount:        tx.TotalAmount,
		Reason:        reason,
	}
	im.payments.schedule(c, "refund", func(ctx ctx.Ctx) {
		if err := im.payments.retry(ctx, func() error {
			return im.payment.Refund(ctx, req)
		}); err != nil {
			// the transaction keeps RefundRequested, a refunded webhook settles it later
			ctx.WithFields(log.Fields{"txId": tx.ID, "err": err}).Error("payment.Refund failed")
			met.BumpSum("payment.refund.err", 1)
			return
		}
		if _, err := im.HandlePayment(ctx, sale.PaymentWebhook{TransactionID: tx.ID, Event: sale.PaymentRefunded}); err != nil {
			ctx.WithFields(log.Fields{"txId": tx.ID, "err": err}).Error("HandlePayment failed")
		}
	})
}
