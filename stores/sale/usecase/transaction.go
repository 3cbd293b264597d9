package usecase

import (
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/event"
	"github.com/x-xyz/saleengine/domain/sale"
	"github.com/x-xyz/saleengine/domain/transaction"
)

type txCommand func(ctx ctx.Ctx) (*transaction.Transaction, error)

func (im *impl) TransactionStatus(ctx ctx.Ctx, txID, requester string) (*transaction.Transaction, error) {
	return im.transactionUC.Status(ctx, txID, requester)
}

func (im *impl) SetAddresses(context ctx.Ctx, txID, buyerID string, input transaction.AddressInput) (*transaction.Transaction, error) {
	return im.onTransaction(context, "setAddresses", txID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
		return im.transactionUC.SetAddresses(ctx, txID, buyerID, input)
	})
}

func (im *impl) CancelTransaction(context ctx.Ctx, txID, requester string, input sale.CancelInput) (*transaction.Transaction, error) {
	tx, err := im.onTransaction(context, "cancelTransaction", txID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
		return im.transactionUC.Cancel(ctx, txID, requester, input.Reason)
	})
	if err != nil {
		return nil, err
	}

	im.invalidateLeader(context, tx.ObjectID)
	if tx.RefundRequested && !tx.Refunded {
		im.refund(context, tx, "transaction cancelled")
	}
	return tx, nil
}

func (im *impl) ConfirmReceipt(context ctx.Ctx, txID, buyerID string) (*transaction.Transaction, error) {
	return im.onTransaction(context, "confirmReceipt", txID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
		return im.transactionUC.Complete(ctx, txID, buyerID)
	})
}

func (im *impl) AutoComplete(context ctx.Ctx, txID string) (*transaction.Transaction, error) {
	return im.onTransaction(context, "autoComplete", txID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
		return im.transactionUC.AutoComplete(ctx, txID)
	})
}

func (im *impl) HandlePayment(context ctx.Ctx, hook sale.PaymentWebhook) (*transaction.Transaction, error) {
	switch hook.Event {
	case sale.PaymentCaptured:
		refund := false
		tx, err := im.onTransaction(context, "paymentCaptured", hook.TransactionID, func(ctx ctx.Ctx) (tx *transaction.Transaction, err error) {
			tx, refund, err = im.transactionUC.PaymentCaptured(ctx, hook.TransactionID)
			return tx, err
		})
		if err != nil {
			return nil, err
		}
		if refund {
			im.refund(context, tx, "funds captured after cancellation")
		}
		return tx, nil
	case sale.PaymentFailed:
		return im.onTransaction(context, "paymentFailed", hook.TransactionID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
			return im.transactionUC.PaymentFailed(ctx, hook.TransactionID, hook.Reason)
		})
	case sale.PaymentRefunded:
		return im.onTransaction(context, "refunded", hook.TransactionID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
			return im.transactionUC.Refunded(ctx, hook.TransactionID)
		})
	}
	return nil, domain.ErrBadParamInput.WithMsg("unknown payment event")
}

func (im *impl) HandleLogistics(context ctx.Ctx, hook sale.LogisticsWebhook) (*transaction.Transaction, error) {
	switch hook.Event {
	case sale.LogisticsShipped:
		return im.onTransaction(context, "shipped", hook.TransactionID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
			return im.transactionUC.MarkShipped(ctx, hook.TransactionID, hook.TrackingNumber)
		})
	case sale.LogisticsDelivered:
		return im.onTransaction(context, "delivered", hook.TransactionID, func(ctx ctx.Ctx) (*transaction.Transaction, error) {
			return im.transactionUC.MarkDelivered(ctx, hook.TransactionID)
		})
	}
	return nil, domain.ErrBadParamInput.WithMsg("unknown logistics event")
}

// onTransaction runs fn in the slot of the transaction's object and publishes
// the status change it caused, if any
func (im *impl) onTransaction(context ctx.Ctx, name, txID string, fn txCommand) (*transaction.Transaction, error) {
	tx, err := im.transactionUC.FindOne(context, txID)
	if err != nil {
		return nil, err
	}

	var before, after *transaction.Transaction
	if err := im.submit(context, name, tx.ObjectID, func(ctx ctx.Ctx) (err error) {
		if before, err = im.transactionUC.FindOne(ctx, txID); err != nil {
			return err
		}
		after, err = fn(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	if after.Status != before.Status {
		now := im.clock.Now()
		if after.Status == transaction.StatusCancelled {
			im.publish(context,
				event.New(event.TypeTransactionCancelled, after.ObjectID, now, after),
				event.New(event.TypeListingRelisted, after.ObjectID, now, nil),
			)
		} else {
			im.publish(context, event.New(event.TypeTransactionAdvanced, after.ObjectID, now, after))
		}
	}
	return after, nil
}
