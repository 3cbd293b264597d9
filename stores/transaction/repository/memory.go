package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/transaction"
)

type memoryRepoImpl struct {
	mu  sync.RWMutex
	txs map[string]*transaction.Transaction
}

func NewMemoryTransactionRepo() transaction.Repo {
	return &memoryRepoImpl{txs: map[string]*transaction.Transaction{}}
}

// clone copies the pointed to addresses and timestamps too
func clone(tx *transaction.Transaction) *transaction.Transaction {
	cp := *tx
	if tx.ShippingAddress != nil {
		a := *tx.ShippingAddress
		cp.ShippingAddress = &a
	}
	if tx.BillingAddress != nil {
		a := *tx.BillingAddress
		cp.BillingAddress = &a
	}
	for _, t := range []**time.Time{&cp.PaidAt, &cp.ShippedAt, &cp.DeliveredAt, &cp.CompletedAt, &cp.CancelledAt} {
		if *t != nil {
			v := **t
			*t = &v
		}
	}
	return &cp
}

func (im *memoryRepoImpl) Create(ctx ctx.Ctx, tx *transaction.Transaction) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	if _, ok := im.txs[tx.ID]; ok {
		return domain.ErrDuplicateID
	}
	im.txs[tx.ID] = clone(tx)
	return nil
}

func (im *memoryRepoImpl) FindOne(ctx ctx.Ctx, id string) (*transaction.Transaction, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	tx, ok := im.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return clone(tx), nil
}

func (im *memoryRepoImpl) FindLive(ctx ctx.Ctx, objectID string) (*transaction.Transaction, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	for _, tx := range im.txs {
		if tx.ObjectID == objectID && tx.Status.IsLive() {
			return clone(tx), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (im *memoryRepoImpl) FindAll(ctx ctx.Ctx, optFns ...transaction.FindAllOptionsFunc) ([]*transaction.Transaction, error) {
	opts, err := transaction.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("transaction.GetFindAllOptions failed")
		return nil, err
	}

	im.mu.RLock()
	res := []*transaction.Transaction{}
	for _, tx := range im.txs {
		if opts.Matches(tx) {
			res = append(res, clone(tx))
		}
	}
	im.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})

	if opts.Offset != nil {
		if int(*opts.Offset) >= len(res) {
			return []*transaction.Transaction{}, nil
		}
		res = res[*opts.Offset:]
	}
	if opts.Limit != nil && *opts.Limit > 0 && int(*opts.Limit) < len(res) {
		res = res[:*opts.Limit]
	}
	return res, nil
}

func (im *memoryRepoImpl) Update(ctx ctx.Ctx, id string, version int64, patch transaction.Patchable) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	tx, ok := im.txs[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if tx.Version != version {
		return domain.ErrVersionConflict
	}
	next := clone(tx)
	next.Apply(patch)
	next.Version++
	im.txs[id] = clone(next)
	return nil
}
