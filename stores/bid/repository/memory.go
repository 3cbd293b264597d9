package repository

import (
	"sync"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/bid"
)

type memoryLedgerImpl struct {
	mu    sync.RWMutex
	bids  map[string]bid.Bid
	byObj map[string][]string
	heads map[string]string
}

func NewMemoryLedger() bid.Ledger {
	return &memoryLedgerImpl{
		bids:  map[string]bid.Bid{},
		byObj: map[string][]string{},
		heads: map[string]string{},
	}
}

func (im *memoryLedgerImpl) Append(ctx ctx.Ctx, b *bid.Bid, expectedLeaderID string) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	id := headID(b.ObjectID, b.Round)
	if im.heads[id] != expectedLeaderID {
		return domain.ErrStaleLeader
	}
	if _, ok := im.bids[b.ID]; ok {
		return domain.ErrDuplicateID
	}

	stored := *b
	stored.Status = ""
	im.bids[b.ID] = stored
	im.byObj[b.ObjectID] = append(im.byObj[b.ObjectID], b.ID)
	im.heads[id] = b.ID
	return nil
}

func (im *memoryLedgerImpl) Leader(ctx ctx.Ctx, objectID string, round int) (*bid.Bid, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	leaderID, ok := im.heads[headID(objectID, round)]
	if !ok {
		return nil, nil
	}
	b := im.bids[leaderID]
	return &b, nil
}

func (im *memoryLedgerImpl) History(ctx ctx.Ctx, objectID string) ([]*bid.Bid, error) {
	im.mu.RLock()
	ids := im.byObj[objectID]
	res := make([]*bid.Bid, 0, len(ids))
	// newest first, appends are in time order
	for i := len(ids) - 1; i >= 0; i-- {
		b := im.bids[ids[i]]
		res = append(res, &b)
	}
	im.mu.RUnlock()

	bid.SortNewestFirst(res)
	return res, nil
}

func (im *memoryLedgerImpl) FindOne(ctx ctx.Ctx, id string) (*bid.Bid, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	b, ok := im.bids[id]
	if !ok {
		return nil, domain.ErrBidNotFound
	}
	return &b, nil
}

func (im *memoryLedgerImpl) Count(ctx ctx.Ctx, objectID string) (int, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return len(im.byObj[objectID]), nil
}
