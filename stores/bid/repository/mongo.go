package repository

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/bid"
	"github.com/x-xyz/saleengine/service/query"
)

// head points at the leading bid of one auction round. Appends move it with
// a compare and set on leaderId in the same transaction as the bid insert.
type head struct {
	ID       string `bson:"_id"`
	ObjectID string `bson:"objectId"`
	Round    int    `bson:"round"`
	LeaderID string `bson:"leaderId"`
}

func headID(objectID string, round int) string {
	return fmt.Sprintf("%s#%d", objectID, round)
}

type ledgerImpl struct {
	q query.Mongo
}

func NewLedger(q query.Mongo) bid.Ledger {
	return &ledgerImpl{q}
}

func Indexes() []query.Index {
	return []query.Index{
		{Keys: []string{"objectId", "-createdAt"}},
	}
}

func (im *ledgerImpl) Append(context ctx.Ctx, b *bid.Bid, expectedLeaderID string) error {
	return im.q.RunWithTransaction(context, func(ctx ctx.Ctx) error {
		id := headID(b.ObjectID, b.Round)
		if expectedLeaderID == "" {
			h := head{ID: id, ObjectID: b.ObjectID, Round: b.Round, LeaderID: b.ID}
			if err := im.q.Insert(ctx, domain.TableBidHeads, h); err == query.ErrDuplicateKey {
				return domain.ErrStaleLeader
			} else if err != nil {
				ctx.WithFields(log.Fields{"head": id, "err": err}).Error("q.Insert head failed")
				return err
			}
		} else {
			selector := bson.M{"_id": id, "leaderId": expectedLeaderID}
			update := bson.M{"$set": bson.M{"leaderId": b.ID}}
			if err := im.q.CustomPatch(ctx, domain.TableBidHeads, selector, update, false); err == query.ErrNotFound {
				return domain.ErrStaleLeader
			} else if err != nil {
				ctx.WithFields(log.Fields{"head": id, "err": err}).Error("q.CustomPatch head failed")
				return err
			}
		}

		if err := im.q.Insert(ctx, domain.TableBids, b); err == query.ErrDuplicateKey {
			return domain.ErrDuplicateID
		} else if err != nil {
			ctx.WithFields(log.Fields{"bid": b.ID, "err": err}).Error("q.Insert bid failed")
			return err
		}
		return nil
	})
}

func (im *ledgerImpl) Leader(ctx ctx.Ctx, objectID string, round int) (*bid.Bid, error) {
	h := head{}
	if err := im.q.FindOne(ctx, domain.TableBidHeads, bson.M{"_id": headID(objectID, round)}, &h); err == query.ErrNotFound {
		return nil, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"objectId": objectID, "round": round, "err": err}).Error("q.FindOne head failed")
		return nil, err
	}
	return im.FindOne(ctx, h.LeaderID)
}

func (im *ledgerImpl) History(ctx ctx.Ctx, objectID string) ([]*bid.Bid, error) {
	res := []*bid.Bid{}
	if err := im.q.SearchNSorts(ctx, domain.TableBids, 0, 0, []string{"-createdAt", "-round"}, bson.M{"objectId": objectID}, &res); err != nil {
		ctx.WithFields(log.Fields{"objectId": objectID, "err": err}).Error("q.SearchNSorts failed")
		return nil, err
	}
	return res, nil
}

func (im *ledgerImpl) FindOne(ctx ctx.Ctx, id string) (*bid.Bid, error) {
	res := &bid.Bid{}
	if err := im.q.FindOne(ctx, domain.TableBids, bson.M{"_id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrBidNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *ledgerImpl) Count(ctx ctx.Ctx, objectID string) (int, error) {
	n, err := im.q.Count(ctx, domain.TableBids, bson.M{"objectId": objectID})
	if err != nil {
		ctx.WithFields(log.Fields{"objectId": objectID, "err": err}).Error("q.Count failed")
		return 0, err
	}
	return n, nil
}
