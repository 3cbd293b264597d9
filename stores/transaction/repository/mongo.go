package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/database/mongoclient"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/transaction"
	"github.com/x-xyz/saleengine/service/query"
)

type transactionRepoImpl struct {
	q query.Mongo
}

func NewTransactionRepo(q query.Mongo) transaction.Repo {
	return &transactionRepoImpl{q}
}

func Indexes() []query.Index {
	return []query.Index{
		{Keys: []string{"objectId", "status"}},
		{Keys: []string{"status", "deliveredAt"}},
		{Keys: []string{"buyerId", "-createdAt"}},
	}
}

func (im *transactionRepoImpl) Create(ctx ctx.Ctx, tx *transaction.Transaction) error {
	if err := im.q.Insert(ctx, domain.TableTransactions, tx); err == query.ErrDuplicateKey {
		return domain.ErrDuplicateID
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": tx.ID, "err": err}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *transactionRepoImpl) FindOne(ctx ctx.Ctx, id string) (*transaction.Transaction, error) {
	return im.findOne(ctx, bson.M{"_id": id})
}

func (im *transactionRepoImpl) FindLive(ctx ctx.Ctx, objectID string) (*transaction.Transaction, error) {
	tx, err := im.findOne(ctx, bson.M{
		"objectId": objectID,
		"status":   bson.M{"$ne": transaction.StatusCancelled},
	})
	if err == domain.ErrTransactionNotFound {
		return nil, domain.ErrNotFound
	}
	return tx, err
}

func (im *transactionRepoImpl) findOne(ctx ctx.Ctx, qry bson.M) (*transaction.Transaction, error) {
	res := &transaction.Transaction{}
	if err := im.q.FindOne(ctx, domain.TableTransactions, qry, res); err == query.ErrNotFound {
		return nil, domain.ErrTransactionNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"query": qry, "err": err}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *transactionRepoImpl) FindAll(ctx ctx.Ctx, optFns ...transaction.FindAllOptionsFunc) ([]*transaction.Transaction, error) {
	opts, err := transaction.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("transaction.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.ObjectID != nil {
		qry["objectId"] = *opts.ObjectID
	}
	if opts.BuyerID != nil {
		qry["buyerId"] = *opts.BuyerID
	}
	if opts.SellerID != nil {
		qry["sellerId"] = *opts.SellerID
	}
	if len(opts.Statuses) > 0 {
		qry["status"] = bson.M{"$in": opts.Statuses}
	}
	if opts.DeliveredBefore != nil {
		qry["deliveredAt"] = bson.M{"$lte": *opts.DeliveredBefore}
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*transaction.Transaction{}
	if err := im.q.Search(ctx, domain.TableTransactions, offset, limit, "-createdAt", qry, &res); err != nil {
		ctx.WithFields(log.Fields{"query": qry, "err": err}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *transactionRepoImpl) Update(ctx ctx.Ctx, id string, version int64, patch transaction.Patchable) error {
	updater, err := mongoclient.MakeBsonM(patch)
	if err != nil {
		ctx.WithFields(log.Fields{"patch": patch, "err": err}).Error("mongoclient.MakeBsonM failed")
		return err
	}

	selector := bson.M{"_id": id, "version": version}
	update := bson.M{"$inc": bson.M{"version": 1}}
	if len(updater) > 0 {
		update["$set"] = updater
	}

	if err := im.q.CustomPatch(ctx, domain.TableTransactions, selector, update, false); err == query.ErrNotFound {
		if _, err := im.FindOne(ctx, id); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("q.CustomPatch failed")
		return err
	}
	return nil
}
