package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/database/mongoclient"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/saleobject"
	"github.com/x-xyz/saleengine/service/query"
)

type saleObjectRepoImpl struct {
	q query.Mongo
}

func NewSaleObjectRepo(q query.Mongo) saleobject.Repo {
	return &saleObjectRepoImpl{q}
}

// Indexes backs the scheduler scan and the seller listing
func Indexes() []query.Index {
	return []query.Index{
		{Keys: []string{"auctionState", "endTime"}},
		{Keys: []string{"sellerId", "-createdAt"}},
	}
}

func (im *saleObjectRepoImpl) Create(ctx ctx.Ctx, obj *saleobject.SaleObject) error {
	if err := im.q.Insert(ctx, domain.TableSaleObjects, obj); err == query.ErrDuplicateKey {
		return domain.ErrDuplicateID
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": obj.ID, "err": err}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *saleObjectRepoImpl) FindOne(ctx ctx.Ctx, id string) (*saleobject.SaleObject, error) {
	res := &saleobject.SaleObject{}
	if err := im.q.FindOne(ctx, domain.TableSaleObjects, bson.M{"_id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrObjectNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *saleObjectRepoImpl) FindAll(ctx ctx.Ctx, optFns ...saleobject.FindAllOptionsFunc) ([]*saleobject.SaleObject, error) {
	opts, err := saleobject.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("saleobject.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.SellerID != nil {
		qry["sellerId"] = *opts.SellerID
	}
	if opts.SaleMode != nil {
		qry["saleMode"] = *opts.SaleMode
	}
	if opts.Status != nil {
		qry["status"] = *opts.Status
	}
	if len(opts.AuctionStates) > 0 {
		qry["auctionState"] = bson.M{"$in": opts.AuctionStates}
	}
	if opts.EndTimeLTE != nil {
		qry["endTime"] = bson.M{"$lte": *opts.EndTimeLTE}
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*saleobject.SaleObject{}
	if err := im.q.Search(ctx, domain.TableSaleObjects, offset, limit, "-createdAt", qry, &res); err != nil {
		ctx.WithFields(log.Fields{"query": qry, "err": err}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (im *saleObjectRepoImpl) Update(ctx ctx.Ctx, id string, version int64, patch saleobject.Patchable) error {
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

	if err := im.q.CustomPatch(ctx, domain.TableSaleObjects, selector, update, false); err == query.ErrNotFound {
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
