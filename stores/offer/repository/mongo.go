package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/base/database/mongoclient"
	"github.com/x-xyz/saleengine/base/log"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/offer"
	"github.com/x-xyz/saleengine/service/query"
)

type offerRepoImpl struct {
	q query.Mongo
}

func NewOfferRepo(q query.Mongo) offer.Repo {
	return &offerRepoImpl{q}
}

func Indexes() []query.Index {
	return []query.Index{
		{Keys: []string{"objectId", "status", "-createdAt"}},
		{Keys: []string{"buyerId", "-createdAt"}},
	}
}

func (im *offerRepoImpl) Create(ctx ctx.Ctx, o *offer.Offer) error {
	if err := im.q.Insert(ctx, domain.TableOffers, o); err == query.ErrDuplicateKey {
		return domain.ErrDuplicateID
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": o.ID, "err": err}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *offerRepoImpl) FindOne(ctx ctx.Ctx, id string) (*offer.Offer, error) {
	res := &offer.Offer{}
	if err := im.q.FindOne(ctx, domain.TableOffers, bson.M{"_id": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrOfferNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *offerRepoImpl) FindAll(ctx ctx.Ctx, optFns ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	opts, err := offer.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("offer.GetFindAllOptions failed")
		return nil, err
	}

	qry := bson.M{}
	if opts.ObjectID != nil {
		qry["objectId"] = *opts.ObjectID
	}
	if opts.BuyerID != nil {
		qry["buyerId"] = *opts.BuyerID
	}
	if opts.Kind != nil {
		qry["kind"] = *opts.Kind
	}
	if opts.Status != nil {
		qry["status"] = *opts.Status
	}

	offset, limit := 0, 0
	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}
	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	res := []*offer.Offer{}
	if err := im.q.SearchNSorts(ctx, domain.TableOffers, offset, limit, []string{"-createdAt", "_id"}, qry, &res); err != nil {
		ctx.WithFields(log.Fields{"query": qry, "err": err}).Error("q.SearchNSorts failed")
		return nil, err
	}
	return res, nil
}

func (im *offerRepoImpl) Update(ctx ctx.Ctx, id string, patch offer.Patchable) error {
	updater, err := mongoclient.MakeBsonM(patch)
	if err != nil {
		ctx.WithFields(log.Fields{"patch": patch, "err": err}).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Patch(ctx, domain.TableOffers, bson.M{"_id": id}, updater); err == query.ErrNotFound {
		return domain.ErrOfferNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"id": id, "err": err}).Error("q.Patch failed")
		return err
	}
	return nil
}
