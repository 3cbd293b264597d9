package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/offer"
)

type memoryRepoImpl struct {
	mu     sync.RWMutex
	offers map[string]offer.Offer
}

func NewMemoryOfferRepo() offer.Repo {
	return &memoryRepoImpl{offers: map[string]offer.Offer{}}
}

func (im *memoryRepoImpl) Create(ctx ctx.Ctx, o *offer.Offer) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	if _, ok := im.offers[o.ID]; ok {
		return domain.ErrDuplicateID
	}
	im.offers[o.ID] = *o
	return nil
}

func (im *memoryRepoImpl) FindOne(ctx ctx.Ctx, id string) (*offer.Offer, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	o, ok := im.offers[id]
	if !ok {
		return nil, domain.ErrOfferNotFound
	}
	return &o, nil
}

func (im *memoryRepoImpl) FindAll(ctx ctx.Ctx, optFns ...offer.FindAllOptionsFunc) ([]*offer.Offer, error) {
	opts, err := offer.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("offer.GetFindAllOptions failed")
		return nil, err
	}

	im.mu.RLock()
	res := []*offer.Offer{}
	for _, o := range im.offers {
		if opts.Matches(&o) {
			cp := o
			res = append(res, &cp)
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
			return []*offer.Offer{}, nil
		}
		res = res[*opts.Offset:]
	}
	if opts.Limit != nil && *opts.Limit > 0 && int(*opts.Limit) < len(res) {
		res = res[:*opts.Limit]
	}
	return res, nil
}

func (im *memoryRepoImpl) Update(ctx ctx.Ctx, id string, patch offer.Patchable) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	o, ok := im.offers[id]
	if !ok {
		return domain.ErrOfferNotFound
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.UpdatedAt != nil {
		o.UpdatedAt = *patch.UpdatedAt
	}
	im.offers[id] = o
	return nil
}
