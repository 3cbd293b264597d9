package repository

import (
	"sort"
	"sync"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/saleobject"
)

type memoryRepoImpl struct {
	mu   sync.RWMutex
	objs map[string]saleobject.SaleObject
}

// NewMemorySaleObjectRepo keeps objects in process, for the memory storage driver and tests
func NewMemorySaleObjectRepo() saleobject.Repo {
	return &memoryRepoImpl{objs: map[string]saleobject.SaleObject{}}
}

func (im *memoryRepoImpl) Create(ctx ctx.Ctx, obj *saleobject.SaleObject) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	if _, ok := im.objs[obj.ID]; ok {
		return domain.ErrDuplicateID
	}
	im.objs[obj.ID] = *obj
	return nil
}

func (im *memoryRepoImpl) FindOne(ctx ctx.Ctx, id string) (*saleobject.SaleObject, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	obj, ok := im.objs[id]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return &obj, nil
}

func (im *memoryRepoImpl) FindAll(ctx ctx.Ctx, optFns ...saleobject.FindAllOptionsFunc) ([]*saleobject.SaleObject, error) {
	opts, err := saleobject.GetFindAllOptions(optFns...)
	if err != nil {
		ctx.WithField("err", err).Error("saleobject.GetFindAllOptions failed")
		return nil, err
	}

	im.mu.RLock()
	res := []*saleobject.SaleObject{}
	for _, obj := range im.objs {
		if opts.Matches(&obj) {
			o := obj
			res = append(res, &o)
		}
	}
	im.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return paginate(res, opts.Offset, opts.Limit), nil
}

func (im *memoryRepoImpl) Update(ctx ctx.Ctx, id string, version int64, patch saleobject.Patchable) error {
	im.mu.Lock()
	defer im.mu.Unlock()

	obj, ok := im.objs[id]
	if !ok {
		return domain.ErrObjectNotFound
	}
	if obj.Version != version {
		return domain.ErrVersionConflict
	}
	obj.Apply(patch)
	obj.Version++
	im.objs[id] = obj
	return nil
}

func paginate(res []*saleobject.SaleObject, offset, limit *int32) []*saleobject.SaleObject {
	if offset != nil {
		if int(*offset) >= len(res) {
			return []*saleobject.SaleObject{}
		}
		res = res[*offset:]
	}
	if limit != nil && *limit > 0 && int(*limit) < len(res) {
		res = res[:*limit]
	}
	return res
}
