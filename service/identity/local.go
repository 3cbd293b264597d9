package identity

import (
	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/saleobject"
)

// NewLocal answers from the engine's own data: everybody may bid and the
// seller is whoever listed the object. Used when identity.baseUrl is empty.
func NewLocal(repo saleobject.Repo) domain.IdentityService {
	return &local{repo}
}

type local struct {
	repo saleobject.Repo
}

func (l *local) IsEligibleBidder(ctx ctx.Ctx, userID string) (bool, error) {
	return userID != "", nil
}

func (l *local) IsSeller(ctx ctx.Ctx, userID, objectID string) (bool, error) {
	obj, err := l.repo.FindOne(ctx, objectID)
	if err != nil {
		return false, err
	}
	return obj.SellerID == userID, nil
}
