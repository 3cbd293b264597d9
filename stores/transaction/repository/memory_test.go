package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/saleengine/base/ctx"
	"github.com/x-xyz/saleengine/domain"
	"github.com/x-xyz/saleengine/domain/transaction"
)

type memorySuite struct {
	suite.Suite

	repo transaction.Repo
	now  time.Time
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(memorySuite))
}

func (s *memorySuite) SetupTest() {
	s.repo = NewMemoryTransactionRepo()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *memorySuite) TestFindLive() {
	c := ctx.Background()

	_, err := s.repo.FindLive(c, "obj")
	s.ErrorIs(err, domain.ErrNotFound)

	s.Require().NoError(s.repo.Create(c, &transaction.Transaction{ID: "old", ObjectID: "obj", Status: transaction.StatusCancelled, CreatedAt: s.now}))
	_, err = s.repo.FindLive(c, "obj")
	s.ErrorIs(err, domain.ErrNotFound)

	s.Require().NoError(s.repo.Create(c, &transaction.Transaction{ID: "new", ObjectID: "obj", Status: transaction.StatusPendingPayment, CreatedAt: s.now.Add(time.Minute)}))
	tx, err := s.repo.FindLive(c, "obj")
	s.Require().NoError(err)
	s.Equal("new", tx.ID)

	all, err := s.repo.FindAll(c, transaction.WithObjectID("obj"))
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("new", all[0].ID)
}

func (s *memorySuite) TestUpdate() {
	c := ctx.Background()
	s.Require().NoError(s.repo.Create(c, &transaction.Transaction{ID: "t", ObjectID: "obj", Status: transaction.StatusPaymentHeld}))

	status := transaction.StatusInTransit
	tracking := "TRK1"
	s.Require().NoError(s.repo.Update(c, "t", 0, transaction.Patchable{
		Status:         &status,
		TrackingNumber: &tracking,
		ShippedAt:      &s.now,
	}))
	s.ErrorIs(s.repo.Update(c, "t", 0, transaction.Patchable{Status: &status}), domain.ErrVersionConflict)
	s.ErrorIs(s.repo.Update(c, "missing", 0, transaction.Patchable{}), domain.ErrTransactionNotFound)

	tx, err := s.repo.FindOne(c, "t")
	s.Require().NoError(err)
	s.Equal(transaction.StatusInTransit, tx.Status)
	s.Equal("TRK1", tx.TrackingNumber)
	s.Equal(s.now, *tx.ShippedAt)
	s.Equal(int64(1), tx.Version)

	// stored timestamps are not shared with callers
	*tx.ShippedAt = s.now.Add(time.Hour)
	again, err := s.repo.FindOne(c, "t")
	s.Require().NoError(err)
	s.Equal(s.now, *again.ShippedAt)
}
