package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BackoffTestSuite struct {
	suite.Suite
}

func (s *BackoffTestSuite) TestExponential() {
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	s.Equal(time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(2*time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(4*time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(4*time.Millisecond, b.NextDuration, "capped by limit")
	s.Equal(3, b.Count())

	b.Reset()
	s.Equal(0, b.Count())
	s.Equal(time.Millisecond, b.NextDuration)
}

func (s *BackoffTestSuite) TestLinear() {
	b := NewLinear(time.Millisecond, 0)
	s.Equal(time.Millisecond, b.NextDuration)
	s.Require().NoError(b.Backoff(context.Background()))
	s.Equal(2*time.Millisecond, b.NextDuration)
}

func (s *BackoffTestSuite) TestBackoffCancelled() {
	b := NewLinear(time.Hour, 0)
	c, cancel := context.WithCancel(context.Background())
	cancel()
	s.ErrorIs(b.Backoff(c), context.Canceled)
}

func (s *BackoffTestSuite) TestRetry() {
	errTemp := errors.New("temporary")
	errFatal := errors.New("fatal")
	isTemp := func(err error) bool { return errors.Is(err, errTemp) }

	calls := 0
	err := Retry(context.Background(), NewLinear(time.Millisecond, 0), 5, isTemp, func() error {
		calls++
		if calls < 3 {
			return errTemp
		}
		return nil
	})
	s.NoError(err)
	s.Equal(3, calls)

	calls = 0
	err = Retry(context.Background(), NewLinear(time.Millisecond, 0), 5, isTemp, func() error {
		calls++
		return errFatal
	})
	s.ErrorIs(err, errFatal)
	s.Equal(1, calls)

	calls = 0
	err = Retry(context.Background(), NewLinear(time.Millisecond, 0), 3, isTemp, func() error {
		calls++
		return errTemp
	})
	s.ErrorIs(err, errTemp)
	s.Equal(3, calls)
}

func TestBackoffTestSuite(t *testing.T) {
	suite.Run(t, new(BackoffTestSuite))
}
