package ctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestWithValues() {
	c := WithValues(Background(), map[string]interface{}{
		"objectId": "obj-1",
		"bidderId": "user-1",
	})
	ts.Equal("obj-1", c.Value("objectId"))
	ts.Equal("user-1", c.Value("bidderId"))
}

func (ts *testsuite) TestFrom() {
	plain := context.WithValue(context.Background(), "k", "v")
	c := From(plain)
	ts.Equal("v", c.Value("k"))

	wrapped := WithValue(Background(), "a", "b")
	ts.Equal(wrapped, From(wrapped))
}

func (ts *testsuite) TestDetachIgnoresParentCancel() {
	parent, cancel := WithCancel(Background())
	cancel()
	ts.Error(parent.Err())

	detached := Detach(parent)
	ts.NoError(detached.Err())
}

func (ts *testsuite) TestTimeout() {
	c, cancel := WithTimeout(Background(), 10*time.Millisecond)
	defer cancel()
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		ts.Fail("timeout not fired")
	}
	ts.Equal(context.DeadlineExceeded, c.Err())
}
