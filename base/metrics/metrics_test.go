package metrics

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func (s *MetricsTestSuite) TestParseTag() {
	s.Nil(parseTag(nil))
	s.Equal([]string{"kind:bid", "result:ok"}, parseTag([]string{"kind", "bid", "result", "ok"}))
	s.Panics(func() { parseTag([]string{"dangling"}) })
}

func (s *MetricsTestSuite) TestBumpWithoutAgent() {
	// datadog_host is unset in tests so every client is a LogClient
	m := New("test")
	s.NotPanics(func() {
		m.BumpSum("bid.accepted", 1, "object", "o1")
		m.BumpAvg("actors.live", 3)
		m.BumpHistogram("mailbox.depth", 2)
		m.BumpTime("command.time", "kind", "placeBid").End()
	})
	s.IsType(&LogClient{}, nextClient())
}

func (s *MetricsTestSuite) TestOddTagsRecovered() {
	m := New("test")
	s.NotPanics(func() { m.BumpSum("bad", 1, "dangling") })
}

func TestMetricsTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}
