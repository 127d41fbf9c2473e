package metrics

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsTestSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

type recorder struct {
	LogClient
	names []string
	tags  [][]string
}

func (r *recorder) Count(name string, value int64, tags []string, rate float64) error {
	r.names = append(r.names, name)
	r.tags = append(r.tags, tags)
	return nil
}

func (r *recorder) TimeInMilliseconds(name string, value float64, tags []string, rate float64) error {
	r.names = append(r.names, name)
	r.tags = append(r.tags, tags)
	return nil
}

func (s *MetricsTestSuite) TestParseTag() {
	s.Nil(parseTag(nil))
	s.Equal([]string{"a:1", "b:2"}, parseTag([]string{"a", "1", "b", "2"}))
	s.Panics(func() { parseTag([]string{"a"}) })
}

func (s *MetricsTestSuite) TestPrefixAndTags() {
	rec := &recorder{}
	mt := &Metrics{pkgName: "market", tags: []string{"env:test"}, cli: rec}

	mt.BumpSum("sold", 1, "venue", "fixed")
	mt.BumpTime("settle.time").End()

	s.Equal([]string{"market.sold", "market.settle.time"}, rec.names)
	s.Equal([]string{"env:test", "venue:fixed"}, rec.tags[0])
}

func (s *MetricsTestSuite) TestOddTagsDoNotPanic() {
	rec := &recorder{}
	mt := &Metrics{pkgName: "market", cli: rec}
	s.NotPanics(func() { mt.BumpSum("sold", 1, "venue") })
}

func (s *MetricsTestSuite) TestDefaultClientIsLogClient() {
	mt := New("market")
	s.IsType(&LogClient{}, mt.(*Metrics).cli)
}
