package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/gomarket/base/log"
)

const (
	ddClientsSize    = 16 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1
	ddPort           = 8125
	// buffer 10 counters before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce = sync.Once{}
	client   statsCli
)

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

func defaultClient() statsCli {
	initOnce.Do(func() {
		host := viper.GetString("metrics.datadog_host")
		if host == "" {
			client = &LogClient{}
			return
		}
		client = newDDPool(fmt.Sprintf("%s:%d", host, ddPort))
	})
	return client
}

// ddPool round robins over several buffered statsd clients
type ddPool struct {
	idx     int32
	clients []statsCli
}

func newDDPool(addr string) *ddPool {
	p := &ddPool{clients: make([]statsCli, ddClientsSize)}
	for i := 0; i < ddClientsSize; i++ {
		log.Log().WithFields(log.Fields{"addr": addr, "idx": i}).Info("connecting to datadog agent")
		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
		}
		p.clients[i] = cli
	}
	return p
}

func (p *ddPool) next() statsCli {
	return p.clients[atomic.AddInt32(&p.idx, 1)&ddClientsIdxMask]
}

func (p *ddPool) Gauge(name string, value float64, tags []string, rate float64) error {
	return p.next().Gauge(name, value, tags, rate)
}

func (p *ddPool) Count(name string, value int64, tags []string, rate float64) error {
	return p.next().Count(name, value, tags, rate)
}

func (p *ddPool) Histogram(name string, value float64, tags []string, rate float64) error {
	return p.next().Histogram(name, value, tags, rate)
}

func (p *ddPool) TimeInMilliseconds(name string, value float64, tags []string, rate float64) error {
	return p.next().TimeInMilliseconds(name, value, tags, rate)
}

func bump(fn, key string, val float64, do func() error) {
	if err := do(); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": fn}).Error("Bump fail")
	}
}

func parseTag(tags []string) []string {
	if tags == nil {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type timeTracker struct {
	cli   statsCli
	start time.Time
	key   string
	tags  []string
}

func newTimeTracker(cli statsCli, key string, tags []string) *timeTracker {
	return &timeTracker{cli: cli, start: time.Now(), key: key, tags: tags}
}

func (t *timeTracker) End() {
	d := time.Since(t.start)
	dur := float64(d/time.Millisecond) + float64(d%time.Millisecond)*1e-6
	bump("BumpTime", t.key, dur, func() error {
		return t.cli.TimeInMilliseconds(t.key, dur, t.tags, 1)
	})
}
