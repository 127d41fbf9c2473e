/*
Package metrics wraps datadog-go to record market metrics
Naming convention:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
*/
package metrics

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	withPodName bool
}

// WithoutPodName drops the pod tag
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a metric client with package name as prefix.
// Metrics go to the datadog agent at metrics.datadog_host, or to the debug log when it is unset.
func New(pkgName string, options ...Option) Service {
	o := opt{withPodName: true}
	for _, option := range options {
		option(&o)
	}

	tags := []string{
		"host:", // remove unused host tag
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
	if o.withPodName {
		tags = append(tags, "pod:"+os.Getenv("PODNAME"))
	}

	return &Metrics{
		pkgName: pkgName,
		tags:    tags,
		cli:     defaultClient(),
	}
}

// Metrics prefixes every key with the package name
type Metrics struct {
	pkgName string
	tags    []string
	cli     statsCli
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

func (mt *Metrics) withTags(tags []string) []string {
	res := make([]string, 0, len(mt.tags)+len(tags)/2)
	res = append(res, mt.tags...)
	return append(res, parseTag(tags)...)
}

func (mt *Metrics) recoverPanic(fn, key string, tags []string) {
	if err := recover(); err != nil {
		_ = mt.cli.Count(fn+".panic", 1, []string{"tag:" + mt.key(key) + "#" + strings.Join(tags, "#")}, 1)
	}
}

func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumpavg", key, tags)
	bump("BumpAvg", mt.key(key), val, func() error {
		return mt.cli.Gauge(mt.key(key), val, mt.withTags(tags), 1)
	})
}

func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumpsum", key, tags)
	bump("BumpSum", mt.key(key), val, func() error {
		return mt.cli.Count(mt.key(key), int64(val), mt.withTags(tags), 1)
	})
}

func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverPanic("bumphistogram", key, tags)
	bump("BumpHistogram", mt.key(key), val, func() error {
		return mt.cli.Histogram(mt.key(key), val, mt.withTags(tags), 1)
	})
}

// BumpTime starts a timer, call End on the result to record it:
//
//	defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) (ender Ender) {
	ender = nopEnder{}
	defer mt.recoverPanic("bumptime", key, tags)
	return newTimeTracker(mt.cli, mt.key(key), mt.withTags(tags))
}

type nopEnder struct{}

func (nopEnder) End() {}
