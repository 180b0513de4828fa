package main

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cache "github.com/krisalay/evict-cache"
	"github.com/krisalay/evict-cache/eviction"
	"github.com/krisalay/evict-cache/metadata"
	"github.com/krisalay/evict-cache/metrics"
)

var dumpMetrics bool

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through eviction order of each policy and the metadata cache.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.Context())
	},
}

func init() {
	demoCmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "print Prometheus metrics at the end")
}

type order struct {
	ID       int     `json:"id"`
	Customer string  `json:"customer"`
	Total    float64 `json:"total"`
}

func (o *order) Apply(discount float64) { o.Total *= 1 - discount }

func runDemo(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	col, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}

	fmt.Println("\n==================== EVICTION ORDER ====================")
	for _, p := range []eviction.PolicyType{eviction.FIFO, eviction.LRU, eviction.LFU} {
		c, err := cache.New(p, 2,
			cache.WithName[string, string](string(p)),
			cache.WithLogger[string, string](logger),
			cache.WithMetrics[string, string](col.For(string(p))),
			cache.WithOnEvict(func(k, _ string) {
				fmt.Printf("%-4s → evicted %s\n", p, k)
			}),
		)
		if err != nil {
			return err
		}

		c.Put("A", "alpha")
		c.Put("B", "beta")
		c.Get("A")
		c.Get("A")
		c.Put("C", "gamma")
		fmt.Printf("%-4s → keys %v\n", p, c.Keys())
	}

	fmt.Println("\n==================== METADATA CACHE ====================")
	meta, err := metadata.New(cfg.Metadata,
		metadata.WithLogger(logger),
		metadata.WithCollector(col),
	)
	if err != nil {
		return err
	}

	typ := reflect.TypeOf(order{})
	for i := 0; i < 3; i++ {
		fields, err := meta.Fields(ctx, typ)
		if err != nil {
			return err
		}
		if i == 0 {
			for _, f := range fields {
				fmt.Printf("FIELD  → %s %s\n", f.Name, f.Type)
			}
		}
	}
	methods, err := meta.Methods(ctx, typ)
	if err != nil {
		return err
	}
	for _, m := range methods {
		fmt.Printf("METHOD → %s (in=%d out=%d)\n", m.Name, m.NumIn, m.NumOut)
	}
	tags, err := meta.Tags(ctx, typ, "json")
	if err != nil {
		return err
	}
	fmt.Println("TAGS   →", tags)

	stats := meta.Stats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := stats[name]
		logger.Info("metadata cache stats",
			zap.String("cache", name),
			zap.Uint64("hits", s.Hits),
			zap.Uint64("misses", s.Misses),
			zap.Uint64("evictions", s.Evictions),
			zap.Float64("hit_rate", s.HitRate),
		)
	}

	if dumpMetrics {
		return writeMetrics(reg)
	}
	return nil
}

func writeMetrics(g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	fmt.Println("\n==================== METRICS ====================")
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			fmt.Fprintf(os.Stdout, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}
