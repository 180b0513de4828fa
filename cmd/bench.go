package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cache "github.com/krisalay/evict-cache"
	"github.com/krisalay/evict-cache/eviction"
	"github.com/krisalay/evict-cache/metrics"
)

type benchConfig struct {
	policy     string
	capacity   int
	shards     int
	keySpace   int
	goroutines int
	opsPerG    int
	writeRatio float64
}

var bench benchConfig

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a mixed get/put load against one cache and report throughput.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(bench)
	},
}

func init() {
	f := benchCmd.Flags()
	f.StringVar(&bench.policy, "policy", "lru", "eviction policy: fifo, lru or lfu")
	f.IntVar(&bench.capacity, "capacity", 100000, "total capacity")
	f.IntVar(&bench.shards, "shards", 1, "shards; 1 uses a single locked cache")
	f.IntVar(&bench.keySpace, "keys", 200000, "distinct keys drawn by the workers")
	f.IntVar(&bench.goroutines, "goroutines", 64, "concurrent workers")
	f.IntVar(&bench.opsPerG, "ops", 10000, "operations per worker")
	f.Float64Var(&bench.writeRatio, "write-ratio", 0.2, "fraction of operations that are puts")
}

func runBench(bc benchConfig) error {
	policy, err := eviction.ParsePolicyType(bc.policy)
	if err != nil {
		return err
	}
	if bc.keySpace <= 0 || bc.goroutines <= 0 || bc.opsPerG < 0 {
		return errors.New("keys and goroutines must be positive, ops must not be negative")
	}

	counter := metrics.NewCounter()
	var c cache.Cache[int, int]
	if bc.shards > 1 {
		c, err = cache.NewSharded(policy, bc.capacity, bc.shards,
			cache.WithLogger[int, int](logger), cache.WithMetrics[int, int](counter))
	} else {
		c, err = cache.New(policy, bc.capacity,
			cache.WithLogger[int, int](logger), cache.WithMetrics[int, int](counter))
	}
	if err != nil {
		return err
	}

	// ---------------- Preload ----------------
	for i := 0; i < bc.capacity; i++ {
		c.Put(i, i)
	}
	counter.Reset()

	// ---------------- Load Test ----------------
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(bc.goroutines)
	for g := 0; g < bc.goroutines; g++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for j := 0; j < bc.opsPerG; j++ {
				k := r.Intn(bc.keySpace)
				if r.Float64() < bc.writeRatio {
					c.Put(k, j)
				} else {
					c.Get(k)
				}
			}
		}(int64(g))
	}
	wg.Wait()

	duration := time.Since(start)
	totalOps := bc.goroutines * bc.opsPerG
	snap := counter.Snapshot()

	logger.Info("benchmark finished",
		zap.Stringer("policy", policy),
		zap.Int("capacity", bc.capacity),
		zap.Int("shards", bc.shards),
		zap.Int("size", c.Size()),
		zap.Duration("duration", duration),
	)

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hit Rate         : %.2f%%\n", snap.HitRate*100)
	fmt.Printf("Evictions        : %d\n", snap.Evictions)
	fmt.Println("=========================================")
	return nil
}
