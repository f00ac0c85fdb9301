package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/essentialtimes/newsroom/internal/api/metrics"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	removeTimeout  = 10 * time.Second
)

// Janitor removes replaced and orphaned images in the background. URLs are
// routed to a fixed set of workers by hash so repeated removals of the same
// image are serialized on one worker.
type Janitor struct {
	workers []chan string
	images  ports.ImageStore
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewJanitor creates a Janitor with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewJanitor(numWorkers int, images ports.ImageStore, log zerolog.Logger) *Janitor {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	j := &Janitor{
		workers: make([]chan string, numWorkers),
		images:  images,
		log:     log,
	}
	for i := range j.workers {
		j.workers[i] = make(chan string, channelBuffer)
	}
	return j
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	for i, ch := range j.workers {
		j.wg.Add(1)
		go j.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (j *Janitor) Wait() { j.wg.Wait() }

// Enqueue hands url to its worker. It never blocks the request path: when the
// worker's channel is full the removal is dropped and logged.
func (j *Janitor) Enqueue(url string) {
	if url == "" {
		return
	}
	idx := j.shardIndex(url)
	select {
	case j.workers[idx] <- url:
		metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.ImageCleanupTotal.WithLabelValues("dropped").Inc()
		j.log.Warn().Str("image", url).Int("worker_id", idx).Msg("cleanup queue full, image left on disk")
	}
}

// shardIndex maps a URL deterministically to a worker index.
func (j *Janitor) shardIndex(url string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return int(h.Sum32() % uint32(len(j.workers)))
}

func (j *Janitor) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer j.wg.Done()
	depth := metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case url := <-ch:
			depth.Dec()
			j.remove(url, id)
		}
	}
}

func (j *Janitor) remove(url string, worker int) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()

	err := j.images.Remove(ctx, url)
	metrics.ImageCleanupDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ImageCleanupTotal.WithLabelValues("failed").Inc()
		j.log.Error().Err(err).Str("image", url).Int("worker_id", worker).Msg("image cleanup failed")
		return
	}
	metrics.ImageCleanupTotal.WithLabelValues("removed").Inc()
	j.log.Debug().Str("image", url).Int("worker_id", worker).Msg("image removed")
}
