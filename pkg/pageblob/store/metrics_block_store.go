package store

import (
	"context"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	blockStoreOperationsStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pageblob",
			Subsystem: "block_store",
			Name:      "operations_started_total",
			Help:      "Total number of operations started on block store objects.",
		},
		[]string{"name", "operation"})
	blockStoreOperationsDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pageblob",
			Subsystem: "block_store",
			Name:      "operations_duration_seconds",
			Help:      "Amount of time spent per operation on block store objects, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, math.Pow(10.0, 1.0/3.0), 6*3+1),
		},
		[]string{"name", "operation"})
	blockStoreOperationsOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pageblob",
			Subsystem: "block_store",
			Name:      "operations_outcome_total",
			Help:      "Total number of recorded outcomes for each block store operation.",
		},
		[]string{"name", "operation", "outcome"})
)

func init() {
	prometheus.MustRegister(blockStoreOperationsStartedTotal)
	prometheus.MustRegister(blockStoreOperationsDurationSeconds)
	prometheus.MustRegister(blockStoreOperationsOutcomeTotal)
}

type metricsBlockStore struct {
	blockStore BlockStore

	startedPagesCount            prometheus.Counter
	durationPagesCount           prometheus.Observer
	startedCreateContainer       prometheus.Counter
	durationCreateContainer      prometheus.Observer
	startedCreateBlob            prometheus.Counter
	durationCreateBlob           prometheus.Observer
	startedResize                prometheus.Counter
	durationResize               prometheus.Observer
	startedRead                  prometheus.Counter
	durationRead                 prometheus.Observer
	startedWrite                 prometheus.Counter
	durationWrite                prometheus.Observer

	outcomePagesCountSuccess      prometheus.Counter
	outcomePagesCountFail         prometheus.Counter
	outcomeCreateContainerSuccess prometheus.Counter
	outcomeCreateContainerFail    prometheus.Counter
	outcomeCreateBlobSuccess      prometheus.Counter
	outcomeCreateBlobFail         prometheus.Counter
	outcomeResizeSuccess          prometheus.Counter
	outcomeResizeFail             prometheus.Counter
	outcomeReadSuccess            prometheus.Counter
	outcomeReadFail               prometheus.Counter
	outcomeWriteSuccess           prometheus.Counter
	outcomeWriteFail              prometheus.Counter
}

// NewMetricsBlockStore wraps blockStore with an adapter that reports
// Prometheus counters and histograms for every operation, labeled with
// name so that multiple stores (e.g. a primary and a backup used by
// ForceToWrite) can be told apart on the same dashboard.
func NewMetricsBlockStore(blockStore BlockStore, name string) BlockStore {
	return &metricsBlockStore{
		blockStore: blockStore,

		startedPagesCount:       blockStoreOperationsStartedTotal.WithLabelValues(name, "PagesCount"),
		durationPagesCount:      blockStoreOperationsDurationSeconds.WithLabelValues(name, "PagesCount"),
		startedCreateContainer:  blockStoreOperationsStartedTotal.WithLabelValues(name, "CreateContainerIfAbsent"),
		durationCreateContainer: blockStoreOperationsDurationSeconds.WithLabelValues(name, "CreateContainerIfAbsent"),
		startedCreateBlob:       blockStoreOperationsStartedTotal.WithLabelValues(name, "CreateBlobIfAbsent"),
		durationCreateBlob:      blockStoreOperationsDurationSeconds.WithLabelValues(name, "CreateBlobIfAbsent"),
		startedResize:           blockStoreOperationsStartedTotal.WithLabelValues(name, "Resize"),
		durationResize:          blockStoreOperationsDurationSeconds.WithLabelValues(name, "Resize"),
		startedRead:             blockStoreOperationsStartedTotal.WithLabelValues(name, "Read"),
		durationRead:            blockStoreOperationsDurationSeconds.WithLabelValues(name, "Read"),
		startedWrite:            blockStoreOperationsStartedTotal.WithLabelValues(name, "Write"),
		durationWrite:           blockStoreOperationsDurationSeconds.WithLabelValues(name, "Write"),

		outcomePagesCountSuccess:      blockStoreOperationsOutcomeTotal.WithLabelValues(name, "PagesCount", "Success"),
		outcomePagesCountFail:         blockStoreOperationsOutcomeTotal.WithLabelValues(name, "PagesCount", "Fail"),
		outcomeCreateContainerSuccess: blockStoreOperationsOutcomeTotal.WithLabelValues(name, "CreateContainerIfAbsent", "Success"),
		outcomeCreateContainerFail:    blockStoreOperationsOutcomeTotal.WithLabelValues(name, "CreateContainerIfAbsent", "Fail"),
		outcomeCreateBlobSuccess:      blockStoreOperationsOutcomeTotal.WithLabelValues(name, "CreateBlobIfAbsent", "Success"),
		outcomeCreateBlobFail:         blockStoreOperationsOutcomeTotal.WithLabelValues(name, "CreateBlobIfAbsent", "Fail"),
		outcomeResizeSuccess:          blockStoreOperationsOutcomeTotal.WithLabelValues(name, "Resize", "Success"),
		outcomeResizeFail:             blockStoreOperationsOutcomeTotal.WithLabelValues(name, "Resize", "Fail"),
		outcomeReadSuccess:            blockStoreOperationsOutcomeTotal.WithLabelValues(name, "Read", "Success"),
		outcomeReadFail:               blockStoreOperationsOutcomeTotal.WithLabelValues(name, "Read", "Fail"),
		outcomeWriteSuccess:           blockStoreOperationsOutcomeTotal.WithLabelValues(name, "Write", "Success"),
		outcomeWriteFail:              blockStoreOperationsOutcomeTotal.WithLabelValues(name, "Write", "Fail"),
	}
}

func (bs *metricsBlockStore) PagesCount(ctx context.Context) (uint64, error) {
	bs.startedPagesCount.Inc()
	timeStart := time.Now()
	pages, err := bs.blockStore.PagesCount(ctx)
	if err == nil {
		bs.outcomePagesCountSuccess.Inc()
	} else {
		bs.outcomePagesCountFail.Inc()
	}
	bs.durationPagesCount.Observe(time.Since(timeStart).Seconds())
	return pages, err
}

func (bs *metricsBlockStore) CreateContainerIfAbsent(ctx context.Context) error {
	bs.startedCreateContainer.Inc()
	timeStart := time.Now()
	err := bs.blockStore.CreateContainerIfAbsent(ctx)
	if err == nil {
		bs.outcomeCreateContainerSuccess.Inc()
	} else {
		bs.outcomeCreateContainerFail.Inc()
	}
	bs.durationCreateContainer.Observe(time.Since(timeStart).Seconds())
	return err
}

func (bs *metricsBlockStore) CreateBlobIfAbsent(ctx context.Context, initialPages uint64) (uint64, error) {
	bs.startedCreateBlob.Inc()
	timeStart := time.Now()
	pages, err := bs.blockStore.CreateBlobIfAbsent(ctx, initialPages)
	if err == nil {
		bs.outcomeCreateBlobSuccess.Inc()
	} else {
		bs.outcomeCreateBlobFail.Inc()
	}
	bs.durationCreateBlob.Observe(time.Since(timeStart).Seconds())
	return pages, err
}

func (bs *metricsBlockStore) Resize(ctx context.Context, pages uint64) error {
	bs.startedResize.Inc()
	timeStart := time.Now()
	err := bs.blockStore.Resize(ctx, pages)
	if err == nil {
		bs.outcomeResizeSuccess.Inc()
	} else {
		bs.outcomeResizeFail.Inc()
	}
	bs.durationResize.Observe(time.Since(timeStart).Seconds())
	return err
}

func (bs *metricsBlockStore) Read(ctx context.Context, startPage, pages uint64) ([]byte, error) {
	bs.startedRead.Inc()
	timeStart := time.Now()
	data, err := bs.blockStore.Read(ctx, startPage, pages)
	if err == nil {
		bs.outcomeReadSuccess.Inc()
	} else {
		bs.outcomeReadFail.Inc()
	}
	bs.durationRead.Observe(time.Since(timeStart).Seconds())
	return data, err
}

func (bs *metricsBlockStore) Write(ctx context.Context, startPage uint64, data []byte) error {
	bs.startedWrite.Inc()
	timeStart := time.Now()
	err := bs.blockStore.Write(ctx, startPage, data)
	if err == nil {
		bs.outcomeWriteSuccess.Inc()
	} else {
		bs.outcomeWriteFail.Inc()
	}
	bs.durationWrite.Observe(time.Since(timeStart).Seconds())
	return err
}

var _ BlockStore = (*metricsBlockStore)(nil)
