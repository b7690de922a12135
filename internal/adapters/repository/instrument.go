package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/jobmatch/pkg/metrics"
)

type instrumented struct {
	next   DocStore
	driver string
}

// Instrument wraps s so every call records latency and failures.
// ErrNotFound and ErrConflict are outcomes, not failures.
func Instrument(s DocStore, driver string) DocStore {
	return &instrumented{next: s, driver: driver}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(i.driver, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrConflict) {
		metrics.RecordStoreError(i.driver, op)
	}
}

func (i *instrumented) Put(ctx context.Context, collection, id string, body []byte) error {
	start := time.Now()
	err := i.next.Put(ctx, collection, id, body)
	i.observe("put", start, err)
	return err
}

func (i *instrumented) Insert(ctx context.Context, collection, id string, body []byte) error {
	start := time.Now()
	err := i.next.Insert(ctx, collection, id, body)
	i.observe("insert", start, err)
	return err
}

func (i *instrumented) Get(ctx context.Context, collection, id string) ([]byte, error) {
	start := time.Now()
	body, err := i.next.Get(ctx, collection, id)
	i.observe("get", start, err)
	return body, err
}

func (i *instrumented) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := i.next.Delete(ctx, collection, id)
	i.observe("delete", start, err)
	return err
}

func (i *instrumented) List(ctx context.Context, collection string) ([][]byte, error) {
	start := time.Now()
	docs, err := i.next.List(ctx, collection)
	i.observe("list", start, err)
	return docs, err
}

func (i *instrumented) Count(ctx context.Context, collection string) (int, error) {
	start := time.Now()
	n, err := i.next.Count(ctx, collection)
	i.observe("count", start, err)
	return n, err
}

func (i *instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
