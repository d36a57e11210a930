package kvutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	pagetest "github.com/srbhr/Resume-Matcher-sub001/testing"
)

func TestEnsureKVBucketWithRetry(t *testing.T) {
	_, nc := pagetest.StartEmbeddedNATS(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("creates missing bucket", func(t *testing.T) {
		kv, err := EnsureKVBucketWithRetry(ctx, js, LayoutBucketConfig("layouts-1"), 3)
		require.NoError(t, err)
		require.Equal(t, "layouts-1", kv.Bucket())

		status, err := kv.Status(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(5), status.History())
	})

	t.Run("opens existing bucket", func(t *testing.T) {
		cfg := LayoutBucketConfig("layouts-2")

		first, err := js.CreateKeyValue(ctx, cfg)
		require.NoError(t, err)
		_, err = first.Put(ctx, "layout.a", []byte("1"))
		require.NoError(t, err)

		kv, err := EnsureKVBucketWithRetry(ctx, js, cfg, 3)
		require.NoError(t, err)

		entry, err := kv.Get(ctx, "layout.a")
		require.NoError(t, err)
		require.Equal(t, []byte("1"), entry.Value())
	})

	t.Run("concurrent callers all succeed", func(t *testing.T) {
		const callers = 10

		var wg sync.WaitGroup
		errs := make(chan error, callers)
		kvs := make([]jetstream.KeyValue, callers)

		for i := range callers {
			wg.Go(func() {
				kv, err := EnsureKVBucketWithRetry(ctx, js, LayoutBucketConfig("layouts-3"), 5)
				if err != nil {
					errs <- err
					return
				}
				kvs[i] = kv
			})
		}

		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}
		for i, kv := range kvs {
			require.NotNil(t, kv, "caller %d should have a bucket", i)
		}
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		cancelled, cancelNow := context.WithCancel(context.Background())
		cancelNow()

		_, err := EnsureKVBucketWithRetry(cancelled, js, LayoutBucketConfig("layouts-4"), 3)
		require.Error(t, err)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLayoutBucketConfig(t *testing.T) {
	cfg := LayoutBucketConfig("pagebreak-layouts")

	require.Equal(t, "pagebreak-layouts", cfg.Bucket)
	require.Equal(t, jetstream.FileStorage, cfg.Storage)
	require.Equal(t, uint8(5), cfg.History)
}
