package main

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	"github.com/srbhr/Resume-Matcher-sub001/publish"
	pagetest "github.com/srbhr/Resume-Matcher-sub001/testing"
)

const (
	watchSubject = "resume.42.geometry"
	watchBucket  = "watch-layouts"
	watchKey     = "resume-42"
)

// startWatch runs the watch command until the returned stop function is
// called, which reports the command's error.
func startWatch(t *testing.T, url string) func() error {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() {
		_, err := runContext(ctx, t, "--log-level", "error", "watch",
			"--nats-url", url,
			"--subject", watchSubject,
			"--bucket", watchBucket,
			"--key", watchKey,
			"--metrics-addr", "",
		)
		errCh <- err
	}()

	var once bool
	stop := func() error {
		if once {
			return nil
		}
		once = true
		cancel()

		select {
		case err := <-errCh:
			return err
		case <-time.After(10 * time.Second):
			t.Fatal("watch did not exit")
			return nil
		}
	}
	t.Cleanup(func() { _ = stop() })

	return stop
}

// latestRecord waits for a record with at least minVersion under watchKey.
func latestRecord(t *testing.T, js jetstream.JetStream, minVersion int64) publish.Record {
	t.Helper()

	var record publish.Record
	require.Eventually(t, func() bool {
		kv, err := js.KeyValue(t.Context(), watchBucket)
		if err != nil {
			return false
		}
		reader, err := publish.NewKV(kv, publish.WithKey(watchKey))
		if err != nil {
			return false
		}
		record, err = reader.Latest(t.Context())

		return err == nil && record.Version >= minVersion
	}, 10*time.Second, 20*time.Millisecond)

	return record
}

func TestWatch_PublishesLayoutsForGeometryMessages(t *testing.T) {
	srv, nc := pagetest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stop := startWatch(t, srv.ClientURL())

	// Empty content before any geometry arrives.
	initial := latestRecord(t, js, 1)
	require.Equal(t, int64(1), initial.Version)
	require.Equal(t, watchKey, initial.Key)
	require.Equal(t, 1, initial.Layout.PageCount())

	require.NoError(t, nc.Publish(watchSubject, []byte(geometryYAML)))
	require.NoError(t, nc.Flush())

	record := latestRecord(t, js, 2)
	require.Equal(t, int64(2), record.Version)
	require.Equal(t, 2, record.Layout.PageCount())
	require.InDelta(t, 900.0, record.Layout.Pages[0].ContentEnd, 1e-9)
	require.InDelta(t, 1800.0, record.Layout.TotalContentHeight, 1e-9)

	// Malformed geometry is ignored and nothing new is published.
	require.NoError(t, nc.Publish(watchSubject, []byte("contentHeight: [")))
	require.NoError(t, nc.Flush())

	require.NoError(t, stop())
	require.Equal(t, int64(2), latestRecord(t, js, 2).Version)
}

func TestWatch_ResumesVersionAfterRestart(t *testing.T) {
	srv, nc := pagetest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stop := startWatch(t, srv.ClientURL())
	latestRecord(t, js, 1)
	require.NoError(t, stop())

	startWatch(t, srv.ClientURL())
	record := latestRecord(t, js, 2)
	require.Equal(t, int64(2), record.Version)
}
