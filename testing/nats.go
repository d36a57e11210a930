package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/srbhr/Resume-Matcher-sub001/internal/natsutil"
)

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled for testing.
//
// The server listens on a random port and stores data in a temporary
// directory. Server and connection are shut down via tb.Cleanup.
//
// Parameters:
//   - tb: Testing context for logging and cleanup
//
// Returns:
//   - *server.Server: The embedded NATS server instance
//   - *nats.Conn: Connected NATS client
//
// Example:
//
//	func TestNotifier(t *testing.T) {
//	    _, nc := pagetest.StartEmbeddedNATS(t)
//	    n, err := notify.NewNATS(nc, "resume.changed")
//	    // ...
//	}
func StartEmbeddedNATS(tb testing.TB) (*server.Server, *nats.Conn) {
	tb.Helper()

	ns, err := natsutil.RunEmbedded(natsutil.EmbeddedOptions{
		Port:     -1,
		StoreDir: tb.TempDir(),
	})
	if err != nil {
		tb.Fatalf("Failed to start embedded NATS server: %v", err)
	}

	nc, err := nats.Connect(ns.ClientURL(),
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		ns.Shutdown()
		tb.Fatalf("Failed to connect to embedded NATS server: %v", err)
	}

	// Runs before the TempDir removal registered above.
	tb.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})

	return ns, nc
}

// CreateJetStreamKV creates a memory-backed JetStream KV bucket for testing.
//
// Parameters:
//   - tb: Testing context
//   - nc: NATS connection (from StartEmbeddedNATS)
//   - bucketName: Name of the KV bucket to create
//
// Returns:
//   - jetstream.KeyValue: The created KV bucket
func CreateJetStreamKV(tb testing.TB, nc *nats.Conn, bucketName string) jetstream.KeyValue {
	tb.Helper()

	js, err := jetstream.New(nc)
	if err != nil {
		tb.Fatalf("Failed to get JetStream context: %v", err)
	}

	kv, err := js.CreateKeyValue(tb.Context(), jetstream.KeyValueConfig{
		Bucket:      bucketName,
		Description: fmt.Sprintf("Test KV bucket: %s", bucketName),
		History:     5,
		Storage:     jetstream.MemoryStorage,
		Replicas:    1,
	})
	if err != nil {
		tb.Fatalf("Failed to create KV bucket %s: %v", bucketName, err)
	}

	return kv
}
