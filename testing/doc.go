// Package testing provides test utilities for the pagination engine.
//
// It mirrors net/http/httptest: helpers that set up real collaborators for
// tests in other packages and in applications embedding the controller.
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server with JetStream
//   - CreateJetStreamKV: Memory-backed KV bucket for layout publishing tests
//   - NewTestLogger: Logger that writes through t.Logf
//
// Example usage:
//
//	import pagetest "github.com/srbhr/Resume-Matcher-sub001/testing"
//
//	func TestLayoutPublishing(t *testing.T) {
//	    _, nc := pagetest.StartEmbeddedNATS(t)
//	    kv := pagetest.CreateJetStreamKV(t, nc, "layouts")
//	    // ...
//	}
package testing
