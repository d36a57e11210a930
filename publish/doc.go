// Package publish stores published layouts in a NATS JetStream KV bucket.
//
// KV implements types.LayoutSink. Register it with the controller and every
// layout lands under "<prefix>.<key>" as JSON, tagged with a version that
// keeps increasing across previewer restarts:
//
//	kv, err := kvutil.EnsureKVBucketWithRetry(ctx, js, kvutil.LayoutBucketConfig("pagebreak-layouts"), 3)
//	sink, err := publish.NewKV(kv, publish.WithKey("resume-42"))
//	if err := sink.DiscoverHighestVersion(ctx); err != nil { /* handle */ }
//
//	ctrl, err := pagination.NewController(&cfg, provider, pagination.WithLayoutSink(sink))
//
// Renderers in other processes read the same key with Latest or follow it
// with Watch.
package publish
