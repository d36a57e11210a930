// Package notify delivers content change signals over NATS.
//
// An editor process publishes on a subject whenever the resume changes; the
// previewer subscribes with NATS and hands it to a Controller, either as the
// ChangeNotifier of a composed provider or by reacting to message payloads:
//
//	n, err := notify.NewNATS(nc, "resume.42.changed")
//	if err != nil { /* handle */ }
//	defer n.Close()
//
//	provider := source.Combine(measurer, n, source.Ready)
package notify
