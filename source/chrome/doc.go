// Package chrome measures flowed HTML content in headless Chrome.
//
// The Measurer renders a resume document at the page's content-area width
// and reads back the content height and the offsets of atomic blocks via
// the DevTools protocol. It implements types.MeasurementProvider, so a
// Controller can drive it directly:
//
//	m, err := chrome.New(ctx, chrome.Options{AtomicSelector: ".resume-section"})
//	if err != nil { /* handle */ }
//	defer m.Close()
//
//	if err := m.LoadMarkdown(ctx, resumeMarkdown); err != nil { /* handle */ }
//	ctrl, err := pagination.NewController(&cfg, m)
//
// Readiness is tied to document.fonts.ready so measurements are taken after
// web fonts have loaded.
//
// Unit granularity is a provider policy: AtomicSelector picks whole
// sections (".resume-section", the default) or individual entries
// (".resume-item").
package chrome
