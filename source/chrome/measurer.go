package chrome

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/srbhr/Resume-Matcher-sub001/dimension"
	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Defaults for Options.
const (
	DefaultContentID        = "resume-content"
	DefaultAtomicSelector   = "." + SectionClass
	DefaultViewportHeightPx = 1200
)

// ErrClosed is returned by operations on a closed Measurer.
var ErrClosed = errors.New("chrome measurer closed")

// Options configures a Measurer.
type Options struct {
	// ContentID is the id of the element whose height is the flowed
	// content height. Default: "resume-content".
	ContentID string

	// AtomicSelector selects the blocks that should not be split across
	// pages. Default: ".resume-section".
	AtomicSelector string

	// ContentWidthPx is the viewport width, normally the content-area width
	// of the page. Default: A4 with 10mm margins.
	ContentWidthPx float64

	// ViewportHeightPx only affects what Chrome considers visible; content
	// flows past it. Default: 1200.
	ViewportHeightPx float64

	// Stylesheet is CSS appended to every document built by LoadFragment
	// and LoadMarkdown.
	Stylesheet string

	// ExecPath is the Chrome binary. Empty means search the usual locations
	// and fall back to chromedp's own lookup.
	ExecPath string

	// Logger defaults to a no-op logger.
	Logger types.Logger
}

func (o *Options) setDefaults() {
	if o.ContentID == "" {
		o.ContentID = DefaultContentID
	}
	if o.AtomicSelector == "" {
		o.AtomicSelector = DefaultAtomicSelector
	}
	if o.ContentWidthPx <= 0 {
		o.ContentWidthPx = dimension.ContentArea(types.PageSizeA4, types.Margins{Top: 10, Bottom: 10, Left: 10, Right: 10}).Width
	}
	if o.ViewportHeightPx <= 0 {
		o.ViewportHeightPx = DefaultViewportHeightPx
	}
	if o.ExecPath == "" {
		o.ExecPath = DetectExecPath()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
}

// Measurer measures a document rendered in headless Chrome.
//
// All browser operations are serialized. Load, LoadFragment, LoadMarkdown
// and SetContentWidth notify change listeners after they succeed.
type Measurer struct {
	opts Options

	allocCancel context.CancelFunc
	taskCtx     context.Context
	taskCancel  context.CancelFunc

	mu       sync.Mutex
	width    float64
	loaded   bool
	pending  *Snapshot
	snapshot func(ctx context.Context) (Snapshot, error)
	closed   atomic.Bool

	listeners *xsync.Map[uint64, func()]
	nextID    atomic.Uint64
}

var _ types.MeasurementProvider = (*Measurer)(nil)

// New starts a headless Chrome instance.
//
// Parameters:
//   - ctx: Bounds browser startup only; the browser lives until Close
//   - opts: Measurement options
//
// Returns:
//   - *Measurer: Measurer with an empty tab
//   - error: If Chrome cannot be started
func New(ctx context.Context, opts Options) (*Measurer, error) {
	opts.setDefaults()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(),
		append(chromedp.DefaultExecAllocatorOptions[:], allocOpts...)...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	m := &Measurer{
		opts:        opts,
		allocCancel: allocCancel,
		taskCtx:     taskCtx,
		taskCancel:  taskCancel,
		width:       opts.ContentWidthPx,
		listeners:   xsync.NewMap[uint64, func()](),
	}
	m.snapshot = m.evaluateSnapshot

	// The first Run allocates the browser and must use the tab context
	// itself, so startup is raced against ctx instead of derived from it.
	errCh := make(chan error, 1)
	go func() {
		errCh <- chromedp.Run(taskCtx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("failed to start chrome: %w", err)
		}
	case <-ctx.Done():
		m.Close()
		return nil, fmt.Errorf("failed to start chrome: %w", ctx.Err())
	}

	opts.Logger.Debug("chrome measurer started", "exec_path", opts.ExecPath, "width_px", opts.ContentWidthPx)

	return m, nil
}

// Load navigates to a complete HTML document and waits for the content root.
func (m *Measurer) Load(ctx context.Context, htmlDoc string) error {
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))

	m.mu.Lock()
	err := m.run(ctx,
		m.viewport(),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("#"+m.opts.ContentID, chromedp.ByQuery),
	)
	if err == nil {
		m.loaded = true
	}
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	m.notify()

	return nil
}

// LoadFragment wraps an HTML fragment with Document and loads it.
func (m *Measurer) LoadFragment(ctx context.Context, fragment string) error {
	return m.Load(ctx, Document(fragment, m.opts.ContentID, m.opts.Stylesheet))
}

// LoadMarkdown renders a markdown resume with RenderMarkdown and loads it.
func (m *Measurer) LoadMarkdown(ctx context.Context, source []byte) error {
	fragment, err := RenderMarkdown(source)
	if err != nil {
		return err
	}

	return m.LoadFragment(ctx, fragment)
}

// SetContentWidth resizes the viewport so content reflows at a new
// content-area width, for example after a page size or margin change.
func (m *Measurer) SetContentWidth(ctx context.Context, widthPx float64) error {
	if !(widthPx > 0) || math.IsInf(widthPx, 0) {
		return fmt.Errorf("invalid content width %v", widthPx)
	}

	m.mu.Lock()
	m.width = widthPx
	err := m.run(ctx, m.viewport())
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to resize viewport: %w", err)
	}

	m.notify()

	return nil
}

// ContentWidth returns the current viewport width in pixels.
func (m *Measurer) ContentWidth() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.width
}

// Snapshot is one measurement of the loaded document: the content height
// and the atomic blocks, taken by a single script.
type Snapshot struct {
	Found         bool                `json:"found"`
	ContentHeight float64             `json:"height"`
	Blocks        []types.AtomicBlock `json:"blocks"`
}

// Measure returns the content height and the boxes matching
// AtomicSelector inside the content root, in document order, relative to
// the root's top edge.
func (m *Measurer) Measure(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.measure(ctx)
}

// MeasureContentHeight returns the height of the content root.
//
// The blocks measured by the same script are kept for the next
// MeasureAtomicBlocks call, so a Load or SetContentWidth landing between
// the two calls cannot pair a height with another document's blocks.
func (m *Measurer) MeasureContentHeight(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.measure(ctx)
	if err != nil {
		m.pending = nil
		return 0, err
	}
	m.pending = &snap

	return snap.ContentHeight, nil
}

// MeasureAtomicBlocks returns the blocks of the snapshot taken by the
// preceding MeasureContentHeight call, measuring afresh if there is none.
func (m *Measurer) MeasureAtomicBlocks(ctx context.Context) ([]types.AtomicBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if snap := m.pending; snap != nil {
		m.pending = nil
		return snap.Blocks, nil
	}

	snap, err := m.measure(ctx)
	if err != nil {
		return nil, err
	}

	return snap.Blocks, nil
}

// measure runs the snapshot script. Callers hold m.mu.
func (m *Measurer) measure(ctx context.Context) (Snapshot, error) {
	snap, err := m.snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if !snap.Found {
		return Snapshot{}, fmt.Errorf("%w: element #%s not found", types.ErrMeasurementUnavailable, m.opts.ContentID)
	}

	return snap, nil
}

// evaluateSnapshot measures the document in the browser. Callers hold m.mu.
func (m *Measurer) evaluateSnapshot(ctx context.Context) (Snapshot, error) {
	if !m.loaded {
		return Snapshot{}, fmt.Errorf("%w: no document loaded", types.ErrMeasurementUnavailable)
	}

	script := fmt.Sprintf(`(() => {
		const root = document.getElementById(%s);
		if (!root) return {found: false, height: 0, blocks: []};
		const box = root.getBoundingClientRect();
		const blocks = Array.from(root.querySelectorAll(%s)).map((el) => {
			const r = el.getBoundingClientRect();
			return {top: r.top - box.top, bottom: r.bottom - box.top};
		});
		return {found: true, height: box.height, blocks: blocks};
	})()`, jsString(m.opts.ContentID), jsString(m.opts.AtomicSelector))

	var snap Snapshot
	if err := m.run(ctx, chromedp.Evaluate(script, &snap)); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// AwaitReady waits for document.fonts.ready. Before a document is loaded
// it returns immediately.
func (m *Measurer) AwaitReady(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		return ctx.Err()
	}

	var ready bool

	return m.run(ctx, chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &ready,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
}

// OnChange registers a callback run after every successful load or resize.
func (m *Measurer) OnChange(callback func()) func() {
	id := m.nextID.Add(1)
	m.listeners.Store(id, callback)

	return func() { m.listeners.Delete(id) }
}

// Close shuts the browser down. It is safe to call more than once.
func (m *Measurer) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}

	m.taskCancel()
	m.allocCancel()
	m.opts.Logger.Debug("chrome measurer closed")
}

// run executes actions on the tab, bounded by ctx. Callers hold m.mu.
func (m *Measurer) run(ctx context.Context, actions ...chromedp.Action) error {
	if m.closed.Load() {
		return ErrClosed
	}

	// Cancelling a plain child of the tab context aborts the actions
	// without closing the tab.
	runCtx, cancel := context.WithCancel(m.taskCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		return err
	}

	return nil
}

func (m *Measurer) viewport() chromedp.Action {
	return emulation.SetDeviceMetricsOverride(
		int64(math.Ceil(m.width)),
		int64(m.opts.ViewportHeightPx),
		1,
		false,
	)
}

func (m *Measurer) notify() {
	m.listeners.Range(func(_ uint64, callback func()) bool {
		callback()
		return true
	})
}

func jsString(s string) string {
	b, _ := json.Marshal(s) //nolint:errchkjson // strings always marshal

	return string(b)
}

// DetectExecPath returns the first Chrome or Chromium binary found in the
// usual install locations, or "" if none is present.
func DetectExecPath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
