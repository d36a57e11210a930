package chrome

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.setDefaults()

	require.Equal(t, DefaultContentID, opts.ContentID)
	require.Equal(t, ".resume-section", opts.AtomicSelector)
	require.InDelta(t, 190*96/25.4, opts.ContentWidthPx, 1e-9)
	require.Equal(t, float64(DefaultViewportHeightPx), opts.ViewportHeightPx)
	require.NotNil(t, opts.Logger)

	custom := Options{AtomicSelector: ".resume-item", ContentWidthPx: 600}
	custom.setDefaults()
	require.Equal(t, ".resume-item", custom.AtomicSelector)
	require.Equal(t, 600.0, custom.ContentWidthPx)
}

func TestJSString(t *testing.T) {
	require.Equal(t, `"resume-content"`, jsString("resume-content"))
	require.Equal(t, `"a\"b"`, jsString(`a"b`))
}

// scriptedMeasurer returns a Measurer whose snapshots come from docs, one
// per call, without a browser.
func scriptedMeasurer(docs ...Snapshot) (*Measurer, *atomic.Int32) {
	var calls atomic.Int32
	m := &Measurer{opts: Options{ContentID: DefaultContentID}}
	m.snapshot = func(context.Context) (Snapshot, error) {
		i := int(calls.Add(1)) - 1
		return docs[min(i, len(docs)-1)], nil
	}

	return m, &calls
}

func TestMeasurer_HeightAndBlocksComeFromOneSnapshot(t *testing.T) {
	before := Snapshot{Found: true, ContentHeight: 900, Blocks: []types.AtomicBlock{{Top: 0, Bottom: 900}}}
	after := Snapshot{Found: true, ContentHeight: 300, Blocks: []types.AtomicBlock{{Top: 0, Bottom: 300}}}
	m, calls := scriptedMeasurer(before, after, after)

	height, err := m.MeasureContentHeight(t.Context())
	require.NoError(t, err)
	require.Equal(t, 900.0, height)

	// The document changes here; the blocks still belong to the height above.
	blocks, err := m.MeasureAtomicBlocks(t.Context())
	require.NoError(t, err)
	require.Equal(t, before.Blocks, blocks)
	require.Equal(t, int32(1), calls.Load())

	// The pending snapshot is used once.
	blocks, err = m.MeasureAtomicBlocks(t.Context())
	require.NoError(t, err)
	require.Equal(t, after.Blocks, blocks)
	require.Equal(t, int32(2), calls.Load())

	snap, err := m.Measure(t.Context())
	require.NoError(t, err)
	require.Equal(t, 300.0, snap.ContentHeight)
}

func TestMeasurer_MissingRootIsUnavailable(t *testing.T) {
	m, _ := scriptedMeasurer(Snapshot{Found: false})

	_, err := m.MeasureContentHeight(t.Context())
	require.ErrorIs(t, err, types.ErrMeasurementUnavailable)
	require.Nil(t, m.pending)

	_, err = m.MeasureAtomicBlocks(t.Context())
	require.ErrorIs(t, err, types.ErrMeasurementUnavailable)
}

func newBrowser(t *testing.T) *Measurer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if DetectExecPath() == "" {
		t.Skip("chrome not installed")
	}

	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Second)
	defer cancel()

	m, err := New(ctx, Options{Logger: logging.NewTest(t)})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	return m
}

func TestMeasurer_BeforeLoad(t *testing.T) {
	m := newBrowser(t)

	_, err := m.MeasureContentHeight(t.Context())
	require.ErrorIs(t, err, types.ErrMeasurementUnavailable)

	_, err = m.MeasureAtomicBlocks(t.Context())
	require.ErrorIs(t, err, types.ErrMeasurementUnavailable)

	require.NoError(t, m.AwaitReady(t.Context()))
}

func TestMeasurer_MeasuresFixedBoxes(t *testing.T) {
	m := newBrowser(t)

	var changes atomic.Int32
	unsubscribe := m.OnChange(func() { changes.Add(1) })
	defer unsubscribe()

	section := `<section class="resume-section" style="height:300px"></section>`
	require.NoError(t, m.LoadFragment(t.Context(), strings.Repeat(section, 3)))
	require.Equal(t, int32(1), changes.Load())

	require.NoError(t, m.AwaitReady(t.Context()))

	height, err := m.MeasureContentHeight(t.Context())
	require.NoError(t, err)
	require.InDelta(t, 900, height, 0.5)

	blocks, err := m.MeasureAtomicBlocks(t.Context())
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		require.InDelta(t, float64(i*300), b.Top, 0.5)
		require.InDelta(t, float64(i*300+300), b.Bottom, 0.5)
	}

	snap, err := m.Measure(t.Context())
	require.NoError(t, err)
	require.InDelta(t, 900, snap.ContentHeight, 0.5)
	require.Len(t, snap.Blocks, 3)

	require.NoError(t, m.SetContentWidth(t.Context(), 500))
	require.Equal(t, 500.0, m.ContentWidth())
	require.Equal(t, int32(2), changes.Load())
}

func TestMeasurer_TextReflowsWithWidth(t *testing.T) {
	m := newBrowser(t)

	paragraph := "<p style='margin:0;font:16px/20px monospace'>" + strings.Repeat("word ", 400) + "</p>"
	require.NoError(t, m.LoadFragment(t.Context(), paragraph))

	wide, err := m.MeasureContentHeight(t.Context())
	require.NoError(t, err)

	require.NoError(t, m.SetContentWidth(t.Context(), 300))
	narrow, err := m.MeasureContentHeight(t.Context())
	require.NoError(t, err)

	require.Greater(t, narrow, wide)
}

func TestMeasurer_Close(t *testing.T) {
	m := newBrowser(t)
	m.Close()
	m.Close()

	err := m.LoadFragment(t.Context(), "<p>x</p>")
	require.ErrorIs(t, err, ErrClosed)
}
