package pagination

import (
	"github.com/srbhr/Resume-Matcher-sub001/internal/reflow"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Re-export types from the types package.
//
// Internal packages depend on types rather than on the root package; these
// aliases give users pagination.Layout, pagination.Logger and so on.
type (
	PageSize     = types.PageSize
	Margins      = types.Margins
	ContentArea  = types.ContentArea
	PageSettings = types.PageSettings
	AtomicBlock  = types.AtomicBlock
	PageBreak    = types.PageBreak
	Layout       = types.Layout

	ControllerState = types.ControllerState
)

// Re-export interfaces from the types package for convenience.
type (
	BreakStrategy       = types.BreakStrategy
	Measurer            = types.Measurer
	ChangeNotifier      = types.ChangeNotifier
	ReadinessBarrier    = types.ReadinessBarrier
	MeasurementProvider = types.MeasurementProvider
	LayoutSink          = types.LayoutSink
	MetricsCollector    = types.MetricsCollector
	Logger              = types.Logger
	Hooks               = types.Hooks
)

// Re-export controller states.
const (
	ControllerIdle        = types.ControllerIdle
	ControllerCalculating = types.ControllerCalculating
)

// Layout.Reason values.
const (
	ReasonInitial         = reflow.ReasonInitial
	ReasonContentChanged  = reflow.ReasonContentChanged
	ReasonSettingsChanged = reflow.ReasonSettingsChanged
	ReasonManual          = reflow.ReasonManual
)

// Standard page sizes.
var (
	PageSizeA4     = types.PageSizeA4
	PageSizeLetter = types.PageSizeLetter
)

// EmptyLayout returns the single empty page published when nothing can be measured.
func EmptyLayout() Layout {
	return types.EmptyLayout()
}
