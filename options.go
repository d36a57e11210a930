package pagination

// Option configures a Controller.
type Option func(*controllerOptions)

type controllerOptions struct {
	strategy BreakStrategy
	hooks    *Hooks
	metrics  MetricsCollector
	logger   Logger
	sinks    []LayoutSink
}

// WithStrategy overrides the break strategy built from Config.Breaks.
//
// Example:
//
//	ctrl, err := pagination.NewController(&cfg, provider,
//	    pagination.WithStrategy(strategy.NewFixed()))
func WithStrategy(s BreakStrategy) Option {
	return func(o *controllerOptions) {
		o.strategy = s
	}
}

// WithHooks registers lifecycle callbacks. Nil callbacks are ignored.
func WithHooks(hooks *Hooks) Option {
	return func(o *controllerOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *controllerOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(o *controllerOptions) {
		o.logger = logger
	}
}

// WithLayoutSink adds a sink that receives every published layout.
//
// Sinks are called in registration order on the controller's loop with a
// context bounded by Config.OperationTimeout. A failing sink is reported
// through Hooks.OnError and does not affect other sinks.
//
// Example:
//
//	sink, _ := publish.NewKV(kv, publish.WithKey("resume-42"))
//	ctrl, err := pagination.NewController(&cfg, provider, pagination.WithLayoutSink(sink))
func WithLayoutSink(sink LayoutSink) Option {
	return func(o *controllerOptions) {
		if sink != nil {
			o.sinks = append(o.sinks, sink)
		}
	}
}
