package pagination

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srbhr/Resume-Matcher-sub001/strategy"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Break strategy names accepted in BreakConfig.Strategy.
const (
	StrategyAvoidSplit = "avoid-split"
	StrategyFixed      = "fixed"
)

// MarginsConfig holds page margins in whole millimeters.
//
// Each side must lie in [5, 25]. A zero side takes the default (10mm).
type MarginsConfig struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// BreakConfig tunes the page break calculator.
type BreakConfig struct {
	// Strategy selects the break strategy: "avoid-split" (default) or "fixed".
	Strategy string `yaml:"strategy"`

	// FillThreshold is the fraction of a page that must already be used
	// before a break is pulled up to keep an atomic block whole.
	//
	// Lower values keep more blocks whole at the cost of emptier pages.
	// Values above 0.5 no longer guarantee that blocks shorter than
	// FillThreshold*pageHeight stay whole.
	//
	// Default: 0.5
	FillThreshold float64 `yaml:"fillThreshold"`

	// MinProgressPx is the minimum advance, in pixels, a moved break must
	// make; otherwise a full page is used. Unset takes the default; an
	// explicit 0 lets a break move up to any block boundary.
	//
	// Default: 100
	MinProgressPx *float64 `yaml:"minProgressPx"`

	// TieBreak picks the governing block when several straddle one break:
	// "first" (document order, default) or "nearest" (greatest top).
	TieBreak string `yaml:"tieBreak"`
}

// MinProgress returns MinProgressPx, or the default when it is unset.
func (b BreakConfig) MinProgress() float64 {
	if b.MinProgressPx == nil {
		return strategy.DefaultMinProgressPx
	}

	return *b.MinProgressPx
}

// Px returns a pointer to v, for setting BreakConfig.MinProgressPx in code.
func Px(v float64) *float64 {
	return &v
}

// Config is the configuration for the Controller.
//
// All duration fields accept Go duration strings like "150ms" or "3s".
type Config struct {
	// PageSize is the target page format: "A4" (default) or "LETTER".
	PageSize string `yaml:"pageSize"`

	// Margins are the page margins in millimeters.
	Margins MarginsConfig `yaml:"margins"`

	// Debounce is the quiet window applied to change notifications. Every
	// notification restarts it; only the last one in a burst triggers work.
	//
	// Default: 150ms
	Debounce time.Duration `yaml:"debounce"`

	// ReadinessTimeout bounds the wait on the readiness barrier. On timeout
	// the controller measures anyway, so geometry may still be settling.
	// A negative value waits until the barrier resolves; Stop still
	// cancels the wait.
	//
	// Default: 3s
	ReadinessTimeout time.Duration `yaml:"readinessTimeout"`

	// OperationTimeout bounds each measurement and each sink publication.
	//
	// Default: 10s
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// ShutdownTimeout is how long callers should allow Stop to drain.
	//
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// Breaks tunes the break calculator.
	Breaks BreakConfig `yaml:"breaks"`
}

// DefaultConfig returns the production defaults.
//
// Example:
//
//	cfg := pagination.DefaultConfig()
//	cfg.PageSize = "LETTER"
func DefaultConfig() Config {
	return Config{
		PageSize:         "A4",
		Margins:          MarginsConfig{Top: 10, Bottom: 10, Left: 10, Right: 10},
		Debounce:         150 * time.Millisecond,
		ReadinessTimeout: 3 * time.Second,
		OperationTimeout: 10 * time.Second,
		ShutdownTimeout:  5 * time.Second,
		Breaks: BreakConfig{
			Strategy:      StrategyAvoidSplit,
			FillThreshold: strategy.DefaultFillThreshold,
			MinProgressPx: Px(strategy.DefaultMinProgressPx),
			TieBreak:      strategy.TieBreakFirst.String(),
		},
	}
}

// SetDefaults fills zero-valued fields with DefaultConfig values.
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.PageSize == "" {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.Margins.Top == 0 {
		cfg.Margins.Top = defaults.Margins.Top
	}
	if cfg.Margins.Bottom == 0 {
		cfg.Margins.Bottom = defaults.Margins.Bottom
	}
	if cfg.Margins.Left == 0 {
		cfg.Margins.Left = defaults.Margins.Left
	}
	if cfg.Margins.Right == 0 {
		cfg.Margins.Right = defaults.Margins.Right
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = defaults.Debounce
	}
	if cfg.ReadinessTimeout == 0 {
		cfg.ReadinessTimeout = defaults.ReadinessTimeout
	}
	if cfg.OperationTimeout == 0 {
		cfg.OperationTimeout = defaults.OperationTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.Breaks.Strategy == "" {
		cfg.Breaks.Strategy = defaults.Breaks.Strategy
	}
	if cfg.Breaks.FillThreshold == 0 {
		cfg.Breaks.FillThreshold = defaults.Breaks.FillThreshold
	}
	if cfg.Breaks.MinProgressPx == nil {
		cfg.Breaks.MinProgressPx = defaults.Breaks.MinProgressPx
	}
	if cfg.Breaks.TieBreak == "" {
		cfg.Breaks.TieBreak = defaults.Breaks.TieBreak
	}
}

// Validate checks configuration validity.
//
// Returns:
//   - error: Wraps ErrUnknownPageSize, ErrMarginOutOfRange or
//     strategy.ErrUnknownTieBreak where applicable
func (cfg *Config) Validate() error {
	if _, err := types.ParsePageSize(cfg.PageSize); err != nil {
		return err
	}

	sides := []struct {
		name string
		mm   int
	}{
		{"top", cfg.Margins.Top},
		{"bottom", cfg.Margins.Bottom},
		{"left", cfg.Margins.Left},
		{"right", cfg.Margins.Right},
	}
	for _, side := range sides {
		if side.mm < types.MinMarginMM || side.mm > types.MaxMarginMM {
			return fmt.Errorf("%w: %s margin %dmm not in [%d, %d]",
				ErrMarginOutOfRange, side.name, side.mm, types.MinMarginMM, types.MaxMarginMM)
		}
	}

	if cfg.Debounce < 0 {
		return fmt.Errorf("Debounce must be >= 0, got %v", cfg.Debounce)
	}
	if cfg.ReadinessTimeout == 0 {
		return errors.New("ReadinessTimeout must be non-zero; use a negative value to wait without a bound")
	}
	if cfg.OperationTimeout <= 0 {
		return fmt.Errorf("OperationTimeout must be > 0, got %v", cfg.OperationTimeout)
	}

	switch strings.ToLower(cfg.Breaks.Strategy) {
	case StrategyAvoidSplit, StrategyFixed:
	default:
		return fmt.Errorf("unknown break strategy %q", cfg.Breaks.Strategy)
	}

	if !(cfg.Breaks.FillThreshold > 0 && cfg.Breaks.FillThreshold < 1) {
		return fmt.Errorf("FillThreshold must be in (0, 1), got %v", cfg.Breaks.FillThreshold)
	}
	if px := cfg.Breaks.MinProgressPx; px != nil && !(*px >= 0) {
		return fmt.Errorf("MinProgressPx must be >= 0, got %v", *px)
	}
	if _, err := strategy.ParseTieBreak(cfg.Breaks.TieBreak); err != nil {
		return err
	}

	return nil
}

// ValidateWithWarnings logs settings that are valid but likely unintended.
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	if cfg.Debounce < 50*time.Millisecond {
		logger.Warn("Debounce is very short, rapid edits may cause repeated recomputation",
			"debounce", cfg.Debounce,
			"recommended", "100ms or higher",
		)
	}

	if cfg.Breaks.FillThreshold > 0.5 {
		logger.Warn("FillThreshold above 0.5 lets short atomic blocks split",
			"fillThreshold", cfg.Breaks.FillThreshold,
		)
	}

	if cfg.ReadinessTimeout > 0 && cfg.ReadinessTimeout < 100*time.Millisecond {
		logger.Warn("ReadinessTimeout is very short, layouts may be measured before fonts load",
			"readinessTimeout", cfg.ReadinessTimeout,
		)
	}
}

// TestConfig returns a configuration with short timings for tests.
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Debounce = 30 * time.Millisecond          // 5x faster
	cfg.ReadinessTimeout = 500 * time.Millisecond // 6x faster
	cfg.OperationTimeout = time.Second            // 10x faster
	cfg.ShutdownTimeout = time.Second             // 5x faster

	return cfg
}

// LoadConfig loads configuration from a YAML file.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded configuration with defaults applied
//   - error: Error if the file cannot be read, parsed or validated
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration, applies defaults and validates it.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	SetDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// PageSettings returns the configured initial page settings.
func (cfg *Config) PageSettings() (PageSettings, error) {
	size, err := types.ParsePageSize(cfg.PageSize)
	if err != nil {
		return PageSettings{}, err
	}

	return PageSettings{
		PageSize: size,
		Margins: Margins{
			Top:    float64(cfg.Margins.Top),
			Bottom: float64(cfg.Margins.Bottom),
			Left:   float64(cfg.Margins.Left),
			Right:  float64(cfg.Margins.Right),
		},
	}, nil
}

// Strategy builds the configured break strategy.
//
// Example:
//
//	s, err := cfg.Strategy()
//	pages := s.Paginate(contentHeight, area.Height, blocks)
func (cfg *Config) Strategy() (BreakStrategy, error) {
	switch strings.ToLower(cfg.Breaks.Strategy) {
	case StrategyFixed:
		return strategy.NewFixed(), nil
	case StrategyAvoidSplit, "":
	default:
		return nil, fmt.Errorf("unknown break strategy %q", cfg.Breaks.Strategy)
	}

	tieBreak, err := strategy.ParseTieBreak(cfg.Breaks.TieBreak)
	if err != nil {
		return nil, err
	}

	return strategy.NewAvoidSplit(
		strategy.WithFillThreshold(cfg.Breaks.FillThreshold),
		strategy.WithMinProgress(cfg.Breaks.MinProgress()),
		strategy.WithTieBreak(tieBreak),
	), nil
}
