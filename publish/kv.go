package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/srbhr/Resume-Matcher-sub001/internal/logging"
	"github.com/srbhr/Resume-Matcher-sub001/internal/natsutil"
	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// Defaults for KV options.
const (
	DefaultPrefix = "layout"
	DefaultKey    = "default"
)

// ErrInvalidKey is returned for keys NATS KV does not accept.
var ErrInvalidKey = errors.New("invalid layout key")

var validKey = regexp.MustCompile(`^[-/_=a-zA-Z0-9]+$`)

// Record is the JSON document stored for each published layout.
type Record struct {
	// Version increases with every publication under the prefix, including
	// across restarts once DiscoverHighestVersion has run.
	Version int64 `json:"version"`

	// Key identifies the document the layout belongs to.
	Key string `json:"key"`

	// PublishedAt is the wall-clock time of publication.
	PublishedAt time.Time `json:"publishedAt"`

	Layout types.Layout `json:"layout"`
}

// KV publishes layouts to a JetStream KV bucket.
type KV struct {
	kv        jetstream.KeyValue
	prefix    string
	keyPrefix string // cached "prefix."
	key       string
	logger    types.Logger

	mu             sync.Mutex
	currentVersion int64
}

var _ types.LayoutSink = (*KV)(nil)

// Option configures a KV sink.
type Option func(*KV)

// WithKey sets the document key. Default: "default".
func WithKey(key string) Option {
	return func(p *KV) {
		p.key = key
	}
}

// WithPrefix sets the key prefix shared by all documents. Default: "layout".
func WithPrefix(prefix string) Option {
	return func(p *KV) {
		p.prefix = prefix
	}
}

// WithLogger sets the logger. Default: no-op.
func WithLogger(logger types.Logger) Option {
	return func(p *KV) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewKV creates a layout sink writing to kv.
//
// Parameters:
//   - kv: NATS KV bucket for layouts
//   - opts: Optional configuration (WithKey, WithPrefix, WithLogger)
//
// Returns:
//   - *KV: Sink ready for use; call DiscoverHighestVersion before the
//     first publication to continue an existing version sequence
//   - error: ErrInvalidKey if the prefix or key contains characters NATS KV rejects
func NewKV(kv jetstream.KeyValue, opts ...Option) (*KV, error) {
	if kv == nil {
		return nil, errors.New("kv bucket is required")
	}

	p := &KV{
		kv:     kv,
		prefix: DefaultPrefix,
		key:    DefaultKey,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if !validKey.MatchString(p.prefix) {
		return nil, fmt.Errorf("%w: prefix %q", ErrInvalidKey, p.prefix)
	}
	if !validKey.MatchString(p.key) {
		return nil, fmt.Errorf("%w: key %q", ErrInvalidKey, p.key)
	}

	p.keyPrefix = p.prefix + "."

	return p, nil
}

// Key returns the full KV key layouts are written to.
func (p *KV) Key() string {
	return p.keyPrefix + p.key
}

// DiscoverHighestVersion scans the bucket for the highest version stored
// under the prefix so that versions stay monotonic across restarts.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Nil on success (including an empty bucket), error on KV access failure
func (p *KV) DiscoverHighestVersion(ctx context.Context) error {
	keys, err := p.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) || types.IsNoKeysFoundError(err) {
			p.logger.Debug("no existing layouts found", "prefix", p.prefix)
			return nil
		}

		return fmt.Errorf("failed to list KV keys: %w", err)
	}

	highestVersion := int64(0)
	checkedCount := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, p.keyPrefix) {
			continue
		}

		checkedCount++
		record, err := p.get(ctx, key)
		if err != nil {
			p.logger.Debug("skipping unreadable layout", "key", key, "error", err)
			continue
		}

		if record.Version > highestVersion {
			highestVersion = record.Version
		}
	}

	p.mu.Lock()
	if highestVersion > p.currentVersion {
		p.currentVersion = highestVersion
	}
	p.mu.Unlock()

	if highestVersion > 0 {
		p.logger.Info("discovered existing layouts", "highest_version", highestVersion, "checked_keys", checkedCount)
	}

	return nil
}

// PublishLayout stores layout as the next version.
//
// The version is only consumed when the write succeeds.
func (p *KV) PublishLayout(ctx context.Context, layout types.Layout) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	record := Record{
		Version:     p.currentVersion + 1,
		Key:         p.key,
		PublishedAt: time.Now().UTC(),
		Layout:      layout,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal layout: %w", types.ErrPublishFailed, err)
	}

	if _, err := p.kv.Put(ctx, p.Key(), data); err != nil {
		if natsutil.IsConnectivityError(err) {
			p.logger.Warn("nats unavailable, layout not stored", "key", p.Key(), "version", record.Version, "error", err)
		}

		return fmt.Errorf("%w: %w", types.ErrPublishFailed, err)
	}

	p.currentVersion = record.Version
	p.logger.Debug("layout published",
		"key", p.Key(),
		"version", record.Version,
		"layout_version", layout.Version,
		"pages", layout.PageCount(),
	)

	return nil
}

// CurrentVersion returns the last published or discovered version.
func (p *KV) CurrentVersion() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentVersion
}

// Latest reads the most recent record for this sink's key.
//
// Returns:
//   - Record: The stored record
//   - error: jetstream.ErrKeyNotFound if nothing has been published
func (p *KV) Latest(ctx context.Context) (Record, error) {
	return p.get(ctx, p.Key())
}

// Watch follows this sink's key and sends every stored record, starting
// with the current one if any. The channel is closed when ctx is done.
func (p *KV) Watch(ctx context.Context) (<-chan Record, error) {
	watcher, err := p.kv.Watch(ctx, p.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", p.Key(), err)
	}

	out := make(chan Record, 1)
	go func() {
		defer close(out)
		defer func() { _ = watcher.Stop() }()

		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				// A nil entry marks the end of the initial values.
				if entry == nil || entry.Operation() != jetstream.KeyValuePut {
					continue
				}

				var record Record
				if err := json.Unmarshal(entry.Value(), &record); err != nil {
					p.logger.Warn("skipping malformed layout", "key", entry.Key(), "error", err)
					continue
				}

				select {
				case out <- record:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Delete removes this sink's key, for example when the document is closed.
// Deleting a missing key is not an error.
func (p *KV) Delete(ctx context.Context) error {
	if err := p.kv.Delete(ctx, p.Key()); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete %s: %w", p.Key(), err)
	}

	return nil
}

func (p *KV) get(ctx context.Context, key string) (Record, error) {
	entry, err := p.kv.Get(ctx, key)
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := json.Unmarshal(entry.Value(), &record); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal layout %s: %w", key, err)
	}

	return record, nil
}
