package analyze

import (
	"context"
	"sync"

	"github.com/fwojciec/policylens"
)

var _ policylens.ModelBackend = (*CachedModels)(nil)

// ModelCache holds acquired models keyed by identifier for the lifetime of
// the process. Each identifier is loaded at most once; failed loads are not
// cached. Models are never torn down.
type ModelCache struct {
	mu    sync.Mutex
	items map[string]any
}

// NewModelCache returns an empty cache.
func NewModelCache() *ModelCache {
	return &ModelCache{items: make(map[string]any)}
}

// Len returns the number of cached models.
func (c *ModelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Acquire returns the model cached under id, calling load on a miss.
// Concurrent callers for the same cache wait for an in-flight load.
func Acquire[T any](ctx context.Context, c *ModelCache, id string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[id]; ok {
		model, ok := item.(T)
		if !ok {
			return zero, policylens.Errorf(policylens.EINTERNAL, "cached model %q has unexpected type %T", id, item)
		}
		return model, nil
	}

	model, err := load(ctx)
	if err != nil {
		return zero, err
	}
	c.items[id] = model
	return model, nil
}

// CachedModels is a ModelBackend that loads each model once and reuses it
// across runs.
type CachedModels struct {
	Cache          *ModelCache
	SummarizerID   string
	ClassifierID   string
	LoadSummarizer func(ctx context.Context, id string) (policylens.Summarizer, error)
	LoadClassifier func(ctx context.Context, id string) (policylens.Classifier, error)
}

// Mode returns policylens.BackendModels.
func (m *CachedModels) Mode() policylens.BackendMode {
	return policylens.BackendModels
}

// AcquireSummarizer returns the cached summarizer, loading it on first use.
func (m *CachedModels) AcquireSummarizer(ctx context.Context) (policylens.Summarizer, error) {
	return Acquire(ctx, m.Cache, "summarizer:"+m.SummarizerID, func(ctx context.Context) (policylens.Summarizer, error) {
		return m.LoadSummarizer(ctx, m.SummarizerID)
	})
}

// AcquireClassifier returns the cached classifier, loading it on first use.
func (m *CachedModels) AcquireClassifier(ctx context.Context) (policylens.Classifier, error) {
	return Acquire(ctx, m.Cache, "classifier:"+m.ClassifierID, func(ctx context.Context) (policylens.Classifier, error) {
		return m.LoadClassifier(ctx, m.ClassifierID)
	})
}
