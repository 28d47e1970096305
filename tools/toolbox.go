package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type (
	// Toolbox is a named collection of tools fetched on demand, possibly
	// from a remote service.
	Toolbox interface {
		// Name identifies the toolbox.
		Name() string
		// Tools returns the member tools keyed by normalized name.
		Tools(ctx context.Context) (map[string]Tool, error)
	}

	// Static is an in-process toolbox over a fixed tool set.
	Static struct {
		name  string
		tools map[string]Tool
	}

	// Cached memoizes the first successful fetch of a toolbox and throttles
	// retry attempts after failures.
	Cached struct {
		box     Toolbox
		limiter *rate.Limiter

		mu    sync.Mutex
		tools map[string]Tool
	}
)

// NewStatic builds a toolbox from the given tools. Keys are normalized.
func NewStatic(name string, ts ...Tool) *Static {
	m := make(map[string]Tool, len(ts))
	for _, t := range ts {
		m[NormalizeName(t.Name())] = t
	}
	return &Static{name: name, tools: m}
}

// Name identifies the toolbox.
func (s *Static) Name() string { return s.name }

// Tools returns the member tools keyed by normalized name.
func (s *Static) Tools(context.Context) (map[string]Tool, error) {
	return s.tools, nil
}

// NewCached wraps a toolbox with fetch memoization. Failed fetches are
// retried at most once per second.
func NewCached(box Toolbox) *Cached {
	return &Cached{
		box:     box,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Name identifies the underlying toolbox.
func (c *Cached) Name() string { return c.box.Name() }

// Tools returns the cached tool set, fetching it on first use. Keys are
// normalized even when the underlying toolbox does not normalize them.
func (c *Cached) Tools(ctx context.Context) (map[string]Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tools != nil {
		return c.tools, nil
	}
	if !c.limiter.Allow() {
		return nil, Errorf("toolbox %s: fetch throttled after failure", c.box.Name())
	}
	fetched, err := c.box.Tools(ctx)
	if err != nil {
		return nil, WrapError(fmt.Sprintf("toolbox %s: fetch tools", c.box.Name()), err)
	}
	normalized := make(map[string]Tool, len(fetched))
	for name, t := range fetched {
		normalized[NormalizeName(name)] = t
	}
	c.tools = normalized
	return c.tools, nil
}

// Lookup resolves a tool in a toolbox by normalized name.
func Lookup(ctx context.Context, box Toolbox, name string) (Tool, error) {
	ts, err := box.Tools(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := ts[NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s in toolbox %s", ErrNotFound, NormalizeName(name), box.Name())
	}
	return t, nil
}

// CallTool resolves and executes a tool in a toolbox.
func CallTool(ctx context.Context, box Toolbox, name string, input any) (string, error) {
	t, err := Lookup(ctx, box, name)
	if err != nil {
		return "", err
	}
	return t.Call(ctx, input)
}
