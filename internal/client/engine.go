package client

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AleeDevp/italihub-app-sub003/internal/domain"
	"github.com/AleeDevp/italihub-app-sub003/internal/service/notify"
)

// Engine reconciles the two independent sources a connected client sees:
// the live stream and cursor-paginated backfill. They may arrive in any
// interleaving and overlap, so merging is always by id, never by arrival
// order. The engine keeps one ordered sequence and a running unread counter.
type Engine struct {
	api *API
	log *zap.Logger

	mu         sync.Mutex
	items      []notify.Payload // ordered (createdAt desc, id desc), ids unique
	seen       map[int64]struct{}
	unread     int64
	nextCursor *notify.Cursor
	hasMore    bool

	reconnectWait time.Duration
}

func NewEngine(api *API, logger *zap.Logger) *Engine {
	return &Engine{
		api:           api,
		log:           logger,
		seen:          make(map[int64]struct{}),
		reconnectWait: time.Second,
	}
}

// Run drives the live side: it opens the stream, reconciles state on every
// (re)connect, and dispatches events until the context is cancelled. Each
// reconnect re-fetches the first backfill page to close the gap created
// while disconnected.
func (e *Engine) Run(ctx context.Context) error {
	for {
		body, err := e.api.OpenStream(ctx)
		if err != nil {
			e.log.Warn("stream connect failed", zap.Error(err))
			if !e.wait(ctx) {
				return ctx.Err()
			}
			continue
		}

		if err := e.Sync(ctx); err != nil {
			e.log.Warn("post-connect sync failed", zap.Error(err))
		}

		err = DecodeStream(body, func(ev StreamEvent) error {
			e.dispatch(ev)
			return nil
		})
		_ = body.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			e.log.Warn("stream closed", zap.Error(err))
		}
		if !e.wait(ctx) {
			return ctx.Err()
		}
	}
}

// Sync seeds the unread counter from the server and merges the newest
// backfill page. Called on connect and on every reconnect.
func (e *Engine) Sync(ctx context.Context) error {
	count, err := e.api.UnreadCount(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.unread = count
	e.mu.Unlock()

	page, err := e.api.FetchPage(ctx, 0, 0, "")
	if err != nil {
		return err
	}
	e.OnBackfillPage(page, 0)
	return nil
}

// LoadMore fetches and merges the next backfill page, if any.
func (e *Engine) LoadMore(ctx context.Context) (bool, error) {
	e.mu.Lock()
	cursor := e.nextCursor
	more := e.hasMore
	e.mu.Unlock()
	if !more || cursor == nil {
		return false, nil
	}

	page, err := e.api.FetchPage(ctx, 0, cursor.CursorID, "")
	if err != nil {
		return false, err
	}
	e.OnBackfillPage(page, cursor.CursorID)
	return page.HasMore, nil
}

// OnLiveEvent merges one pushed notification. A duplicate id is a no-op;
// a new item counts as unread since freshly created notifications always
// are.
func (e *Engine) OnLiveEvent(item notify.Payload) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.seen[item.ID]; ok {
		return
	}
	e.insert(item)
	if item.ReadAt == nil {
		e.unread++
	}
}

// OnBackfillPage merges a fetched page, deduplicating by id; requestCursor
// is the cursor the page was requested with (zero for the first page). The
// unread counter is untouched: backfill reports state the counter already
// covers. The pagination tail only advances when the page was fetched at
// the current frontier, so a first-page refresh after reconnect never
// clobbers a deeper "load more" position.
func (e *Engine) OnBackfillPage(page notify.Page, requestCursor int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range page.Items {
		if _, ok := e.seen[item.ID]; ok {
			continue
		}
		e.insert(item)
	}

	var tail int64
	if e.nextCursor != nil {
		tail = e.nextCursor.CursorID
	}
	if requestCursor == tail {
		e.nextCursor = page.NextCursor
		e.hasMore = page.HasMore
	}
}

// MarkVisibleAsRead applies read state optimistically, adjusts the counter
// by the number of items that were actually unread, and sends the receipt
// batch in the background. A failed server call is not rolled back; the
// next full refresh corrects any divergence.
func (e *Engine) MarkVisibleAsRead(ctx context.Context, ids []int64) {
	now := time.Now().UTC()

	e.mu.Lock()
	var batch []int64
	for _, id := range ids {
		i, ok := e.indexOf(id)
		if !ok || e.items[i].ReadAt != nil {
			continue
		}
		ts := now
		e.items[i].ReadAt = &ts
		e.unread--
		batch = append(batch, id)
	}
	e.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	go e.flush(ctx, batch)
}

func (e *Engine) flush(ctx context.Context, ids []int64) {
	for len(ids) > 0 {
		chunk := ids
		if len(chunk) > domain.MarkReadMaxIDs {
			chunk = chunk[:domain.MarkReadMaxIDs]
		}
		ids = ids[len(chunk):]
		if _, err := e.api.MarkRead(ctx, chunk); err != nil {
			// Optimistic state stays; the read receipt is lost until the
			// next refresh.
			e.log.Warn("mark read flush failed", zap.Int("batch", len(chunk)), zap.Error(err))
			return
		}
	}
}

// Items returns a copy of the current sequence, newest first.
func (e *Engine) Items() []notify.Payload {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]notify.Payload, len(e.items))
	copy(out, e.items)
	return out
}

// Unread returns the running unread counter.
func (e *Engine) Unread() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unread
}

// HasMore reports whether deeper history is available via LoadMore.
func (e *Engine) HasMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMore
}

func (e *Engine) dispatch(ev StreamEvent) {
	switch ev.Name {
	case notify.EventNotification:
		var item notify.Payload
		if err := json.Unmarshal([]byte(ev.Data), &item); err != nil {
			e.log.Warn("undecodable live event", zap.Error(err))
			return
		}
		e.OnLiveEvent(item)
	case "ping":
		// liveness only
	}
}

// insert places item at its ordered position. Callers hold e.mu and have
// already checked for duplicates.
func (e *Engine) insert(item notify.Payload) {
	idx := sort.Search(len(e.items), func(i int) bool {
		if !e.items[i].CreatedAt.Equal(item.CreatedAt) {
			return e.items[i].CreatedAt.Before(item.CreatedAt)
		}
		return e.items[i].ID < item.ID
	})
	e.items = append(e.items, notify.Payload{})
	copy(e.items[idx+1:], e.items[idx:])
	e.items[idx] = item
	e.seen[item.ID] = struct{}{}
}

func (e *Engine) indexOf(id int64) (int, bool) {
	if _, ok := e.seen[id]; !ok {
		return 0, false
	}
	for i := range e.items {
		if e.items[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

func (e *Engine) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(e.reconnectWait):
		return true
	}
}
