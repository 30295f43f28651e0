package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/insureadmin/admin-console/internal/api/metrics"
	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

const slotCacheSize = 64

// ListFunc fetches one 1-based page of a resource.
type ListFunc[T any] func(ctx context.Context, page int) (*domain.Page[T], error)

// SearchFunc fetches the results of a keyword search.
type SearchFunc[T any] func(ctx context.Context, keyword string) (*domain.Page[T], error)

// QueryState is what a consumer renders for one query slot.
type QueryState[T any] struct {
	Key       string
	Data      *domain.Page[T]
	Err       error
	Loading   bool
	Enabled   bool
	UpdatedAt time.Time
}

// Rows returns the records of the slot, or nil.
func (s QueryState[T]) Rows() []T {
	if s.Data == nil {
		return nil
	}
	return s.Data.Data
}

type slot[T any] struct {
	data      *domain.Page[T]
	err       error
	seq       uint64
	inflight  int
	loaded    bool
	updatedAt time.Time
}

// ResourceView is the query layer for one resource kind. It keeps the paged
// listing and the keyword search in separate slots so switching search mode
// on and off never discards either result set.
//
// Requests are deduplicated by key: concurrent loads of the same page share
// one remote call. A response is stored only if no newer request for the
// same key has already been stored.
type ResourceView[T any] struct {
	name   string
	list   ListFunc[T]
	search SearchFunc[T]
	idOf   func(T) int64
	tokens ports.TokenSource
	log    zerolog.Logger

	group singleflight.Group

	mu         sync.Mutex
	seq        uint64
	pages      *lru.Cache[int, *slot[T]]
	searches   *lru.Cache[string, *slot[T]]
	page       int
	searchMode bool
	keyword    string
}

// NewResourceView builds a view named name (used for dedup keys and logs).
func NewResourceView[T any](name string, list ListFunc[T], search SearchFunc[T], idOf func(T) int64, tokens ports.TokenSource, log zerolog.Logger) *ResourceView[T] {
	pages, _ := lru.New[int, *slot[T]](slotCacheSize)
	searches, _ := lru.New[string, *slot[T]](slotCacheSize)
	return &ResourceView[T]{
		name:     name,
		list:     list,
		search:   search,
		idOf:     idOf,
		tokens:   tokens,
		log:      log.With().Str("resource", name).Logger(),
		pages:    pages,
		searches: searches,
		page:     1,
	}
}

// Name returns the resource name.
func (v *ResourceView[T]) Name() string { return v.name }

// Listener returns a session listener that drops every cached slot when the
// token changes, so the next load refetches under the new credentials.
func (v *ResourceView[T]) Listener() ports.SessionListener {
	return func(prev, next domain.SessionState) {
		if prev.Token() != next.Token() {
			v.Invalidate()
		}
	}
}

// Invalidate drops all cached results. View position (page, search mode)
// is kept.
func (v *ResourceView[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pages.Purge()
	v.searches.Purge()
}

// Page returns the page currently in view.
func (v *ResourceView[T]) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// SearchMode reports whether the search slot is displayed, and its keyword.
func (v *ResourceView[T]) SearchMode() (bool, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchMode, v.keyword
}

// Enabled reports whether queries may fire: a token must be held.
func (v *ResourceView[T]) Enabled() bool {
	return v.tokens.AuthHeader() != ""
}

// SetPage moves the listing to page and fetches it.
func (v *ResourceView[T]) SetPage(ctx context.Context, page int) (QueryState[T], error) {
	if page < 1 {
		return QueryState[T]{}, fmt.Errorf("%s: %w: %d", v.name, domain.ErrInvalidPage, page)
	}
	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
	return v.fetchPage(ctx, page, false)
}

// Load returns the listing at the current page, fetching only when the page
// is not cached yet.
func (v *ResourceView[T]) Load(ctx context.Context) (QueryState[T], error) {
	v.mu.Lock()
	page := v.page
	s, ok := v.pages.Get(page)
	loaded := ok && s.loaded && s.err == nil
	v.mu.Unlock()

	if loaded {
		return v.ListState(page), nil
	}
	return v.fetchPage(ctx, page, false)
}

// Refetch reloads the listing at the current page with a fresh request,
// even if an older one for the same page is still in flight.
func (v *ResourceView[T]) Refetch(ctx context.Context) (QueryState[T], error) {
	return v.RefetchPage(ctx, v.Page())
}

// RefetchPage moves to page and reloads it with a fresh request.
func (v *ResourceView[T]) RefetchPage(ctx context.Context, page int) (QueryState[T], error) {
	if page < 1 {
		return QueryState[T]{}, fmt.Errorf("%s: %w: %d", v.name, domain.ErrInvalidPage, page)
	}
	v.mu.Lock()
	v.page = page
	v.mu.Unlock()
	return v.fetchPage(ctx, page, true)
}

// Search enters search mode for the trimmed keyword and fetches its results.
// A blank keyword leaves the view untouched and returns domain.ErrEmptyKeyword.
func (v *ResourceView[T]) Search(ctx context.Context, keyword string) (QueryState[T], error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return QueryState[T]{}, domain.ErrEmptyKeyword
	}
	v.mu.Lock()
	v.searchMode = true
	v.keyword = keyword
	v.mu.Unlock()

	if v.search == nil {
		return QueryState[T]{}, fmt.Errorf("%s: search not supported", v.name)
	}
	key := v.name + ":search:" + keyword
	return v.run(ctx, key, func() *slot[T] { return v.searchSlot(keyword) }, func(ctx context.Context) (*domain.Page[T], error) {
		return v.search(ctx, keyword)
	})
}

// ClearSearch leaves search mode. Both caches are kept.
func (v *ResourceView[T]) ClearSearch() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchMode = false
	v.keyword = ""
}

// State returns the slot currently displayed: the search slot in search
// mode, the current page otherwise.
func (v *ResourceView[T]) State() QueryState[T] {
	mode, kw := v.SearchMode()
	if mode {
		return v.SearchState(kw)
	}
	return v.ListState(v.Page())
}

// ListState returns the cached state of a listing page.
func (v *ResourceView[T]) ListState(page int) QueryState[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, _ := v.pages.Get(page)
	return v.stateOf(v.name+":list:"+strconv.Itoa(page), s)
}

// SearchState returns the cached state of a search.
func (v *ResourceView[T]) SearchState(keyword string) QueryState[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, _ := v.searches.Get(keyword)
	return v.stateOf(v.name+":search:"+keyword, s)
}

// Rows returns the displayed records.
func (v *ResourceView[T]) Rows() []T {
	return v.State().Rows()
}

// Find looks a record up by id among the displayed rows.
func (v *ResourceView[T]) Find(id int64) (T, bool) {
	for _, r := range v.Rows() {
		if v.idOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Controls resolves the pagination bar from the listing at the current page.
func (v *ResourceView[T]) Controls() domain.PageControls {
	st := v.ListState(v.Page())
	if st.Data == nil {
		return domain.PageControls{Pages: []domain.PageControl{}}
	}
	return domain.ResolvePagination(st.Data.Links)
}

// TargetPage is the page to refetch after a mutation: the page the server
// marked active in the displayed listing, else the page in view.
func (v *ResourceView[T]) TargetPage() int {
	page := v.Page()
	st := v.ListState(page)
	if st.Data == nil {
		return page
	}
	return domain.CurrentPage(st.Data.Links, page)
}

func (v *ResourceView[T]) fetchPage(ctx context.Context, page int, force bool) (QueryState[T], error) {
	key := v.name + ":list:" + strconv.Itoa(page)
	if force {
		v.group.Forget(key)
	}
	return v.run(ctx, key, func() *slot[T] { return v.pageSlot(page) }, func(ctx context.Context) (*domain.Page[T], error) {
		return v.list(ctx, page)
	})
}

func (v *ResourceView[T]) run(ctx context.Context, key string, slotFor func() *slot[T], call func(context.Context) (*domain.Page[T], error)) (QueryState[T], error) {
	if !v.Enabled() {
		return QueryState[T]{Key: key}, domain.ErrNotAuthenticated
	}

	v.mu.Lock()
	v.seq++
	mySeq := v.seq
	s := slotFor()
	s.inflight++
	v.mu.Unlock()

	// The shared call outlives any single caller's cancellation; joiners
	// must not inherit the leader's context.
	shared := context.WithoutCancel(ctx)
	res, err, joined := v.group.Do(key, func() (any, error) {
		return call(shared)
	})
	if joined {
		metrics.QueryDedupTotal.WithLabelValues("shared").Inc()
	} else {
		metrics.QueryDedupTotal.WithLabelValues("leader").Inc()
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	s.inflight--
	if mySeq > s.seq {
		s.seq = mySeq
		s.updatedAt = time.Now()
		if err != nil {
			s.err = err
		} else {
			s.data, _ = res.(*domain.Page[T])
			s.err = nil
			s.loaded = true
		}
	} else {
		metrics.QueryStaleDiscardedTotal.Inc()
		v.log.Debug().Str("key", key).Msg("discarded superseded response")
	}

	if err != nil {
		v.log.Error().Err(err).Str("key", key).Msg("query failed")
		return v.stateOf(key, s), fmt.Errorf("%s: %w", key, err)
	}
	return v.stateOf(key, s), nil
}

// pageSlot and searchSlot must be called with mu held.
func (v *ResourceView[T]) pageSlot(page int) *slot[T] {
	if s, ok := v.pages.Get(page); ok {
		return s
	}
	s := &slot[T]{}
	v.pages.Add(page, s)
	return s
}

func (v *ResourceView[T]) searchSlot(keyword string) *slot[T] {
	if s, ok := v.searches.Get(keyword); ok {
		return s
	}
	s := &slot[T]{}
	v.searches.Add(keyword, s)
	return s
}

func (v *ResourceView[T]) stateOf(key string, s *slot[T]) QueryState[T] {
	st := QueryState[T]{Key: key, Enabled: v.tokens.AuthHeader() != ""}
	if s == nil {
		return st
	}
	st.Data = s.data
	st.Err = s.err
	st.Loading = s.inflight > 0
	st.UpdatedAt = s.updatedAt
	return st
}
