// Package view composes the fact browser's screen state: form visibility,
// the fact list, the loading flag and the selected category.
//
// All mutation goes through View's methods. Each one publishes an Event
// carrying a fresh Snapshot so front-ends redraw from state they are told
// about instead of reading it behind the View's back.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"today-i-learned/internal/category"
	"today-i-learned/internal/factlist"
	"today-i-learned/internal/factstore"
	"today-i-learned/internal/form"
	"today-i-learned/internal/model"
)

// EventKind says which operation produced an Event.
type EventKind string

const (
	EventFormToggled      EventKind = "form_toggled"
	EventCategorySelected EventKind = "category_selected"
	EventLoadStarted      EventKind = "load_started"
	EventLoadFinished     EventKind = "load_finished"
	EventFactAdded        EventKind = "fact_added"
	EventFactConfirmed    EventKind = "fact_confirmed"
	EventFactRolledBack   EventKind = "fact_rolled_back"
	EventFactVoted        EventKind = "fact_voted"
	EventNotice           EventKind = "notice"
)

// Event is published after every state change.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
}

// Snapshot is a read-only copy of the screen state.
type Snapshot struct {
	FormVisible      bool
	Loading          bool
	SelectedCategory string
	// Facts is the whole list; Visible is what the filter lets through.
	Facts   []model.Fact
	Visible []model.Fact
	// Notice is the last recoverable error, cleared by the next success.
	Notice error
}

// PersistError reports that the store rejected a new fact. The fact has
// already been removed from the list again.
type PersistError struct {
	Fact model.Fact
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("could not save fact: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// ErrLoadInProgress is returned when a load is requested while one is running.
var ErrLoadInProgress = errors.New("load already in progress")

// View owns the fact browser state for one session.
type View struct {
	registry *category.Registry
	list     *factlist.State
	store    factstore.Store
	form     *form.Form
	log      *zap.Logger

	mu          sync.Mutex
	formVisible bool
	loading     bool
	started     bool
	selected    string
	notice      error
	// saved holds facts persisted while a load was running; the load's
	// result may predate them.
	saved []model.Fact

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

// New builds a View. store is used for writes; reads go through list.
func New(registry *category.Registry, list *factlist.State, store factstore.Store, f *form.Form, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		registry: registry,
		list:     list,
		store:    store,
		form:     f,
		log:      log,
		selected: category.All,
		subs:     make(map[int]chan Event),
	}
}

// Registry returns the categories the view was built with.
func (v *View) Registry() *category.Registry { return v.registry }

// Form returns the submission form. Callers edit its fields directly and
// call Submit on the View.
func (v *View) Form() *form.Form { return v.form }

// Subscribe returns a channel of events and a cancel func. The channel is
// buffered; when a subscriber falls behind the oldest pending event is
// dropped so the newest snapshot always gets through.
func (v *View) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	v.subMu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = ch
	v.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.subMu.Lock()
			delete(v.subs, id)
			v.subMu.Unlock()
			close(ch)
		})
	}
}

func (v *View) publish(kind EventKind) {
	ev := Event{Kind: kind, Snapshot: v.Snapshot()}
	v.subMu.Lock()
	defer v.subMu.Unlock()
	for _, ch := range v.subs {
		for {
			select {
			case ch <- ev:
			default:
				select {
				case <-ch:
				default:
				}
				continue
			}
			break
		}
	}
}

// Snapshot copies the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	s := Snapshot{
		FormVisible:      v.formVisible,
		Loading:          v.loading,
		SelectedCategory: v.selected,
		Notice:           v.notice,
	}
	v.mu.Unlock()
	s.Facts = v.list.Facts()
	s.Visible = factlist.Visible(s.Facts, s.SelectedCategory)
	return s
}

// Visible returns the facts passing the current category filter.
func (v *View) Visible() []model.Fact {
	return v.Snapshot().Visible
}

// ToggleForm shows or hides the submission form.
func (v *View) ToggleForm() bool {
	v.mu.Lock()
	v.formVisible = !v.formVisible
	visible := v.formVisible
	v.mu.Unlock()
	v.publish(EventFormToggled)
	return visible
}

// SelectCategory changes the filter to name, which is category.All or a
// registry name.
func (v *View) SelectCategory(name string) error {
	if !v.registry.IsSelection(name) {
		return &category.LookupError{Name: name}
	}
	v.mu.Lock()
	v.selected = name
	v.mu.Unlock()
	v.publish(EventCategorySelected)
	return nil
}

// BeginLoad marks the list as loading. It returns false if a load is
// already running; the caller must then not fetch.
func (v *View) BeginLoad() bool {
	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return false
	}
	v.loading = true
	v.mu.Unlock()
	v.publish(EventLoadStarted)
	return true
}

// FinishLoad ends a load started with BeginLoad. On success facts replace
// the list, keeping in front the facts submitted while the load ran; on
// failure the list is kept and err becomes the notice.
func (v *View) FinishLoad(facts []model.Fact, err error) {
	v.mu.Lock()
	saved := v.saved
	v.saved = nil
	v.mu.Unlock()

	if err == nil {
		v.list.Replace(keepLocal(v.list.Facts(), saved, facts))
	} else {
		v.log.Warn("load failed", zap.Error(err))
	}
	v.mu.Lock()
	v.loading = false
	v.notice = err
	v.mu.Unlock()
	v.publish(EventLoadFinished)
}

// Start performs the session's initial load. Later calls do nothing.
// The whole table is fetched and narrowed client-side.
func (v *View) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return nil
	}
	v.started = true
	v.mu.Unlock()
	return v.Reload(ctx)
}

// Reload fetches the whole table again.
func (v *View) Reload(ctx context.Context) error {
	if !v.BeginLoad() {
		return ErrLoadInProgress
	}
	facts, err := v.list.Fetch(ctx, category.All)
	v.FinishLoad(facts, err)
	return err
}

// Submit validates the form. A valid fact is prepended to the list, the form
// is cleared and closed, and the pending fact is returned for Persist.
// An invalid one changes nothing and returns a *form.ValidationError.
func (v *View) Submit() (model.Fact, error) {
	fact, err := v.form.Submit()
	if err != nil {
		return model.Fact{}, err
	}
	v.list.Prepend(fact)
	v.mu.Lock()
	v.formVisible = false
	v.notice = nil
	v.mu.Unlock()
	v.publish(EventFactAdded)
	return fact, nil
}

// Persist writes a pending fact to the store. On success the local copy
// takes the stored id; on failure it is removed again.
func (v *View) Persist(ctx context.Context, pending model.Fact) error {
	stored, err := v.store.Insert(ctx, pending)
	if err != nil {
		v.list.Remove(pending.ID)
		perr := &PersistError{Fact: pending, Err: err}
		v.setNotice(perr)
		v.log.Warn("insert rejected, rolled back", zap.String("pending_id", pending.ID.String()), zap.Error(err))
		v.publish(EventFactRolledBack)
		return perr
	}
	stored.Pending = false
	if !v.list.Confirm(pending.ID, stored) {
		v.list.Prepend(stored)
	}
	v.mu.Lock()
	if v.loading {
		v.saved = append(v.saved, stored)
	}
	v.mu.Unlock()
	v.log.Info("fact saved", zap.String("id", stored.ID.String()), zap.String("category", stored.Category))
	v.publish(EventFactConfirmed)
	return nil
}

// Vote adds one vote to a stored fact and refreshes the local copy.
func (v *View) Vote(ctx context.Context, id model.FactID, kind model.VoteKind) (model.Fact, error) {
	if f, ok := v.list.Get(id); ok && f.Pending {
		err := fmt.Errorf("fact %s is not saved yet", id)
		v.setNotice(err)
		v.publish(EventNotice)
		return model.Fact{}, err
	}
	updated, err := v.store.Vote(ctx, id, kind)
	if err != nil {
		err = fmt.Errorf("vote: %w", err)
		v.setNotice(err)
		v.publish(EventNotice)
		return model.Fact{}, err
	}
	v.list.Update(updated)
	v.setNotice(nil)
	v.publish(EventFactVoted)
	return updated, nil
}

// Notify records a recoverable error raised outside the View, e.g. a
// category lookup failing while rendering.
func (v *View) Notify(err error) {
	v.setNotice(err)
	v.publish(EventNotice)
}

func (v *View) setNotice(err error) {
	v.mu.Lock()
	v.notice = err
	v.mu.Unlock()
}

// keepLocal returns fetched with the current pending facts and the facts
// saved during the load prepended, skipping ids the fetch already has.
func keepLocal(current, saved, fetched []model.Fact) []model.Fact {
	seen := make(map[model.FactID]bool, len(fetched))
	for _, f := range fetched {
		seen[f.ID] = true
	}
	out := make([]model.Fact, 0, len(fetched)+len(saved))
	for _, f := range current {
		if seen[f.ID] {
			continue
		}
		if f.Pending || containsID(saved, f.ID) {
			out = append(out, f)
			seen[f.ID] = true
		}
	}
	return append(out, fetched...)
}

func containsID(facts []model.Fact, id model.FactID) bool {
	for _, f := range facts {
		if f.ID == id {
			return true
		}
	}
	return false
}
