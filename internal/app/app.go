package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/petems/clipslot/internal/config"
	"github.com/petems/clipslot/internal/inject"
	"github.com/petems/clipslot/internal/slot"
	"github.com/petems/clipslot/internal/storage"
	"github.com/rs/zerolog"
)

// CommandClear is the external command that empties a slot.
const CommandClear = "clear"

var ErrUnknownCommand = errors.New("unknown command")

// ErrUnknownContext is returned for commands aimed at a key that is not on
// the device.
var ErrUnknownContext = errors.New("unknown key context")

// Display is everything a render needs from the host.
type Display interface {
	SetTitle(ctx context.Context, contextID, title string) error
	SetState(ctx context.Context, contextID string, state slot.State) error
	SetImage(ctx context.Context, contextID, image string) error
}

// Host is the hardware-control host: key display, acknowledgments and the
// per-key settings store.
type Host interface {
	Display
	ShowOK(ctx context.Context, contextID string) error
	SetSettings(ctx context.Context, contextID string, s slot.Settings) error
}

// Recorder journals completed slot actions.
type Recorder interface {
	Record(ctx context.Context, ev storage.Event) error
}

// StatusUpdater is an interface for updating status (e.g., tray title)
type StatusUpdater interface {
	SlotsChanged(filled, total int)
}

type Config struct {
	Host          Host
	Clipboard     inject.Clipboard
	Paster        inject.Paster
	Config        *config.Config
	Logger        zerolog.Logger
	Recorder      Recorder      // Optional - can be nil
	StatusUpdater StatusUpdater // Optional - can be nil
}

// App is the slot controller. It keeps one entry per visible key and
// serialises all handling for a key behind that key's lock.
type App struct {
	host   Host
	clip   inject.Clipboard
	paster inject.Paster
	rec    Recorder
	cfg    *config.Config
	log    zerolog.Logger

	mu     sync.Mutex
	keys   map[string]*key
	status StatusUpdater
}

type key struct {
	mu      sync.Mutex
	slot    slot.Settings
	tracker *holdTracker
	filled  bool // mirrors slot.Filled(); guarded by App.mu
}

// holdTracker lives from key down to key up.
type holdTracker struct {
	timer         *time.Timer // nil when the slot was locked at press time
	holdConfirmed bool
}

func New(cfg Config) *App {
	return &App{
		host:   cfg.Host,
		clip:   cfg.Clipboard,
		paster: cfg.Paster,
		rec:    cfg.Recorder,
		cfg:    cfg.Config,
		log:    cfg.Logger.With().Str("component", "slots").Logger(),
		keys:   make(map[string]*key),
		status: cfg.StatusUpdater,
	}
}

// SetStatusUpdater attaches the status sink after construction
// (for circular dependency resolution with the tray).
func (a *App) SetStatusUpdater(s StatusUpdater) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// OnAppear renders the key from its persisted slot. Safe to repeat.
func (a *App) OnAppear(ctx context.Context, contextID string, s slot.Settings) {
	k := a.keyFor(contextID)
	k.mu.Lock()
	defer k.mu.Unlock()

	k.slot = s.Normalize()
	a.render(ctx, contextID, k.slot)
	a.track(contextID, k)
}

// Forget drops a key that left the device or profile.
func (a *App) Forget(contextID string) {
	a.mu.Lock()
	k, ok := a.keys[contextID]
	delete(a.keys, contextID)
	a.mu.Unlock()

	if ok {
		k.mu.Lock()
		k.cancelHold()
		k.mu.Unlock()
	}
	a.notifyStatus()
}

// OnPressStart arms hold detection for an unlocked slot.
func (a *App) OnPressStart(ctx context.Context, contextID string, s slot.Settings) {
	k := a.keyFor(contextID)
	k.mu.Lock()
	defer k.mu.Unlock()

	// A previous release may have been lost.
	k.cancelHold()
	k.slot = s.Normalize()

	a.track(contextID, k)

	t := &holdTracker{}
	k.tracker = t
	if k.slot.Locked() {
		a.log.Debug().Str("context", contextID).Msg("Slot locked, hold disabled")
		return
	}

	t.timer = time.AfterFunc(a.cfg.HoldThreshold(), func() {
		a.onHoldElapsed(contextID, k, t)
	})
}

func (a *App) onHoldElapsed(contextID string, k *key, t *holdTracker) {
	k.mu.Lock()
	defer k.mu.Unlock()

	// Released, re-pressed or forgotten before we got the lock.
	if k.tracker != t || k.slot.Locked() {
		return
	}

	t.holdConfirmed = true
	a.log.Debug().Str("context", contextID).Msg("Hold confirmed")
	if err := a.host.SetTitle(context.Background(), contextID, a.cfg.HoldTitle); err != nil {
		a.log.Error().Err(err).Str("context", contextID).Msg("Failed to set hold title")
	}
}

// OnPressEnd resolves the gesture started by OnPressStart.
func (a *App) OnPressEnd(ctx context.Context, contextID string, s slot.Settings) {
	k := a.keyFor(contextID)
	k.mu.Lock()
	defer k.mu.Unlock()

	t := k.tracker
	if t == nil {
		a.log.Debug().Str("context", contextID).Msg("Release without press, ignoring")
		return
	}
	k.cancelHold()
	k.slot = s.Normalize()

	switch {
	case t.holdConfirmed && !k.slot.Locked():
		a.clearLocked(ctx, contextID, k)
	case t.holdConfirmed:
		// Locked while held; drop the hold title and leave the slot alone.
		a.render(ctx, contextID, k.slot)
	case k.slot.Filled():
		a.pasteLocked(ctx, contextID, k)
	default:
		a.captureLocked(ctx, contextID, k)
	}
}

// OnSettingsChanged re-renders after the slot was edited elsewhere.
func (a *App) OnSettingsChanged(ctx context.Context, contextID string, s slot.Settings) {
	k := a.keyFor(contextID)
	k.mu.Lock()
	defer k.mu.Unlock()

	k.slot = s.Normalize()
	a.render(ctx, contextID, k.slot)
	a.track(contextID, k)
}

// OnCommand handles commands sent from outside the key gesture path, such
// as a settings panel. Clearing ignores the lock and any pending hold.
func (a *App) OnCommand(ctx context.Context, contextID, name string) error {
	switch name {
	case CommandClear:
		k, ok := a.lookup(contextID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownContext, contextID)
		}
		k.mu.Lock()
		defer k.mu.Unlock()

		// Forgotten while we waited for the lock.
		if !a.current(contextID, k) {
			return fmt.Errorf("%w: %s", ErrUnknownContext, contextID)
		}
		a.clearLocked(ctx, contextID, k)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
}

// ClearAll issues the clear command to every known slot.
func (a *App) ClearAll(ctx context.Context) {
	for _, id := range a.contextIDs() {
		err := a.OnCommand(ctx, id, CommandClear)
		if errors.Is(err, ErrUnknownContext) {
			continue
		}
		if err != nil {
			a.log.Error().Err(err).Str("context", id).Msg("Clear failed")
		}
	}
}

// SetLockAll sets the prevent-clear flag on every known slot.
func (a *App) SetLockAll(ctx context.Context, locked bool) {
	for _, id := range a.contextIDs() {
		k, ok := a.lookup(id)
		if !ok {
			continue
		}
		k.mu.Lock()
		if a.current(id, k) && k.slot.SuppressClear != locked {
			k.slot.SuppressClear = locked
			a.persist(ctx, id, k.slot)
			a.render(ctx, id, k.slot)
		}
		k.mu.Unlock()
	}
	a.log.Info().Bool("locked", locked).Msg("Changed lock on all slots")
}

// Slots returns how many known slots are filled, and how many are known.
func (a *App) Slots() (filled, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.countLocked()
}

// Slot returns the last known settings of a key.
func (a *App) Slot(contextID string) (slot.Settings, bool) {
	a.mu.Lock()
	k, ok := a.keys[contextID]
	a.mu.Unlock()
	if !ok {
		return slot.Settings{}, false
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	return k.slot, true
}

func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	keys := make([]*key, 0, len(a.keys))
	for _, k := range a.keys {
		keys = append(keys, k)
	}
	a.mu.Unlock()

	for _, k := range keys {
		k.mu.Lock()
		k.cancelHold()
		k.mu.Unlock()
	}
	return nil
}

// Transitions. Callers hold k.mu.

func (a *App) captureLocked(ctx context.Context, contextID string, k *key) {
	text, err := a.clip.Read()
	if err != nil {
		a.log.Error().Err(err).Str("context", contextID).Msg("Capture failed")
		return
	}

	filled, ok := k.slot.Fill(text)
	if !ok {
		a.log.Info().Str("context", contextID).Msg("Clipboard empty, nothing captured")
		return
	}

	k.slot = filled
	a.persist(ctx, contextID, k.slot)
	a.render(ctx, contextID, k.slot)
	a.ack(ctx, contextID)
	a.track(contextID, k)
	a.record(ctx, contextID, storage.ActionCapture, text, true)
	a.log.Info().Str("context", contextID).Int("chars", utf8.RuneCountInString(text)).Msg("Captured")
}

func (a *App) pasteLocked(ctx context.Context, contextID string, k *key) {
	text := k.slot.Value
	ok := true

	if err := a.clip.Write(text); err != nil {
		ok = false
		a.log.Error().Err(err).Str("context", contextID).Msg("Clipboard write failed")
	}

	// The shortcut must follow the clipboard write.
	pasteCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.paster.Paste(pasteCtx); err != nil {
		ok = false
		a.log.Error().Err(err).Str("context", contextID).Msg("Paste failed")
	}

	// Focus in the target application cannot be verified, so always ack.
	a.ack(ctx, contextID)
	a.record(ctx, contextID, storage.ActionPaste, text, ok)
	a.log.Info().Str("context", contextID).Bool("ok", ok).Msg("Pasted")
}

func (a *App) clearLocked(ctx context.Context, contextID string, k *key) {
	k.cancelHold()
	k.slot = k.slot.Clear()
	a.persist(ctx, contextID, k.slot)
	a.render(ctx, contextID, k.slot)
	a.ack(ctx, contextID)
	a.track(contextID, k)
	a.record(ctx, contextID, storage.ActionClear, "", true)
	a.log.Info().Str("context", contextID).Msg("Cleared")
}

// render issues title, state and image in order. The caller holds the key
// lock, so no other event for this key is handled in between.
func (a *App) render(ctx context.Context, contextID string, s slot.Settings) {
	title := a.cfg.EmptyTitle
	if s.Filled() {
		title = s.Label
	}

	var image string
	if s.Locked() {
		image = a.cfg.Icons.EmptyLocked
		if s.Filled() {
			image = a.cfg.Icons.FilledLocked
		}
	}

	log := a.log.With().Str("context", contextID).Logger()
	if err := a.host.SetTitle(ctx, contextID, title); err != nil {
		log.Error().Err(err).Msg("Failed to set title")
	}
	if err := a.host.SetState(ctx, contextID, s.State()); err != nil {
		log.Error().Err(err).Msg("Failed to set state")
	}
	if err := a.host.SetImage(ctx, contextID, image); err != nil {
		log.Error().Err(err).Msg("Failed to set image")
	}
}

func (a *App) persist(ctx context.Context, contextID string, s slot.Settings) {
	if err := a.host.SetSettings(ctx, contextID, s); err != nil {
		a.log.Error().Err(err).Str("context", contextID).Msg("Failed to persist slot")
	}
}

func (a *App) ack(ctx context.Context, contextID string) {
	if err := a.host.ShowOK(ctx, contextID); err != nil {
		a.log.Error().Err(err).Str("context", contextID).Msg("Failed to show ok")
	}
}

func (a *App) record(ctx context.Context, contextID string, action storage.Action, text string, ok bool) {
	if a.rec == nil {
		return
	}
	ev := storage.Event{
		ContextID: contextID,
		Action:    action,
		Chars:     utf8.RuneCountInString(text),
		Success:   ok,
	}
	if err := a.rec.Record(ctx, ev); err != nil {
		a.log.Warn().Err(err).Msg("Journal write failed")
	}
}

func (k *key) cancelHold() {
	if k.tracker == nil {
		return
	}
	if k.tracker.timer != nil {
		k.tracker.timer.Stop()
	}
	k.tracker = nil
}

// Key table

func (a *App) keyFor(contextID string) *key {
	a.mu.Lock()
	defer a.mu.Unlock()

	k, ok := a.keys[contextID]
	if !ok {
		k = &key{}
		a.keys[contextID] = k
	}
	return k
}

// lookup returns the key for contextID without adding one.
func (a *App) lookup(contextID string) (*key, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	k, ok := a.keys[contextID]
	return k, ok
}

// current reports whether k is still the table entry for contextID.
func (a *App) current(contextID string, k *key) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.keys[contextID] == k
}

func (a *App) contextIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.keys))
	for id := range a.keys {
		ids = append(ids, id)
	}
	return ids
}

// track refreshes the fill mirror for k and notifies the status sink.
// Callers hold k.mu, never a.mu.
func (a *App) track(contextID string, k *key) {
	filled := k.slot.Filled()

	a.mu.Lock()
	if a.keys[contextID] == k {
		k.filled = filled
	}
	a.mu.Unlock()

	a.notifyStatus()
}

func (a *App) notifyStatus() {
	a.mu.Lock()
	status := a.status
	filled, total := a.countLocked()
	a.mu.Unlock()

	if status != nil {
		status.SlotsChanged(filled, total)
	}
}

func (a *App) countLocked() (filled, total int) {
	for _, k := range a.keys {
		if k.filled {
			filled++
		}
	}
	return filled, len(a.keys)
}
