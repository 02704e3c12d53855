package tray

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/getlantern/systray"
	"github.com/petems/clipslot/internal/logging"
	"github.com/rs/zerolog"
)

// Slots is the controller surface the tray drives.
type Slots interface {
	ClearAll(ctx context.Context)
	SetLockAll(ctx context.Context, locked bool)
	Slots() (filled, total int)
}

type UI struct {
	slots   Slots
	version string
	commit  string
	log     zerolog.Logger
	onQuit  func()

	mu            sync.Mutex
	ready         bool
	filled, total int

	// Menu items
	mStatus *systray.MenuItem
}

func New(slots Slots, log zerolog.Logger, version, commit string, onQuit func()) *UI {
	return &UI{
		slots:   slots,
		version: version,
		commit:  commit,
		log:     log.With().Str("component", "tray").Logger(),
		onQuit:  onQuit,
	}
}

// SlotsChanged implements app.StatusUpdater.
func (u *UI) SlotsChanged(filled, total int) {
	u.mu.Lock()
	u.filled, u.total = filled, total
	ready := u.ready
	u.mu.Unlock()

	if ready {
		u.updateStatus(filled, total)
	}
}

// Run blocks on the tray event loop; it must be called from the main goroutine.
func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	systray.SetTooltip("Clipboard slots")

	u.mStatus = systray.AddMenuItem("", "Filled slots")
	u.mStatus.Disable()
	systray.AddSeparator()

	mClear := systray.AddMenuItem("Clear All Slots", "Empty every slot, locked ones included")
	mLock := systray.AddMenuItem("Lock All Slots", "Disable hold-to-clear on every slot")
	mUnlock := systray.AddMenuItem("Unlock All Slots", "Enable hold-to-clear on every slot")

	systray.AddSeparator()
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About ClipSlot")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	u.mu.Lock()
	u.ready = true
	filled, total := u.filled, u.total
	u.mu.Unlock()
	u.updateStatus(filled, total)

	// Event loop
	go func() {
		ctx := context.Background()
		for {
			select {
			case <-mClear.ClickedCh:
				u.slots.ClearAll(ctx)
			case <-mLock.ClickedCh:
				u.slots.SetLockAll(ctx, true)
			case <-mUnlock.ClickedCh:
				u.slots.SetLockAll(ctx, false)
			case <-mLogs.ClickedCh:
				u.openLogs()
			case <-mAbout.ClickedCh:
				u.log.Info().Msg(aboutText(u.version, u.commit))
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

func (u *UI) onExit() {
	if u.onQuit != nil {
		u.onQuit()
	}
}

func (u *UI) updateStatus(filled, total int) {
	systray.SetTitle(statusTitle(filled, total))
	if u.mStatus != nil {
		u.mStatus.SetTitle(statusLine(filled, total))
	}
}

func (u *UI) openLogs() {
	path := logging.Path()
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		u.log.Error().Err(err).Str("path", path).Msg("Failed to open logs")
	}
}

// statusTitle is the menu-bar text, e.g. "📋 2/5".
func statusTitle(filled, total int) string {
	if total == 0 {
		return "📋"
	}
	return fmt.Sprintf("📋 %d/%d", filled, total)
}

func statusLine(filled, total int) string {
	switch {
	case total == 0:
		return "No slots on device"
	case total == 1:
		return fmt.Sprintf("%d of 1 slot filled", filled)
	default:
		return fmt.Sprintf("%d of %d slots filled", filled, total)
	}
}

func aboutText(version, commit string) string {
	return fmt.Sprintf("ClipSlot %s (%s)", version, commit)
}
