package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkVelocitySpike BookmarkType = "velocity_spike"
	BookmarkSettled       BookmarkType = "settled"
	BookmarkRestart       BookmarkType = "context_restart"
	BookmarkResize        BookmarkType = "resize"
)

// Thresholds for bookmark detection.
const (
	spikeFactor     = 3.0  // window max over rolling average
	settledFraction = 0.1  // dye mean over recent peak
	minDyePeak      = 1e-3 // peak below this never counts as activity
	minVelocity     = 1e-3
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType
	Tick        int64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the flow from window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	dyePeak float64 // highest dye mean since the flow last settled
	settled bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Restarts > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkRestart,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("graphics context restarted %d time(s)", stats.Restarts),
		})
	}
	if stats.Resizes > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkResize,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("grids now %dx%d (dye %dx%d)", stats.SimW, stats.SimH, stats.DyeW, stats.DyeH),
		})
	}
	if b := bd.checkVelocitySpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkVelocitySpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.VelocityMax
	}
	avg := total / float64(len(history))
	if avg < minVelocity || stats.VelocityMax <= avg*spikeFactor {
		return nil
	}

	return &Bookmark{
		Type:        BookmarkVelocitySpike,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("max velocity %.1f vs rolling avg %.1f", stats.VelocityMax, avg),
	}
}

// checkSettled fires once when the dye fades to a fraction of its peak, and
// re-arms when the dye rises again.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.DyeMean > bd.dyePeak {
		bd.dyePeak = stats.DyeMean
		bd.settled = false
	}
	if bd.settled || bd.dyePeak < minDyePeak || stats.DyeMean > bd.dyePeak*settledFraction {
		return nil
	}

	bd.settled = true
	peak := bd.dyePeak
	bd.dyePeak = stats.DyeMean
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("dye mean %.4f after peak %.4f", stats.DyeMean, peak),
	}
}
