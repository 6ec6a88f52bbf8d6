package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPowerCrash          BookmarkType = "power_crash"
	BookmarkProjectorsStarved   BookmarkType = "projectors_starved"
	BookmarkProjectorsRecovered BookmarkType = "projectors_recovered"
	BookmarkCheatFlagChanged    BookmarkType = "cheat_flag_changed"
	BookmarkSteadyGrid          BookmarkType = "steady_grid"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// steadyWindows is how many consecutive low-variance windows make a steady
// grid.
const steadyWindows = 5

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historyIdx  int
	historyFull bool

	steadyCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < steadyWindows {
		historySize = steadyWindows
	}
	return &BookmarkDetector{
		history: make([]WindowStats, historySize),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if prev, ok := bd.last(); ok {
		for _, check := range []func(prev, cur WindowStats) *Bookmark{
			bd.checkPowerCrash,
			checkProjectorsStarved,
			checkProjectorsRecovered,
			checkCheatFlag,
		} {
			if b := check(prev, stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)

	if b := bd.checkSteadyGrid(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % len(bd.history)
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	size := bd.historyIdx
	if bd.historyFull {
		size = len(bd.history)
	}
	n = min(n, size)
	out := make([]WindowStats, n)
	for i := range n {
		idx := (bd.historyIdx - n + i + len(bd.history)) % len(bd.history)
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) last() (WindowStats, bool) {
	r := bd.recent(1)
	if len(r) == 0 {
		return WindowStats{}, false
	}
	return r[0], true
}

func (bd *BookmarkDetector) checkPowerCrash(_, cur WindowStats) *Bookmark {
	history := bd.recent(len(bd.history))
	if len(history) < 3 {
		return nil
	}

	sat := make([]float64, len(history))
	for i, h := range history {
		sat[i] = h.SatisfactionMean
	}
	avg := stat.Mean(sat, nil)

	if avg >= 0.9 && cur.SatisfactionMean < 0.5 {
		return &Bookmark{
			Type:        BookmarkPowerCrash,
			Tick:        cur.WindowEndTick,
			Description: fmt.Sprintf("Satisfaction fell to %.2f from average %.2f", cur.SatisfactionMean, avg),
		}
	}
	return nil
}

func checkProjectorsStarved(prev, cur WindowStats) *Bookmark {
	if prev.ProjectorEffMean > 0 && cur.ProjectorEffMean == 0 {
		return &Bookmark{
			Type:        BookmarkProjectorsStarved,
			Tick:        cur.WindowEndTick,
			Description: fmt.Sprintf("Projectors stopped (mean efficiency was %.2f)", prev.ProjectorEffMean),
		}
	}
	return nil
}

func checkProjectorsRecovered(prev, cur WindowStats) *Bookmark {
	if prev.ProjectorEffMean == 0 && cur.ProjectorEffMean >= 0.5 {
		return &Bookmark{
			Type:        BookmarkProjectorsRecovered,
			Tick:        cur.WindowEndTick,
			Description: fmt.Sprintf("Projectors back at mean efficiency %.2f", cur.ProjectorEffMean),
		}
	}
	return nil
}

func checkCheatFlag(prev, cur WindowStats) *Bookmark {
	if prev.OverdriveIgnoresCheat == cur.OverdriveIgnoresCheat {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCheatFlagChanged,
		Tick:        cur.WindowEndTick,
		Description: fmt.Sprintf("overdriveIgnoresCheat set to %t with %d cheating buildings", cur.OverdriveIgnoresCheat, cur.Cheating),
	}
}

func (bd *BookmarkDetector) checkSteadyGrid(cur WindowStats) *Bookmark {
	if cur.PowerNeeded == 0 {
		bd.steadyCount = 0
		return nil
	}

	history := bd.recent(steadyWindows)
	if len(history) < steadyWindows {
		return nil
	}

	sat := make([]float64, len(history))
	for i, h := range history {
		sat[i] = h.SatisfactionMean
	}
	if stat.PopStdDev(sat, nil) < 0.02 {
		bd.steadyCount++
	} else {
		bd.steadyCount = 0
	}

	// Fire once per steady stretch.
	if bd.steadyCount == 1 {
		return &Bookmark{
			Type:        BookmarkSteadyGrid,
			Tick:        cur.WindowEndTick,
			Description: fmt.Sprintf("Satisfaction steady at %.2f over %d windows", cur.SatisfactionMean, steadyWindows),
		}
	}
	return nil
}
