package sim

import (
	"context"
	"log/slog"

	"github.com/mindurka/overdrive/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Sim) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, telemetry.WindowEnd{
		Counts:                s.lastCounts,
		Graphs:                s.power.Graphs(),
		ProjectorEfficiency:   s.projectorEfficiency(),
		OverdriveIgnoresCheat: s.special.OverdriveIgnoresCheat,
	})
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	if s.store != nil {
		if err := s.store.RecordWindow(context.Background(), s.run.ID, stats); err != nil {
			slog.Error("failed to record window", "run_id", s.run.ID, "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		s.saveSnapshot(&bm)
	}
}

// saveSnapshot writes a snapshot tagged with the bookmark that caused it.
func (s *Sim) saveSnapshot(bookmark *telemetry.Bookmark) {
	if s.output == nil {
		return
	}
	path, err := s.output.WriteSnapshot(s.Snapshot(bookmark))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}
