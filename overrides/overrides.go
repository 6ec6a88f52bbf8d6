// Package overrides replaces the consumption update of selected block
// types at load time.
package overrides

import (
	"log/slog"

	"github.com/mindurka/overdrive/consume"
	"github.com/mindurka/overdrive/content"
	"github.com/mindurka/overdrive/efficiency"
)

// IsOverdrive matches overdrive projector block types.
func IsOverdrive(b *content.Block) bool {
	return b.Kind == content.KindOverdrive
}

// Load binds the cheat-ignoring consumption update to every overdrive
// block. With the session flag set, projectors of cheating teams still pay
// for power and items.
func Load(reg *content.Registry) {
	n := reg.OverrideBuildType(IsOverdrive, efficiency.IgnoreCheat[consume.Building])
	slog.Info("consumption overrides loaded", "blocks", n)
}
