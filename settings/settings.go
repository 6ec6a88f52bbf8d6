// Package settings parses per-map special settings from map rule tags.
package settings

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/mindurka/overdrive/efficiency"
)

// Rule tag keys.
const (
	Prefix                   = "mdrk"
	KeyFormat                = Prefix + ".format"
	KeyPatch                 = Prefix + ".patch"
	KeyGamemode              = Prefix + ".gamemode"
	KeyGamemodeLegacy        = "mindurkaGamemode"
	KeyOverdriveIgnoresCheat = Prefix + ".overdriveIgnoresCheat"

	FormatVersion = "1"
)

// ErrNotMindurkaMap is returned for maps that were not made for this
// server's gamemode.
var ErrNotMindurkaMap = errors.New("not a mindurka map")

// Defaults supplies values for keys a map does not set.
type Defaults struct {
	Gamemode              string
	OverdriveIgnoresCheat bool
}

// SpecialSettings are the settings of one map.
type SpecialSettings struct {
	Gamemode              string
	Patch                 int
	OverdriveIgnoresCheat bool
	MapWidth, MapHeight   int

	// Warnings collects non-fatal problems found while parsing.
	Warnings []string
}

// Parse reads special settings from a map's rule tags.
func Parse(tags map[string]string, width, height int, d Defaults) (*SpecialSettings, error) {
	s := &SpecialSettings{MapWidth: width, MapHeight: height}

	switch version := tagOr(tags, KeyFormat, "0"); version {
	case "0":
		return nil, fmt.Errorf("%w: consider specifying a gamemode", ErrNotMindurkaMap)
	case FormatVersion:
	default:
		return nil, fmt.Errorf("%w: unknown format version %s, is gamemode not specified?", ErrNotMindurkaMap, version)
	}

	if gm, ok := tags[KeyGamemode]; ok {
		s.Gamemode = gm
	} else if gm, ok := tags[KeyGamemodeLegacy]; ok {
		s.warn("Using legacy gamemode key. Consider updating the map.")
		s.Gamemode = gm
	} else {
		return nil, fmt.Errorf("%w: format %s requires gamemode to be specified", ErrNotMindurkaMap, FormatVersion)
	}
	if s.Gamemode != d.Gamemode {
		return nil, fmt.Errorf("%w: map was made for a different gamemode (%q != %q)", ErrNotMindurkaMap, s.Gamemode, d.Gamemode)
	}

	s.Patch = s.intTag(tags, KeyPatch, 0)
	s.OverdriveIgnoresCheat = s.boolTag(tags, KeyOverdriveIgnoresCheat, d.OverdriveIgnoresCheat)

	return s, nil
}

// Session returns the values the consumption update reads each tick.
func (s *SpecialSettings) Session() efficiency.Session {
	return efficiency.Session{OverdriveIgnoresCheat: s.OverdriveIgnoresCheat}
}

func (s *SpecialSettings) warn(text string) {
	if !slices.Contains(s.Warnings, text) {
		s.Warnings = append(s.Warnings, text)
	}
}

func (s *SpecialSettings) intTag(tags map[string]string, key string, def int) int {
	v, ok := tags[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		s.warn(fmt.Sprintf("Tag %s is not an integer: %q", key, v))
		return def
	}
	return n
}

func (s *SpecialSettings) boolTag(tags map[string]string, key string, def bool) bool {
	v, ok := tags[key]
	if !ok {
		return def
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	s.warn(fmt.Sprintf("Tag %s is not a boolean: %q", key, v))
	return def
}

func tagOr(tags map[string]string, key, def string) string {
	if v, ok := tags[key]; ok {
		return v
	}
	return def
}
