package content

import "github.com/mindurka/overdrive/components"

// Item ids. The order is the storage index in components.Inventory.
const (
	Copper uint16 = iota
	Sand
	Coal
	Silicon
	SporePod
	PhaseFabric
	numItems
)

// Liquid ids. The order is the storage index in components.Tank.
const (
	Water uint16 = iota
	Cryofluid
	numLiquids
)

var itemNames = [...]string{
	Copper:      "copper",
	Sand:        "sand",
	Coal:        "coal",
	Silicon:     "silicon",
	SporePod:    "spore-pod",
	PhaseFabric: "phase-fabric",
}

var liquidNames = [...]string{
	Water:     "water",
	Cryofluid: "cryofluid",
}

// Fail the build if content outgrows component storage.
var (
	_ [components.MaxItems - numItems]struct{}
	_ [components.MaxLiquids - numLiquids]struct{}
)

// ItemName returns the content name of an item id.
func ItemName(id uint16) string {
	if int(id) >= len(itemNames) {
		return ""
	}
	return itemNames[id]
}

// ItemByName looks up an item id.
func ItemByName(name string) (uint16, bool) {
	for i, n := range itemNames {
		if n == name {
			return uint16(i), true
		}
	}
	return 0, false
}

// LiquidName returns the content name of a liquid id.
func LiquidName(id uint16) string {
	if int(id) >= len(liquidNames) {
		return ""
	}
	return liquidNames[id]
}

// LiquidByName looks up a liquid id.
func LiquidByName(name string) (uint16, bool) {
	for i, n := range liquidNames {
		if n == name {
			return uint16(i), true
		}
	}
	return 0, false
}
