// Package content defines the item, liquid and block types of the
// simulation and the registry that maps block types to their consumption
// strategy.
package content

import (
	"github.com/mindurka/overdrive/consume"
	"github.com/mindurka/overdrive/efficiency"
)

// Kind selects the tile behaviour of a block.
type Kind uint8

const (
	KindOverdrive Kind = iota
	KindGenerator
	KindSolar
	KindBattery
	KindCrafter
)

func (k Kind) String() string {
	switch k {
	case KindOverdrive:
		return "overdrive"
	case KindGenerator:
		return "generator"
	case KindSolar:
		return "solar"
	case KindBattery:
		return "battery"
	case KindCrafter:
		return "crafter"
	}
	return "unknown"
}

// OverdriveStats configures an overdrive projector.
type OverdriveStats struct {
	Reload          float32 // ticks between boost pulses
	Range           float32 // world units
	SpeedBoost      float32
	SpeedBoostPhase float32 // extra boost at full phase heat
	PhaseRangeBoost float32 // extra range at full phase heat
	UseTime         float32 // active ticks per item trigger
	HasBoost        bool
}

// GeneratorStats configures an item-fuelled generator.
type GeneratorStats struct {
	ItemDuration float32 // ticks one fuel item lasts
}

// CrafterStats configures a crafter.
type CrafterStats struct {
	CraftTime float32
	Output    consume.ItemStack
}

// Block is a building type. Its consumers are shared by every building of
// the type and never change after Init.
type Block struct {
	ID   uint16
	Name string
	Kind Kind
	Size int

	Consumers []consume.Consumer
	ConsPower *consume.Power
	Groups    efficiency.Groups[consume.Building]

	HasPower        bool
	PowerProduction float32 // per tick at full production efficiency
	ItemCapacity    int32
	LiquidCapacity  float32
	CanOverdrive    bool

	Overdrive OverdriveStats
	Generator GeneratorStats
	Crafter   CrafterStats
}

// ConsumePower adds a power consumer.
func (b *Block) ConsumePower(usage float32) *consume.Power {
	p := consume.NewPower(usage)
	b.Consumers = append(b.Consumers, p)
	return p
}

// ConsumePowerBuffered adds a battery consumer.
func (b *Block) ConsumePowerBuffered(capacity float32) *consume.Power {
	p := consume.NewBattery(capacity)
	b.Consumers = append(b.Consumers, p)
	return p
}

// ConsumeItems adds an item consumer.
func (b *Block) ConsumeItems(stacks ...consume.ItemStack) *consume.Items {
	c := consume.NewItems(stacks...)
	b.Consumers = append(b.Consumers, c)
	return c
}

// ConsumeItem adds a consumer for a single item.
func (b *Block) ConsumeItem(item uint16, amount int32) *consume.Items {
	return b.ConsumeItems(consume.ItemStack{Item: item, Amount: amount})
}

// ConsumeLiquid adds a liquid consumer.
func (b *Block) ConsumeLiquid(liquid uint16, amount float32) *consume.Liquid {
	c := consume.NewLiquid(liquid, amount)
	b.Consumers = append(b.Consumers, c)
	return c
}

// Init derives the consumer groups. It must run once, after every consumer
// has been added.
func (b *Block) Init() {
	if b.Size == 0 {
		b.Size = 1
	}
	for _, c := range b.Consumers {
		if p, ok := c.(*consume.Power); ok {
			b.ConsPower = p
		}
	}
	b.HasPower = b.HasPower || b.ConsPower != nil || b.PowerProduction > 0
	b.Groups = consume.Groups(b.Consumers, b.ConsPower)
}

// OutputsPower reports whether the block feeds its graph.
func (b *Block) OutputsPower() bool {
	return b.PowerProduction > 0
}

// Buffered reports whether the block stores power.
func (b *Block) Buffered() bool {
	return b.ConsPower != nil && b.ConsPower.Buffered
}
