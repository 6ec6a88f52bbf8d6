package content

import "github.com/mindurka/overdrive/consume"

// Block names used by maps.
const (
	OverdriveProjector  = "overdrive-projector"
	OverdriveDome       = "overdrive-dome"
	CombustionGenerator = "combustion-generator"
	SolarPanel          = "solar-panel"
	Battery             = "battery"
	SiliconSmelter      = "silicon-smelter"
	Cultivator          = "cultivator"
)

// Load registers the standard block set.
func Load() *Registry {
	r := NewRegistry()

	odp := &Block{
		Name:         OverdriveProjector,
		Kind:         KindOverdrive,
		Size:         2,
		ItemCapacity: 10,
		Overdrive: OverdriveStats{
			Reload:          60,
			Range:           80,
			SpeedBoost:      1.5,
			SpeedBoostPhase: 0.75,
			PhaseRangeBoost: 20,
			UseTime:         400,
			HasBoost:        true,
		},
	}
	odp.ConsumePower(3.5)
	odp.ConsumeItem(PhaseFabric, 1).Boost()
	r.MustAdd(odp)

	dome := &Block{
		Name:         OverdriveDome,
		Kind:         KindOverdrive,
		Size:         3,
		ItemCapacity: 10,
		Overdrive: OverdriveStats{
			Reload:     60,
			Range:      200,
			SpeedBoost: 2.5,
			UseTime:    300,
		},
	}
	dome.ConsumePower(10)
	dome.ConsumeItems(
		consume.ItemStack{Item: PhaseFabric, Amount: 1},
		consume.ItemStack{Item: Silicon, Amount: 1},
	)
	r.MustAdd(dome)

	gen := &Block{
		Name:            CombustionGenerator,
		Kind:            KindGenerator,
		PowerProduction: 1,
		ItemCapacity:    10,
		CanOverdrive:    true,
		Generator:       GeneratorStats{ItemDuration: 120},
	}
	gen.ConsumeItem(Coal, 1)
	r.MustAdd(gen)

	r.MustAdd(&Block{
		Name:            SolarPanel,
		Kind:            KindSolar,
		PowerProduction: 0.1,
	})

	bat := &Block{Name: Battery, Kind: KindBattery}
	bat.ConsumePowerBuffered(1000)
	r.MustAdd(bat)

	smelter := &Block{
		Name:         SiliconSmelter,
		Kind:         KindCrafter,
		Size:         2,
		ItemCapacity: 10,
		CanOverdrive: true,
		Crafter: CrafterStats{
			CraftTime: 40,
			Output:    consume.ItemStack{Item: Silicon, Amount: 1},
		},
	}
	smelter.ConsumeItems(
		consume.ItemStack{Item: Coal, Amount: 1},
		consume.ItemStack{Item: Sand, Amount: 2},
	)
	smelter.ConsumePower(0.5)
	r.MustAdd(smelter)

	cultivator := &Block{
		Name:           Cultivator,
		Kind:           KindCrafter,
		Size:           2,
		ItemCapacity:   10,
		LiquidCapacity: 80,
		CanOverdrive:   true,
		Crafter: CrafterStats{
			CraftTime: 140,
			Output:    consume.ItemStack{Item: SporePod, Amount: 1},
		},
	}
	cultivator.ConsumePower(80.0 / 60.0)
	cultivator.ConsumeLiquid(Water, 18.0/60.0)
	r.MustAdd(cultivator)

	return r
}
