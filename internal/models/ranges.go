package models

// IntRange is an inclusive [Min, Max] interval.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Ranges bounds every randomized parameter of a CrossbarConfig.
type Ranges struct {
	IDWidth    IntRange `yaml:"wd_id"`
	AddrWidth  IntRange `yaml:"wd_addr"`
	DataWidths []int    `yaml:"wd_data"`
	UserWidth  IntRange `yaml:"wd_user"`
	Masters    IntRange `yaml:"tn_num_masters"`
	Slaves     IntRange `yaml:"tn_num_slaves"`

	// Memory map layout: regions are RegionSize long and placed RegionStride apart from MapStart.
	MapStart     uint64 `yaml:"map_start"`
	RegionSize   uint64 `yaml:"region_size"`
	RegionStride uint64 `yaml:"region_stride"`
}

// DefaultRanges returns the parameter space the interconnect test benches are known to accept.
func DefaultRanges() Ranges {
	return Ranges{
		IDWidth:      IntRange{Min: 0, Max: 32},
		AddrWidth:    IntRange{Min: 20, Max: 64},
		DataWidths:   []int{32, 64, 128, 256, 512, 1024},
		UserWidth:    IntRange{Min: 0, Max: 32},
		Masters:      IntRange{Min: 1, Max: 16},
		Slaves:       IntRange{Min: 1, Max: 16},
		MapStart:     0x1000,
		RegionSize:   0x1000,
		RegionStride: 0x2000,
	}
}
