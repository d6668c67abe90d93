// Package generator draws random interconnect parameter sets.
package generator

import (
	"math/rand/v2"

	"github.com/darwinbeing/fabrics/internal/models"
)

// Generator produces a deterministic stream of CrossbarConfig values for a seed.
// It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	ranges models.Ranges
	seed   uint64
}

// New returns a Generator over ranges. The same seed and ranges always yield the same sequence.
func New(seed uint64, ranges models.Ranges) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ranges: ranges,
		seed:   seed,
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Next draws one parameter set. Exactly one slave is the error slave; every
// other slave gets a fresh region, laid out in slave order from MapStart.
func (g *Generator) Next() models.CrossbarConfig {
	r := g.ranges
	cfg := models.CrossbarConfig{
		IDWidth:    g.between(r.IDWidth),
		AddrWidth:  g.between(r.AddrWidth),
		DataWidth:  r.DataWidths[g.rng.IntN(len(r.DataWidths))],
		UserWidth:  g.between(r.UserWidth),
		NumMasters: g.between(r.Masters),
		NumSlaves:  g.between(r.Slaves),
	}
	cfg.FixedPriorityRd = g.rng.IntN(cfg.NumMasters + 1)
	cfg.FixedPriorityWr = g.rng.IntN(cfg.NumMasters + 1)

	cfg.MemoryMap = make(map[int]models.Region, cfg.NumSlaves)
	errorSlave := g.rng.IntN(cfg.NumSlaves)
	cursor := r.MapStart
	for i := 0; i < cfg.NumSlaves; i++ {
		if i == errorSlave {
			cfg.MemoryMap[i] = models.Region{Access: models.AccessError}
			continue
		}
		base, bound := cursor, cursor+r.RegionSize
		cfg.MemoryMap[i] = models.Region{
			Access: models.RegionAccesses[g.rng.IntN(len(models.RegionAccesses))],
			Base:   &base,
			Bound:  &bound,
		}
		cursor += r.RegionStride
	}
	return cfg
}

// between returns a uniform value in the inclusive range.
func (g *Generator) between(ir models.IntRange) int {
	return ir.Min + g.rng.IntN(ir.Max-ir.Min+1)
}
