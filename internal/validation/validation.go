package validation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/darwinbeing/fabrics/internal/models"
)

// ErrCount is returned when the master or slave count is below one.
var ErrCount = errors.New("master and slave counts must be at least 1")

// ErrWidth is returned when a bus width is out of range.
var ErrWidth = errors.New("invalid bus width")

// ErrPriority is returned when a fixed priority does not name a master (or 0).
var ErrPriority = errors.New("fixed priority out of range")

// ErrMemoryMap is returned when the memory map does not have one entry per slave.
var ErrMemoryMap = errors.New("memory map does not match slave count")

// ErrErrorSlave is returned when the map does not contain exactly one error slave.
var ErrErrorSlave = errors.New("memory map must contain exactly one error slave")

// ErrRegion is returned for a region with missing, empty or out-of-space bounds.
var ErrRegion = errors.New("invalid region")

// ErrOverlap is returned when two regions share addresses.
var ErrOverlap = errors.New("regions overlap")

// ErrAccess is returned for an unknown access kind.
var ErrAccess = errors.New("unknown region access")

// ErrRanges is returned by ValidateRanges for an unusable parameter space.
var ErrRanges = errors.New("invalid generator ranges")

// ValidateConfig checks that cfg describes a buildable interconnect: counts,
// widths and priorities in range, one region per slave, exactly one error
// slave, and non-overlapping regions that fit in the address space.
func ValidateConfig(cfg models.CrossbarConfig) error {
	if cfg.NumMasters < 1 || cfg.NumSlaves < 1 {
		return fmt.Errorf("%w: masters=%d slaves=%d", ErrCount, cfg.NumMasters, cfg.NumSlaves)
	}
	if cfg.AddrWidth < 1 || cfg.AddrWidth > 64 {
		return fmt.Errorf("%w: wd_addr=%d", ErrWidth, cfg.AddrWidth)
	}
	if !isPowerOfTwo(cfg.DataWidth) || cfg.DataWidth < 8 {
		return fmt.Errorf("%w: wd_data=%d", ErrWidth, cfg.DataWidth)
	}
	if cfg.IDWidth < 0 || cfg.UserWidth < 0 {
		return fmt.Errorf("%w: wd_id=%d wd_user=%d", ErrWidth, cfg.IDWidth, cfg.UserWidth)
	}
	if cfg.FixedPriorityRd < 0 || cfg.FixedPriorityRd > cfg.NumMasters {
		return fmt.Errorf("%w: fixed_priority_rd=%d masters=%d", ErrPriority, cfg.FixedPriorityRd, cfg.NumMasters)
	}
	if cfg.FixedPriorityWr < 0 || cfg.FixedPriorityWr > cfg.NumMasters {
		return fmt.Errorf("%w: fixed_priority_wr=%d masters=%d", ErrPriority, cfg.FixedPriorityWr, cfg.NumMasters)
	}
	if len(cfg.MemoryMap) != cfg.NumSlaves {
		return fmt.Errorf("%w: %d entries for %d slaves", ErrMemoryMap, len(cfg.MemoryMap), cfg.NumSlaves)
	}

	type span struct {
		slave       int
		base, bound uint64
	}
	spans := make([]span, 0, cfg.NumSlaves)
	errorSlaves := 0
	for i := 0; i < cfg.NumSlaves; i++ {
		r, ok := cfg.MemoryMap[i]
		if !ok {
			return fmt.Errorf("%w: slave %d missing", ErrMemoryMap, i)
		}
		if !r.Access.Valid() {
			return fmt.Errorf("%w: slave %d access %q", ErrAccess, i, r.Access)
		}
		if r.IsError() {
			errorSlaves++
			continue
		}
		if r.Base == nil || r.Bound == nil {
			return fmt.Errorf("%w: slave %d has no base/bound", ErrRegion, i)
		}
		if *r.Base >= *r.Bound {
			return fmt.Errorf("%w: slave %d base %#x >= bound %#x", ErrRegion, i, *r.Base, *r.Bound)
		}
		if cfg.AddrWidth < 64 && *r.Bound > uint64(1)<<cfg.AddrWidth {
			return fmt.Errorf("%w: slave %d bound %#x exceeds %d-bit address space", ErrRegion, i, *r.Bound, cfg.AddrWidth)
		}
		spans = append(spans, span{slave: i, base: *r.Base, bound: *r.Bound})
	}
	if errorSlaves != 1 {
		return fmt.Errorf("%w: found %d", ErrErrorSlave, errorSlaves)
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].base < spans[b].base })
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if prev.bound > cur.base {
			return fmt.Errorf("%w: slave %d [%#x, %#x) and slave %d [%#x, %#x)", ErrOverlap,
				prev.slave, prev.base, prev.bound, cur.slave, cur.base, cur.bound)
		}
	}
	return nil
}

// ValidateRanges rejects parameter spaces the generator cannot draw from.
func ValidateRanges(r models.Ranges) error {
	check := func(name string, ir models.IntRange, floor int) error {
		if ir.Min > ir.Max {
			return fmt.Errorf("%w: %s min %d > max %d", ErrRanges, name, ir.Min, ir.Max)
		}
		if ir.Min < floor {
			return fmt.Errorf("%w: %s min %d < %d", ErrRanges, name, ir.Min, floor)
		}
		return nil
	}
	if err := check("wd_id", r.IDWidth, 0); err != nil {
		return err
	}
	if err := check("wd_addr", r.AddrWidth, 1); err != nil {
		return err
	}
	if r.AddrWidth.Max > 64 {
		return fmt.Errorf("%w: wd_addr max %d > 64", ErrRanges, r.AddrWidth.Max)
	}
	if err := check("wd_user", r.UserWidth, 0); err != nil {
		return err
	}
	if err := check("tn_num_masters", r.Masters, 1); err != nil {
		return err
	}
	if err := check("tn_num_slaves", r.Slaves, 1); err != nil {
		return err
	}
	if len(r.DataWidths) == 0 {
		return fmt.Errorf("%w: wd_data has no choices", ErrRanges)
	}
	for _, w := range r.DataWidths {
		if !isPowerOfTwo(w) || w < 8 {
			return fmt.Errorf("%w: wd_data choice %d is not a power of two >= 8", ErrRanges, w)
		}
	}
	if r.RegionSize == 0 {
		return fmt.Errorf("%w: region_size must be positive", ErrRanges)
	}
	if r.RegionStride < r.RegionSize {
		return fmt.Errorf("%w: region_stride %#x < region_size %#x", ErrRanges, r.RegionStride, r.RegionSize)
	}
	// The largest map must still fit in the narrowest address space the generator may pick.
	last := r.MapStart + uint64(r.Slaves.Max-1)*r.RegionStride + r.RegionSize
	if r.AddrWidth.Min < 64 && last > uint64(1)<<r.AddrWidth.Min {
		return fmt.Errorf("%w: memory map end %#x exceeds %d-bit address space", ErrRanges, last, r.AddrWidth.Min)
	}
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
