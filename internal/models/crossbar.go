package models

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Access is the permission a slave region grants to masters.
type Access string

const (
	AccessReadOnly  Access = "read-only"
	AccessWriteOnly Access = "write-only"
	AccessReadWrite Access = "read-write"
	// AccessError marks the slave that answers every transaction with an error response.
	AccessError Access = "error"
)

// RegionAccesses lists the access kinds a regular (non-error) slave may get.
var RegionAccesses = []Access{AccessReadOnly, AccessWriteOnly, AccessReadWrite}

// Valid reports whether a is one of the known access kinds.
func (a Access) Valid() bool {
	switch a {
	case AccessReadOnly, AccessWriteOnly, AccessReadWrite, AccessError:
		return true
	}
	return false
}

// Region is one slave's window in the memory map. Base and Bound are nil for the error slave.
type Region struct {
	Access Access  `yaml:"access"`
	Base   *uint64 `yaml:"base,omitempty"`
	Bound  *uint64 `yaml:"bound,omitempty"`
}

// IsError reports whether the region is the error-access slave.
func (r Region) IsError() bool {
	return r.Access == AccessError
}

// CrossbarConfig is the parameter set consumed by the instance generator makefiles.
// Field order is alphabetical by YAML key so encoded files match a sorted dump.
type CrossbarConfig struct {
	FixedPriorityRd int            `yaml:"fixed_priority_rd"`
	FixedPriorityWr int            `yaml:"fixed_priority_wr"`
	MemoryMap       map[int]Region `yaml:"memory_map"`
	NumMasters      int            `yaml:"tn_num_masters"`
	NumSlaves       int            `yaml:"tn_num_slaves"`
	AddrWidth       int            `yaml:"wd_addr"`
	DataWidth       int            `yaml:"wd_data"`
	IDWidth         int            `yaml:"wd_id"`
	UserWidth       int            `yaml:"wd_user"`
}

// ErrorSlave returns the index of the error-access slave, or -1 if there is none.
func (c CrossbarConfig) ErrorSlave() int {
	for i := 0; i < c.NumSlaves; i++ {
		if r, ok := c.MemoryMap[i]; ok && r.IsError() {
			return i
		}
	}
	return -1
}

// Encode writes c as block-style YAML with a two-space indent.
func (c CrossbarConfig) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode crossbar config: %w", err)
	}
	return enc.Close()
}

// DecodeCrossbarConfig reads a parameter file written by Encode (or by hand).
func DecodeCrossbarConfig(r io.Reader) (CrossbarConfig, error) {
	var c CrossbarConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return CrossbarConfig{}, fmt.Errorf("decode crossbar config: %w", err)
	}
	return c, nil
}
