package msgs

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
)

// MemConfig holds the configurable field widths of the memory messages.
type MemConfig struct {
	// OpaqueBits is the width of the correlation tag passed through the
	// memory system unmodified. May be 0. Default: 8 bits.
	OpaqueBits uint `json:"opaque_bits"`

	// AddrBits is the width of the request address. Default: 32 bits.
	AddrBits uint `json:"addr_bits"`

	// DataBits is the width of the data payload. Must be a whole number of
	// bytes. Default: 32 bits.
	DataBits uint `json:"data_bits"`
}

// DefaultMemConfig returns 8-bit opaque, 32-bit address and 32-bit data. Under
// this config a MemReq is 77 bits and a MemResp is 47 bits.
func DefaultMemConfig() *MemConfig {
	return &MemConfig{
		OpaqueBits: 8,
		AddrBits:   32,
		DataBits:   32,
	}
}

// LoadMemConfig loads a MemConfig from a JSON file. Keys missing from the
// file keep their default values.
func LoadMemConfig(path string) (*MemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read width config file: %w", err)
	}

	config := DefaultMemConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse width config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes a MemConfig to a JSON file.
func (c *MemConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize width config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write width config file: %w", err)
	}

	return nil
}

// Validate checks that the widths can be laid out.
func (c *MemConfig) Validate() error {
	if c.OpaqueBits > MaxFieldWidth {
		return fmt.Errorf("%w: opaque_bits must be <= %d", ErrInvalidConfig, MaxFieldWidth)
	}
	if c.AddrBits == 0 || c.AddrBits > MaxFieldWidth {
		return fmt.Errorf("%w: addr_bits must be in [1, %d]", ErrInvalidConfig, MaxFieldWidth)
	}
	if c.DataBits < 8 || c.DataBits > MaxFieldWidth {
		return fmt.Errorf("%w: data_bits must be in [8, %d]", ErrInvalidConfig, MaxFieldWidth)
	}
	if c.DataBits%8 != 0 {
		return fmt.Errorf("%w: data_bits must be a multiple of 8", ErrInvalidConfig)
	}
	return nil
}

// Clone returns a copy of the MemConfig.
func (c *MemConfig) Clone() *MemConfig {
	clone := *c
	return &clone
}

// DataBytes returns the payload size in bytes.
func (c *MemConfig) DataBytes() uint {
	return c.DataBits / 8
}

// LenBits returns the width of the derived len field: the number of bits
// needed to count DataBytes() bytes, with a full-width access wrapping to 0.
func (c *MemConfig) LenBits() uint {
	return uint(bits.Len(c.DataBytes() - 1))
}

// LenValue returns the len field carried by every message under this config:
// the payload byte count modulo 2^LenBits(). For power-of-two payloads this is
// 0, which reads as "whole data width".
func (c *MemConfig) LenValue() uint64 {
	return uint64(c.DataBytes()) & fieldMask(c.LenBits())
}

// MemReqBits returns the total MemReq width.
func (c *MemConfig) MemReqBits() uint {
	return MemTypeBits + c.OpaqueBits + c.AddrBits + c.LenBits() + c.DataBits
}

// MemRespBits returns the total MemResp width.
func (c *MemConfig) MemRespBits() uint {
	return MemTypeBits + c.OpaqueBits + MemTestBits + c.LenBits() + c.DataBits
}
