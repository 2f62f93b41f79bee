// Package accel provides an accelerator model that executes RoccCmd messages
// and answers with RoccResp messages.
package accel

// NumXregs is the number of accelerator registers addressable by a 5-bit
// xreg field.
const NumXregs = 32

// RegFile is the accelerator register file. Register 0 always reads as zero
// and ignores writes.
type RegFile struct {
	X [NumXregs]uint64
}

// ReadReg reads a register value. Register 0 and out-of-range indices
// return 0.
func (r *RegFile) ReadReg(reg uint8) uint64 {
	if reg == 0 || reg >= NumXregs {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 0 or
// out-of-range indices are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint64) {
	if reg == 0 || reg >= NumXregs {
		return
	}
	r.X[reg] = value
}

// Reset clears all registers.
func (r *RegFile) Reset() {
	r.X = [NumXregs]uint64{}
}
