// Package msgs provides the fixed-width message codec exchanged between a core
// model and its accelerator and memory subsystem.
//
// Four message kinds are supported, each a single bit vector made of ordered
// fields, most significant field first:
//   - RoccCmd:  type(7) | xreg(5) | data(64)
//   - RoccResp: data(64)
//   - MemReq:   type(3) | opaque | addr | len | data
//   - MemResp:  type(3) | opaque | test(2) | len | data
//
// The opaque, addr and data widths of the memory messages come from a
// MemConfig bound into a MemCodec. Encoders reject any field value that does
// not fit its width with an error wrapping ErrFieldOutOfRange.
//
// Usage:
//
//	cmd, err := msgs.EncodeRoccCmd(0x3, 0x1F, 0xFFFFFFFFFFFFFFFF)
//	fmt.Println(cmd.Type(), cmd.Xreg(), cmd.Data())
//
//	codec, err := msgs.NewMemCodec(msgs.DefaultMemConfig())
//	req, err := codec.EncodeMemReq(msgs.MemReqTypeRead, 0, 0x1000, 0)
//	fmt.Printf("%#x\n", req.Addr())
package msgs

// Kind identifies a message kind.
type Kind uint8

// Message kinds.
const (
	KindUnknown Kind = iota
	KindRoccCmd
	KindRoccResp
	KindMemReq
	KindMemResp
)

func (k Kind) String() string {
	switch k {
	case KindRoccCmd:
		return "RoccCmd"
	case KindRoccResp:
		return "RoccResp"
	case KindMemReq:
		return "MemReq"
	case KindMemResp:
		return "MemResp"
	default:
		return "Unknown"
	}
}

// Message is implemented by all four message kinds.
type Message interface {
	// Kind returns the message kind.
	Kind() Kind
	// Bits returns the packed bit vector.
	Bits() Bits
	// Width returns the message width in bits.
	Width() uint
	// String returns a compact line-trace rendering of the fields.
	String() string
}
