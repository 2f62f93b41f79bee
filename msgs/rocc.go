package msgs

// RoCC field widths.
const (
	RoccTypeBits = 7
	RoccXregBits = 5
	RoccDataBits = 64
)

// Field indices into the RoCC layouts.
const (
	roccCmdType = iota
	roccCmdXreg
	roccCmdData
)

const roccRespData = 0

var (
	roccCmdLayout = mustLayout("RoccCmd",
		Field{Name: "type", Width: RoccTypeBits},
		Field{Name: "xreg", Width: RoccXregBits},
		Field{Name: "data", Width: RoccDataBits},
	)

	roccRespLayout = mustLayout("RoccResp",
		Field{Name: "data", Width: RoccDataBits},
	)
)

// RoccCmdLayout returns the command field table.
func RoccCmdLayout() *Layout {
	return roccCmdLayout
}

// RoccRespLayout returns the response field table.
func RoccRespLayout() *Layout {
	return roccRespLayout
}

// RoccCmd is a core-to-accelerator command. Layout, high to low:
//
//	  75  69 68  64 63                          0
//	+-------+------+-----------------------------+
//	| type  | xreg | data                        |
//	+-------+------+-----------------------------+
type RoccCmd struct {
	bits Bits
}

// EncodeRoccCmd packs a command. typ must fit in 7 bits and xreg in 5 bits.
func EncodeRoccCmd(typ, xreg uint8, data uint64) (RoccCmd, error) {
	b, err := roccCmdLayout.Pack(uint64(typ), uint64(xreg), data)
	if err != nil {
		return RoccCmd{}, err
	}
	return RoccCmd{bits: b}, nil
}

// DecodeRoccCmd interprets a raw vector as a command.
func DecodeRoccCmd(b Bits) (RoccCmd, error) {
	if err := roccCmdLayout.check(b); err != nil {
		return RoccCmd{}, err
	}
	return RoccCmd{bits: b}, nil
}

// Type returns the 7-bit command type.
func (m RoccCmd) Type() uint8 {
	return uint8(roccCmdLayout.Unpack(m.bits, roccCmdType))
}

// Xreg returns the 5-bit register identifier.
func (m RoccCmd) Xreg() uint8 {
	return uint8(roccCmdLayout.Unpack(m.bits, roccCmdXreg))
}

// Data returns the 64-bit payload.
func (m RoccCmd) Data() uint64 {
	return roccCmdLayout.Unpack(m.bits, roccCmdData)
}

func (m RoccCmd) Kind() Kind  { return KindRoccCmd }
func (m RoccCmd) Bits() Bits  { return m.bits }
func (m RoccCmd) Width() uint { return roccCmdLayout.Width() }

// RoccResp is an accelerator-to-core response carrying 64 bits of data.
type RoccResp struct {
	bits Bits
}

// EncodeRoccResp packs a response. Every uint64 fits, so it cannot fail.
func EncodeRoccResp(data uint64) RoccResp {
	b, _ := roccRespLayout.Pack(data)
	return RoccResp{bits: b}
}

// DecodeRoccResp interprets a raw vector as a response.
func DecodeRoccResp(b Bits) (RoccResp, error) {
	if err := roccRespLayout.check(b); err != nil {
		return RoccResp{}, err
	}
	return RoccResp{bits: b}, nil
}

// Data returns the 64-bit payload.
func (m RoccResp) Data() uint64 {
	return roccRespLayout.Unpack(m.bits, roccRespData)
}

func (m RoccResp) Kind() Kind  { return KindRoccResp }
func (m RoccResp) Bits() Bits  { return m.bits }
func (m RoccResp) Width() uint { return roccRespLayout.Width() }
