package msgs

import "fmt"

// Fixed memory field widths.
const (
	MemTypeBits = 3
	MemTestBits = 2
)

// Memory request types.
const (
	MemReqTypeRead  uint8 = 0
	MemReqTypeWrite uint8 = 1
)

// MemRespTest is the value every MemResp carries in its test field.
const MemRespTest uint64 = 0

// Field indices into the memory layouts.
const (
	memReqType = iota
	memReqOpaque
	memReqAddr
	memReqLen
	memReqData
)

const (
	memRespType = iota
	memRespOpaque
	memRespTest
	memRespLen
	memRespData
)

// MemCodec encodes and decodes memory messages under one width configuration.
// It is immutable after construction and safe for concurrent use.
type MemCodec struct {
	config MemConfig
	req    *Layout
	resp   *Layout
}

// NewMemCodec validates config and lays out both memory message kinds.
func NewMemCodec(config *MemConfig) (*MemCodec, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	lenBits := config.LenBits()

	req, err := NewLayout("MemReq",
		Field{Name: "type", Width: MemTypeBits},
		Field{Name: "opaque", Width: config.OpaqueBits},
		Field{Name: "addr", Width: config.AddrBits},
		Field{Name: "len", Width: lenBits},
		Field{Name: "data", Width: config.DataBits},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out memory request: %w", err)
	}

	resp, err := NewLayout("MemResp",
		Field{Name: "type", Width: MemTypeBits},
		Field{Name: "opaque", Width: config.OpaqueBits},
		Field{Name: "test", Width: MemTestBits},
		Field{Name: "len", Width: lenBits},
		Field{Name: "data", Width: config.DataBits},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out memory response: %w", err)
	}

	return &MemCodec{
		config: *config,
		req:    req,
		resp:   resp,
	}, nil
}

// Config returns a copy of the width configuration.
func (c *MemCodec) Config() *MemConfig {
	return c.config.Clone()
}

// ReqLayout returns the MemReq field table.
func (c *MemCodec) ReqLayout() *Layout {
	return c.req
}

// RespLayout returns the MemResp field table.
func (c *MemCodec) RespLayout() *Layout {
	return c.resp
}

// EncodeMemReq packs a request. The len field is derived from the codec's
// data width.
func (c *MemCodec) EncodeMemReq(typ uint8, opaque, addr, data uint64) (MemReq, error) {
	b, err := c.req.Pack(uint64(typ), opaque, addr, c.config.LenValue(), data)
	if err != nil {
		return MemReq{}, err
	}
	return MemReq{bits: b, layout: c.req}, nil
}

// DecodeMemReq interprets a raw vector as a request of this codec. The len
// field must hold the value the encoder derives.
func (c *MemCodec) DecodeMemReq(b Bits) (MemReq, error) {
	if err := c.req.check(b); err != nil {
		return MemReq{}, err
	}
	if err := derivedMustMatch(c.req, b, memReqLen, c.config.LenValue()); err != nil {
		return MemReq{}, err
	}
	return MemReq{bits: b, layout: c.req}, nil
}

// EncodeMemResp packs a response. The test field is always MemRespTest and
// the len field is derived from the codec's data width.
func (c *MemCodec) EncodeMemResp(typ uint8, opaque, data uint64) (MemResp, error) {
	b, err := c.resp.Pack(uint64(typ), opaque, MemRespTest, c.config.LenValue(), data)
	if err != nil {
		return MemResp{}, err
	}
	return MemResp{bits: b, layout: c.resp}, nil
}

// DecodeMemResp interprets a raw vector as a response of this codec. The test
// and len fields must hold the values the encoder produces.
func (c *MemCodec) DecodeMemResp(b Bits) (MemResp, error) {
	if err := c.resp.check(b); err != nil {
		return MemResp{}, err
	}
	if err := derivedMustMatch(c.resp, b, memRespTest, MemRespTest); err != nil {
		return MemResp{}, err
	}
	if err := derivedMustMatch(c.resp, b, memRespLen, c.config.LenValue()); err != nil {
		return MemResp{}, err
	}
	return MemResp{bits: b, layout: c.resp}, nil
}

func derivedMustMatch(l *Layout, b Bits, i int, want uint64) error {
	if got := l.Unpack(b, i); got != want {
		return fmt.Errorf("%w: %s.%s is 0x%x, want 0x%x",
			ErrMalformed, l.Name(), l.fields[i].Name, got, want)
	}
	return nil
}

// CheckMemReq fails with ErrWidthMismatch unless req was laid out under this
// codec's width configuration.
func (c *MemCodec) CheckMemReq(req MemReq) error {
	if !sameLayout(req.layout, c.req) {
		return fmt.Errorf("%w: MemReq is %d bits, codec expects %d",
			ErrWidthMismatch, req.Width(), c.req.Width())
	}
	return nil
}

// CheckMemResp fails with ErrWidthMismatch unless resp was laid out under
// this codec's width configuration.
func (c *MemCodec) CheckMemResp(resp MemResp) error {
	if !sameLayout(resp.layout, c.resp) {
		return fmt.Errorf("%w: MemResp is %d bits, codec expects %d",
			ErrWidthMismatch, resp.Width(), c.resp.Width())
	}
	return nil
}

// MemReq is a memory request. It keeps a reference to the layout it was built
// with, so accessors always read with the offsets used to write it.
//
// With an 8-bit opaque field, 32-bit address and 32-bit data:
//
//	  76  74 73  66 65       34 33  32 31        0
//	+------+------+-----------+------+-----------+
//	| type |opaque| addr      | len  | data      |
//	+------+------+-----------+------+-----------+
//
// The zero MemReq has no layout; its fields and width read as 0.
type MemReq struct {
	bits   Bits
	layout *Layout
}

func (m MemReq) field(i int) uint64 {
	if m.layout == nil {
		return 0
	}
	return m.layout.Unpack(m.bits, i)
}

// Type returns the 3-bit request type.
func (m MemReq) Type() uint8 {
	return uint8(m.field(memReqType))
}

// Opaque returns the correlation tag.
func (m MemReq) Opaque() uint64 {
	return m.field(memReqOpaque)
}

// Addr returns the request address.
func (m MemReq) Addr() uint64 {
	return m.field(memReqAddr)
}

// Len returns the derived len field.
func (m MemReq) Len() uint64 {
	return m.field(memReqLen)
}

// Data returns the payload.
func (m MemReq) Data() uint64 {
	return m.field(memReqData)
}

func (m MemReq) Kind() Kind  { return KindMemReq }
func (m MemReq) Bits() Bits  { return m.bits }
func (m MemReq) Width() uint {
	if m.layout == nil {
		return 0
	}
	return m.layout.Width()
}

// Equal reports whether both requests have the same layout and bits.
func (m MemReq) Equal(o MemReq) bool {
	return m.bits == o.bits && sameLayout(m.layout, o.layout)
}

// MemResp is a memory response.
//
// With an 8-bit opaque field and 32-bit data:
//
//	  46  44 43  36 35  34 33  32 31        0
//	+------+------+------+------+-----------+
//	| type |opaque| test | len  | data      |
//	+------+------+------+------+-----------+
//
// The zero MemResp has no layout; its fields and width read as 0.
type MemResp struct {
	bits   Bits
	layout *Layout
}

func (m MemResp) field(i int) uint64 {
	if m.layout == nil {
		return 0
	}
	return m.layout.Unpack(m.bits, i)
}

// Type returns the 3-bit response type.
func (m MemResp) Type() uint8 {
	return uint8(m.field(memRespType))
}

// Opaque returns the correlation tag echoed from the request.
func (m MemResp) Opaque() uint64 {
	return m.field(memRespOpaque)
}

// Test returns the 2-bit test field.
func (m MemResp) Test() uint64 {
	return m.field(memRespTest)
}

// Len returns the derived len field.
func (m MemResp) Len() uint64 {
	return m.field(memRespLen)
}

// Data returns the payload.
func (m MemResp) Data() uint64 {
	return m.field(memRespData)
}

func (m MemResp) Kind() Kind  { return KindMemResp }
func (m MemResp) Bits() Bits  { return m.bits }
func (m MemResp) Width() uint {
	if m.layout == nil {
		return 0
	}
	return m.layout.Width()
}

// Equal reports whether both responses have the same layout and bits.
func (m MemResp) Equal(o MemResp) bool {
	return m.bits == o.bits && sameLayout(m.layout, o.layout)
}

// sameLayout compares field tables, so equal configs built by different
// codecs still compare equal.
func sameLayout(a, b *Layout) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || len(a.fields) != len(b.fields) {
		return false
	}
	for i := range a.fields {
		if a.fields[i] != b.fields[i] {
			return false
		}
	}
	return true
}
