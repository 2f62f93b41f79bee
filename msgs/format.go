package msgs

import "strings"

// String renders type:xreg:data, e.g. "03:1f:ffffffffffffffff".
func (m RoccCmd) String() string {
	return traceFields(roccCmdLayout, m.bits, roccCmdType, roccCmdXreg, roccCmdData)
}

// String renders the data field.
func (m RoccResp) String() string {
	return traceFields(roccRespLayout, m.bits, roccRespData)
}

// String renders rd:opaque:addr:<blank> for reads and wr:opaque:addr:data for
// writes, the blank spanning the data digits.
func (m MemReq) String() string {
	if m.layout == nil {
		return "<nil MemReq>"
	}

	var sb strings.Builder
	sb.WriteString(memTypeMnemonic(m.Type()))
	sb.WriteByte(':')
	sb.WriteString(traceFields(m.layout, m.bits, memReqOpaque, memReqAddr))
	sb.WriteByte(':')

	if m.Type() == MemReqTypeRead {
		sb.WriteString(blankField(m.layout, memReqData))
	} else {
		sb.WriteString(traceFields(m.layout, m.bits, memReqData))
	}

	return sb.String()
}

// String renders rd:opaque:data for reads and wr:opaque:<blank> for writes.
func (m MemResp) String() string {
	if m.layout == nil {
		return "<nil MemResp>"
	}

	var sb strings.Builder
	sb.WriteString(memTypeMnemonic(m.Type()))
	sb.WriteByte(':')
	sb.WriteString(traceFields(m.layout, m.bits, memRespOpaque))
	sb.WriteByte(':')

	if m.Type() == MemReqTypeWrite {
		sb.WriteString(blankField(m.layout, memRespData))
	} else {
		sb.WriteString(traceFields(m.layout, m.bits, memRespData))
	}

	return sb.String()
}

func memTypeMnemonic(typ uint8) string {
	switch typ {
	case MemReqTypeRead:
		return "rd"
	case MemReqTypeWrite:
		return "wr"
	default:
		return "??"
	}
}

// traceFields joins the zero-padded hex of the given fields with ':'.
// Zero-width fields render as an empty segment.
func traceFields(l *Layout, b Bits, fields ...int) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		width := l.fields[f].Width
		if width == 0 {
			continue
		}
		parts[i] = hexDigits(BitsFromUint64(l.Unpack(b, f)), width)
	}
	return strings.Join(parts, ":")
}

func blankField(l *Layout, f int) string {
	return strings.Repeat(" ", int((l.fields[f].Width+3)/4))
}
