package msgs

import "fmt"

// Field is a named, fixed-width bit range of a message.
type Field struct {
	Name  string
	Width uint
}

// Layout is an ordered field table. The first field occupies the highest bits
// and the last field ends at bit 0. Offsets are computed once when the layout
// is built, and both packing and extraction read them from here.
type Layout struct {
	name   string
	fields []Field
	lsb    []uint
	index  map[string]int
	width  uint
}

// NewLayout lays out fields from most to least significant.
func NewLayout(name string, fields ...Field) (*Layout, error) {
	l := &Layout{
		name:   name,
		fields: append([]Field(nil), fields...),
		lsb:    make([]uint, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: %s field %d has no name", ErrInvalidLayout, name, i)
		}
		if _, dup := l.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s has duplicate field %q", ErrInvalidLayout, name, f.Name)
		}
		if f.Width > MaxFieldWidth {
			return nil, fmt.Errorf("%w: %s.%s is %d bits, max %d",
				ErrInvalidLayout, name, f.Name, f.Width, MaxFieldWidth)
		}
		l.index[f.Name] = i
	}

	// Walk from the least significant field up.
	for i := len(fields) - 1; i >= 0; i-- {
		l.lsb[i] = l.width
		l.width += fields[i].Width
	}

	if l.width > MaxWidth {
		return nil, fmt.Errorf("%w: %s is %d bits, max %d", ErrInvalidLayout, name, l.width, MaxWidth)
	}

	return l, nil
}

// mustLayout is for package-level layouts whose field tables are constant.
func mustLayout(name string, fields ...Field) *Layout {
	l, err := NewLayout(name, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the message kind the layout describes.
func (l *Layout) Name() string {
	return l.name
}

// Width returns the total width in bits.
func (l *Layout) Width() uint {
	return l.width
}

// NumFields returns the number of fields.
func (l *Layout) NumFields() int {
	return len(l.fields)
}

// Fields returns a copy of the field table, most significant first.
func (l *Layout) Fields() []Field {
	return append([]Field(nil), l.fields...)
}

// Offset returns the bit index of the least significant bit of field i.
func (l *Layout) Offset(i int) uint {
	return l.lsb[i]
}

// Lookup returns the index of the named field.
func (l *Layout) Lookup(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// Pack places one value per field. Every value is range checked before any
// bit is placed, so a rejected value never yields a partial vector.
func (l *Layout) Pack(values ...uint64) (Bits, error) {
	if len(values) != len(l.fields) {
		return Bits{}, fmt.Errorf("%s takes %d fields, got %d", l.name, len(l.fields), len(values))
	}

	for i, v := range values {
		f := l.fields[i]
		if v&^fieldMask(f.Width) != 0 {
			return Bits{}, &FieldOutOfRangeError{
				Message: l.name,
				Field:   f.Name,
				Value:   v,
				Width:   f.Width,
			}
		}
	}

	var b Bits
	for i, v := range values {
		b = b.withField(l.lsb[i], l.fields[i].Width, v)
	}

	return b, nil
}

// Unpack extracts field i from b.
func (l *Layout) Unpack(b Bits, i int) uint64 {
	return b.Field(l.lsb[i], l.fields[i].Width)
}

// Get extracts the named field from b.
func (l *Layout) Get(b Bits, name string) (uint64, error) {
	i, ok := l.index[name]
	if !ok {
		return 0, fmt.Errorf("%s has no field %q", l.name, name)
	}
	return l.Unpack(b, i), nil
}

// Fits reports whether b has no bits set above the layout width.
func (l *Layout) Fits(b Bits) bool {
	return uint(b.BitLen()) <= l.width
}

// check returns ErrWidthMismatch if b does not fit the layout.
func (l *Layout) check(b Bits) error {
	if !l.Fits(b) {
		return fmt.Errorf("%w: %s is %d bits, vector needs %d",
			ErrWidthMismatch, l.name, l.width, b.BitLen())
	}
	return nil
}
