package field

// Pair holds two equal-size fields used as read source and write target.
// Stages read from Read, write every cell of Write, then call Swap.
type Pair struct {
	fields [2]*Field
	active int
}

// NewPair allocates two zeroed fields.
func NewPair(w, h, comps int, p Precision) *Pair {
	return &Pair{fields: [2]*Field{New(w, h, comps, p), New(w, h, comps, p)}}
}

// Read returns the field holding the current state.
func (p *Pair) Read() *Field { return p.fields[p.active] }

// Write returns the field the next pass writes into.
func (p *Pair) Write() *Field { return p.fields[1-p.active] }

// Swap makes the written field current. Half precision values are rounded
// as they become readable.
func (p *Pair) Swap() {
	p.fields[1-p.active].Quantize()
	p.active = 1 - p.active
}

// Width returns the grid width.
func (p *Pair) Width() int { return p.fields[0].W }

// Height returns the grid height.
func (p *Pair) Height() int { return p.fields[0].H }

// Comps returns the number of components per cell.
func (p *Pair) Comps() int { return p.fields[0].Comps }

// Fields returns both fields in allocation order.
func (p *Pair) Fields() [2]*Field { return p.fields }

// Release drops both fields.
func (p *Pair) Release() {
	p.fields[0].Release()
	p.fields[1].Release()
}
