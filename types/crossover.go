package types

// CrossAbove reports the tick on which a crosses from at-or-below b to
// above b. It is edge-triggered: while a stays above b it keeps returning
// false until the relation dips back and crosses again. The fields are
// exported so the detector survives state serialization.
type CrossAbove struct {
	Primed bool `json:"primed"`
	Above  bool `json:"above"`
}

func NewCrossAbove() *CrossAbove { return &CrossAbove{} }

func (c *CrossAbove) Evaluate(a, b float64) bool {
	above := a > b
	fired := c.Primed && above && !c.Above
	c.Primed = true
	c.Above = above
	return fired
}

// CrossBelow is the mirror detector: true only on the transition from
// at-or-above to below.
type CrossBelow struct {
	Primed bool `json:"primed"`
	Below  bool `json:"below"`
}

func NewCrossBelow() *CrossBelow { return &CrossBelow{} }

func (c *CrossBelow) Evaluate(a, b float64) bool {
	below := a < b
	fired := c.Primed && below && !c.Below
	c.Primed = true
	c.Below = below
	return fired
}
