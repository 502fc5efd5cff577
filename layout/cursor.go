package layout

// Cursor tracks where the next line box goes. Y is measured from the top of
// the page and never passes Bottom while content remains.
type Cursor struct {
	Page   int // 1-based; 0 before the first page opens
	Y      float64
	Top    float64
	Bottom float64
}

// NewCursor returns a cursor for cfg positioned before the first page.
func NewCursor(cfg Config) Cursor {
	return Cursor{Top: cfg.Margins.Top, Bottom: cfg.ContentBottom()}
}

// Fits reports whether a box of height h can be placed at Y on this page.
func (c Cursor) Fits(h float64) bool {
	return c.Page > 0 && c.Y+h <= c.Bottom
}

// Break moves to the top of the next page.
func (c *Cursor) Break() {
	c.Page++
	c.Y = c.Top
}

// Advance moves down by h, stopping at Bottom.
func (c *Cursor) Advance(h float64) {
	c.Y = min(c.Y+h, c.Bottom)
}
