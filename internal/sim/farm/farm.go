package farm

import "farmstead.gg/internal/sim/crops"

// Farm is the fixed-size plot grid. It owns every Crop exclusively: a slot
// goes empty -> occupied only through Plant and occupied -> empty only through
// Harvest (or the reconciliation auto-harvest), never by overwrite.
type Farm struct {
	width  int
	height int
	plots  []*Crop
}

// PlotCrop is one occupied slot in a Crops snapshot.
type PlotCrop struct {
	X    int
	Y    int
	Crop *Crop
}

func NewFarm(width, height int) *Farm {
	return &Farm{
		width:  width,
		height: height,
		plots:  make([]*Crop, width*height),
	}
}

func (f *Farm) Width() int  { return f.width }
func (f *Farm) Height() int { return f.height }

func (f *Farm) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

func (f *Farm) idx(x, y int) int { return y*f.width + x }

// At returns the crop at (x,y), or nil for an empty or out-of-bounds slot.
func (f *Farm) At(x, y int) *Crop {
	if !f.inBounds(x, y) {
		return nil
	}
	return f.plots[f.idx(x, y)]
}

// canPlant checks the slot without mutating, so callers can refuse before
// taking payment.
func (f *Farm) canPlant(x, y int) error {
	if !f.inBounds(x, y) {
		return ErrOutOfBounds
	}
	if f.plots[f.idx(x, y)] != nil {
		return ErrSlotOccupied
	}
	return nil
}

func (f *Farm) Plant(x, y int, def crops.Def, now int64) (*Crop, error) {
	if err := f.canPlant(x, y); err != nil {
		return nil, err
	}
	c, err := newCrop(def, now)
	if err != nil {
		return nil, err
	}
	f.plots[f.idx(x, y)] = c
	return c, nil
}

// Harvest removes and returns a ready crop. Economic effects are the
// caller's job.
func (f *Farm) Harvest(x, y int, now int64) (*Crop, error) {
	if !f.inBounds(x, y) {
		return nil, ErrOutOfBounds
	}
	c := f.plots[f.idx(x, y)]
	if c == nil {
		return nil, ErrEmptySlot
	}
	if !c.Ready(now) {
		return nil, ErrCropNotReady
	}
	f.plots[f.idx(x, y)] = nil
	return c, nil
}

// clear empties a slot unconditionally. Reserved for reconciliation's forced
// auto-harvest; interactive paths go through Harvest.
func (f *Farm) clear(x, y int) {
	if f.inBounds(x, y) {
		f.plots[f.idx(x, y)] = nil
	}
}

// restore places a crop during save import, refusing overwrites like Plant.
func (f *Farm) restore(x, y int, c *Crop) error {
	if err := f.canPlant(x, y); err != nil {
		return err
	}
	f.plots[f.idx(x, y)] = c
	return nil
}

// Crops returns a snapshot of all occupied slots in row-major order. The
// slice is detached from the grid; mutating the farm afterwards does not
// disturb an iteration over it.
func (f *Farm) Crops() []PlotCrop {
	var out []PlotCrop
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			if c := f.plots[f.idx(x, y)]; c != nil {
				out = append(out, PlotCrop{X: x, Y: y, Crop: c})
			}
		}
	}
	return out
}
