// food.go implements the fixed food set placed at the start of a round.

package game

import (
	"math/rand"
)

// Food is a single food item. Once Consumed it is never drawn or eaten again.
type Food struct {
	Point
	Consumed bool
}

// FoodSet is a fixed collection of food items. Positions may repeat; items
// are not replenished once eaten.
type FoodSet struct {
	width  int
	height int
	items  []Food
}

func NewFoodSet(width, height, count int) *FoodSet {
	if count < 0 {
		count = 0
	}
	return &FoodSet{
		width:  width,
		height: height,
		items:  make([]Food, count),
	}
}

// Populate places every item at an independent uniform interior position.
// Duplicate positions are kept.
func (f *FoodSet) Populate(rng *rand.Rand) {
	for i := range f.items {
		f.items[i] = Food{Point: randomInterior(rng, f.width, f.height)}
	}
}

// Render stamps every uneaten item onto g.
func (f *FoodSet) Render(g *Grid) error {
	for _, it := range f.items {
		if it.Consumed {
			continue
		}
		if err := g.Stamp(it.Point, CellFood); err != nil {
			return err
		}
	}
	return nil
}

// ConsumeAt marks the first uneaten item at p (in storage order) as eaten and
// reports whether one was found. Other items sharing p stay on the board until
// they are visited separately.
func (f *FoodSet) ConsumeAt(p Point) bool {
	for i := range f.items {
		if f.items[i].Consumed || f.items[i].Point != p {
			continue
		}
		f.items[i].Consumed = true
		return true
	}
	return false
}

// Remaining counts uneaten items.
func (f *FoodSet) Remaining() int {
	n := 0
	for _, it := range f.items {
		if !it.Consumed {
			n++
		}
	}
	return n
}

// Items returns a copy of the items in storage order.
func (f *FoodSet) Items() []Food {
	out := make([]Food, len(f.items))
	copy(out, f.items)
	return out
}

// Place overwrites the items with uneaten food at the given points.
// Used to set up fixed boards.
func (f *FoodSet) Place(points ...Point) {
	f.items = make([]Food, len(points))
	for i, p := range points {
		f.items[i] = Food{Point: p}
	}
}

// randomInterior draws x in [1, width-2] and y in [1, height-2].
func randomInterior(rng *rand.Rand, width, height int) Point {
	return Point{
		X: 1 + rng.Intn(width-2),
		Y: 1 + rng.Intn(height-2),
	}
}
