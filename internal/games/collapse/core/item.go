package core

// ItemID is the stable identity of a pooled item.
type ItemID uint32

// Item is a board piece. Items are allocated once by a Pool and recycled.
// Colour and identity never change; address, tier and position change while
// the item is active.
type Item struct {
	id       ItemID
	color    Color
	owner    *Pool
	active   bool
	tier     Tier
	addr     Address
	pos      Vec2
	rotation float64
}

// ID returns the item's pool identity.
func (it *Item) ID() ItemID { return it.id }

// Color returns the item's colour.
func (it *Item) Color() Color { return it.color }

// Active reports whether the item is out of the pool.
func (it *Item) Active() bool { return it.active }

// Tier returns the current severity tier.
func (it *Item) Tier() Tier { return it.tier }

// Address returns the cell the item occupies.
func (it *Item) Address() Address { return it.addr }

// Position returns the item's resting world position.
func (it *Item) Position() Vec2 { return it.pos }

// Rotation returns the item's rotation in degrees.
func (it *Item) Rotation() float64 { return it.rotation }

// View is an immutable copy of an item's visible state, handed to listeners.
type View struct {
	ID       ItemID
	Color    Color
	Tier     Tier
	Address  Address
	Position Vec2
}

// View captures the item's current state.
func (it *Item) View() View {
	return View{
		ID:       it.id,
		Color:    it.color,
		Tier:     it.tier,
		Address:  it.addr,
		Position: it.pos,
	}
}
