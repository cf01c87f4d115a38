package types

// Item is a stored item. Items are immutable after construction; the
// registry and its callers share the same *Item without copying.
type Item struct {
	id          string
	description string
	location    string
}

// NewItem builds an Item. The id is chosen by the caller and must be
// non-empty; description and location carry no constraints.
// Returns ErrInvalidID if id is empty.
func NewItem(id, description, location string) (*Item, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	return &Item{id: id, description: description, location: location}, nil
}

// ID returns the unique item identifier.
func (i *Item) ID() string { return i.id }

// Description returns the human-readable description used for ordering.
func (i *Item) Description() string { return i.description }

// Location returns the opaque location payload.
func (i *Item) Location() string { return i.location }

// Record returns a serializable copy of the item.
func (i *Item) Record() ItemRecord {
	return ItemRecord{
		ID:          i.id,
		Description: i.description,
		Location:    i.location,
	}
}

// ItemRecord is the wire form of an Item, used for JSONL seed files,
// scenario files, and JSON output.
type ItemRecord struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Location    string `json:"location" yaml:"location"`
}

// Item converts the record into an immutable Item.
// Returns ErrInvalidID if the record has no ID.
func (r ItemRecord) Item() (*Item, error) {
	return NewItem(r.ID, r.Description, r.Location)
}
