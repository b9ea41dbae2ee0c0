package domain

import (
	"context"

	"github.com/cristianortiz/vinylAuction/internal/shared/events"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
)

// VinylCollection is the set of vinyls owned by one user. Its id is the user id.
// Vinyl ids are unique within a collection and vinyls keep insertion order.
type VinylCollection struct {
	events.AggregateRoot

	vinyls []*Vinyl
}

func NewVinylCollection(userID string) *VinylCollection {
	return &VinylCollection{AggregateRoot: events.NewAggregateRoot(userID)}
}

// AddVinyl re-parents v to this collection and appends it.
// A vinyl whose id is already present is rejected.
func (c *VinylCollection) AddVinyl(v *Vinyl) result.Result[*Vinyl] {
	if c.indexOf(v.ID()) >= 0 {
		return result.Fail[*Vinyl](ErrVinylAlreadyExists)
	}
	v.SetCollectionID(c.ID())
	c.vinyls = append(c.vinyls, v)
	return result.Ok(v)
}

// RemoveVinyl removes v if present. Removing an absent vinyl is not an error.
func (c *VinylCollection) RemoveVinyl(v *Vinyl) result.Result[*Vinyl] {
	if i := c.indexOf(v.ID()); i >= 0 {
		c.vinyls = append(c.vinyls[:i], c.vinyls[i+1:]...)
	}
	return result.Ok(v)
}

func (c *VinylCollection) RemoveVinylByID(id string) result.Result[*Vinyl] {
	i := c.indexOf(id)
	if i < 0 {
		return result.Fail[*Vinyl](ErrVinylNotFound)
	}
	v := c.vinyls[i]
	c.vinyls = append(c.vinyls[:i], c.vinyls[i+1:]...)
	return result.Ok(v)
}

// VinylUpdate holds the editable fields of a vinyl.
type VinylUpdate struct {
	Title  string
	Artist string
}

func (c *VinylCollection) UpdateVinyl(id string, u VinylUpdate) result.Result[*Vinyl] {
	i := c.indexOf(id)
	if i < 0 {
		return result.Fail[*Vinyl](ErrVinylNotFound)
	}
	c.vinyls[i].SetTitle(u.Title)
	c.vinyls[i].SetArtist(u.Artist)
	return result.Ok(c.vinyls[i])
}

func (c *VinylCollection) GetVinylByID(id string) result.Result[*Vinyl] {
	i := c.indexOf(id)
	if i < 0 {
		return result.Fail[*Vinyl](ErrVinylNotFound)
	}
	return result.Ok(c.vinyls[i])
}

// Vinyls returns the vinyls in insertion order.
func (c *VinylCollection) Vinyls() []*Vinyl {
	out := make([]*Vinyl, len(c.vinyls))
	copy(out, c.vinyls)
	return out
}

func (c *VinylCollection) Len() int { return len(c.vinyls) }

func (c *VinylCollection) indexOf(id string) int {
	for i, v := range c.vinyls {
		if v.ID() == id {
			return i
		}
	}
	return -1
}

// VinylCollectionRepository stores collections keyed by owning user id.
// GetByUserID returns (nil, nil) when the user has no collection.
type VinylCollectionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*VinylCollection, error)
	Save(ctx context.Context, collection *VinylCollection) error
	// SaveAll persists every collection or none of them.
	SaveAll(ctx context.Context, collections ...*VinylCollection) error
}
