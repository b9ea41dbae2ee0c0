package domain

// Vinyl is a record owned by exactly one collection at a time.
// collectionID points back at the owner and changes when the vinyl moves.
type Vinyl struct {
	id           string
	title        string
	artist       string
	collectionID string
}

func NewVinyl(id, title, artist, collectionID string) *Vinyl {
	return &Vinyl{id: id, title: title, artist: artist, collectionID: collectionID}
}

func (v *Vinyl) ID() string           { return v.id }
func (v *Vinyl) Title() string        { return v.title }
func (v *Vinyl) Artist() string       { return v.artist }
func (v *Vinyl) CollectionID() string { return v.collectionID }

func (v *Vinyl) SetTitle(title string)               { v.title = title }
func (v *Vinyl) SetArtist(artist string)             { v.artist = artist }
func (v *Vinyl) SetCollectionID(collectionID string) { v.collectionID = collectionID }
