// Package seed loads collections and auctions from a JSON file. Auctions are
// created by sellers elsewhere, so local runs need a way to start with data.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	auction "github.com/cristianortiz/vinylAuction/internal/auction/domain"
	collection "github.com/cristianortiz/vinylAuction/internal/collection/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type File struct {
	Collections []Collection `json:"collections"`
	Auctions    []Auction    `json:"auctions"`
}

type Collection struct {
	UserID string  `json:"userId"`
	Vinyls []Vinyl `json:"vinyls"`
}

type Vinyl struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

type Auction struct {
	ID            string          `json:"id"`
	SellerID      string          `json:"sellerId"`
	VinylID       string          `json:"vinylId"`
	StartingPrice decimal.Decimal `json:"startingPrice"`
	EndDate       time.Time       `json:"endDate"`
}

// LoadFile reads path and stores its content through the repositories.
func LoadFile(ctx context.Context, path string, auctions auction.AuctionRepository, collections collection.VinylCollectionRepository, now time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	return Load(ctx, f, auctions, collections, now)
}

// Load decodes a seed document from r. Auctions go through NewAuction, so an
// auction whose end date already passed is rejected.
func Load(ctx context.Context, r io.Reader, auctions auction.AuctionRepository, collections collection.VinylCollectionRepository, now time.Time) error {
	var doc File
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("seed: decode: %w", err)
	}

	built := make([]*collection.VinylCollection, 0, len(doc.Collections))
	for _, c := range doc.Collections {
		vc := collection.NewVinylCollection(c.UserID)
		for _, v := range c.Vinyls {
			if added := vc.AddVinyl(collection.NewVinyl(v.ID, v.Title, v.Artist, c.UserID)); added.IsFailure() {
				return fmt.Errorf("seed: collection %s vinyl %s: %w", c.UserID, v.ID, added.Err())
			}
		}
		built = append(built, vc)
	}
	if err := collections.SaveAll(ctx, built...); err != nil {
		return fmt.Errorf("seed: save collections: %w", err)
	}

	for _, a := range doc.Auctions {
		id := a.ID
		if id == "" {
			id = uuid.NewString()
		}
		created, err := auction.NewAuction(id, a.EndDate, a.StartingPrice, a.SellerID, a.VinylID, now)
		if err != nil {
			return fmt.Errorf("seed: auction %s: %w", id, err)
		}
		if err := auctions.Save(ctx, created); err != nil {
			return fmt.Errorf("seed: save auction %s: %w", id, err)
		}
	}
	return nil
}
