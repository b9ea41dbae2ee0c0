package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auctiondomain "github.com/cristianortiz/vinylAuction/internal/auction/domain"
	auctionmem "github.com/cristianortiz/vinylAuction/internal/auction/infra/repository/memory"
	collectiondomain "github.com/cristianortiz/vinylAuction/internal/collection/domain"
	collectionmem "github.com/cristianortiz/vinylAuction/internal/collection/infra/repository/memory"
)

var now = time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	auctions := auctionmem.NewAuctionRepository()
	collections := collectionmem.NewVinylCollectionRepository()
	doc := `{
		"collections": [
			{"userId": "seller", "vinyls": [{"id": "v1", "title": "Pet Sounds", "artist": "The Beach Boys"}]},
			{"userId": "alice", "vinyls": []}
		],
		"auctions": [
			{"id": "a1", "sellerId": "seller", "vinylId": "v1", "startingPrice": "25.00", "endDate": "2023-10-03T00:00:00Z"},
			{"sellerId": "seller", "vinylId": "v1", "startingPrice": 5, "endDate": "2023-10-04T00:00:00Z"}
		]
	}`

	require.NoError(t, Load(ctx, strings.NewReader(doc), auctions, collections, now))

	seller, err := collections.GetByUserID(ctx, "seller")
	require.NoError(t, err)
	require.Equal(t, 1, seller.Len())
	alice, err := collections.GetByUserID(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, alice.Len())

	a, err := auctions.GetByID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, a.StartingPrice().Equal(decimal.RequireFromString("25")))
	assert.Equal(t, auctiondomain.StatusOpen, a.Status())

	due, err := auctions.GetOpenEndedBefore(ctx, now.Add(96*time.Hour))
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "malformed", doc: `{`},
		{
			name:    "duplicate vinyl",
			doc:     `{"collections":[{"userId":"u","vinyls":[{"id":"v"},{"id":"v"}]}]}`,
			wantErr: collectiondomain.ErrVinylAlreadyExists,
		},
		{
			name:    "auction already over",
			doc:     `{"auctions":[{"id":"a","sellerId":"s","vinylId":"v","startingPrice":1,"endDate":"2023-09-01T00:00:00Z"}]}`,
			wantErr: auctiondomain.ErrEndDateNotInFuture,
		},
		{
			name:    "zero starting price",
			doc:     `{"auctions":[{"id":"a","sellerId":"s","vinylId":"v","startingPrice":0,"endDate":"2023-12-01T00:00:00Z"}]}`,
			wantErr: auctiondomain.ErrInvalidStartingPrice,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Load(context.Background(), strings.NewReader(tt.doc), auctionmem.NewAuctionRepository(), collectionmem.NewVinylCollectionRepository(), now)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	err := LoadFile(context.Background(), "does-not-exist.json", auctionmem.NewAuctionRepository(), collectionmem.NewVinylCollectionRepository(), now)
	assert.Error(t, err)
}
