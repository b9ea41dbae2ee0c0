package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianortiz/vinylAuction/internal/auction/application"
	"github.com/cristianortiz/vinylAuction/internal/auction/domain"
	"github.com/cristianortiz/vinylAuction/internal/shared/result"
	"github.com/cristianortiz/vinylAuction/internal/shared/websocket"
)

type fakeAuctionService struct {
	mu       sync.Mutex
	placed   []application.PlaceBidDTO
	placeErr error
}

func (f *fakeAuctionService) PlaceBid(_ context.Context, cmd application.PlaceBidDTO) result.Result[domain.Bid] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placed = append(f.placed, cmd)
	if f.placeErr != nil {
		return result.Fail[domain.Bid](f.placeErr)
	}
	return result.Ok(domain.Bid{ID: "bid-1", BidderID: cmd.BidderID, Amount: cmd.Amount, Date: time.Now()})
}

func (f *fakeAuctionService) FinishAuction(context.Context, application.FinishAuctionDTO) result.Result[*domain.Auction] {
	return result.Fail[*domain.Auction](domain.ErrAuctionNotEnded)
}

func (f *fakeAuctionService) GetAuction(_ context.Context, id string) result.Result[*application.AuctionStateDTO] {
	return result.Ok(&application.AuctionStateDTO{AuctionID: id, Status: "open", CurrentPrice: decimal.NewFromInt(150)})
}

func (f *fakeAuctionService) bids() []application.PlaceBidDTO {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]application.PlaceBidDTO(nil), f.placed...)
}

// runHub starts a hub and registers one connection for alice on it.
func runHub(t *testing.T) (*websocket.Hub, *websocket.Client) {
	t.Helper()
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	client := websocket.NewClient(hub, nil, "alice", "c1")
	hub.RegisterClient(client)
	require.Eventually(t, func() bool { return hub.IsConnected("alice") }, time.Second, 5*time.Millisecond)
	return hub, client
}

func reply(t *testing.T, c *websocket.Client) map[string]any {
	t.Helper()
	select {
	case data := <-c.Send:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no reply sent")
		return nil
	}
}

func TestProcessMessage_ClientBid(t *testing.T) {
	svc := &fakeAuctionService{}
	hub, client := runHub(t)
	h := NewAuctionWSHandler(svc, hub)

	h.processMessage(context.Background(), client, []byte(`{"type":"client_bid","payload":{"auction_id":"a1","amount":"150.50"}}`))

	require.Len(t, svc.placed, 1)
	assert.Equal(t, "a1", svc.placed[0].AuctionID)
	assert.Equal(t, "alice", svc.placed[0].BidderID)
	assert.True(t, svc.placed[0].Amount.Equal(decimal.RequireFromString("150.50")))

	msg := reply(t, client)
	assert.Equal(t, string(MessageTypeServerAuctionUpdate), msg["type"])
	assert.Equal(t, "a1", msg["payload"].(map[string]any)["auction_id"])
}

func TestProcessMessage_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		placeErr error
		want     string
	}{
		{name: "malformed json", data: `{`, want: "invalid message format"},
		{name: "unknown type", data: `{"type":"client_chat"}`, want: "unknown message type"},
		{name: "missing auction id", data: `{"type":"client_bid","payload":{"amount":10}}`, want: "auction_id is required"},
		{name: "bad amount", data: `{"type":"client_bid","payload":{"auction_id":"a1","amount":"ten"}}`, want: "invalid bid message format"},
		{
			name:     "rejected bid",
			data:     `{"type":"client_bid","payload":{"auction_id":"a1","amount":10}}`,
			placeErr: domain.ErrBidAmountTooLow,
			want:     "Bid amount must be higher than the current price.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub, client := runHub(t)
			h := NewAuctionWSHandler(&fakeAuctionService{placeErr: tt.placeErr}, hub)

			h.processMessage(context.Background(), client, []byte(tt.data))

			msg := reply(t, client)
			assert.Equal(t, string(MessageTypeServerError), msg["type"])
			assert.Equal(t, tt.want, msg["payload"].(map[string]any)["error"])
		})
	}
}

func TestListenForMessages_KeepsFrameOrder(t *testing.T) {
	svc := &fakeAuctionService{}
	hub, client := runHub(t)
	h := NewAuctionWSHandler(svc, hub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.ListenForMessages(ctx)

	amounts := []string{"110", "120", "130", "140", "150"}
	for _, a := range amounts {
		hub.InboundMessages <- &websocket.ClientMessage{
			Client: client,
			Data:   []byte(`{"type":"client_bid","payload":{"auction_id":"a1","amount":"` + a + `"}}`),
		}
	}

	require.Eventually(t, func() bool { return len(svc.bids()) == len(amounts) }, time.Second, 5*time.Millisecond)
	for i, b := range svc.bids() {
		assert.True(t, b.Amount.Equal(decimal.RequireFromString(amounts[i])), "bid %d out of order: %s", i, b.Amount)
	}
}

func TestSendToClient_UnregisteredClientIsDropped(t *testing.T) {
	hub, _ := runHub(t)
	h := NewAuctionWSHandler(&fakeAuctionService{}, hub)
	stranger := websocket.NewClient(hub, nil, "bob", "c2")

	h.sendErrorToClient(stranger, "nope")

	assert.Empty(t, stranger.Send)
}
