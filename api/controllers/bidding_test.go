package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emeraldgavel/auctionhouse-backend/internal/bidding"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
)

type testBiddingService struct {
	placeBidFn func(ctx context.Context, input bidding.PlaceBidInput) (*models.Bid, error)
	highestFn  func(ctx context.Context, itemID uuid.UUID) (*bidding.AmountView, error)
}

func (s *testBiddingService) PlaceBid(ctx context.Context, input bidding.PlaceBidInput) (*models.Bid, error) {
	if s.placeBidFn != nil {
		return s.placeBidFn(ctx, input)
	}
	return &models.Bid{ID: uuid.New()}, nil
}

func (s *testBiddingService) CurrentWinner(ctx context.Context, itemID uuid.UUID) (*models.Bid, error) {
	return &models.Bid{}, nil
}

func (s *testBiddingService) HighestAmount(ctx context.Context, itemID uuid.UUID) (*bidding.AmountView, error) {
	if s.highestFn != nil {
		return s.highestFn(ctx, itemID)
	}
	return &bidding.AmountView{}, nil
}

func (s *testBiddingService) ListBids(ctx context.Context, input bidding.ListInput) (*bidding.BidList, error) {
	return &bidding.BidList{}, nil
}

func (s *testBiddingService) CloseItem(ctx context.Context, input bidding.CloseItemInput) (*bidding.CloseResult, error) {
	return &bidding.CloseResult{}, nil
}

func TestBidPlaceSuccess(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	amount := decimal.RequireFromString("1200.00")
	called := false
	svc := &testBiddingService{
		placeBidFn: func(ctx context.Context, input bidding.PlaceBidInput) (*models.Bid, error) {
			called = true
			if input.Actor.UserID != userID {
				t.Fatalf("unexpected bidder %s", input.Actor.UserID)
			}
			if input.ItemID != itemID {
				t.Fatalf("unexpected item %s", input.ItemID)
			}
			if !input.Amount.Equal(amount) {
				t.Fatalf("unexpected amount %s", input.Amount)
			}
			return &models.Bid{ID: uuid.New(), Amount: input.Amount}, nil
		},
	}

	body := strings.NewReader(`{"amount":"1200.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lots/"+itemID.String()+"/bids", body)
	req.Header.Set("Content-Type", "application/json")
	req = withActor(req, userID, enums.UserRoleMember)
	req = addRouteParam(req, "itemId", itemID.String())

	resp := httptest.NewRecorder()
	BidPlace(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestBidPlaceRejectsMissingAmount(t *testing.T) {
	itemID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lots/"+itemID.String()+"/bids", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = withActor(req, uuid.New(), enums.UserRoleMember)
	req = addRouteParam(req, "itemId", itemID.String())

	resp := httptest.NewRecorder()
	BidPlace(&testBiddingService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBidPlaceRejectsInvalidItemID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lots/invalid/bids", strings.NewReader(`{"amount":"100"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withActor(req, uuid.New(), enums.UserRoleMember)
	req = addRouteParam(req, "itemId", "invalid")

	resp := httptest.NewRecorder()
	BidPlace(&testBiddingService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBidHighestDoesNotRequireActor(t *testing.T) {
	itemID := uuid.New()
	svc := &testBiddingService{
		highestFn: func(ctx context.Context, id uuid.UUID) (*bidding.AmountView, error) {
			if id != itemID {
				t.Fatalf("unexpected item %s", id)
			}
			return &bidding.AmountView{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lots/"+itemID.String()+"/highest", nil)
	req = addRouteParam(req, "itemId", itemID.String())
	resp := httptest.NewRecorder()
	BidHighest(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
