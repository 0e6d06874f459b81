package sellrequests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emeraldgavel/auctionhouse-backend/pkg/db/models"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/enums"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/outbox"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/pagination"
)

type stubSellRequestRepo struct {
	request        *models.SellRequest
	requestUpdates map[string]any
	jewelryUpdates map[string]any
	appraisals     []models.Appraisal
	openRequest    *models.SellRequest

	createJewelryItem func(ctx context.Context, item *models.JewelryItem) (*models.JewelryItem, error)
	createSellRequest func(ctx context.Context, request *models.SellRequest) (*models.SellRequest, error)
}

func (s *stubSellRequestRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubSellRequestRepo) CreateJewelryItem(ctx context.Context, item *models.JewelryItem) (*models.JewelryItem, error) {
	if s.createJewelryItem != nil {
		return s.createJewelryItem(ctx, item)
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return item, nil
}

func (s *stubSellRequestRepo) CreateSellRequest(ctx context.Context, request *models.SellRequest) (*models.SellRequest, error) {
	if s.createSellRequest != nil {
		return s.createSellRequest(ctx, request)
	}
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	return request, nil
}

func (s *stubSellRequestRepo) CreateAppraisal(ctx context.Context, appraisal *models.Appraisal) (*models.Appraisal, error) {
	if appraisal.ID == uuid.Nil {
		appraisal.ID = uuid.New()
	}
	s.appraisals = append(s.appraisals, *appraisal)
	return appraisal, nil
}

func (s *stubSellRequestRepo) FindSellRequest(ctx context.Context, id uuid.UUID) (*models.SellRequest, error) {
	if s.request == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.request, nil
}

func (s *stubSellRequestRepo) FindOpenRequestBySellerAndCode(ctx context.Context, sellerID uuid.UUID, code string) (*models.SellRequest, error) {
	if s.openRequest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.openRequest, nil
}

func (s *stubSellRequestRepo) ListSellRequests(ctx context.Context, params pagination.Params, filters SellRequestFilters) (*SellRequestList, error) {
	return &SellRequestList{}, nil
}

func (s *stubSellRequestRepo) ListAppraisals(ctx context.Context, sellRequestID uuid.UUID) ([]models.Appraisal, error) {
	return s.appraisals, nil
}

func (s *stubSellRequestRepo) UpdateSellRequest(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.requestUpdates = updates
	return nil
}

func (s *stubSellRequestRepo) UpdateJewelryItem(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.jewelryUpdates = updates
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func staffActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleStaff}
}

func pendingRequest(status enums.SellRequestStatus) *models.SellRequest {
	return &models.SellRequest{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		JewelryItemID: uuid.New(),
		Status:        status,
		SubmittedAt:   time.Now().UTC(),
	}
}

func newTestService(t *testing.T, repo Repository) (Service, *stubOutbox) {
	t.Helper()
	ob := &stubOutbox{}
	svc, err := NewService(repo, stubTxRunner{}, ob)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, ob
}

func TestSubmitValidatesPayload(t *testing.T) {
	svc, _ := newTestService(t, &stubSellRequestRepo{})

	_, err := svc.Submit(context.Background(), SubmitInput{
		Actor: Actor{UserID: uuid.New(), Role: enums.UserRoleMember},
		Item:  ItemPayload{Title: "", Description: "desc", Photos: []string{"a.jpg"}},
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Submit(context.Background(), SubmitInput{
		Actor: Actor{UserID: uuid.New(), Role: enums.UserRoleMember},
		Item:  ItemPayload{Title: "Ring", Description: "desc"},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestSubmitCreatesRequestAndEmits(t *testing.T) {
	repo := &stubSellRequestRepo{}
	svc, ob := newTestService(t, repo)

	request, err := svc.Submit(context.Background(), SubmitInput{
		Actor: Actor{UserID: uuid.New(), Role: enums.UserRoleMember},
		Item: ItemPayload{
			Title:       "Art Deco Ring",
			Description: "Platinum, 2.1ct",
			Photos:      []string{"ring-front.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Status != enums.SellRequestStatusSubmitted {
		t.Fatalf("expected SUBMITTED got %s", request.Status)
	}
	if request.JewelryItem == nil || request.JewelryItem.Code == "" {
		t.Fatal("expected generated jewelry code")
	}
	if request.JewelryItem.Status != enums.JewelryStatusPendingAppraisal {
		t.Fatalf("expected PENDING_APPRAISAL got %s", request.JewelryItem.Status)
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventSellRequestSubmitted {
		t.Fatalf("expected submitted event, got %+v", ob.events)
	}
}

func TestSubmitRejectsDuplicateOpenRequest(t *testing.T) {
	repo := &stubSellRequestRepo{openRequest: pendingRequest(enums.SellRequestStatusSubmitted)}
	svc, _ := newTestService(t, repo)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Actor: Actor{UserID: uuid.New(), Role: enums.UserRoleMember},
		Item: ItemPayload{
			Code:        "JWL-TESTCODE",
			Title:       "Ring",
			Description: "desc",
			Photos:      []string{"a.jpg"},
		},
	})
	assertCode(t, err, pkgerrors.CodeBusinessRule)
}

func TestPreliminaryAppraiseAdvancesAndRecords(t *testing.T) {
	repo := &stubSellRequestRepo{request: pendingRequest(enums.SellRequestStatusSubmitted)}
	svc, ob := newTestService(t, repo)

	err := svc.PreliminaryAppraise(context.Background(), AppraiseInput{
		Actor:          staffActor(),
		RequestID:      repo.request.ID,
		EstimatedValue: decimal.NewFromInt(2500),
	})
	if err != nil {
		t.Fatalf("preliminary appraise: %v", err)
	}
	if repo.requestUpdates["status"] != enums.SellRequestStatusPrelimAppraised {
		t.Fatalf("expected PRELIM_APPRAISED got %v", repo.requestUpdates["status"])
	}
	if _, ok := repo.requestUpdates["prelim_appraised_at"]; !ok {
		t.Fatal("expected prelim_appraised_at stamp")
	}
	if len(repo.appraisals) != 1 || repo.appraisals[0].Type != enums.AppraisalTypePreliminary {
		t.Fatalf("expected one PRELIMINARY appraisal, got %+v", repo.appraisals)
	}
	if repo.jewelryUpdates["status"] != enums.JewelryStatusAppraised {
		t.Fatalf("expected jewelry APPRAISED got %v", repo.jewelryUpdates["status"])
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventSellRequestTransitioned {
		t.Fatalf("expected transitioned event, got %+v", ob.events)
	}
}

func TestTransitionOutOfSequenceFails(t *testing.T) {
	repo := &stubSellRequestRepo{request: pendingRequest(enums.SellRequestStatusSubmitted)}
	svc, ob := newTestService(t, repo)

	err := svc.ManagerApprove(context.Background(), ApproveInput{
		Actor:     Actor{UserID: uuid.New(), Role: enums.UserRoleManager},
		RequestID: repo.request.ID,
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
	if repo.requestUpdates != nil {
		t.Fatalf("record must stay unchanged, got updates %+v", repo.requestUpdates)
	}
	if len(ob.events) != 0 {
		t.Fatalf("no event expected, got %+v", ob.events)
	}
}

func TestTransitionRoleGates(t *testing.T) {
	repo := &stubSellRequestRepo{request: pendingRequest(enums.SellRequestStatusSubmitted)}
	svc, _ := newTestService(t, repo)

	err := svc.PreliminaryAppraise(context.Background(), AppraiseInput{
		Actor:          Actor{UserID: uuid.New(), Role: enums.UserRoleMember},
		RequestID:      repo.request.ID,
		EstimatedValue: decimal.NewFromInt(100),
	})
	assertCode(t, err, pkgerrors.CodeForbidden)

	err = svc.ManagerApprove(context.Background(), ApproveInput{
		Actor:     staffActor(),
		RequestID: repo.request.ID,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestSellerAcceptRequiresOwner(t *testing.T) {
	repo := &stubSellRequestRepo{request: pendingRequest(enums.SellRequestStatusManagerApproved)}
	svc, _ := newTestService(t, repo)

	err := svc.SellerAccept(context.Background(), TransitionInput{
		Actor:     Actor{UserID: uuid.New(), Role: enums.UserRoleMember},
		RequestID: repo.request.ID,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)

	err = svc.SellerAccept(context.Background(), TransitionInput{
		Actor:     Actor{UserID: repo.request.SellerID, Role: enums.UserRoleMember},
		RequestID: repo.request.ID,
	})
	if err != nil {
		t.Fatalf("seller accept: %v", err)
	}
	if repo.requestUpdates["status"] != enums.SellRequestStatusSellerAccepted {
		t.Fatalf("expected SELLER_ACCEPTED got %v", repo.requestUpdates["status"])
	}
}

func TestRejectFromSubmittedReturnsJewelry(t *testing.T) {
	repo := &stubSellRequestRepo{request: pendingRequest(enums.SellRequestStatusSubmitted)}
	svc, ob := newTestService(t, repo)

	err := svc.Reject(context.Background(), RejectInput{
		Actor:     staffActor(),
		RequestID: repo.request.ID,
		Reason:    "counterfeit hallmark",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if repo.requestUpdates["status"] != enums.SellRequestStatusRejected {
		t.Fatalf("expected REJECTED got %v", repo.requestUpdates["status"])
	}
	if repo.jewelryUpdates["status"] != enums.JewelryStatusReturned {
		t.Fatalf("expected jewelry RETURNED got %v", repo.jewelryUpdates["status"])
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventSellRequestRejected {
		t.Fatalf("expected rejected event, got %+v", ob.events)
	}
}

func TestRejectTerminalStateFails(t *testing.T) {
	repo := &stubSellRequestRepo{request: pendingRequest(enums.SellRequestStatusRejected)}
	svc, _ := newTestService(t, repo)

	err := svc.Reject(context.Background(), RejectInput{
		Actor:     staffActor(),
		RequestID: repo.request.ID,
		Reason:    "already rejected",
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := &stubSellRequestRepo{request: pendingRequest(enums.SellRequestStatusSubmitted)}
	svc, _ := newTestService(t, repo)

	_, err := svc.Get(context.Background(), GetInput{
		Actor:     Actor{UserID: uuid.New(), Role: enums.UserRoleMember},
		RequestID: repo.request.ID,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)

	detail, err := svc.Get(context.Background(), GetInput{
		Actor:     staffActor(),
		RequestID: repo.request.ID,
	})
	if err != nil {
		t.Fatalf("get as staff: %v", err)
	}
	if detail.Request.ID != repo.request.ID {
		t.Fatal("expected request detail")
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s (%v)", code, typed.Code(), err)
	}
}
