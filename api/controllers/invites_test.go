package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/api/middleware"
	"github.com/learnloop/community-backend/internal/invites"
	"github.com/learnloop/community-backend/pkg/enums"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

type testInvitesService struct {
	createFn  func(ctx context.Context, inviterID, communityID, inviteeID uuid.UUID) (*invites.InviteDTO, error)
	resolveFn func(ctx context.Context, inviteID, actingUserID uuid.UUID, decision enums.InviteDecision) (*invites.InviteDTO, error)
	deleteFn  func(ctx context.Context, inviteID, actingUserID uuid.UUID) error
	listFn    func(ctx context.Context, userID uuid.UUID) ([]invites.InviteWithCommunityDTO, error)
}

func (s *testInvitesService) Create(ctx context.Context, inviterID, communityID, inviteeID uuid.UUID) (*invites.InviteDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, inviterID, communityID, inviteeID)
	}
	return nil, nil
}

func (s *testInvitesService) Resolve(ctx context.Context, inviteID, actingUserID uuid.UUID, decision enums.InviteDecision) (*invites.InviteDTO, error) {
	if s.resolveFn != nil {
		return s.resolveFn(ctx, inviteID, actingUserID, decision)
	}
	return nil, nil
}

func (s *testInvitesService) Delete(ctx context.Context, inviteID, actingUserID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, inviteID, actingUserID)
	}
	return nil
}

func (s *testInvitesService) ListPendingForUser(ctx context.Context, userID uuid.UUID) ([]invites.InviteWithCommunityDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID)
	}
	return nil, nil
}

func TestInviteResolveAccept(t *testing.T) {
	inviteID := uuid.New()
	userID := uuid.New()
	svc := &testInvitesService{
		resolveFn: func(ctx context.Context, iid, uid uuid.UUID, decision enums.InviteDecision) (*invites.InviteDTO, error) {
			if iid != inviteID || uid != userID {
				t.Fatalf("unexpected args %s %s", iid, uid)
			}
			if decision != enums.InviteDecisionAccept {
				t.Fatalf("unexpected decision %s", decision)
			}
			return &invites.InviteDTO{ID: iid, InviteeID: uid, Status: enums.InviteStatusAccepted}, nil
		},
	}

	body := strings.NewReader(`{"decision":"accept"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invites/"+inviteID.String()+"/resolve", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	req = addRouteParam(req, "id", inviteID.String())

	resp := httptest.NewRecorder()
	InviteResolve(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data invites.InviteDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != enums.InviteStatusAccepted {
		t.Fatalf("unexpected status %s", envelope.Data.Status)
	}
}

func TestInviteResolveRejectsUnknownDecision(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invites/"+uuid.NewString()+"/resolve", strings.NewReader(`{"decision":"maybe"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	req = addRouteParam(req, "id", uuid.NewString())

	resp := httptest.NewRecorder()
	InviteResolve(&testInvitesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestInviteResolveExpiredMapsToGone(t *testing.T) {
	svc := &testInvitesService{
		resolveFn: func(ctx context.Context, iid, uid uuid.UUID, decision enums.InviteDecision) (*invites.InviteDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeGone, "invite expired")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invites/"+uuid.NewString()+"/resolve", strings.NewReader(`{"decision":"accept"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	req = addRouteParam(req, "id", uuid.NewString())

	resp := httptest.NewRecorder()
	InviteResolve(svc, testLogger())(resp, req)

	if resp.Code != http.StatusGone {
		t.Fatalf("expected 410 got %d", resp.Code)
	}
}

func TestInviteCreateInvalidInvitee(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/communities/"+uuid.NewString()+"/invites", strings.NewReader(`{"invitee_id":"nope"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	req = addRouteParam(req, "id", uuid.NewString())

	resp := httptest.NewRecorder()
	InviteCreate(&testInvitesService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
