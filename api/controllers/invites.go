package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/learnloop/community-backend/api/middleware"
	"github.com/learnloop/community-backend/api/responses"
	"github.com/learnloop/community-backend/api/validators"
	"github.com/learnloop/community-backend/internal/invites"
	"github.com/learnloop/community-backend/pkg/enums"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
	"github.com/learnloop/community-backend/pkg/logger"
)

type createInviteRequest struct {
	InviteeID string `json:"invitee_id" validate:"required,uuid"`
}

type resolveInviteRequest struct {
	Decision string `json:"decision" validate:"required"`
}

func InviteCreate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		communityID, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createInviteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inviteeID, err := uuid.Parse(req.InviteeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid invitee_id").
				WithDetails(map[string]any{"field": "invitee_id"}))
			return
		}

		invite, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), communityID, inviteeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invite)
	}
}

func InviteListPending(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pending, err := svc.ListPendingForUser(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pending)
	}
}

func InviteResolve(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inviteID, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req resolveInviteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		decision, err := enums.ParseInviteDecision(req.Decision)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decision").
				WithDetails(map[string]any{"field": "decision"}))
			return
		}

		invite, err := svc.Resolve(r.Context(), inviteID, middleware.UserIDFromContext(r.Context()), decision)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invite)
	}
}

func InviteDelete(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inviteID, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), inviteID, middleware.UserIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
