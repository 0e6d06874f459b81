package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/emeraldgavel/auctionhouse-backend/api/responses"
	"github.com/emeraldgavel/auctionhouse-backend/api/validators"
	"github.com/emeraldgavel/auctionhouse-backend/internal/media"
	pkgerrors "github.com/emeraldgavel/auctionhouse-backend/pkg/errors"
	"github.com/emeraldgavel/auctionhouse-backend/pkg/logger"
)

type mediaPresignRequest struct {
	JewelryItemID *uuid.UUID `json:"jewelry_item_id"`
	FileName      string     `json:"file_name" validate:"required"`
	MimeType      string     `json:"mime_type" validate:"required"`
	SizeBytes     int64      `json:"size_bytes" validate:"required,gt=0"`
}

func mediaActor(r *http.Request) (media.Actor, error) {
	userID, role, err := requestActor(r)
	if err != nil {
		return media.Actor{}, err
	}
	return media.Actor{UserID: userID, Role: role}, nil
}

// MediaPresignUpload reserves a media slot and signs a direct upload URL.
func MediaPresignUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		actor, err := mediaActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body mediaPresignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PresignUpload(r.Context(), actor, media.PresignInput{
			JewelryItemID: body.JewelryItemID,
			FileName:      body.FileName,
			MimeType:      body.MimeType,
			SizeBytes:     body.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MediaFinalizeUpload marks an upload complete and records the serving URL.
func MediaFinalizeUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		actor, err := mediaActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mediaID, err := pathUUID(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.FinalizeUpload(r.Context(), actor, mediaID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// MediaListByItem returns the finalized photos of one jewelry item.
func MediaListByItem(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		itemID, err := pathUUID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListByItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// MediaDelete removes a media row and its stored object.
func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		actor, err := mediaActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mediaID, err := pathUUID(r, "mediaId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, mediaID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
