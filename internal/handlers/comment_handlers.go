package handlers

import (
	"net/http"

	"github.com/shoedler/tabletop-gather/internal/models"
	"github.com/shoedler/tabletop-gather/internal/plans"
)

// ListComments returns the comments of a plan, oldest first.
func ListComments(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		comments, err := svc.Comments(r.Context(), planID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)
	}
}

func AddComment(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var input models.CommentInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, r, err)
			return
		}
		comment, err := svc.AddComment(r.Context(), planID, currentUser(r).ID, input.Comment)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)
	}
}

// EditComment replaces a comment's text. Only the author may edit.
func EditComment(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var input models.CommentInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, r, err)
			return
		}
		comment, err := svc.EditComment(r.Context(), id, currentUser(r).ID, input.Comment)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, comment)
	}
}

func DeleteComment(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.DeleteComment(r.Context(), id, currentUser(r).ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
