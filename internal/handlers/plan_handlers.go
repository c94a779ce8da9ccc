package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
	"github.com/shoedler/tabletop-gather/internal/plans"
)

type createdResponse struct {
	ID uuid.UUID `json:"id"`
}

// ListDiscoverablePlans handles GET /api/plans: public upcoming plans of
// other users that still have a free seat.
func ListDiscoverablePlans(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListDiscoverable(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func ListOwnPlans(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListOwned(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func ListAttendingPlans(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListAttending(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func CreatePlan(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.CreatePlanInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, r, err)
			return
		}
		id, err := svc.Create(r.Context(), input, currentUser(r).ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{ID: id})
	}
}

func GetPlan(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		ref, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ref)
	}
}

func GetPlanDetails(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		detail, err := svc.GetDetail(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

// UpdatePlan overwrites the scalar fields of a plan and answers with its
// reference projection.
func UpdatePlan(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var input models.UpdatePlanInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Update(r.Context(), id, currentUser(r).ID, input); err != nil {
			writeError(w, r, err)
			return
		}
		ref, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ref)
	}
}

func ReplaceGatherings(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var input models.ReplaceGatheringsInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.ReplaceGatherings(r.Context(), id, currentUser(r).ID, input.Gatherings); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeletePlan(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), id, currentUser(r).ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PlanParticipants handles GET /api/users/plan/{planId}.
func PlanParticipants(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "planId")
		if err != nil {
			writeError(w, r, err)
			return
		}
		users, err := svc.Participants(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}
