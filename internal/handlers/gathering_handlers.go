package handlers

import (
	"net/http"

	"github.com/shoedler/tabletop-gather/internal/plans"
)

// JoinGathering adds the caller to a gathering's roster.
// Full or past gatherings answer 409.
func JoinGathering(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Join(r.Context(), id, currentUser(r).ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func LeaveGathering(svc *plans.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := svc.Leave(r.Context(), id, currentUser(r).ID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
