package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/plans"
)

func planBody(name string, private bool, limit int, dates ...string) map[string]any {
	gatherings := make([]map[string]string, 0, len(dates))
	for _, d := range dates {
		gatherings = append(gatherings, map[string]string{"date": d, "startTime": "19:00"})
	}
	return map[string]any{
		"name":        name,
		"isPrivate":   private,
		"description": name + " at my place",
		"playerLimit": limit,
		"gatherings":  gatherings,
	}
}

func (ts *testServer) createPlan(t *testing.T, token string, body map[string]any) uuid.UUID {
	t.Helper()
	return decode[createdResponse](t, ts.expect(t, http.StatusCreated, http.MethodPost, "/api/plans", token, body)).ID
}

func (ts *testServer) listPlans(t *testing.T, path, token string) []plans.PlanSummary {
	t.Helper()
	return decode[[]plans.PlanSummary](t, ts.expect(t, http.StatusOK, http.MethodGet, path, token, nil))
}

func (ts *testServer) planDetail(t *testing.T, id uuid.UUID, token string) plans.PlanDetail {
	t.Helper()
	return decode[plans.PlanDetail](t, ts.expect(t, http.StatusOK, http.MethodGet, "/api/plans/"+id.String()+"/details", token, nil))
}

func TestCreateAndGetPlan(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Teardown()

	alice, aliceToken := ts.signupAndLogin(t, "alice@example.com")
	_, bobToken := ts.signupAndLogin(t, "bob@example.com")
	game := decode[gameView](t, ts.expect(t, http.StatusCreated, http.MethodPost, "/api/games", aliceToken,
		map[string]any{"name": "Azul", "minPlayer": 2, "maxPlayer": 4}))

	body := planBody("Game night", false, 2, "2025-03-20", "2025-03-12")
	body["gameId"] = game.ID
	id := ts.createPlan(t, aliceToken, body)

	ref := decode[plans.PlanReference](t, ts.expect(t, http.StatusOK, http.MethodGet, "/api/plans/"+id.String(), bobToken, nil))
	if ref.Name != "Game night" || ref.User == nil || *ref.User != alice.ID || ref.Game == nil || *ref.Game != game.ID {
		t.Errorf("Unexpected reference: %+v", ref)
	}

	detail := ts.planDetail(t, id, bobToken)
	if detail.Owner.ID != alice.ID || detail.Game == nil || detail.Game.Name != "Azul" {
		t.Errorf("Unexpected detail: %+v", detail)
	}
	if len(detail.Gatherings) != 2 || detail.Gatherings[0].Date != "2025-03-12" || detail.Gatherings[1].Date != "2025-03-20" {
		t.Fatalf("Expected gatherings ordered by date, got %+v", detail.Gatherings)
	}
	for _, g := range detail.Gatherings {
		if g.ParticipantCount != 1 || g.StartTime != "19:00" {
			t.Errorf("Expected the owner alone at 19:00, got %+v", g)
		}
	}

	t.Run("validation", func(t *testing.T) {
		bad := planBody("Broken", false, 0, "2025-13-40")
		ts.expect(t, http.StatusBadRequest, http.MethodPost, "/api/plans", aliceToken, bad)

		missing := planBody("No privacy flag", false, 0)
		delete(missing, "isPrivate")
		ts.expect(t, http.StatusBadRequest, http.MethodPost, "/api/plans", aliceToken, missing)

		unknownGame := planBody("Unknown game", false, 0)
		unknownGame["gameId"] = uuid.New()
		ts.expect(t, http.StatusNotFound, http.MethodPost, "/api/plans", aliceToken, unknownGame)
	})

	t.Run("lookups", func(t *testing.T) {
		ts.expect(t, http.StatusNotFound, http.MethodGet, "/api/plans/"+uuid.NewString(), aliceToken, nil)
		ts.expect(t, http.StatusBadRequest, http.MethodGet, "/api/plans/nope/details", aliceToken, nil)
		ts.expect(t, http.StatusUnauthorized, http.MethodGet, "/api/plans/"+id.String(), "", nil)
	})
}

func TestPlanListsAndParticipation(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Teardown()

	_, aliceToken := ts.signupAndLogin(t, "alice@example.com")
	_, bobToken := ts.signupAndLogin(t, "bob@example.com")
	_, carolToken := ts.signupAndLogin(t, "carol@example.com")

	id := ts.createPlan(t, aliceToken, planBody("Game night", false, 2, "2025-03-20", "2025-03-12"))
	ts.createPlan(t, aliceToken, planBody("Secret night", true, 0, "2025-03-15"))
	ts.createPlan(t, aliceToken, planBody("Old night", false, 0, "2025-03-01"))

	// Own plans never show up as discoverable, private and past ones never do.
	if got := ts.listPlans(t, "/api/plans", aliceToken); len(got) != 0 {
		t.Errorf("Expected no discoverable plans for the owner, got %d", len(got))
	}
	discoverable := ts.listPlans(t, "/api/plans", bobToken)
	if len(discoverable) != 1 || discoverable[0].ID != id || discoverable[0].OwnerName != "Alice Tester" {
		t.Fatalf("Expected only Game night to be discoverable, got %+v", discoverable)
	}
	if got := ts.listPlans(t, "/api/plans/own", aliceToken); len(got) != 2 || got[0].Name != "Game night" || got[1].Name != "Secret night" {
		t.Errorf("Expected the 2 upcoming owned plans by earliest date, got %+v", got)
	}

	early := ts.planDetail(t, id, bobToken).Gatherings[0]
	joinPath := "/api/gatherings/" + early.ID.String() + "/participants"

	// Join twice is a no-op.
	ts.expect(t, http.StatusNoContent, http.MethodPost, joinPath, bobToken, nil)
	ts.expect(t, http.StatusNoContent, http.MethodPost, joinPath, bobToken, nil)
	if got := ts.planDetail(t, id, bobToken).Gatherings[0].ParticipantCount; got != 2 {
		t.Errorf("Expected 2 participants, got %d", got)
	}

	attending := ts.listPlans(t, "/api/plans/attending", bobToken)
	if len(attending) != 1 || len(attending[0].Gatherings) != 1 || attending[0].Gatherings[0].ID != early.ID {
		t.Errorf("Expected attending to narrow to the joined gathering, got %+v", attending)
	}

	// The limit of 2 is reached.
	ts.expect(t, http.StatusConflict, http.MethodPost, joinPath, carolToken, nil)

	participants := decode[[]plans.UserView](t, ts.expect(t, http.StatusOK, http.MethodGet, "/api/users/plan/"+id.String(), carolToken, nil))
	if len(participants) != 2 || participants[0].Username != "alice" || participants[1].Username != "bob" {
		t.Errorf("Unexpected participants: %+v", participants)
	}

	// Leaving frees the seat.
	ts.expect(t, http.StatusNoContent, http.MethodDelete, joinPath, bobToken, nil)
	ts.expect(t, http.StatusNoContent, http.MethodPost, joinPath, carolToken, nil)
	if got := ts.listPlans(t, "/api/plans/attending", bobToken); len(got) != 0 {
		t.Errorf("Expected bob to attend nothing after leaving, got %+v", got)
	}

	ts.expect(t, http.StatusNotFound, http.MethodPost, "/api/gatherings/"+uuid.NewString()+"/participants", bobToken, nil)
}

func TestUpdateReplaceAndDeletePlan(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Teardown()

	_, aliceToken := ts.signupAndLogin(t, "alice@example.com")
	_, bobToken := ts.signupAndLogin(t, "bob@example.com")

	id := ts.createPlan(t, aliceToken, planBody("Game night", false, 0, "2025-03-20"))
	path := "/api/plans/" + id.String()
	early := ts.planDetail(t, id, bobToken).Gatherings[0]
	ts.expect(t, http.StatusNoContent, http.MethodPost, "/api/gatherings/"+early.ID.String()+"/participants", bobToken, nil)

	update := map[string]any{"name": "Board game night", "isPrivate": true, "description": "", "playerLimit": 6}

	// Only the owner may change the plan.
	ts.expect(t, http.StatusForbidden, http.MethodPut, path, bobToken, update)

	ref := decode[plans.PlanReference](t, ts.expect(t, http.StatusOK, http.MethodPut, path, aliceToken, update))
	if ref.Name != "Board game night" || !ref.IsPrivate || ref.PlayerLimit != 6 || ref.Game != nil {
		t.Errorf("Unexpected reference after update: %+v", ref)
	}
	if got := ts.planDetail(t, id, aliceToken).Gatherings; len(got) != 1 || got[0].ParticipantCount != 2 {
		t.Errorf("Expected update to keep gatherings, got %+v", got)
	}

	replace := map[string]any{"gatherings": []map[string]string{
		{"date": "2025-04-01", "startTime": "18:00"},
		{"date": "2025-03-01", "startTime": "18:00"},
	}}
	ts.expect(t, http.StatusForbidden, http.MethodPut, path+"/gatherings", bobToken, replace)
	ts.expect(t, http.StatusNoContent, http.MethodPut, path+"/gatherings", aliceToken, replace)

	detail := ts.planDetail(t, id, aliceToken)
	if len(detail.Gatherings) != 2 || detail.Gatherings[0].Date != "2025-03-01" {
		t.Fatalf("Unexpected gatherings after replace: %+v", detail.Gatherings)
	}
	for _, g := range detail.Gatherings {
		if g.ParticipantCount != 1 {
			t.Errorf("Expected replaced rosters to hold the owner only, got %+v", g)
		}
	}
	if got := ts.listPlans(t, "/api/plans/attending", bobToken); len(got) != 0 {
		t.Errorf("Expected bob to lose his seat on replace, got %+v", got)
	}

	// Private plans are still reachable by id, past gatherings are closed.
	pastPath := "/api/gatherings/" + detail.Gatherings[0].ID.String() + "/participants"
	ts.expect(t, http.StatusConflict, http.MethodPost, pastPath, bobToken, nil)

	ts.expect(t, http.StatusForbidden, http.MethodDelete, path, bobToken, nil)
	ts.expect(t, http.StatusNoContent, http.MethodDelete, path, aliceToken, nil)
	ts.expect(t, http.StatusNotFound, http.MethodGet, path, aliceToken, nil)
	ts.expect(t, http.StatusNotFound, http.MethodDelete, path, aliceToken, nil)
}
