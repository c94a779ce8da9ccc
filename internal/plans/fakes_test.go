package plans

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// In-memory repositories. Every read returns a copy, like a database would.

type fakeUsers struct {
	byID map[uuid.UUID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type fakeGames struct {
	byID map[uuid.UUID]*models.Game
}

func newFakeGames(games ...*models.Game) *fakeGames {
	f := &fakeGames{byID: map[uuid.UUID]*models.Game{}}
	for _, g := range games {
		f.byID[g.ID] = g
	}
	return f
}

func (f *fakeGames) FindByID(_ context.Context, id uuid.UUID) (*models.Game, error) {
	g, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

type fakePlans struct {
	users  *fakeUsers
	byID   map[uuid.UUID]*models.Plan
	writes int

	// beforeAdd runs at the start of AddParticipant to stage a concurrent write.
	beforeAdd func(g *models.Gathering)
}

func newFakePlans(users *fakeUsers, plans ...*models.Plan) *fakePlans {
	f := &fakePlans{users: users, byID: map[uuid.UUID]*models.Plan{}}
	for _, p := range plans {
		f.byID[p.ID] = clonePlan(p)
	}
	return f
}

func clonePlan(p *models.Plan) *models.Plan {
	cp := *p
	cp.Gatherings = make([]models.Gathering, len(p.Gatherings))
	for i, g := range p.Gatherings {
		g.Participants = append([]models.User(nil), g.Participants...)
		cp.Gatherings[i] = g
	}
	return &cp
}

func (f *fakePlans) filter(keep func(*models.Plan) bool) []*models.Plan {
	out := []*models.Plan{}
	for _, p := range f.byID {
		if keep(p) {
			out = append(out, clonePlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakePlans) FindAll(_ context.Context) ([]*models.Plan, error) {
	return f.filter(func(*models.Plan) bool { return true }), nil
}

func (f *fakePlans) FindAllPublic(_ context.Context) ([]*models.Plan, error) {
	return f.filter(func(p *models.Plan) bool { return !p.IsPrivate }), nil
}

func (f *fakePlans) FindAllByOwner(_ context.Context, userID uuid.UUID) ([]*models.Plan, error) {
	return f.filter(func(p *models.Plan) bool { return p.Owner != nil && p.Owner.ID == userID }), nil
}

func (f *fakePlans) FindAllByParticipant(_ context.Context, userID uuid.UUID) ([]*models.Plan, error) {
	return f.filter(func(p *models.Plan) bool {
		return anyGathering(p, func(g *models.Gathering) bool { return g.HasParticipant(userID) })
	}), nil
}

func (f *fakePlans) FindByID(_ context.Context, id uuid.UUID) (*models.Plan, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return clonePlan(p), nil
}

func (f *fakePlans) gathering(id uuid.UUID) (*models.Plan, *models.Gathering) {
	for _, p := range f.byID {
		for i := range p.Gatherings {
			if p.Gatherings[i].ID == id {
				return p, &p.Gatherings[i]
			}
		}
	}
	return nil, nil
}

func (f *fakePlans) FindGathering(_ context.Context, id uuid.UUID) (*models.Gathering, error) {
	_, g := f.gathering(id)
	if g == nil {
		return nil, nil
	}
	cp := *g
	cp.Participants = append([]models.User(nil), g.Participants...)
	return &cp, nil
}

func (f *fakePlans) CreatePlan(_ context.Context, plan *models.Plan) error {
	f.writes++
	f.byID[plan.ID] = clonePlan(plan)
	return nil
}

func (f *fakePlans) UpdatePlan(_ context.Context, plan *models.Plan) error {
	f.writes++
	stored := f.byID[plan.ID]
	gatherings := stored.Gatherings
	*stored = *clonePlan(plan)
	stored.Gatherings = gatherings
	return nil
}

func (f *fakePlans) ReplaceGatherings(_ context.Context, planID uuid.UUID, gatherings []models.Gathering) error {
	f.writes++
	f.byID[planID].Gatherings = clonePlan(&models.Plan{Gatherings: gatherings}).Gatherings
	return nil
}

func (f *fakePlans) DeletePlan(_ context.Context, id uuid.UUID) error {
	f.writes++
	delete(f.byID, id)
	return nil
}

func (f *fakePlans) AddParticipant(_ context.Context, gatheringID, userID uuid.UUID) (bool, error) {
	p, g := f.gathering(gatheringID)
	if g != nil && f.beforeAdd != nil {
		f.beforeAdd(g)
	}
	if g == nil || g.HasParticipant(userID) || !g.Joinable(p.PlayerLimit) {
		return false, nil
	}
	f.writes++
	g.Participants = append(g.Participants, *f.users.byID[userID])
	return true, nil
}

func (f *fakePlans) RemoveParticipant(_ context.Context, gatheringID, userID uuid.UUID) error {
	_, g := f.gathering(gatheringID)
	if g == nil {
		return nil
	}
	f.writes++
	kept := g.Participants[:0]
	for _, u := range g.Participants {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	g.Participants = kept
	return nil
}

type fakeComments struct {
	byID map[uuid.UUID]*models.Comment
}

func newFakeComments() *fakeComments {
	return &fakeComments{byID: map[uuid.UUID]*models.Comment{}}
}

func (f *fakeComments) CreateComment(_ context.Context, c *models.Comment) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeComments) FindComment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComments) FindCommentsByPlan(_ context.Context, planID uuid.UUID) ([]*models.Comment, error) {
	out := []*models.Comment{}
	for _, c := range f.byID {
		if c.PlanID == planID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeComments) UpdateComment(_ context.Context, c *models.Comment) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeComments) DeleteComment(_ context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}
