package plans

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// PlanFields are the scalar fields shared by every plan projection.
type PlanFields struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	IsPrivate   bool      `json:"isPrivate"`
	Description string    `json:"description"`
	PlayerLimit int       `json:"playerLimit"`
}

// PlanReference carries ids only and is echoed by create/update.
type PlanReference struct {
	PlanFields
	User *uuid.UUID `json:"user"`
	Game *uuid.UUID `json:"game"`
}

// PlanSummary is the overview shape returned by the list queries.
type PlanSummary struct {
	PlanFields
	OwnerName  string             `json:"ownerName"`
	Game       *GameSummary       `json:"game,omitempty"`
	Gatherings []GatheringSummary `json:"gatheringDtos"`
}

// PlanDetail exposes fill level per gathering but never attendee identities.
type PlanDetail struct {
	PlanFields
	Owner      UserView          `json:"owner"`
	Game       *GameInfo         `json:"game,omitempty"`
	Gatherings []GatheringDetail `json:"gatherings"`
}

type GameInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
}

type GameSummary struct {
	GameInfo
	MinPlayer int `json:"minPlayer"`
	MaxPlayer int `json:"maxPlayer"`
}

type GatheringSummary struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
}

type GatheringDetail struct {
	GatheringSummary
	ParticipantCount int `json:"participantCount"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

// ToReference maps a plan to its id-only projection.
func ToReference(plan *models.Plan) PlanReference {
	ref := PlanReference{PlanFields: planFields(plan)}
	if plan.Owner != nil {
		id := plan.Owner.ID
		ref.User = &id
	}
	if plan.Game != nil {
		id := plan.Game.ID
		ref.Game = &id
	}
	return ref
}

// ToSummary maps a plan to its overview projection. It fails with
// ErrInvariant when the plan has no owner.
func ToSummary(plan *models.Plan) (PlanSummary, error) {
	if plan.Owner == nil {
		return PlanSummary{}, fmt.Errorf("plan %s has no owner: %w", plan.ID, ErrInvariant)
	}

	summary := PlanSummary{
		PlanFields: planFields(plan),
		OwnerName:  plan.Owner.DisplayName(),
		Gatherings: make([]GatheringSummary, 0, len(plan.Gatherings)),
	}
	if plan.Game != nil {
		summary.Game = &GameSummary{
			GameInfo:  gameInfo(plan.Game),
			MinPlayer: plan.Game.MinPlayer,
			MaxPlayer: plan.Game.MaxPlayer,
		}
	}
	for _, g := range sortedGatherings(plan.Gatherings) {
		summary.Gatherings = append(summary.Gatherings, gatheringSummary(&g))
	}
	return summary, nil
}

// ToDetail maps a plan to its detail projection. It fails with
// ErrInvariant when the plan has no owner.
func ToDetail(plan *models.Plan) (PlanDetail, error) {
	if plan.Owner == nil {
		return PlanDetail{}, fmt.Errorf("plan %s has no owner: %w", plan.ID, ErrInvariant)
	}

	detail := PlanDetail{
		PlanFields: planFields(plan),
		Owner:      ToUserView(plan.Owner),
		Gatherings: make([]GatheringDetail, 0, len(plan.Gatherings)),
	}
	if plan.Game != nil {
		info := gameInfo(plan.Game)
		detail.Game = &info
	}
	for _, g := range sortedGatherings(plan.Gatherings) {
		detail.Gatherings = append(detail.Gatherings, GatheringDetail{
			GatheringSummary: gatheringSummary(&g),
			ParticipantCount: len(g.Participants),
		})
	}
	return detail, nil
}

func ToUserView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func planFields(plan *models.Plan) PlanFields {
	return PlanFields{
		ID:          plan.ID,
		Name:        plan.Name,
		IsPrivate:   plan.IsPrivate,
		Description: plan.Description,
		PlayerLimit: plan.PlayerLimit,
	}
}

func gameInfo(game *models.Game) GameInfo {
	return GameInfo{
		ID:          game.ID,
		Name:        game.Name,
		Description: game.Description,
		ImageURL:    game.ImageURL,
	}
}

func gatheringSummary(g *models.Gathering) GatheringSummary {
	return GatheringSummary{
		ID:        g.ID,
		Date:      g.Date.Format(models.DateLayout),
		StartTime: g.StartTime,
	}
}

// sortedGatherings returns a copy ordered by date, then start time.
func sortedGatherings(gatherings []models.Gathering) []models.Gathering {
	out := make([]models.Gathering, len(gatherings))
	copy(out, gatherings)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}
