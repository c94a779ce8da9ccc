package plans

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/shoedler/tabletop-gather/internal/models"
)

// MaxDate is the sort key of a plan without gatherings. It is later than any
// date a gathering can hold, so such plans always sort last.
var MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// SortKey returns the earliest gathering date of plan, or MaxDate when the
// plan has no gatherings.
func SortKey(plan *models.Plan) time.Time {
	key := MaxDate
	for i := range plan.Gatherings {
		if d := plan.Gatherings[i].Date; d.Before(key) {
			key = d
		}
	}
	return key
}

// Discoverable returns the public plans viewerID does not own that have at
// least one upcoming gathering with a free seat.
func Discoverable(plans []*models.Plan, viewerID uuid.UUID, today time.Time) ([]PlanSummary, error) {
	today = models.DateOf(today)
	var kept []*models.Plan
	for _, plan := range plans {
		if plan.Owner == nil {
			return nil, fmt.Errorf("plan %s has no owner: %w", plan.ID, ErrInvariant)
		}
		if plan.IsPrivate || plan.Owner.ID == viewerID {
			continue
		}
		if anyGathering(plan, func(g *models.Gathering) bool {
			return g.Date.After(today) && g.Joinable(plan.PlayerLimit)
		}) {
			kept = append(kept, plan)
		}
	}
	return summarize(kept)
}

// Owned returns the plans having at least one upcoming gathering. Capacity is
// not considered. plans is expected to hold only the viewer's own plans.
func Owned(plans []*models.Plan, today time.Time) ([]PlanSummary, error) {
	today = models.DateOf(today)
	var kept []*models.Plan
	for _, plan := range plans {
		if anyGathering(plan, func(g *models.Gathering) bool { return g.Date.After(today) }) {
			kept = append(kept, plan)
		}
	}
	return summarize(kept)
}

// Attending returns the plans in which viewerID takes part in at least one
// gathering. Each returned plan lists only the gatherings viewerID attends.
// The input plans are not modified. Past gatherings are included; today is
// accepted so all three queries share a signature.
func Attending(plans []*models.Plan, viewerID uuid.UUID, today time.Time) ([]PlanSummary, error) {
	var kept []*models.Plan
	for _, plan := range plans {
		var attended []models.Gathering
		for i := range plan.Gatherings {
			if plan.Gatherings[i].HasParticipant(viewerID) {
				attended = append(attended, plan.Gatherings[i])
			}
		}
		if len(attended) == 0 {
			continue
		}
		narrowed := *plan
		narrowed.Gatherings = attended
		kept = append(kept, &narrowed)
	}
	return summarize(kept)
}

func anyGathering(plan *models.Plan, pred func(*models.Gathering) bool) bool {
	for i := range plan.Gatherings {
		if pred(&plan.Gatherings[i]) {
			return true
		}
	}
	return false
}

// summarize orders plans by SortKey and maps them to summaries. Ties keep
// their input order.
func summarize(plans []*models.Plan) ([]PlanSummary, error) {
	ordered := make([]*models.Plan, len(plans))
	copy(ordered, plans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return SortKey(ordered[i]).Before(SortKey(ordered[j]))
	})

	out := make([]PlanSummary, 0, len(ordered))
	for _, plan := range ordered {
		summary, err := ToSummary(plan)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}
