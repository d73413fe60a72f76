package memory

import (
	"context"
	"sort"

	"mission-quiz-service/internal/domain"
)

// Catalog is an immutable index over a catalog snapshot and implements app.Catalog.
type Catalog struct {
	missions  []domain.Mission
	byID      map[string]domain.Mission
	questions map[string]domain.Question
	byMission map[string][]domain.Question
}

// NewCatalog indexes a private copy of snapshot. Mission order is kept as given;
// questions are sorted by Order. Getters hand out copies.
func NewCatalog(snapshot domain.Catalog) *Catalog {
	c := &Catalog{
		missions:  append([]domain.Mission{}, snapshot.Missions...),
		byID:      make(map[string]domain.Mission, len(snapshot.Missions)),
		questions: make(map[string]domain.Question, len(snapshot.Questions)),
		byMission: make(map[string][]domain.Question),
	}
	for _, m := range snapshot.Missions {
		c.byID[m.ID] = m
	}
	for _, q := range snapshot.Questions {
		q = q.Clone()
		c.questions[q.ID] = q
		c.byMission[q.MissionID] = append(c.byMission[q.MissionID], q)
	}
	for _, qs := range c.byMission {
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	}
	return c
}

func (c *Catalog) ListMissions(context.Context) ([]domain.Mission, error) {
	return append([]domain.Mission{}, c.missions...), nil
}

func (c *Catalog) GetMission(_ context.Context, id string) (domain.Mission, error) {
	m, ok := c.byID[id]
	if !ok {
		return domain.Mission{}, domain.NotFound(domain.EntityMission, id)
	}
	return m, nil
}

func (c *Catalog) ListQuestionsByMission(_ context.Context, missionID string) ([]domain.Question, error) {
	src := c.byMission[missionID]
	out := make([]domain.Question, 0, len(src))
	for _, q := range src {
		out = append(out, q.Clone())
	}
	return out, nil
}

func (c *Catalog) GetQuestion(_ context.Context, id string) (domain.Question, error) {
	q, ok := c.questions[id]
	if !ok {
		return domain.Question{}, domain.NotFound(domain.EntityQuestion, id)
	}
	return q.Clone(), nil
}
