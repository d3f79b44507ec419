package domain

import "time"

// StagePatch carries the optional stage fields of a partial update. A nil
// field leaves the stored value untouched.
type StagePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Apply copies every present field onto s.
func (p StagePatch) Apply(s *Stage) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = cloneString(p.Description)
	}
}

// MethodPatch carries the optional method fields of a partial update. When
// ActorIDs is present it replaces the whole actor association set.
type MethodPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	ActorIDs    *[]string `json:"actor_ids"`
}

// Apply copies the present scalar fields onto m. Actor links are stored
// separately and are not touched here.
func (p MethodPatch) Apply(m *Method) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = cloneString(p.Description)
	}
}

// DetailPatch carries the optional detail fields of a partial update. The
// stored file cannot be replaced through a patch.
type DetailPatch struct {
	Name        *string `json:"name"`
	Value       *string `json:"value"`
	Description *string `json:"description"`
}

// Apply copies every present field onto d.
func (p DetailPatch) Apply(d *Detail) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.Description != nil {
		d.Description = cloneString(p.Description)
	}
}

// ActorPatch carries the optional actor fields of a partial update. The
// identifier is immutable.
type ActorPatch struct {
	Name          *string    `json:"name"`
	Role          *string    `json:"role"`
	Contributions *string    `json:"contributions"`
	Decisions     *string    `json:"decisions"`
	Reasons       *string    `json:"reasons"`
	Timestamp     *time.Time `json:"timestamp"`
}

// Apply copies every present field onto a.
func (p ActorPatch) Apply(a *Actor) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Role != nil {
		a.Role = *p.Role
	}
	if p.Contributions != nil {
		a.Contributions = cloneString(p.Contributions)
	}
	if p.Decisions != nil {
		a.Decisions = cloneString(p.Decisions)
	}
	if p.Reasons != nil {
		a.Reasons = cloneString(p.Reasons)
	}
	if p.Timestamp != nil {
		a.Timestamp = p.Timestamp.UTC()
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
