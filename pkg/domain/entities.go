// Package domain defines the pipeline tracking records, the patches used to
// partially update them, and the persistence contracts storage backends satisfy.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record stored in the tracker.
type EntityType string

// Supported entity type identifiers used in errors and logs.
const (
	// EntityStage identifies a top-level pipeline stage.
	EntityStage EntityType = "pipeline_stage"
	// EntityMethod identifies a method within a stage.
	EntityMethod EntityType = "pipeline_method"
	// EntityDetail identifies a recorded parameter or output of a method.
	EntityDetail EntityType = "pipeline_detail"
	// EntityActor identifies a person or role credited on methods.
	EntityActor EntityType = "responsible_actor"
)

// Stage is a top-level pipeline phase. Stage names are unique.
type Stage struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Method is a named technique within a stage, credited to zero or more actors.
type Method struct {
	ID          string    `json:"id"`
	StageID     string    `json:"stage_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Actors      []Actor   `json:"actors"`
}

// ActorIDs returns the identifiers of the actors linked to the method.
func (m Method) ActorIDs() []string {
	ids := make([]string, 0, len(m.Actors))
	for _, a := range m.Actors {
		ids = append(ids, a.ID)
	}
	return ids
}

// Detail is a discrete recorded parameter or output of a method, optionally
// backed by an uploaded file.
type Detail struct {
	ID          string    `json:"id"`
	MethodID    string    `json:"method_id"`
	Name        string    `json:"name"`
	Value       string    `json:"value"`
	Description *string   `json:"description"`
	FilePath    *string   `json:"file_path"`
	Timestamp   time.Time `json:"timestamp"`
}

// Actor is a person or role credited for decisions on one or more methods.
type Actor struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Contributions *string   `json:"contributions"`
	Decisions     *string   `json:"decisions"`
	Reasons       *string   `json:"reasons"`
	Timestamp     time.Time `json:"timestamp"`
}

// Validate checks the required stage fields.
func (s Stage) Validate() error {
	if blank(s.Name) {
		return requiredField(EntityStage, "name")
	}
	return nil
}

// Validate checks the required method fields.
func (m Method) Validate() error {
	if blank(m.Name) {
		return requiredField(EntityMethod, "name")
	}
	if blank(m.StageID) {
		return requiredField(EntityMethod, "stage_id")
	}
	return nil
}

// Validate checks the required detail fields. An empty value is rejected but
// whitespace is kept verbatim.
func (d Detail) Validate() error {
	if blank(d.MethodID) {
		return requiredField(EntityDetail, "method_id")
	}
	if blank(d.Name) {
		return requiredField(EntityDetail, "name")
	}
	if d.Value == "" {
		return requiredField(EntityDetail, "value")
	}
	return nil
}

// Validate checks the required actor fields.
func (a Actor) Validate() error {
	if blank(a.ID) {
		return requiredField(EntityActor, "id")
	}
	if blank(a.Name) {
		return requiredField(EntityActor, "name")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func requiredField(entity EntityType, field string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: "is required"}
}
