package domain

import (
	"context"
	"time"
)

// TransactionView exposes read-only queries available inside a transaction.
// Get* methods return a NotFoundError when the record does not exist.
type TransactionView interface {
	ListStages() ([]Stage, error)
	GetStage(id string) (Stage, error)
	ListMethods() ([]Method, error)
	GetMethod(id string) (Method, error)
	ListDetails() ([]Detail, error)
	GetDetail(id string) (Detail, error)
	ListActors() ([]Actor, error)
	GetActor(id string) (Actor, error)
	// FindActors returns the subset of ids that exist. Unknown ids are skipped.
	FindActors(ids []string) ([]Actor, error)
}

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	TransactionView
	CreateStage(Stage) (Stage, error)
	UpdateStage(id string, mutator func(*Stage) error) (Stage, error)
	DeleteStage(id string) (Removal, error)
	CreateMethod(Method) (Method, error)
	UpdateMethod(id string, mutator func(*Method) error) (Method, error)
	SetMethodActors(methodID string, actorIDs []string) error
	DeleteMethod(id string) (Removal, error)
	CreateDetail(Detail) (Detail, error)
	UpdateDetail(id string, mutator func(*Detail) error) (Detail, error)
	DeleteDetail(id string) (Removal, error)
	CreateActor(Actor) (Actor, error)
	UpdateActor(id string, mutator func(*Actor) error) (Actor, error)
	DeleteActor(id string) (Removal, error)
}

// PersistentStore is a minimal abstraction over durable backends. Every call
// owns its transaction; it is committed when fn returns nil and rolled back
// otherwise.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) error
	View(ctx context.Context, fn func(TransactionView) error) error
	Close() error
}

// Removal summarises the rows removed by a delete, including cascaded
// children, and the stored files the removed details referenced.
type Removal struct {
	Stages     int      `json:"stages"`
	Methods    int      `json:"methods"`
	Details    int      `json:"details"`
	Actors     int      `json:"actors"`
	ActorLinks int      `json:"actor_links"`
	FilePaths  []string `json:"file_paths,omitempty"`
}

// Add accumulates other into r.
func (r *Removal) Add(other Removal) {
	r.Stages += other.Stages
	r.Methods += other.Methods
	r.Details += other.Details
	r.Actors += other.Actors
	r.ActorLinks += other.ActorLinks
	r.FilePaths = append(r.FilePaths, other.FilePaths...)
}

// StoredFile describes a file kept for a detail, addressed by the relative
// path recorded in the detail's file_path.
type StoredFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}
