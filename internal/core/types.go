package core

import (
	"context"
	"io"

	"pipelinetracker/pkg/domain"
)

type (
	Stage           = domain.Stage
	Method          = domain.Method
	Detail          = domain.Detail
	Actor           = domain.Actor
	Removal         = domain.Removal
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
	StoredFile      = domain.StoredFile
)

// Operation names reported to loggers, metrics and tracers.
const (
	OpCreateStage  = "create_stage"
	OpListStages   = "list_stages"
	OpGetStage     = "get_stage"
	OpUpdateStage  = "update_stage"
	OpDeleteStage  = "delete_stage"
	OpCreateMethod = "create_method"
	OpListMethods  = "list_methods"
	OpGetMethod    = "get_method"
	OpUpdateMethod = "update_method"
	OpDeleteMethod = "delete_method"
	OpCreateDetail = "create_detail"
	OpListDetails  = "list_details"
	OpGetDetail    = "get_detail"
	OpUpdateDetail = "update_detail"
	OpDeleteDetail = "delete_detail"
	OpCreateActor  = "create_actor"
	OpListActors   = "list_actors"
	OpGetActor     = "get_actor"
	OpUpdateActor  = "update_actor"
	OpDeleteActor  = "delete_actor"
	OpSweepFiles   = "sweep_files"
)

// MethodInput carries the fields accepted when creating a method.
type MethodInput struct {
	StageID     string   `json:"stage_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	ActorIDs    []string `json:"actor_ids"`
}

// DetailInput carries the fields accepted when creating a detail. File is
// optional.
type DetailInput struct {
	MethodID    string
	Name        string
	Value       string
	Description *string
	File        *Upload
}

// Upload is a file received alongside a detail.
type Upload struct {
	Filename string
	Body     io.Reader
}

// FileStore keeps the files attached to details. Save returns the relative
// storage path recorded on the detail; List reports every stored file by that
// path.
type FileStore interface {
	Save(ctx context.Context, filename string, body io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
	List(ctx context.Context) ([]StoredFile, error)
}
