package core

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"pipelinetracker/pkg/domain"
)

func TestCreateDetailStoresFile(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse"})
	detail, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "report", Value: "v1", File: upload("report.csv", "a,b\n")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.FilePath == nil || string(files.files[*detail.FilePath]) != "a,b\n" {
		t.Fatalf("expected stored file, got %+v", detail)
	}
	plain, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "rows", Value: "10"})
	if err != nil {
		t.Fatalf("create plain: %v", err)
	}
	if plain.FilePath != nil {
		t.Fatalf("expected no file path, got %v", *plain.FilePath)
	}
	details, err := svc.ListDetails(ctx)
	if err != nil || len(details) != 2 {
		t.Fatalf("list: %v %v", details, err)
	}
}

func TestCreateDetailValidatesBeforeStoring(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse"})
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "n", File: upload("x", "x")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: "missing", Name: "n", Value: "v", File: upload("x", "x")}); !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	if files.count() != 0 {
		t.Fatalf("no file should be stored for rejected details, got %d", files.count())
	}
}

func TestCreateDetailStorageFailure(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse"})
	boom := errors.New("disk full")
	files.failSave = boom
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "n", Value: "v", File: upload("x", "x")}); !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	details, _ := svc.ListDetails(ctx)
	if len(details) != 0 {
		t.Fatalf("failed upload must not create a record, got %+v", details)
	}
}

// failingDetailStore rejects detail inserts after the file has been stored.
type failingDetailStore struct {
	PersistentStore
	err error
}

func (f failingDetailStore) RunInTransaction(ctx context.Context, fn func(Transaction) error) error {
	return f.PersistentStore.RunInTransaction(ctx, func(tx Transaction) error {
		return fn(failingDetailTx{Transaction: tx, err: f.err})
	})
}

type failingDetailTx struct {
	Transaction
	err error
}

func (f failingDetailTx) CreateDetail(Detail) (Detail, error) { return Detail{}, f.err }

func TestCreateDetailRemovesFileWhenInsertFails(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	files := newMemoryFiles()
	setup := NewService(store, files)
	stage := mustStage(t, setup, "Extraction")
	method := mustMethod(t, setup, MethodInput{StageID: stage.ID, Name: "Parse"})

	boom := errors.New("insert failed")
	svc := NewService(failingDetailStore{PersistentStore: store, err: boom}, files)
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "n", Value: "v", File: upload("x.bin", "x")}); !errors.Is(err, boom) {
		t.Fatalf("expected insert error, got %v", err)
	}
	if files.count() != 0 || len(files.removed) != 1 {
		t.Fatalf("expected compensation removal, files=%d removed=%v", files.count(), files.removed)
	}
}

func TestUpdateDetailPartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse"})
	detail, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "rows", Value: "10", Description: strPtr("count"), File: upload("r.txt", "r")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.UpdateDetail(ctx, detail.ID, domain.DetailPatch{Value: strPtr("12")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Value != "12" || updated.Name != "rows" || *updated.Description != "count" || *updated.FilePath != *detail.FilePath {
		t.Fatalf("unexpected detail %+v", updated)
	}
	if _, err := svc.UpdateDetail(ctx, detail.ID, domain.DetailPatch{Value: strPtr("")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.UpdateDetail(ctx, "missing", domain.DetailPatch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteDetailRemovesFile(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse"})
	detail, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "f", Value: "v", File: upload("f.txt", "x")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.DeleteDetail(ctx, detail.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if files.count() != 0 {
		t.Fatalf("expected file removed")
	}
	if _, err := svc.GetDetail(ctx, detail.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.DeleteDetail(ctx, detail.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

// gatedReader blocks its first Read until release is closed.
type gatedReader struct {
	reading chan struct{}
	release chan struct{}
	once    sync.Once
	done    bool
}

func (g *gatedReader) Read(p []byte) (int, error) {
	g.once.Do(func() { close(g.reading) })
	<-g.release
	if g.done {
		return 0, io.EOF
	}
	g.done = true
	return copy(p, "slow"), nil
}

func TestCreateDetailStoresFileOutsideTransaction(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse"})

	body := &gatedReader{reading: make(chan struct{}), release: make(chan struct{})}
	created := make(chan error, 1)
	go func() {
		_, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "n", Value: "v", File: &Upload{Filename: "slow.bin", Body: body}})
		created <- err
	}()
	<-body.reading

	listed := make(chan error, 1)
	go func() {
		_, err := svc.ListStages(ctx)
		if err == nil {
			_, err = svc.CreateStage(ctx, Stage{Name: "Cleaning"})
		}
		listed <- err
	}()
	select {
	case err := <-listed:
		if err != nil {
			t.Fatalf("concurrent operations: %v", err)
		}
	case <-time.After(2 * time.Second):
		close(body.release)
		t.Fatal("store operations blocked while an upload was streaming")
	}

	close(body.release)
	if err := <-created; err != nil {
		t.Fatalf("create detail: %v", err)
	}
	if files.count() != 1 {
		t.Fatalf("expected stored file, got %d", files.count())
	}
}
