package core

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"pipelinetracker/pkg/domain"
)

func TestCreateStageGeneratesUUID(t *testing.T) {
	svc, _ := newTestService(t)
	stage, err := svc.CreateStage(context.Background(), Stage{ID: "ignored", Name: "Extraction"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(stage.ID); err != nil {
		t.Fatalf("expected uuid id, got %q", stage.ID)
	}
	if stage.Description != nil {
		t.Fatalf("expected nil description, got %v", *stage.Description)
	}
	got, err := svc.GetStage(context.Background(), stage.ID)
	if err != nil || got.Name != "Extraction" {
		t.Fatalf("get: %+v %v", got, err)
	}
}

func TestCreateStageRejectsBlankName(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.CreateStage(context.Background(), Stage{Name: " "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	stages, err := svc.ListStages(context.Background())
	if err != nil || len(stages) != 0 {
		t.Fatalf("expected no stages, got %v %v", stages, err)
	}
}

func TestDuplicateStageNameConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	for _, name := range []string{"Extraction", "Cleaning", "Loading"} {
		mustStage(t, svc, name)
	}
	for _, name := range []string{"Extraction", "Cleaning", "Loading"} {
		if _, err := svc.CreateStage(context.Background(), Stage{Name: name}); !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("%s: expected conflict, got %v", name, err)
		}
	}
}

func TestUpdateStagePartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	stage, err := svc.CreateStage(ctx, Stage{Name: "Extraction", Description: strPtr("pull")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.UpdateStage(ctx, stage.ID, domain.StagePatch{Description: strPtr("pull raw")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Extraction" || *updated.Description != "pull raw" {
		t.Fatalf("unexpected stage %+v", updated)
	}
	if _, err := svc.UpdateStage(ctx, stage.ID, domain.StagePatch{Name: strPtr("")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	if _, err := svc.UpdateStage(ctx, "missing", domain.StagePatch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteStageCascadesAndRemovesFiles(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestService(t)
	actor := mustActor(t, svc, Actor{Name: "Ada"})
	stage := mustStage(t, svc, "Extraction")
	other := mustStage(t, svc, "Cleaning")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse", ActorIDs: []string{actor.ID}})
	kept := mustMethod(t, svc, MethodInput{StageID: other.ID, Name: "Dedupe"})
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "sample", Value: "1", File: upload("a.csv", "a")}); err != nil {
		t.Fatalf("create detail: %v", err)
	}
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "plain", Value: "2"}); err != nil {
		t.Fatalf("create detail: %v", err)
	}

	removal, err := svc.DeleteStage(ctx, stage.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removal.Methods != 1 || removal.Details != 2 || removal.ActorLinks != 1 || len(removal.FilePaths) != 1 {
		t.Fatalf("unexpected removal %+v", removal)
	}
	if files.count() != 0 {
		t.Fatalf("expected stored file removed, %d left", files.count())
	}
	methods, err := svc.ListMethods(ctx)
	if err != nil {
		t.Fatalf("list methods: %v", err)
	}
	if len(methods) != 1 || methods[0].ID != kept.ID {
		t.Fatalf("expected only %s, got %+v", kept.ID, methods)
	}
	if _, err := svc.GetActor(ctx, actor.ID); err != nil {
		t.Fatalf("actor should survive cascade: %v", err)
	}
	if _, err := svc.DeleteStage(ctx, stage.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestDeleteStageLogsCleanupFailure(t *testing.T) {
	ctx := context.Background()
	logger := &captureLogger{}
	svc, files := newTestService(t, WithLogger(logger))
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse"})
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "f", Value: "v", File: upload("f.txt", "x")}); err != nil {
		t.Fatalf("create detail: %v", err)
	}
	files.failRemove = errors.New("permission denied")
	if _, err := svc.DeleteStage(ctx, stage.ID); err != nil {
		t.Fatalf("cleanup failure must not fail delete: %v", err)
	}
	if !logger.has("w:stored file cleanup failed") {
		t.Fatalf("expected cleanup warning, got %v", logger.calls)
	}
}

func TestListStagesOrderedByName(t *testing.T) {
	svc, _ := newTestService(t)
	for _, name := range []string{"Loading", "Extraction", "Cleaning"} {
		mustStage(t, svc, name)
	}
	stages, err := svc.ListStages(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stages) != 3 || stages[0].Name != "Cleaning" || stages[2].Name != "Loading" {
		t.Fatalf("unexpected order %+v", stages)
	}
}
