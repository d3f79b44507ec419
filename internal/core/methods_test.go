package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"pipelinetracker/pkg/domain"
)

func TestCreateMethodDropsUnknownActors(t *testing.T) {
	svc, _ := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	ada := mustActor(t, svc, Actor{Name: "Ada"})
	method, err := svc.CreateMethod(context.Background(), MethodInput{
		StageID:  stage.ID,
		Name:     "Parse",
		ActorIDs: []string{ada.ID, "ghost", ada.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(method.Actors) != 1 || method.Actors[0].ID != ada.ID || method.Actors[0].Name != "Ada" {
		t.Fatalf("expected only Ada linked, got %+v", method.Actors)
	}
	if method.StageID != stage.ID || method.Timestamp.IsZero() {
		t.Fatalf("unexpected method %+v", method)
	}
}

func TestCreateMethodStrictActorIDs(t *testing.T) {
	svc, _ := newTestService(t, WithStrictActorIDs(true))
	stage := mustStage(t, svc, "Extraction")
	ada := mustActor(t, svc, Actor{Name: "Ada"})
	_, err := svc.CreateMethod(context.Background(), MethodInput{StageID: stage.ID, Name: "Parse", ActorIDs: []string{ada.ID, "ghost"}})
	var ref domain.ReferenceError
	if !errors.As(err, &ref) || len(ref.IDs) != 1 || ref.IDs[0] != "ghost" || ref.Field != "actor_ids" {
		t.Fatalf("expected reference error for ghost, got %v", err)
	}
	methods, _ := svc.ListMethods(context.Background())
	if len(methods) != 0 {
		t.Fatalf("strict failure must not persist a method, got %+v", methods)
	}
}

func TestCreateMethodUnknownStage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateMethod(context.Background(), MethodInput{StageID: "missing", Name: "Parse"})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected invalid reference, got %v", err)
	}
	if _, err := svc.CreateMethod(context.Background(), MethodInput{Name: "Parse"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing stage id, got %v", err)
	}
}

func TestCreateMethodWithoutActors(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, WithClock(stubClock{t: fixed}))
	stage := mustStage(t, svc, "Extraction")
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse", ActorIDs: []string{}})
	if method.Actors == nil || len(method.Actors) != 0 {
		t.Fatalf("expected empty actors, got %#v", method.Actors)
	}
	if !method.Timestamp.Equal(fixed) {
		t.Fatalf("expected clock timestamp, got %v", method.Timestamp)
	}
}

func TestUpdateMethodReplacesActors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	ada := mustActor(t, svc, Actor{Name: "Ada"})
	grace := mustActor(t, svc, Actor{Name: "Grace"})
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse", Description: strPtr("csv"), ActorIDs: []string{ada.ID}})

	renamed, err := svc.UpdateMethod(ctx, method.ID, domain.MethodPatch{Name: strPtr("Parse CSV")})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "Parse CSV" || *renamed.Description != "csv" || len(renamed.Actors) != 1 {
		t.Fatalf("absent fields must be kept: %+v", renamed)
	}

	ids := []string{grace.ID}
	swapped, err := svc.UpdateMethod(ctx, method.ID, domain.MethodPatch{ActorIDs: &ids})
	if err != nil {
		t.Fatalf("swap actors: %v", err)
	}
	if len(swapped.Actors) != 1 || swapped.Actors[0].ID != grace.ID || swapped.Name != "Parse CSV" {
		t.Fatalf("expected actor set replaced, got %+v", swapped)
	}

	empty := []string{}
	cleared, err := svc.UpdateMethod(ctx, method.ID, domain.MethodPatch{ActorIDs: &empty})
	if err != nil {
		t.Fatalf("clear actors: %v", err)
	}
	if len(cleared.Actors) != 0 {
		t.Fatalf("expected no actors, got %+v", cleared.Actors)
	}

	if _, err := svc.UpdateMethod(ctx, "missing", domain.MethodPatch{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMethod(t *testing.T) {
	ctx := context.Background()
	svc, files := newTestService(t)
	stage := mustStage(t, svc, "Extraction")
	ada := mustActor(t, svc, Actor{Name: "Ada"})
	method := mustMethod(t, svc, MethodInput{StageID: stage.ID, Name: "Parse", ActorIDs: []string{ada.ID}})
	if _, err := svc.CreateDetail(ctx, DetailInput{MethodID: method.ID, Name: "f", Value: "v", File: upload("f.txt", "x")}); err != nil {
		t.Fatalf("create detail: %v", err)
	}
	removal, err := svc.DeleteMethod(ctx, method.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removal.Methods != 1 || removal.Details != 1 || removal.ActorLinks != 1 || files.count() != 0 {
		t.Fatalf("unexpected removal %+v (files left %d)", removal, files.count())
	}
	if _, err := svc.GetStage(ctx, stage.ID); err != nil {
		t.Fatalf("stage must survive method delete: %v", err)
	}
	if _, err := svc.DeleteMethod(ctx, method.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
