package integration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"pipelinetracker/internal/blob"
	"pipelinetracker/internal/core"
	"pipelinetracker/internal/intake"
	"pipelinetracker/pkg/domain"
)

// postgresEnv names a database the scenario also runs against when set.
const postgresEnv = "PIPELINE_TEST_POSTGRES_DSN"

type storeVariant struct {
	name string
	url  func(t *testing.T) string
}

type blobVariant struct {
	name string
	open func(t *testing.T) blob.Store
}

func storeVariants() []storeVariant {
	variants := []storeVariant{
		{name: "memory", url: func(*testing.T) string { return "memory://" }},
		{name: "sqlite", url: func(t *testing.T) string {
			return "sqlite://" + filepath.Join(t.TempDir(), "tracker.db")
		}},
	}
	if dsn := os.Getenv(postgresEnv); dsn != "" {
		variants = append(variants, storeVariant{name: "postgres", url: func(*testing.T) string { return dsn }})
	}
	return variants
}

func blobVariants() []blobVariant {
	return []blobVariant{
		{name: "memory", open: func(*testing.T) blob.Store { return blob.NewMemory() }},
		{name: "filesystem", open: func(t *testing.T) blob.Store {
			store, err := blob.NewFilesystem(t.TempDir())
			if err != nil {
				t.Fatalf("filesystem blob: %v", err)
			}
			return store
		}},
		{name: "mock-s3", open: func(t *testing.T) blob.Store {
			store, err := blob.NewMockS3(context.Background())
			if err != nil {
				t.Fatalf("mock s3 blob: %v", err)
			}
			return store
		}},
	}
}

// TestIntegrationSmoke runs one record lifecycle through every combination of
// record store and file store: an actor credited on a method whose detail
// carries a file, then a stage delete that cascades down to the file.
func TestIntegrationSmoke(t *testing.T) {
	for _, sv := range storeVariants() {
		for _, bv := range blobVariants() {
			t.Run(sv.name+"/"+bv.name, func(t *testing.T) {
				runScenario(t, sv, bv)
			})
		}
	}
}

func runScenario(t *testing.T, sv storeVariant, bv blobVariant) {
	ctx := context.Background()
	store, err := core.OpenPersistentStore(ctx, sv.url(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	files := intake.New(bv.open(t))
	reg := prometheus.NewRegistry()
	metrics, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	var spans bytes.Buffer
	tracer := core.NewJSONTracer(&spans, 64)
	svc := core.NewService(store, files, core.WithMetricsRecorder(metrics), core.WithTracer(tracer))

	// Shared databases keep rows from earlier runs; keep names unique.
	suffix := uuid.NewString()
	actor, err := svc.CreateActor(ctx, domain.Actor{ID: "actor-" + suffix, Name: "Ada", Role: "engineer"})
	if err != nil {
		t.Fatalf("create actor: %v", err)
	}
	stage, err := svc.CreateStage(ctx, domain.Stage{Name: "Extraction " + suffix})
	if err != nil {
		t.Fatalf("create stage: %v", err)
	}
	method, err := svc.CreateMethod(ctx, core.MethodInput{StageID: stage.ID, Name: "Parse", ActorIDs: []string{actor.ID}})
	if err != nil {
		t.Fatalf("create method: %v", err)
	}
	if len(method.Actors) != 1 || method.Actors[0].ID != actor.ID {
		t.Fatalf("expected actor link, got %+v", method.Actors)
	}
	payload := "id,value\n1,ok\n"
	detail, err := svc.CreateDetail(ctx, core.DetailInput{
		MethodID: method.ID,
		Name:     "sample",
		Value:    "rows",
		File:     &core.Upload{Filename: "sample.csv", Body: strings.NewReader(payload)},
	})
	if err != nil {
		t.Fatalf("create detail: %v", err)
	}
	if detail.FilePath == nil || !strings.HasSuffix(*detail.FilePath, "_sample.csv") {
		t.Fatalf("unexpected file path %v", detail.FilePath)
	}
	name := path.Base(*detail.FilePath)
	_, rc, err := files.Open(ctx, name)
	if err != nil {
		t.Fatalf("open stored file: %v", err)
	}
	got, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil || string(got) != payload {
		t.Fatalf("stored content mismatch: %q (%v)", got, err)
	}

	removal, err := svc.DeleteStage(ctx, stage.ID)
	if err != nil {
		t.Fatalf("delete stage: %v", err)
	}
	if removal.Stages != 1 || removal.Methods != 1 || removal.Details != 1 || removal.ActorLinks != 1 {
		t.Fatalf("unexpected removal %+v", removal)
	}
	if _, err := svc.GetDetail(ctx, detail.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected detail gone, got %v", err)
	}
	if _, _, err := files.Open(ctx, name); !errors.Is(err, intake.ErrNotFound) {
		t.Fatalf("expected stored file removed, got %v", err)
	}
	if _, err := svc.GetActor(ctx, actor.ID); err != nil {
		t.Fatalf("actor must survive a stage delete: %v", err)
	}
	if _, err := svc.DeleteActor(ctx, actor.ID); err != nil {
		t.Fatalf("delete actor: %v", err)
	}

	if n, err := testutil.GatherAndCount(reg, "pipelinetracker_service_operations_total"); err != nil || n == 0 {
		t.Fatalf("expected operation metrics, got %d (%v)", n, err)
	}
	var deleted bool
	for _, entry := range tracer.Entries() {
		if entry.Operation == core.OpDeleteStage && entry.Status == "success" {
			deleted = true
		}
	}
	if !deleted || spans.Len() == 0 {
		t.Fatalf("expected delete_stage span, entries=%+v", tracer.Entries())
	}
}
