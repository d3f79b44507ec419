package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pipelinetracker/pkg/domain"
)

func strPtr(s string) *string { return &s }

var seedTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func run(t *testing.T, store *Store, fn func(domain.Transaction) error) {
	t.Helper()
	if err := store.RunInTransaction(context.Background(), fn); err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func view(t *testing.T, store *Store, fn func(domain.TransactionView) error) {
	t.Helper()
	if err := store.View(context.Background(), fn); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func seed(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	run(t, store, func(tx domain.Transaction) error {
		for _, a := range []domain.Actor{
			{ID: "a2", Name: "Grace", Role: "lead", Timestamp: seedTime},
			{ID: "a1", Name: "Ada", Timestamp: seedTime},
		} {
			if _, err := tx.CreateActor(a); err != nil {
				return err
			}
		}
		for _, s := range []domain.Stage{
			{ID: "s1", Name: "Extraction"},
			{ID: "s2", Name: "Cleaning", Description: strPtr("dedupe")},
		} {
			if _, err := tx.CreateStage(s); err != nil {
				return err
			}
		}
		for _, m := range []domain.Method{
			{ID: "m1", StageID: "s1", Name: "Parse", Timestamp: seedTime, Actors: []domain.Actor{{ID: "a1"}, {ID: "a2"}}},
			{ID: "m2", StageID: "s2", Name: "Dedupe", Timestamp: seedTime.Add(time.Minute), Actors: []domain.Actor{{ID: "a1"}}},
		} {
			if _, err := tx.CreateMethod(m); err != nil {
				return err
			}
		}
		for _, d := range []domain.Detail{
			{ID: "d1", MethodID: "m1", Name: "encoding", Value: "utf-8", FilePath: strPtr("uploads/x_report.csv"), Timestamp: seedTime},
			{ID: "d2", MethodID: "m2", Name: "key", Value: "email", Timestamp: seedTime},
		} {
			if _, err := tx.CreateDetail(d); err != nil {
				return err
			}
		}
		return nil
	})
	return store
}

func TestReadsAreOrdered(t *testing.T) {
	store := seed(t)
	view(t, store, func(v domain.TransactionView) error {
		stages, _ := v.ListStages()
		if len(stages) != 2 || stages[0].Name != "Cleaning" || stages[1].Name != "Extraction" {
			t.Fatalf("stages not ordered by name: %+v", stages)
		}
		methods, _ := v.ListMethods()
		if len(methods) != 2 || methods[0].ID != "m1" || methods[1].ID != "m2" {
			t.Fatalf("methods not ordered by timestamp: %+v", methods)
		}
		if len(methods[0].Actors) != 2 || methods[0].Actors[0].Name != "Ada" || methods[0].Actors[1].Role != "lead" {
			t.Fatalf("actors not ordered by name: %+v", methods[0].Actors)
		}
		actors, _ := v.ListActors()
		if len(actors) != 2 || actors[0].ID != "a1" {
			t.Fatalf("unexpected actors %+v", actors)
		}
		details, _ := v.ListDetails()
		if len(details) != 2 || details[0].ID != "d1" {
			t.Fatalf("unexpected details %+v", details)
		}
		found, _ := v.FindActors([]string{"a2", "ghost", "a2", "a1"})
		if len(found) != 2 || found[0].ID != "a2" || found[1].ID != "a1" {
			t.Fatalf("unexpected found actors %+v", found)
		}
		return nil
	})
}

func TestMethodWithoutActorsHasEmptySlice(t *testing.T) {
	store := NewStore()
	run(t, store, func(tx domain.Transaction) error {
		if _, err := tx.CreateStage(domain.Stage{ID: "s1", Name: "Extraction"}); err != nil {
			return err
		}
		m, err := tx.CreateMethod(domain.Method{ID: "m1", StageID: "s1", Name: "Parse", Timestamp: time.Now()})
		if err != nil {
			return err
		}
		if m.Actors == nil || len(m.Actors) != 0 {
			t.Fatalf("expected empty non-nil actors, got %#v", m.Actors)
		}
		return nil
	})
}

func TestMissingRecords(t *testing.T) {
	store := seed(t)
	view(t, store, func(v domain.TransactionView) error {
		if _, err := v.GetStage("x"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("stage: %v", err)
		}
		if _, err := v.GetMethod("x"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("method: %v", err)
		}
		if _, err := v.GetDetail("x"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("detail: %v", err)
		}
		if _, err := v.GetActor("x"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("actor: %v", err)
		}
		return nil
	})
	deletes := map[string]func(domain.Transaction) (domain.Removal, error){
		"stage":  func(tx domain.Transaction) (domain.Removal, error) { return tx.DeleteStage("x") },
		"method": func(tx domain.Transaction) (domain.Removal, error) { return tx.DeleteMethod("x") },
		"detail": func(tx domain.Transaction) (domain.Removal, error) { return tx.DeleteDetail("x") },
		"actor":  func(tx domain.Transaction) (domain.Removal, error) { return tx.DeleteActor("x") },
	}
	for name, del := range deletes {
		err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
			_, err := del(tx)
			return err
		})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("delete %s: expected not found, got %v", name, err)
		}
	}
}

func TestConstraintViolations(t *testing.T) {
	store := seed(t)
	cases := map[string]struct {
		fn         func(domain.Transaction) error
		sentinel   error
		constraint string
	}{
		"duplicate stage name": {func(tx domain.Transaction) error {
			_, err := tx.CreateStage(domain.Stage{ID: "s3", Name: "Extraction"})
			return err
		}, domain.ErrConflict, stageNameKey},
		"rename onto existing stage": {func(tx domain.Transaction) error {
			_, err := tx.UpdateStage("s2", func(s *domain.Stage) error { s.Name = "Extraction"; return nil })
			return err
		}, domain.ErrConflict, stageNameKey},
		"duplicate actor id": {func(tx domain.Transaction) error {
			_, err := tx.CreateActor(domain.Actor{ID: "a1", Name: "Other"})
			return err
		}, domain.ErrConflict, actorPKey},
		"orphan method": {func(tx domain.Transaction) error {
			_, err := tx.CreateMethod(domain.Method{ID: "m9", StageID: "missing", Name: "x"})
			return err
		}, domain.ErrInvalidReference, methodStageFK},
		"orphan detail": {func(tx domain.Transaction) error {
			_, err := tx.CreateDetail(domain.Detail{ID: "d9", MethodID: "missing", Name: "n", Value: "v"})
			return err
		}, domain.ErrInvalidReference, detailMethod},
		"unknown linked actor": {func(tx domain.Transaction) error {
			return tx.SetMethodActors("m1", []string{"ghost"})
		}, domain.ErrInvalidReference, linkActorFK},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := store.RunInTransaction(context.Background(), tc.fn)
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
			var ce *domain.ConstraintError
			if !errors.As(err, &ce) || ce.Constraint != tc.constraint {
				t.Fatalf("expected constraint %s, got %+v", tc.constraint, ce)
			}
		})
	}
	run(t, store, func(tx domain.Transaction) error {
		_, err := tx.UpdateStage("s1", func(s *domain.Stage) error { s.Description = strPtr("kept name"); return nil })
		return err
	})
}

func TestDeleteStageCascades(t *testing.T) {
	store := seed(t)
	var removal domain.Removal
	run(t, store, func(tx domain.Transaction) error {
		var err error
		removal, err = tx.DeleteStage("s1")
		return err
	})
	if removal.Stages != 1 || removal.Methods != 1 || removal.Details != 1 || removal.ActorLinks != 2 {
		t.Fatalf("unexpected removal %+v", removal)
	}
	if len(removal.FilePaths) != 1 || removal.FilePaths[0] != "uploads/x_report.csv" {
		t.Fatalf("unexpected file paths %v", removal.FilePaths)
	}
	view(t, store, func(v domain.TransactionView) error {
		methods, _ := v.ListMethods()
		if len(methods) != 1 || methods[0].ID != "m2" {
			t.Fatalf("expected only m2, got %+v", methods)
		}
		if _, err := v.GetDetail("d1"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected d1 removed, got %v", err)
		}
		if actors, _ := v.ListActors(); len(actors) != 2 {
			t.Fatalf("actors must survive the cascade: %+v", actors)
		}
		return nil
	})
}

func TestDeleteActorUnlinks(t *testing.T) {
	store := seed(t)
	var removal domain.Removal
	run(t, store, func(tx domain.Transaction) error {
		var err error
		removal, err = tx.DeleteActor("a1")
		return err
	})
	if removal.Actors != 1 || removal.ActorLinks != 2 {
		t.Fatalf("unexpected removal %+v", removal)
	}
	view(t, store, func(v domain.TransactionView) error {
		m, _ := v.GetMethod("m1")
		if len(m.Actors) != 1 || m.Actors[0].ID != "a2" {
			t.Fatalf("unexpected actors after delete %+v", m.Actors)
		}
		return nil
	})
}

func TestDeleteDetailReportsFile(t *testing.T) {
	store := seed(t)
	run(t, store, func(tx domain.Transaction) error {
		removal, err := tx.DeleteDetail("d1")
		if err != nil {
			return err
		}
		if removal.Details != 1 || len(removal.FilePaths) != 1 {
			t.Fatalf("unexpected removal %+v", removal)
		}
		removal, err = tx.DeleteDetail("d2")
		if err != nil {
			return err
		}
		if removal.FilePaths != nil {
			t.Fatalf("detail without file reported %v", removal.FilePaths)
		}
		return nil
	})
}

func TestUpdatesAndActorSets(t *testing.T) {
	store := seed(t)
	later := seedTime.Add(time.Hour)
	run(t, store, func(tx domain.Transaction) error {
		if _, err := tx.UpdateMethod("m1", func(m *domain.Method) error { m.Name = "Parse CSV"; return nil }); err != nil {
			return err
		}
		if err := tx.SetMethodActors("m1", []string{"a2", "a2"}); err != nil {
			return err
		}
		if _, err := tx.UpdateDetail("d2", func(d *domain.Detail) error { d.Value = "phone"; return nil }); err != nil {
			return err
		}
		_, err := tx.UpdateActor("a1", func(a *domain.Actor) error { a.Timestamp = later; a.ID = "hijack"; return nil })
		return err
	})
	view(t, store, func(v domain.TransactionView) error {
		m, _ := v.GetMethod("m1")
		if m.Name != "Parse CSV" || len(m.Actors) != 1 || m.Actors[0].ID != "a2" {
			t.Fatalf("unexpected method %+v", m)
		}
		if d, _ := v.GetDetail("d2"); d.Value != "phone" {
			t.Fatalf("unexpected detail %+v", d)
		}
		a, err := v.GetActor("a1")
		if err != nil || !a.Timestamp.Equal(later) {
			t.Fatalf("unexpected actor %+v (%v)", a, err)
		}
		return nil
	})
}

func TestFailedTransactionLeavesStateUntouched(t *testing.T) {
	store := seed(t)
	boom := errors.New("boom")
	err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateStage(domain.Stage{ID: "s3", Name: "Loading"}); err != nil {
			return err
		}
		if _, err := tx.DeleteActor("a1"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	view(t, store, func(v domain.TransactionView) error {
		if _, err := v.GetStage("s3"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected s3 rolled back, got %v", err)
		}
		if m, _ := v.GetMethod("m1"); len(m.Actors) != 2 {
			t.Fatalf("expected links restored, got %+v", m.Actors)
		}
		return nil
	})
}

func TestCancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.RunInTransaction(ctx, func(domain.Transaction) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if err := store.View(ctx, func(domain.TransactionView) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestConcurrentDuplicateNames(t *testing.T) {
	store := NewStore()
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		conflicts int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
				_, err := tx.CreateStage(domain.Stage{ID: string(rune('a' + i)), Name: "Extraction"})
				return err
			})
			if errors.Is(err, domain.ErrConflict) {
				mu.Lock()
				conflicts++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if conflicts != 9 {
		t.Fatalf("expected 9 conflicts, got %d", conflicts)
	}
}
