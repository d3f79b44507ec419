// Package memory provides an in-memory implementation of the record store used
// for tests and ephemeral environments.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pipelinetracker/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

// Constraint names reported for violations, matching the SQL schema.
const (
	stageNameKey  = "pipeline_stages_name_key"
	stagePKey     = "pipeline_stages_pkey"
	methodPKey    = "pipeline_methods_pkey"
	detailPKey    = "pipeline_details_pkey"
	actorPKey     = "responsible_actors_pkey"
	methodStageFK = "pipeline_methods_stage_id_fkey"
	detailMethod  = "pipeline_details_method_id_fkey"
	linkActorFK   = "method_actor_association_actor_id_fkey"
	linkMethodFK  = "method_actor_association_method_id_fkey"
)

type memoryState struct {
	stages  map[string]domain.Stage
	methods map[string]domain.Method
	details map[string]domain.Detail
	actors  map[string]domain.Actor
	// links maps a method id to the set of linked actor ids.
	links map[string]map[string]struct{}
}

func newMemoryState() memoryState {
	return memoryState{
		stages:  make(map[string]domain.Stage),
		methods: make(map[string]domain.Method),
		details: make(map[string]domain.Detail),
		actors:  make(map[string]domain.Actor),
		links:   make(map[string]map[string]struct{}),
	}
}

// clone copies the maps. Records are values whose pointer fields are never
// mutated in place, so they are shared.
func (s memoryState) clone() memoryState {
	c := memoryState{
		stages:  make(map[string]domain.Stage, len(s.stages)),
		methods: make(map[string]domain.Method, len(s.methods)),
		details: make(map[string]domain.Detail, len(s.details)),
		actors:  make(map[string]domain.Actor, len(s.actors)),
		links:   make(map[string]map[string]struct{}, len(s.links)),
	}
	for k, v := range s.stages {
		c.stages[k] = v
	}
	for k, v := range s.methods {
		c.methods[k] = v
	}
	for k, v := range s.details {
		c.details[k] = v
	}
	for k, v := range s.actors {
		c.actors[k] = v
	}
	for k, set := range s.links {
		cs := make(map[string]struct{}, len(set))
		for id := range set {
			cs[id] = struct{}{}
		}
		c.links[k] = cs
	}
	return c
}

// Store keeps every record in process memory. Transactions work on a copy of
// the state that replaces it when fn succeeds.
type Store struct {
	mu    sync.RWMutex
	state memoryState
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

// RunInTransaction executes fn against a copy of the state and commits it
// when fn returns nil.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{transactionView{state: s.state.clone()}}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// View executes fn against a read-only snapshot.
func (s *Store) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(transactionView{state: s.state})
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

type transactionView struct {
	state memoryState
}

type transaction struct {
	transactionView
}

func violation(kind domain.ConstraintKind, constraint, msg string) error {
	return &domain.ConstraintError{Kind: kind, Constraint: constraint, Err: errors.New(msg)}
}

func (v transactionView) ListStages() ([]domain.Stage, error) {
	out := make([]domain.Stage, 0, len(v.state.stages))
	for _, s := range v.state.stages {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (v transactionView) GetStage(id string) (domain.Stage, error) {
	s, ok := v.state.stages[id]
	if !ok {
		return domain.Stage{}, domain.NotFoundError{Entity: domain.EntityStage, ID: id}
	}
	return s, nil
}

func (v transactionView) ListMethods() ([]domain.Method, error) {
	out := make([]domain.Method, 0, len(v.state.methods))
	for _, m := range v.state.methods {
		out = append(out, v.decorate(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (v transactionView) GetMethod(id string) (domain.Method, error) {
	m, ok := v.state.methods[id]
	if !ok {
		return domain.Method{}, domain.NotFoundError{Entity: domain.EntityMethod, ID: id}
	}
	return v.decorate(m), nil
}

// decorate attaches the linked actors ordered by name.
func (v transactionView) decorate(m domain.Method) domain.Method {
	m.Actors = make([]domain.Actor, 0, len(v.state.links[m.ID]))
	for actorID := range v.state.links[m.ID] {
		if a, ok := v.state.actors[actorID]; ok {
			m.Actors = append(m.Actors, a)
		}
	}
	sortActors(m.Actors)
	return m
}

func (v transactionView) ListDetails() ([]domain.Detail, error) {
	out := make([]domain.Detail, 0, len(v.state.details))
	for _, d := range v.state.details {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (v transactionView) GetDetail(id string) (domain.Detail, error) {
	d, ok := v.state.details[id]
	if !ok {
		return domain.Detail{}, domain.NotFoundError{Entity: domain.EntityDetail, ID: id}
	}
	return d, nil
}

func (v transactionView) ListActors() ([]domain.Actor, error) {
	out := make([]domain.Actor, 0, len(v.state.actors))
	for _, a := range v.state.actors {
		out = append(out, a)
	}
	sortActors(out)
	return out, nil
}

func (v transactionView) GetActor(id string) (domain.Actor, error) {
	a, ok := v.state.actors[id]
	if !ok {
		return domain.Actor{}, domain.NotFoundError{Entity: domain.EntityActor, ID: id}
	}
	return a, nil
}

// FindActors returns the existing actors among ids in the order first
// requested. Repeated and unknown ids are skipped.
func (v transactionView) FindActors(ids []string) ([]domain.Actor, error) {
	out := make([]domain.Actor, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if a, ok := v.state.actors[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func sortActors(actors []domain.Actor) {
	sort.Slice(actors, func(i, j int) bool {
		if actors[i].Name != actors[j].Name {
			return actors[i].Name < actors[j].Name
		}
		return actors[i].ID < actors[j].ID
	})
}

func (tx *transaction) stageNameTaken(name, except string) bool {
	for id, s := range tx.state.stages {
		if id != except && s.Name == name {
			return true
		}
	}
	return false
}

func (tx *transaction) CreateStage(s domain.Stage) (domain.Stage, error) {
	if _, exists := tx.state.stages[s.ID]; exists {
		return domain.Stage{}, violation(domain.ConstraintUnique, stagePKey, "duplicate stage id "+s.ID)
	}
	if tx.stageNameTaken(s.Name, "") {
		return domain.Stage{}, violation(domain.ConstraintUnique, stageNameKey, "duplicate stage name "+s.Name)
	}
	tx.state.stages[s.ID] = s
	return s, nil
}

func (tx *transaction) UpdateStage(id string, mutator func(*domain.Stage) error) (domain.Stage, error) {
	current, err := tx.GetStage(id)
	if err != nil {
		return domain.Stage{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Stage{}, err
	}
	current.ID = id
	if tx.stageNameTaken(current.Name, id) {
		return domain.Stage{}, violation(domain.ConstraintUnique, stageNameKey, "duplicate stage name "+current.Name)
	}
	tx.state.stages[id] = current
	return current, nil
}

// DeleteStage removes the stage with its methods, their details and their
// actor links.
func (tx *transaction) DeleteStage(id string) (domain.Removal, error) {
	if _, ok := tx.state.stages[id]; !ok {
		return domain.Removal{}, domain.NotFoundError{Entity: domain.EntityStage, ID: id}
	}
	var removal domain.Removal
	for _, methodID := range tx.methodsOf(id) {
		removal.Add(tx.removeMethod(methodID))
	}
	delete(tx.state.stages, id)
	removal.Stages = 1
	return removal, nil
}

func (tx *transaction) methodsOf(stageID string) []string {
	var ids []string
	for id, m := range tx.state.methods {
		if m.StageID == stageID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// removeMethod deletes a method with its details and links and reports the
// files of the removed details in id order.
func (tx *transaction) removeMethod(methodID string) domain.Removal {
	var removal domain.Removal
	var detailIDs []string
	for id, d := range tx.state.details {
		if d.MethodID == methodID {
			detailIDs = append(detailIDs, id)
		}
	}
	sort.Strings(detailIDs)
	for _, id := range detailIDs {
		if fp := tx.state.details[id].FilePath; fp != nil {
			removal.FilePaths = append(removal.FilePaths, *fp)
		}
		delete(tx.state.details, id)
		removal.Details++
	}
	removal.ActorLinks = len(tx.state.links[methodID])
	delete(tx.state.links, methodID)
	delete(tx.state.methods, methodID)
	removal.Methods = 1
	return removal
}

// CreateMethod inserts the method and links it to m.Actors.
func (tx *transaction) CreateMethod(m domain.Method) (domain.Method, error) {
	if _, exists := tx.state.methods[m.ID]; exists {
		return domain.Method{}, violation(domain.ConstraintUnique, methodPKey, "duplicate method id "+m.ID)
	}
	if _, ok := tx.state.stages[m.StageID]; !ok {
		return domain.Method{}, violation(domain.ConstraintForeignKey, methodStageFK, "unknown stage "+m.StageID)
	}
	actorIDs := m.ActorIDs()
	m.Actors = nil
	m.Timestamp = m.Timestamp.UTC()
	tx.state.methods[m.ID] = m
	if err := tx.SetMethodActors(m.ID, actorIDs); err != nil {
		return domain.Method{}, err
	}
	return tx.GetMethod(m.ID)
}

// UpdateMethod rewrites the method fields. Actor links are managed through
// SetMethodActors.
func (tx *transaction) UpdateMethod(id string, mutator func(*domain.Method) error) (domain.Method, error) {
	current, err := tx.GetMethod(id)
	if err != nil {
		return domain.Method{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Method{}, err
	}
	current.ID = id
	if _, ok := tx.state.stages[current.StageID]; !ok {
		return domain.Method{}, violation(domain.ConstraintForeignKey, methodStageFK, "unknown stage "+current.StageID)
	}
	current.Actors = nil
	tx.state.methods[id] = current
	return tx.GetMethod(id)
}

// SetMethodActors replaces the method's actor links. Repeated ids are linked once.
func (tx *transaction) SetMethodActors(methodID string, actorIDs []string) error {
	if _, ok := tx.state.methods[methodID]; !ok {
		return violation(domain.ConstraintForeignKey, linkMethodFK, "unknown method "+methodID)
	}
	set := make(map[string]struct{}, len(actorIDs))
	for _, actorID := range actorIDs {
		if _, ok := tx.state.actors[actorID]; !ok {
			return violation(domain.ConstraintForeignKey, linkActorFK, "unknown actor "+actorID)
		}
		set[actorID] = struct{}{}
	}
	tx.state.links[methodID] = set
	return nil
}

// DeleteMethod removes the method with its details and actor links.
func (tx *transaction) DeleteMethod(id string) (domain.Removal, error) {
	if _, ok := tx.state.methods[id]; !ok {
		return domain.Removal{}, domain.NotFoundError{Entity: domain.EntityMethod, ID: id}
	}
	return tx.removeMethod(id), nil
}

func (tx *transaction) CreateDetail(d domain.Detail) (domain.Detail, error) {
	if _, exists := tx.state.details[d.ID]; exists {
		return domain.Detail{}, violation(domain.ConstraintUnique, detailPKey, "duplicate detail id "+d.ID)
	}
	if _, ok := tx.state.methods[d.MethodID]; !ok {
		return domain.Detail{}, violation(domain.ConstraintForeignKey, detailMethod, "unknown method "+d.MethodID)
	}
	d.Timestamp = d.Timestamp.UTC()
	tx.state.details[d.ID] = d
	return d, nil
}

func (tx *transaction) UpdateDetail(id string, mutator func(*domain.Detail) error) (domain.Detail, error) {
	current, err := tx.GetDetail(id)
	if err != nil {
		return domain.Detail{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Detail{}, err
	}
	current.ID = id
	tx.state.details[id] = current
	return current, nil
}

// DeleteDetail removes a single detail and reports its stored file, if any.
func (tx *transaction) DeleteDetail(id string) (domain.Removal, error) {
	d, err := tx.GetDetail(id)
	if err != nil {
		return domain.Removal{}, err
	}
	delete(tx.state.details, id)
	removal := domain.Removal{Details: 1}
	if d.FilePath != nil {
		removal.FilePaths = []string{*d.FilePath}
	}
	return removal, nil
}

func (tx *transaction) CreateActor(a domain.Actor) (domain.Actor, error) {
	if _, exists := tx.state.actors[a.ID]; exists {
		return domain.Actor{}, violation(domain.ConstraintUnique, actorPKey, "duplicate actor id "+a.ID)
	}
	a.Timestamp = a.Timestamp.UTC()
	tx.state.actors[a.ID] = a
	return a, nil
}

func (tx *transaction) UpdateActor(id string, mutator func(*domain.Actor) error) (domain.Actor, error) {
	current, err := tx.GetActor(id)
	if err != nil {
		return domain.Actor{}, err
	}
	if err := mutator(&current); err != nil {
		return domain.Actor{}, err
	}
	current.ID = id
	current.Timestamp = current.Timestamp.UTC()
	tx.state.actors[id] = current
	return current, nil
}

// DeleteActor removes the actor and unlinks it from every method.
func (tx *transaction) DeleteActor(id string) (domain.Removal, error) {
	if _, ok := tx.state.actors[id]; !ok {
		return domain.Removal{}, domain.NotFoundError{Entity: domain.EntityActor, ID: id}
	}
	var removal domain.Removal
	for _, set := range tx.state.links {
		if _, linked := set[id]; linked {
			delete(set, id)
			removal.ActorLinks++
		}
	}
	delete(tx.state.actors, id)
	removal.Actors = 1
	return removal, nil
}
