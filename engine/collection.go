package engine

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/kamstrup/intmap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type entityRecord struct {
	id            EntityId
	entity        Entity
	caps          Capability
	postActivated bool
	garbage       bool
}

// EntityCollection owns the live entities of a scene and drives their frame
// lifecycle: draining suppliers, activation, updates, collision checks and
// garbage collection. It is not safe for concurrent use; call every method
// from the frame thread.
type EntityCollection struct {
	processor *LifecycleProcessor
	services  *Services
	logger    *zap.Logger

	records map[Entity]*entityRecord
	byId    *intmap.Map[EntityId, *entityRecord]
	nextId  EntityId

	// Partitions, each in activation order.
	all          []*entityRecord
	updatables   []*entityRecord
	statics      []*entityRecord
	colliders    []*entityRecord
	collideds    []*entityRecord
	keyListeners []*entityRecord

	suppliers []*EntitySupplier
	spawners  []*Spawner

	master       *Updater
	sceneUpdater *Updater

	cmds     *commands
	batch    []Entity
	phase    Phase
	timings  *frameTimings
	frameErr error
	removals int
}

// NewEntityCollection creates an empty collection. scene is used by border
// watchers and may be nil. A nil services registry is replaced by an empty one.
func NewEntityCollection(scene SceneProvider, services *Services) *EntityCollection {
	if services == nil {
		services = NewServices()
	}

	c := &EntityCollection{
		processor:    NewLifecycleProcessor(scene),
		services:     services,
		logger:       zap.NewNop(),
		records:      make(map[Entity]*entityRecord),
		byId:         intmap.New[EntityId, *entityRecord](256),
		sceneUpdater: NewUpdater(),
		cmds:         newCommands(),
		timings:      newFrameTimings(),
	}

	c.master = NewUpdater()
	c.master.Add(UpdateFunc(c.tickSpawners))
	c.master.Add(UpdateFunc(c.updateScene))
	c.master.Add(UpdateFunc(c.updateEntities))
	return c
}

// SetLogger replaces the logger. A nil logger disables logging.
func (c *EntityCollection) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// Services returns the registry handed to Initializable entities.
func (c *EntityCollection) Services() *Services {
	return c.services
}

// Processor returns the lifecycle processor used for activation.
func (c *EntityCollection) Processor() *LifecycleProcessor {
	return c.processor
}

// Add queues an entity for activation at the start of the next frame. It
// returns false when the entity is already queued. Non-pointer entities panic
// with ErrNotPointer.
func (c *EntityCollection) Add(e Entity) bool {
	return c.cmds.Add(e)
}

// Remove marks a live entity for removal. It is skipped for the rest of the
// current frame and excised during the next garbage collection. Removing an
// entity twice, or one that is not live, returns false.
func (c *EntityCollection) Remove(e Entity) bool {
	if checkEntity(e) != nil {
		return false
	}
	rec, ok := c.records[e]
	if !ok || rec.garbage {
		return false
	}
	rec.garbage = true
	c.removals++
	c.cmds.Remove(rec)
	return true
}

// Defer schedules fn to run at the end of the next garbage collection, after
// the entities marked for removal are gone.
func (c *EntityCollection) Defer(fn func()) {
	c.cmds.Defer(fn)
}

// RegisterSupplier adds a supplier that is drained every frame. Suppliers are
// deduplicated by identity; it returns false for a known or nil supplier.
func (c *EntityCollection) RegisterSupplier(s *EntitySupplier) bool {
	if s == nil || slices.Contains(c.suppliers, s) {
		return false
	}
	c.suppliers = append(c.suppliers, s)
	return true
}

// UnregisterSupplier stops draining s. Entities still queued in it stay there.
func (c *EntityCollection) UnregisterSupplier(s *EntitySupplier) bool {
	i := slices.Index(c.suppliers, s)
	if i < 0 {
		return false
	}
	c.suppliers = slices.Delete(c.suppliers, i, i+1)
	return true
}

// AddSpawner registers a spawner. Spawners tick before any other update and
// their supplier is drained like any registered supplier.
func (c *EntityCollection) AddSpawner(s *Spawner) bool {
	if s == nil || slices.Contains(c.spawners, s) {
		return false
	}
	c.spawners = append(c.spawners, s)
	c.RegisterSupplier(s.Supplier())
	return true
}

// RemoveSpawner unregisters a spawner and its supplier.
func (c *EntityCollection) RemoveSpawner(s *Spawner) bool {
	i := slices.Index(c.spawners, s)
	if i < 0 {
		return false
	}
	c.spawners = slices.Delete(c.spawners, i, i+1)
	c.UnregisterSupplier(s.Supplier())
	return true
}

// AddUpdatable registers a scene-level updatable that runs after the spawners
// and before the entities.
func (c *EntityCollection) AddUpdatable(u Updatable, runFirst bool) {
	c.sceneUpdater.AddUpdatable(u, runFirst)
}

// NotifyPressedKeys delivers keys to every live key listener. A failing
// listener does not stop delivery to the others.
func (c *EntityCollection) NotifyPressedKeys(keys []ebiten.Key) error {
	var errs error
	for _, rec := range c.keyListeners {
		if rec.garbage {
			continue
		}
		listener := rec.entity.(KeyListener)
		err := protect(func() error {
			listener.OnPressedKeysChange(keys)
			return nil
		})
		if err != nil {
			errs = multierr.Append(errs, c.entityError(rec.id, rec.entity, c.phase, err))
		}
	}
	return errs
}

// Update runs one frame at timestamp (nanoseconds). Failures of individual
// entities never abort the frame; they are collected and returned together.
func (c *EntityCollection) Update(timestamp int64) error {
	c.frameErr = nil

	for i, phase := range framePhases {
		c.phase = phase
		start := time.Now()

		switch phase {
		case PhaseDraining:
			c.drain()
		case PhaseActivating:
			c.activateBatch()
		case PhaseUpdating:
			c.runUpdates(timestamp)
		case PhaseCollisionChecking:
			c.checkCollisions()
		case PhaseGarbageCollecting:
			c.collectGarbage()
		}

		c.timings.record(i, time.Since(start))
	}
	c.phase = PhaseIdle
	c.timings.frames++

	err := c.frameErr
	c.frameErr = nil
	if err != nil {
		c.timings.errors += int64(len(multierr.Errors(err)))
	}
	return err
}

func (c *EntityCollection) drain() {
	batch := c.cmds.takeAdds()
	for _, s := range c.suppliers {
		batch = append(batch, s.Drain()...)
	}
	c.batch = batch
}

func (c *EntityCollection) activateBatch() {
	batch := c.batch
	c.batch = nil
	for _, e := range batch {
		if err := c.activate(e); err != nil {
			c.fail(0, e, err)
		}
	}
}

func (c *EntityCollection) activate(e Entity) error {
	if err := checkEntity(e); err != nil {
		return err
	}
	if _, ok := c.records[e]; ok {
		return nil
	}

	caps := c.processor.Capabilities(e)

	if r, ok := e.(Removable); ok {
		err := protect(func() error {
			r.BindRemover(func() { c.Remove(e) })
			return nil
		})
		if err != nil {
			return err
		}
	}

	if in, ok := e.(Initializable); ok {
		if err := protect(func() error { return in.Init(c.services) }); err != nil {
			return &ConfigurationError{EntityType: typeName(e), Role: RoleInit, Hook: "Init", Err: err}
		}
	}

	c.nextId++
	rec := &entityRecord{
		id:     c.nextId,
		entity: e,
		caps:   caps,
	}
	c.records[e] = rec
	c.byId.Put(rec.id, rec)
	c.partition(rec)

	// Hooks see the entity as live, so a hook may already remove it.
	if err := c.processor.InvokeActivators(e); err != nil {
		c.rollback(rec)
		return err
	}
	if err := c.processor.ConfigureUpdateDelegators(e); err != nil {
		c.rollback(rec)
		return err
	}

	c.logger.Debug("entity activated",
		zap.Uint64("id", uint64(rec.id)),
		zap.String("type", typeName(e)),
		zap.Stringer("capabilities", caps),
	)
	return nil
}

// rollback undoes a failed activation. The record is always the latest one,
// so its id is handed out again.
func (c *EntityCollection) rollback(rec *entityRecord) {
	delete(c.records, rec.entity)
	c.byId.Del(rec.id)
	c.nextId--

	drop := func(r *entityRecord) bool { return r == rec }
	c.all = slices.DeleteFunc(c.all, drop)
	c.updatables = slices.DeleteFunc(c.updatables, drop)
	c.statics = slices.DeleteFunc(c.statics, drop)
	c.colliders = slices.DeleteFunc(c.colliders, drop)
	c.collideds = slices.DeleteFunc(c.collideds, drop)
	c.keyListeners = slices.DeleteFunc(c.keyListeners, drop)
	c.cmds.removes = slices.DeleteFunc(c.cmds.removes, drop)
}

func (c *EntityCollection) partition(rec *entityRecord) {
	c.all = append(c.all, rec)
	if rec.caps.Static() {
		c.statics = append(c.statics, rec)
	} else {
		c.updatables = append(c.updatables, rec)
	}
	if rec.caps.Has(CapCollider) {
		c.colliders = append(c.colliders, rec)
	}
	if rec.caps.Has(CapCollided) {
		c.collideds = append(c.collideds, rec)
	}
	if rec.caps.Has(CapKeyListener) {
		c.keyListeners = append(c.keyListeners, rec)
	}
}

func (c *EntityCollection) runUpdates(timestamp int64) {
	c.master.Update(timestamp)

	for _, rec := range c.statics {
		if rec.garbage || rec.postActivated {
			continue
		}
		c.postActivate(rec)
	}
}

func (c *EntityCollection) tickSpawners(timestamp int64) {
	for _, s := range slices.Clone(c.spawners) {
		if err := protect(func() error { s.Update(timestamp); return nil }); err != nil {
			c.frameErr = multierr.Append(c.frameErr, fmt.Errorf("spawner: %w", err))
		}
	}
}

func (c *EntityCollection) updateScene(timestamp int64) {
	if err := protect(func() error { c.sceneUpdater.Update(timestamp); return nil }); err != nil {
		c.frameErr = multierr.Append(c.frameErr, fmt.Errorf("scene updatable: %w", err))
	}
}

func (c *EntityCollection) updateEntities(timestamp int64) {
	for _, rec := range c.updatables {
		if rec.garbage {
			continue
		}
		u := rec.entity.(Updatable)
		if err := protect(func() error { u.Update(timestamp); return nil }); err != nil {
			c.fail(rec.id, rec.entity, err)
			continue
		}
		if !rec.postActivated && !rec.garbage {
			c.postActivate(rec)
		}
	}
}

func (c *EntityCollection) postActivate(rec *entityRecord) {
	rec.postActivated = true
	if err := c.processor.InvokePostActivators(rec.entity); err != nil {
		c.fail(rec.id, rec.entity, err)
	}
}

func (c *EntityCollection) checkCollisions() {
	if len(c.collideds) == 0 || len(c.colliders) == 0 {
		return
	}

	colliders := c.liveColliders()
	seen := c.removals
	for _, rec := range c.collideds {
		if rec.garbage {
			continue
		}
		if seen != c.removals {
			colliders = c.liveColliders()
			seen = c.removals
		}
		collided := rec.entity.(Collided)
		if err := protect(func() error { CheckForCollisions(collided, colliders); return nil }); err != nil {
			c.fail(rec.id, rec.entity, err)
		}
	}
}

func (c *EntityCollection) liveColliders() []Collider {
	colliders := make([]Collider, 0, len(c.colliders))
	for _, rec := range c.colliders {
		if !rec.garbage {
			colliders = append(colliders, rec.entity.(Collider))
		}
	}
	return colliders
}

func (c *EntityCollection) collectGarbage() {
	removed := 0
	c.cmds.Flush(
		func(rec *entityRecord) {
			delete(c.records, rec.entity)
			c.byId.Del(rec.id)
			removed++
		},
		func(fn func()) {
			if err := protect(func() error { fn(); return nil }); err != nil {
				c.frameErr = multierr.Append(c.frameErr, fmt.Errorf("deferred callback: %w", err))
			}
		},
	)
	if removed == 0 {
		return
	}

	c.all = excise(c.all)
	c.updatables = excise(c.updatables)
	c.statics = excise(c.statics)
	c.colliders = excise(c.colliders)
	c.collideds = excise(c.collideds)
	c.keyListeners = excise(c.keyListeners)

	c.logger.Debug("entities removed", zap.Int("count", removed))
}

func excise(records []*entityRecord) []*entityRecord {
	return slices.DeleteFunc(records, func(rec *entityRecord) bool {
		return rec.garbage
	})
}

func (c *EntityCollection) fail(id EntityId, e Entity, err error) {
	c.frameErr = multierr.Append(c.frameErr, c.entityError(id, e, c.phase, err))
}

func (c *EntityCollection) entityError(id EntityId, e Entity, phase Phase, err error) error {
	c.logger.Debug("entity failed",
		zap.Uint64("id", uint64(id)),
		zap.String("type", typeName(e)),
		zap.Stringer("phase", phase),
		zap.Error(err),
	)
	return &EntityError{Id: id, Entity: e, Phase: phase, Err: err}
}

// Entities yields every activated entity in activation order, including those
// marked for removal but not yet collected.
func (c *EntityCollection) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, rec := range slices.Clone(c.all) {
			if !yield(rec.entity) {
				return
			}
		}
	}
}

// Lookup returns the entity activated with id.
func (c *EntityCollection) Lookup(id EntityId) (Entity, bool) {
	rec, ok := c.byId.Get(id)
	if !ok {
		return nil, false
	}
	return rec.entity, true
}

// IdOf returns the id assigned to e at activation.
func (c *EntityCollection) IdOf(e Entity) (EntityId, bool) {
	if checkEntity(e) != nil {
		return 0, false
	}
	rec, ok := c.records[e]
	if !ok {
		return 0, false
	}
	return rec.id, true
}

// CapabilitiesOf returns the capabilities of a live entity.
func (c *EntityCollection) CapabilitiesOf(e Entity) (Capability, bool) {
	if checkEntity(e) != nil {
		return 0, false
	}
	rec, ok := c.records[e]
	if !ok {
		return 0, false
	}
	return rec.caps, true
}

// Contains reports whether e is activated and not yet collected.
func (c *EntityCollection) Contains(e Entity) bool {
	_, ok := c.IdOf(e)
	return ok
}

// Phase returns the phase currently executing, or PhaseIdle between frames.
func (c *EntityCollection) Phase() Phase {
	return c.phase
}

// Statistics returns the current partition sizes.
func (c *EntityCollection) Statistics() Statistics {
	return Statistics{
		Suppliers:    len(c.suppliers),
		Updatables:   len(c.updatables),
		KeyListeners: len(c.keyListeners),
		Garbage:      len(c.cmds.removes),
		Statics:      len(c.statics),
		Colliders:    len(c.colliders),
		Collideds:    len(c.collideds),
		Entities:     len(c.all),
	}
}

// FrameStats returns phase timings accumulated since creation or the last
// ResetFrameStats.
func (c *EntityCollection) FrameStats() FrameStats {
	return c.timings.snapshot()
}

// ResetFrameStats discards the accumulated phase timings.
func (c *EntityCollection) ResetFrameStats() {
	c.timings.reset()
}

// Destroy drops every entity, supplier, spawner and pending command without
// running any hook. The collection can be reused afterwards.
func (c *EntityCollection) Destroy() {
	clear(c.records)
	c.byId.Clear()
	c.all = nil
	c.updatables = nil
	c.statics = nil
	c.colliders = nil
	c.collideds = nil
	c.keyListeners = nil
	c.suppliers = nil
	c.spawners = nil
	c.batch = nil
	c.sceneUpdater = NewUpdater()
	c.cmds.reset()
	c.timings.reset()
	c.logger.Debug("entity collection destroyed")
}
