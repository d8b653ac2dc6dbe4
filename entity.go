package geode

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Property names carried by EntityChange notifications.
const (
	PropertyName         = "name"
	PropertyShow         = "show"
	PropertyIsShowing    = "isShowing"
	PropertyPosition     = "position"
	PropertyOrientation  = "orientation"
	PropertyAvailability = "availability"
	PropertyModel        = "model"
	PropertyUserData     = "userData"
)

// EntityChange describes a single mutation of an Entity's definition.
type EntityChange struct {
	Entity   *Entity
	Property string
	Value    any
	OldValue any
}

// EntityOwner is the capability an Entity's owning container exposes back to
// its entities. Both EntityCollection and CompositeEntityCollection
// implement it.
type EntityOwner interface {
	// Showing reports whether the owner itself is visible, including any
	// owner chain above it.
	Showing() bool
}

// Entity is a mutable, uniquely-identified domain object tracked by an
// EntityCollection. Every definition mutation raises a change notification
// scoped to this entity, which the owning collection routes into its batched
// collection-changed event.
//
// An Entity belongs to at most one collection at a time. Moving an entity
// between collections requires an explicit remove followed by an add.
type Entity struct {
	id           string
	name         string
	show         bool
	position     mgl64.Vec3
	orientation  mgl64.Quat
	availability *TimeInterval
	model        *ModelDescription
	userData     any

	owner             EntityOwner
	definitionChanged Event[EntityChange]
}

// NewEntity creates an entity with the given id. An empty id generates a
// unique one. Entities default to shown, at the origin, with no orientation
// and unrestricted availability.
func NewEntity(id string) *Entity {
	if id == "" {
		id = uuid.NewString()
	}
	return &Entity{
		id:          id,
		show:        true,
		orientation: mgl64.QuatIdent(),
	}
}

// ID returns the entity's unique key. It never changes after construction.
func (e *Entity) ID() string {
	return e.id
}

// DefinitionChanged is raised whenever any of the entity's definition
// properties is assigned a different value. The payload carries the property
// name and both old and new values.
func (e *Entity) DefinitionChanged() *Event[EntityChange] {
	return &e.definitionChanged
}

// Owner returns the collection this entity currently belongs to, or nil.
func (e *Entity) Owner() EntityOwner {
	return e.owner
}

// Name returns the entity's human-readable name.
func (e *Entity) Name() string {
	return e.name
}

// SetName sets the entity's name.
func (e *Entity) SetName(name string) {
	if name == e.name {
		return
	}
	old := e.name
	e.name = name
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyName, Value: name, OldValue: old})
}

// Show returns the entity's own visibility flag, ignoring the owner chain.
func (e *Entity) Show() bool {
	return e.show
}

// SetShow sets the entity's own visibility flag.
func (e *Entity) SetShow(show bool) {
	if show == e.show {
		return
	}
	oldShowing := e.IsShowing()
	e.show = show
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyShow, Value: show, OldValue: !show})
	if newShowing := e.IsShowing(); newShowing != oldShowing {
		e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyIsShowing, Value: newShowing, OldValue: oldShowing})
	}
}

// IsShowing reports the entity's effective visibility: its own Show flag
// combined with the visibility of its owner chain. An unowned entity is
// governed by its own flag alone.
func (e *Entity) IsShowing() bool {
	if !e.show {
		return false
	}
	if e.owner == nil {
		return true
	}
	return e.owner.Showing()
}

// raiseIsShowingChanged synthesizes an isShowing notification without
// touching any entity state. Called by the owning collection when a
// collection-level visibility toggle changes this entity's effective
// visibility.
func (e *Entity) raiseIsShowingChanged(newValue, oldValue bool) {
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyIsShowing, Value: newValue, OldValue: oldValue})
}

// Position returns the entity's world position.
func (e *Entity) Position() mgl64.Vec3 {
	return e.position
}

// SetPosition sets the entity's world position.
func (e *Entity) SetPosition(p mgl64.Vec3) {
	if p == e.position {
		return
	}
	old := e.position
	e.position = p
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyPosition, Value: p, OldValue: old})
}

// Orientation returns the entity's world orientation.
func (e *Entity) Orientation() mgl64.Quat {
	return e.orientation
}

// SetOrientation sets the entity's world orientation.
func (e *Entity) SetOrientation(q mgl64.Quat) {
	if q == e.orientation {
		return
	}
	old := e.orientation
	e.orientation = q
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyOrientation, Value: q, OldValue: old})
}

// Availability returns the interval during which the entity exists, or nil
// for no restriction.
func (e *Entity) Availability() *TimeInterval {
	return e.availability
}

// SetAvailability sets the entity's availability interval. nil means the
// entity is always available.
func (e *Entity) SetAvailability(iv *TimeInterval) {
	if iv == e.availability {
		return
	}
	if iv != nil && e.availability != nil && *iv == *e.availability {
		return
	}
	old := e.availability
	e.availability = iv
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyAvailability, Value: iv, OldValue: old})
}

// AvailableAt reports whether the entity exists at scene time t.
func (e *Entity) AvailableAt(t float64) bool {
	if e.availability == nil {
		return true
	}
	return e.availability.Contains(t)
}

// Model returns the model description attached to this entity, or nil.
func (e *Entity) Model() *ModelDescription {
	return e.model
}

// SetModel attaches a model description to this entity. The display driver
// builds a transform Graph from it when the entity becomes visible.
func (e *Entity) SetModel(m *ModelDescription) {
	if m == e.model {
		return
	}
	old := e.model
	e.model = m
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyModel, Value: m, OldValue: old})
}

// UserData returns the opaque application data attached to this entity.
func (e *Entity) UserData() any {
	return e.userData
}

// SetUserData attaches opaque application data to this entity. No equality
// short-circuit is applied because arbitrary values may not be comparable.
func (e *Entity) SetUserData(data any) {
	old := e.userData
	e.userData = data
	e.definitionChanged.Emit(EntityChange{Entity: e, Property: PropertyUserData, Value: data, OldValue: old})
}

// PoseMatrix returns the entity's world transform composed from its
// position and orientation.
func (e *Entity) PoseMatrix() mgl64.Mat4 {
	return mgl64.Translate3D(e.position.X(), e.position.Y(), e.position.Z()).
		Mul4(e.orientation.Mat4())
}
