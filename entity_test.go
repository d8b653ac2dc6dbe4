package geode

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewEntityDefaults(t *testing.T) {
	e := NewEntity("a")
	if e.ID() != "a" {
		t.Errorf("ID = %q, want %q", e.ID(), "a")
	}
	if !e.Show() {
		t.Error("Show should default to true")
	}
	if e.Owner() != nil {
		t.Error("new entity should have no owner")
	}
	if e.Availability() != nil {
		t.Error("new entity should have unrestricted availability")
	}
	if e.Orientation() != mgl64.QuatIdent() {
		t.Error("orientation should default to identity")
	}
}

func TestNewEntityGeneratesID(t *testing.T) {
	a := NewEntity("")
	b := NewEntity("")
	if a.ID() == "" || b.ID() == "" {
		t.Fatal("generated ids must be non-empty")
	}
	if a.ID() == b.ID() {
		t.Error("generated ids must be unique")
	}
}

func TestSettersRaiseDefinitionChanged(t *testing.T) {
	e := NewEntity("a")
	var changes []EntityChange
	e.DefinitionChanged().Connect(func(ch EntityChange) { changes = append(changes, ch) })

	e.SetName("renamed")
	e.SetPosition(mgl64.Vec3{1, 2, 3})

	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0].Property != PropertyName || changes[0].Value != "renamed" || changes[0].OldValue != "" {
		t.Errorf("name change = %+v", changes[0])
	}
	if changes[1].Property != PropertyPosition {
		t.Errorf("position change = %+v", changes[1])
	}
	if changes[1].Value.(mgl64.Vec3) != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("position value = %v", changes[1].Value)
	}
}

func TestSettersShortCircuitEqualValues(t *testing.T) {
	e := NewEntity("a")
	e.SetName("n")
	e.SetPosition(mgl64.Vec3{1, 0, 0})

	count := 0
	e.DefinitionChanged().Connect(func(ch EntityChange) { count++ })

	e.SetName("n")
	e.SetPosition(mgl64.Vec3{1, 0, 0})
	e.SetShow(true)
	e.SetAvailability(nil)

	if count != 0 {
		t.Errorf("equal-value writes raised %d changes, want 0", count)
	}
}

func TestSetAvailabilityEqualIntervalShortCircuits(t *testing.T) {
	e := NewEntity("a")
	e.SetAvailability(&TimeInterval{Start: 1, Stop: 2})

	count := 0
	e.DefinitionChanged().Connect(func(ch EntityChange) { count++ })
	e.SetAvailability(&TimeInterval{Start: 1, Stop: 2})

	if count != 0 {
		t.Errorf("equal interval raised %d changes, want 0", count)
	}
}

func TestSetShowRaisesIsShowing(t *testing.T) {
	e := NewEntity("a")
	var props []string
	e.DefinitionChanged().Connect(func(ch EntityChange) { props = append(props, ch.Property) })

	e.SetShow(false)

	want := map[string]bool{PropertyShow: true, PropertyIsShowing: true}
	if len(props) != 2 || !want[props[0]] || !want[props[1]] {
		t.Errorf("properties raised = %v, want show and isShowing", props)
	}
}

func TestAvailableAt(t *testing.T) {
	e := NewEntity("a")
	if !e.AvailableAt(1e12) {
		t.Error("unrestricted entity should be available at any time")
	}
	e.SetAvailability(&TimeInterval{Start: 10, Stop: 20})
	if e.AvailableAt(9.999) || !e.AvailableAt(10) || !e.AvailableAt(20) || e.AvailableAt(20.001) {
		t.Error("availability endpoints should be inclusive")
	}
}

func TestPoseMatrix(t *testing.T) {
	e := NewEntity("a")
	e.SetPosition(mgl64.Vec3{1, 2, 3})

	p := transformPoint(e.PoseMatrix(), mgl64.Vec3{0, 0, 0})
	if p != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("pose origin = %v, want (1, 2, 3)", p)
	}
}
