package scenario

import (
	"context"
	"fmt"

	"github.com/matzehuels/tilewindow/pkg/geom"
	"github.com/matzehuels/tilewindow/pkg/panel"
	"github.com/matzehuels/tilewindow/pkg/realize"
)

// Snapshot is the observable engine state after one step.
type Snapshot struct {
	Step     int       `json:"step"`
	Label    string    `json:"label"`
	Items    int       `json:"items"`
	Viewport geom.Rect `json:"viewport"`
	Window   Window    `json:"window"`
	Extent   geom.Size `json:"extent"`
	Estimate float64   `json:"estimate"`

	Realized []Realized    `json:"realized"`
	Pool     []PoolLevel   `json:"pool"`
	Anchors  int           `json:"anchors"`
	Passes   panel.Stats   `json:"passes"`
	Churn    realize.Stats `json:"churn"`
}

// Window is the realization window.
type Window struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Realized describes one realized container.
type Realized struct {
	Index     int       `json:"index"`
	Container string    `json:"container"`
	Kind      int       `json:"kind"`
	Variant   string    `json:"variant"`
	Rect      geom.Rect `json:"rect"`
}

// PoolLevel is the number of idle containers of one kind.
type PoolLevel struct {
	Kind  int `json:"kind"`
	Count int `json:"count"`
}

// Snapshot captures the host state. step and label identify the event that
// led to it.
func (h *Host) Snapshot(step int, label string) Snapshot {
	e := h.Engine
	m := e.Manager()
	top, bottom := e.Window()

	snap := Snapshot{
		Step:     step,
		Label:    label,
		Items:    h.Items.Len(),
		Viewport: h.viewport,
		Window:   Window{Top: top, Bottom: bottom},
		Extent:   e.Extent(),
		Estimate: e.Estimate(),
		Anchors:  h.Anchors.Len(),
		Passes:   e.Stats(),
		Churn:    m.Stats(),
	}
	for _, i := range m.Realized() {
		c, _ := m.Container(i)
		r, _ := e.Bounds(i)
		snap.Realized = append(snap.Realized, Realized{
			Index:     i,
			Container: c.ID.String(),
			Kind:      int(c.Kind),
			Variant:   c.Variant.String(),
			Rect:      r,
		})
	}
	pool := m.Pool()
	for _, k := range pool.Kinds() {
		snap.Pool = append(snap.Pool, PoolLevel{Kind: int(k), Count: pool.Len(k)})
	}
	return snap
}

// Replay runs s from the initial layout through every step and returns one
// snapshot per event, the initial layout being step 0. The context is
// checked between steps.
func Replay(ctx context.Context, s *Scenario, opts ...panel.Option) ([]Snapshot, error) {
	h, err := NewHost(s, opts...)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	h.Layout()
	snaps := make([]Snapshot, 0, len(s.Steps)+1)
	snaps = append(snaps, h.Snapshot(0, "initial"))

	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.Apply(st); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, st.Label(), err)
		}
		h.Layout()
		snaps = append(snaps, h.Snapshot(i+1, st.Label()))
	}
	return snaps, nil
}
