package cache

import (
	"strconv"
	"strings"
)

// Key identifies one realization batch. It carries every parameter the
// simulation depends on — scenario identity, initial condition and ε, plus
// N, dim and dt — so a reload can never silently return a batch generated
// under different parameters.
type Key struct {
	Scenario string
	X0       []float64
	Eps      float64
	N        int
	Dim      int // augmented dimension 2d
	Dt       float64
}

// String renders a deterministic, filesystem-safe entry name.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Scenario)
	b.WriteString("_x0=")
	for i, v := range k.X0 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteString("_eps=")
	b.WriteString(strconv.FormatFloat(k.Eps, 'g', -1, 64))
	b.WriteString("_N=")
	b.WriteString(strconv.Itoa(k.N))
	b.WriteString("_dim=")
	b.WriteString(strconv.Itoa(k.Dim))
	b.WriteString("_dt=")
	b.WriteString(strconv.FormatFloat(k.Dt, 'g', -1, 64))
	return b.String()
}

// Meta is the parameter record persisted alongside a batch and checked
// against the requesting key on load.
type Meta struct {
	Scenario string    `json:"scenario"`
	X0       []float64 `json:"x0"`
	Eps      float64   `json:"eps"`
	N        int       `json:"n"`
	Dim      int       `json:"dim"`
	Dt       float64   `json:"dt"`
}

func (k Key) Meta() Meta {
	x0 := make([]float64, len(k.X0))
	copy(x0, k.X0)
	return Meta{Scenario: k.Scenario, X0: x0, Eps: k.Eps, N: k.N, Dim: k.Dim, Dt: k.Dt}
}

func (m Meta) Matches(k Key) bool {
	if m.Scenario != k.Scenario || m.Eps != k.Eps || m.N != k.N || m.Dim != k.Dim || m.Dt != k.Dt {
		return false
	}
	if len(m.X0) != len(k.X0) {
		return false
	}
	for i := range m.X0 {
		if m.X0[i] != k.X0[i] {
			return false
		}
	}
	return true
}
