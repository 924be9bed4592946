package models

import (
	"fmt"
	"sort"
)

type Registry struct {
	models map[string]func() Model
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func() Model)}

	r.models["decay"] = func() Model { return NewDecay() }
	r.models["vanderpol"] = func() Model { return NewVanDerPol() }
	r.models["pendulum"] = func() Model { return NewPendulum() }

	return r
}

func (r *Registry) Get(name string) (Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
