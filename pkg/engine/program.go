package engine

import (
	"github.com/chazu/roadspline/pkg/curve"
	"github.com/chazu/roadspline/pkg/tessellate"
)

// RoadDef is one road declared by a (road ...) form.
type RoadDef struct {
	Name    string
	Polygon curve.Polygon
	Params  tessellate.Params
}

// Program is the output of evaluating road source. It is never mutated
// after Evaluate returns; each evaluation produces a new Program.
type Program struct {
	Roads    []RoadDef
	Warnings []EvalWarning
	index    map[string]int
}

func newProgram() *Program {
	return &Program{index: make(map[string]int)}
}

// add registers a road. It reports false if the name is taken.
func (p *Program) add(r RoadDef) bool {
	if _, ok := p.index[r.Name]; ok {
		return false
	}
	p.index[r.Name] = len(p.Roads)
	p.Roads = append(p.Roads, r)
	return true
}

// Lookup returns the road with the given name, or nil.
func (p *Program) Lookup(name string) *RoadDef {
	i, ok := p.index[name]
	if !ok {
		return nil
	}
	return &p.Roads[i]
}

// RoadCount returns the number of declared roads.
func (p *Program) RoadCount() int {
	return len(p.Roads)
}
