package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Order returns the mixins of c in application order.
//
// An edge X -> Y exists whenever Y lists X as a dependency, placing Y after X.
// Ready mixins are scheduled first-in first-out, seeded in declaration order, so
// mixins without constraints keep the order they were declared in. The first
// element is the outermost handler; each element's continuation is the next one
// and the last element continues into the target itself.
//
// Dependencies naming a type that is not part of the context are ignored.
func (c *CompositionContext) Order() ([]MixinDescriptor, error) {
	n := len(c.mixins)
	if n == 0 {
		return nil, nil
	}

	successors := make([][]int, n)
	inDegree := make([]int, n)
	for to, m := range c.mixins {
		for _, dep := range m.Dependencies {
			from := c.indexOf(dep)
			if from < 0 || from == to {
				if from == to {
					return nil, zerr.With(
						zerr.With(zerr.Wrap(ErrCircularDependency, "mixin depends on itself"), "target", c.target.String()),
						"cycle", m.Type.String()+" -> "+m.Type.String(),
					)
				}
				continue
			}
			successors[from] = append(successors[from], to)
			inDegree[to]++
		}
	}

	queue := make([]int, 0, n)
	for i := range n {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	ordered := make([]MixinDescriptor, 0, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		ordered = append(ordered, c.mixins[i].clone())

		for _, next := range successors[i] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(ordered) != n {
		return nil, c.buildCycleError(successors, inDegree)
	}
	return ordered, nil
}

// indexOf resolves a dependency to a mixin position: exact identity first, then family.
func (c *CompositionContext) indexOf(dep TypeRef) int {
	for i, m := range c.mixins {
		if m.Type.SameType(dep) {
			return i
		}
	}
	for i, m := range c.mixins {
		if m.Type.SameFamily(dep) {
			return i
		}
	}
	return -1
}

// buildCycleError names every unschedulable mixin and one concrete cycle among them.
func (c *CompositionContext) buildCycleError(successors [][]int, inDegree []int) error {
	var stuck []string
	for i, m := range c.mixins {
		if inDegree[i] > 0 {
			stuck = append(stuck, m.Type.String())
		}
	}

	// Walk the unschedulable subgraph depth-first until a node repeats.
	state := make([]int, len(c.mixins)) // 0: unvisited, 1: on path, 2: done
	var path []int
	var cycle []int

	var visit func(u int) bool
	visit = func(u int) bool {
		state[u] = 1
		path = append(path, u)
		for _, v := range successors[u] {
			if inDegree[v] == 0 {
				continue
			}
			if state[v] == 1 {
				for i, node := range path {
					if node == v {
						cycle = append(append(cycle, path[i:]...), v)
						break
					}
				}
				return true
			}
			if state[v] == 0 && visit(v) {
				return true
			}
		}
		state[u] = 2
		path = path[:len(path)-1]
		return false
	}

	for i := range c.mixins {
		if inDegree[i] > 0 && state[i] == 0 && visit(i) {
			break
		}
	}

	names := make([]string, len(cycle))
	for i, idx := range cycle {
		names[i] = c.mixins[idx].Type.String()
	}

	err := zerr.With(zerr.Wrap(ErrCircularDependency, "cannot order mixins"), "target", c.target.String())
	err = zerr.With(err, "cycle", strings.Join(names, " -> "))
	return zerr.With(err, "mixins", stuck)
}
