// Package workflow tablas de transición de estado de los flujos de inventario.
// Cada flujo tiene una tabla (estado → acción → siguiente estado) y una única función
// Transition; las guardas de estado de los casos de uso pasan siempre por aquí.
package workflow

import (
	"sort"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
)

// Action acción sobre un flujo.
type Action string

// Edge arista de la tabla de transición.
type Edge[S ~string] struct {
	From   S
	Action Action
	To     S
}

// Machine tabla de transición de un flujo.
type Machine[S ~string] struct {
	entity string
	table  map[S]map[Action]S
}

// NewMachine construye la máquina a partir de sus aristas.
func NewMachine[S ~string](entity string, edges ...Edge[S]) *Machine[S] {
	m := &Machine[S]{entity: entity, table: make(map[S]map[Action]S)}
	for _, e := range edges {
		if m.table[e.From] == nil {
			m.table[e.From] = make(map[Action]S)
		}
		m.table[e.From][e.Action] = e.To
	}
	return m
}

// Transition devuelve el siguiente estado o *domain.InvalidStateError si la acción no es legal.
func (m *Machine[S]) Transition(current S, action Action) (S, error) {
	if next, ok := m.table[current][action]; ok {
		return next, nil
	}
	return current, &domain.InvalidStateError{
		Entity: m.entity,
		State:  string(current),
		Action: string(action),
	}
}

// Can indica si la acción es legal desde el estado.
func (m *Machine[S]) Can(current S, action Action) bool {
	_, ok := m.table[current][action]
	return ok
}

// Allowed acciones legales desde el estado, ordenadas.
func (m *Machine[S]) Allowed(current S) []Action {
	out := make([]Action, 0, len(m.table[current]))
	for a := range m.table[current] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Terminal indica si el estado no tiene salidas.
func (m *Machine[S]) Terminal(current S) bool {
	return len(m.table[current]) == 0
}
