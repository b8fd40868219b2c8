package symbols

import (
	"strings"
)

// Scope maps names to symbols. Lookup is by name; Symbols lists them in
// definition order.
type Scope struct {
	name    string
	symbols map[string]Symbol
	order   []Symbol
}

// NewScope creates an empty scope.
func NewScope(name string) *Scope {
	return &Scope{name: name, symbols: make(map[string]Symbol)}
}

// Name returns the scope name, empty for anonymous block scopes.
func (s *Scope) Name() string { return s.name }

// Define adds sym. It returns false, leaving the scope unchanged, if the
// name is already defined in this scope.
func (s *Scope) Define(sym Symbol) bool {
	if _, exists := s.symbols[sym.Name()]; exists {
		return false
	}
	s.symbols[sym.Name()] = sym
	s.order = append(s.order, sym)
	return true
}

// Lookup returns the symbol named name, or nil.
func (s *Scope) Lookup(name string) Symbol {
	return s.symbols[name]
}

// Symbols returns the symbols in definition order.
func (s *Scope) Symbols() []Symbol {
	out := make([]Symbol, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of symbols.
func (s *Scope) Len() int { return len(s.order) }

func (s *Scope) String() string {
	var sb strings.Builder
	sb.WriteString("scope " + s.displayName())
	if len(s.order) == 0 {
		sb.WriteString(" (empty)")
	}
	for _, sym := range s.order {
		sb.WriteString("\n  " + sym.String())
	}
	return sb.String()
}

func (s *Scope) displayName() string {
	if s.name == "" {
		return "<block>"
	}
	return s.name
}

// Manager is a stack of scopes. The first scope entered is the global scope
// and stays reachable through Global for the lifetime of the Manager.
type Manager struct {
	scopes []*Scope
	global *Scope
}

// NewManager returns a manager with no scopes.
func NewManager() *Manager {
	return &Manager{}
}

// EnterScope pushes a new empty scope and returns it.
func (m *Manager) EnterScope(name string) *Scope {
	scope := NewScope(name)
	if m.global == nil {
		m.global = scope
	}
	m.scopes = append(m.scopes, scope)
	return scope
}

// ExitScope pops the innermost scope and returns it, or nil if no scope is
// open.
func (m *Manager) ExitScope() *Scope {
	if len(m.scopes) == 0 {
		return nil
	}
	top := m.scopes[len(m.scopes)-1]
	m.scopes[len(m.scopes)-1] = nil
	m.scopes = m.scopes[:len(m.scopes)-1]
	return top
}

// Current returns the innermost scope, or nil.
func (m *Manager) Current() *Scope {
	if len(m.scopes) == 0 {
		return nil
	}
	return m.scopes[len(m.scopes)-1]
}

// Global returns the first scope ever entered, or nil.
func (m *Manager) Global() *Scope { return m.global }

// Define adds sym to the innermost scope. It returns false if no scope is
// open or the name is taken in that scope. Names in outer scopes may be
// shadowed.
func (m *Manager) Define(sym Symbol) bool {
	current := m.Current()
	if current == nil {
		return false
	}
	return current.Define(sym)
}

// Lookup searches from the innermost scope outwards and returns the first
// match, or nil.
func (m *Manager) Lookup(name string) Symbol {
	for i := len(m.scopes) - 1; i >= 0; i-- {
		if sym := m.scopes[i].Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

// LookupCurrent searches only the innermost scope.
func (m *Manager) LookupCurrent(name string) Symbol {
	current := m.Current()
	if current == nil {
		return nil
	}
	return current.Lookup(name)
}

// Depth returns the number of open scopes.
func (m *Manager) Depth() int { return len(m.scopes) }

// IsGlobal reports whether the global scope is the only open scope.
func (m *Manager) IsGlobal() bool { return len(m.scopes) == 1 }

// Scopes returns the open scopes, outermost first.
func (m *Manager) Scopes() []*Scope {
	out := make([]*Scope, len(m.scopes))
	copy(out, m.scopes)
	return out
}

// VisibleNames returns every name that Lookup would resolve, innermost
// first, without duplicates.
func (m *Manager) VisibleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for i := len(m.scopes) - 1; i >= 0; i-- {
		for _, sym := range m.scopes[i].order {
			if !seen[sym.Name()] {
				seen[sym.Name()] = true
				names = append(names, sym.Name())
			}
		}
	}
	return names
}

func (m *Manager) String() string {
	if len(m.scopes) == 0 {
		return "no open scopes"
	}
	var sb strings.Builder
	for i, scope := range m.scopes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		indent := strings.Repeat("  ", i)
		for j, line := range strings.Split(scope.String(), "\n") {
			if j > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(indent + line)
		}
	}
	return sb.String()
}
