package route

import "strings"

// TerminalIDs is the resolved pair of upstream numeric terminal IDs for a
// route's west and east endpoints.
type TerminalIDs struct {
	WestID int
	EastID int
}

// TerminalResolver maps a route's named endpoints to the upstream's
// numeric terminal IDs using an exact, case-sensitive name table (trimmed
// of surrounding whitespace only — the upstream's spelling is otherwise
// authoritative).
type TerminalResolver struct {
	nameToID map[string]int
}

// NewTerminalResolver builds a resolver from a name-to-ID table, typically
// populated once at startup from the upstream's terminal list.
func NewTerminalResolver(nameToID map[string]int) *TerminalResolver {
	clean := make(map[string]int, len(nameToID))
	for name, id := range nameToID {
		clean[strings.TrimSpace(name)] = id
	}
	return &TerminalResolver{nameToID: clean}
}

// Resolve returns the west/east terminal IDs for a route. Either side may
// be zero (unresolved) if its name is not in the table; callers must
// tolerate zero rather than treat it as a valid terminal ID.
func (r *TerminalResolver) Resolve(rt Route) TerminalIDs {
	return TerminalIDs{
		WestID: r.lookup(rt.WestTerminal),
		EastID: r.lookup(rt.EastTerminal),
	}
}

func (r *TerminalResolver) lookup(name string) int {
	if id, ok := r.nameToID[strings.TrimSpace(name)]; ok {
		return id
	}
	return 0
}
