package source

// ScopeID identifies a debug scope within a ScopeSet.
type ScopeID uint32

// InvalidScope is the zero scope; instructions without debug metadata use it.
const InvalidScope ScopeID = 0

// Scope is one node of the debug-scope tree. Scopes carry provenance only;
// they have no effect on optimization semantics.
type Scope struct {
	Parent    ScopeID
	InlinedAt ScopeID // call-site scope when this scope was created by inlining
	Function  string  // name of the function the scope belongs to
}

// ScopeSet is an arena of debug scopes addressed by ScopeID. Index zero is
// reserved for InvalidScope.
type ScopeSet struct {
	scopes []Scope
}

// NewScopeSet creates an empty scope arena.
func NewScopeSet() *ScopeSet {
	return &ScopeSet{scopes: make([]Scope, 1)}
}

// New adds a scope with the given parent and owning function.
func (s *ScopeSet) New(parent ScopeID, function string) ScopeID {
	s.scopes = append(s.scopes, Scope{Parent: parent, Function: function})
	return ScopeID(len(s.scopes) - 1)
}

// NewInlined adds a scope for code cloned into another function. The parent
// chain stays rooted in the callee while InlinedAt points at the call site.
func (s *ScopeSet) NewInlined(parent, inlinedAt ScopeID, function string) ScopeID {
	s.scopes = append(s.scopes, Scope{Parent: parent, InlinedAt: inlinedAt, Function: function})
	return ScopeID(len(s.scopes) - 1)
}

// Get returns the scope for id. The zero value is returned for InvalidScope.
func (s *ScopeSet) Get(id ScopeID) Scope {
	if int(id) >= len(s.scopes) {
		return Scope{}
	}
	return s.scopes[id]
}

// Len returns the number of scopes, counting the reserved zero entry.
func (s *ScopeSet) Len() int {
	return len(s.scopes)
}
