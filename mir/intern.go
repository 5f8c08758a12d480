package mir

// Interner uniques the string payloads carried by constants and literals so
// rewrites that synthesize new spellings share backing storage across a
// whole run. One Interner lives on the Module and is shared by every
// Builder.
type Interner struct {
	strings map[string]string
}

// NewInterner creates empty uniquing tables.
func NewInterner() *Interner {
	return &Interner{strings: make(map[string]string)}
}

// Intern returns the canonical copy of s.
func (in *Interner) Intern(s string) string {
	if c, ok := in.strings[s]; ok {
		return c
	}
	in.strings[s] = s
	return s
}

// Len returns the number of distinct interned strings.
func (in *Interner) Len() int {
	return len(in.strings)
}
