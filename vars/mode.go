package vars

// ImportMode selects what is taken from the ambient environment.
type ImportMode int

const (
	// ImportNone ignores the ambient environment.
	ImportNone ImportMode = iota
	// ImportAll copies every ambient variable verbatim.
	ImportAll
	// ImportOnlyEx resolves ambient values that are secret expressions and
	// drops the rest.
	ImportOnlyEx
	// ImportAllEx resolves ambient expressions and copies the rest verbatim.
	ImportAllEx
)

// ImportModeFromFlags derives the mode from the import-all and import-ex switches.
func ImportModeFromFlags(all, ex bool) ImportMode {
	switch {
	case all && ex:
		return ImportAllEx
	case ex:
		return ImportOnlyEx
	case all:
		return ImportAll
	default:
		return ImportNone
	}
}

func (m ImportMode) String() string {
	switch m {
	case ImportNone:
		return "none"
	case ImportAll:
		return "all"
	case ImportOnlyEx:
		return "only-ex"
	case ImportAllEx:
		return "all-ex"
	default:
		return "unknown"
	}
}

// resolvesExpressions reports whether ambient values are parsed as expressions.
func (m ImportMode) resolvesExpressions() bool {
	return m == ImportOnlyEx || m == ImportAllEx
}

// copiesLiterals reports whether ambient values that are not expressions are kept.
func (m ImportMode) copiesLiterals() bool {
	return m == ImportAll || m == ImportAllEx
}
