package term

// Equal reports whether two programs have structurally equal instructions.
// The Routine of either program is not consulted.
func Equal(a, b Program) bool {
	if len(a.Instructions) != len(b.Instructions) {
		return false
	}
	for i := range a.Instructions {
		if !EqualTerms(a.Instructions[i], b.Instructions[i]) {
			return false
		}
	}
	return true
}

// EqualTerms reports whether two terms are structurally equal. The name a
// mapped application was written with is not consulted.
func EqualTerms(a, b Term) bool {
	switch a := a.(type) {
	case Application:
		b, ok := b.(Application)
		return ok && equalApplications(a.Call, b.Call)
	case MappedApplication:
		b, ok := b.(MappedApplication)
		return ok && equalApplications(a.Generator, b.Generator) &&
			a.Abstraction.Param == b.Abstraction.Param &&
			equalApplications(a.Abstraction.Body, b.Abstraction.Body)
	}
	return false
}

func equalApplications(a, b FunctionApplication) bool {
	if a.Name != b.Name || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !equalLeaves(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

func equalLeaves(a, b LeafTerm) bool {
	switch a := a.(type) {
	case Constant:
		b, ok := b.(Constant)
		return ok && a == b
	case Variable:
		b, ok := b.(Variable)
		return ok && a == b
	case Opaque:
		b, ok := b.(Opaque)
		return ok && a == b
	}
	return false
}
