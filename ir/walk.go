package ir

// Inspect calls fn for every statement of b in depth-first order. Returning
// false from fn skips the children of that statement.
func Inspect(b Block, fn func(Statement) bool) {
	for _, st := range b {
		if !fn(st) {
			continue
		}
		switch v := st.(type) {
		case Object:
			Inspect(v.Body, fn)
		case Guard:
			Inspect(v.Body, fn)
		case ListLoop:
			Inspect(v.Body, fn)
		case MapLoop:
			Inspect(v.Body, fn)
		case VariantSwitch:
			for _, c := range v.Cases {
				Inspect(c.Body, fn)
			}
		}
	}
}

// Uses reports whether any statement in b reads the variable name, either in
// a source expression or as a loop index in an output path.
func Uses(b Block, name string) bool {
	found := false
	Inspect(b, func(st Statement) bool {
		if found {
			return false
		}
		for _, e := range exprsOf(st) {
			if Mentions(e, name) {
				found = true
				return false
			}
		}
		for _, p := range pathsOf(st) {
			for _, s := range p.segs {
				if s.Var == name {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}

func exprsOf(st Statement) []Expr {
	switch v := st.(type) {
	case Assign:
		return []Expr{v.Value}
	case FormatTime:
		return []Expr{v.Value}
	case Copy:
		return []Expr{v.Value}
	case Guard:
		return []Expr{v.Value}
	case ListLoop:
		return []Expr{v.Source}
	case MapLoop:
		return []Expr{v.Source}
	case VariantSwitch:
		return []Expr{v.Source}
	}
	return nil
}

func pathsOf(st Statement) []Path {
	switch v := st.(type) {
	case Object:
		return []Path{v.Target}
	case Assign:
		return []Path{v.Target}
	case FormatTime:
		return []Path{v.Target}
	case Copy:
		return []Path{v.Target}
	case ListLoop:
		return []Path{v.Target}
	case MapLoop:
		return []Path{v.Target}
	case EmptyList:
		return []Path{v.Target}
	case EmptyMap:
		return []Path{v.Target}
	case VariantSwitch:
		return []Path{v.Target}
	}
	return nil
}

// Count returns the number of statements in b, nested ones included.
func Count(b Block) int {
	n := 0
	Inspect(b, func(Statement) bool {
		n++
		return true
	})
	return n
}
