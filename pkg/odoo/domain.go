package odoo

// Domain is an Odoo search filter: a list of conditions and prefix operators
// in the server's polish-notation dialect, e.g. ["&", ["a","=",1], ["b","=",2]].
// Conditions in a plain list are implicitly AND-ed by the server.
type Domain []any

// Condition builds a single [field, operator, value] triplet.
func Condition(field, operator string, value any) []any {
	return []any{field, operator, value}
}

// Eq builds an equality condition.
func Eq(field string, value any) []any {
	return Condition(field, "=", value)
}

// NotEq builds an inequality condition.
func NotEq(field string, value any) []any {
	return Condition(field, "!=", value)
}

// In builds a membership condition.
func In(field string, values []any) []any {
	return Condition(field, "in", values)
}

// Like builds a case-insensitive substring condition.
func Like(field, pattern string) []any {
	return Condition(field, "ilike", pattern)
}

// ChildOf builds a hierarchy condition on a parent-linked model.
func ChildOf(field string, value any) []any {
	return Condition(field, "child_of", value)
}

// And joins conditions with explicit '&' prefix operators.
// n conditions need n-1 operators.
func And(conds ...[]any) Domain {
	return joinPrefix("&", conds)
}

// Or joins conditions with explicit '|' prefix operators.
func Or(conds ...[]any) Domain {
	return joinPrefix("|", conds)
}

// Not negates a single condition.
func Not(cond []any) Domain {
	return Domain{"!", cond}
}

func joinPrefix(op string, conds [][]any) Domain {
	d := Domain{}
	for i := 0; i < len(conds)-1; i++ {
		d = append(d, op)
	}
	for _, c := range conds {
		d = append(d, c)
	}
	return d
}

// NewDomain builds a Domain from plain conditions with implicit AND semantics.
func NewDomain(conds ...[]any) Domain {
	d := Domain{}
	for _, c := range conds {
		d = append(d, c)
	}
	return d
}
