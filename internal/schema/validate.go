package schema

import "svc-forge/internal/model"

// Validate decides whether the store satisfies the schema well enough to
// proceed to calculation or checkout. A field fails only when it is
// required and its value is empty under the type-specific rule; the content
// of non-required fields is never consulted, and fields are judged
// independently of each other. The second return lists the failing field
// ids in schema order.
func Validate(s *model.ServiceSchema, vs *ValueStore) (bool, []string) {
	var failing []string
	for i := range s.Fields {
		f := &s.Fields[i]
		if !f.Required {
			continue
		}
		v, ok := vs.Get(f.ID)
		if !ok || v.Empty() {
			failing = append(failing, f.ID)
		}
	}
	return len(failing) == 0, failing
}

// IsValid reports overall form validity.
func IsValid(s *model.ServiceSchema, vs *ValueStore) bool {
	ok, _ := Validate(s, vs)
	return ok
}
