package validation

// KeyMap translates the field keys the backend tags validation errors with
// into this system's field vocabulary, so an error lands next to the
// control that produced the value. The backend's key names are a contract
// detail that has drifted historically; the table is configuration, not
// code, and unknown keys pass through untouched (they are usually schema
// field ids, which already match).
type KeyMap map[string]string

// DefaultKeyMap covers the backend keys observed for the order endpoints.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"customer_name":  "name",
		"customer_phone": "phone",
		"customer_email": "email",
		"full_name":      "name",
		"phone_number":   "phone",
	}
}

// Apply rewrites the keys of a backend field-error map. When two backend
// keys collapse onto one local key, the first message wins.
func (m KeyMap) Apply(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, msg := range fields {
		local := k
		if mapped, ok := m[k]; ok {
			local = mapped
		}
		if _, exists := out[local]; !exists {
			out[local] = msg
		}
	}
	return out
}
