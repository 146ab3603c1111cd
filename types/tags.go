package types

// ManagedByTag marks instances created through ohjain.
const ManagedByTag = "ManagedBy"

// Tags holds instance tags as key/value pairs.
type Tags map[string]string

// DefaultTags returns the tag set applied when the caller gives none.
func DefaultTags() Tags {
	return Tags{ManagedByTag: "ohjain"}
}

// Merge returns a copy of t with other's entries laid on top.
func (t Tags) Merge(other Tags) Tags {
	merged := make(Tags, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Has reports whether the key is present, regardless of value.
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}
