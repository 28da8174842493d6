// README: Identifier value objects shared across modules.
package types

// ID is a store-assigned identifier (trip, itinerary item) or an identity uid.
type ID string

func (id ID) String() string { return string(id) }

// ValidID accepts the characters used by Postgres uuids and by Firebase uids / Firestore ids.
func ValidID(v string) bool {
	if v == "" || len(v) > 128 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}
