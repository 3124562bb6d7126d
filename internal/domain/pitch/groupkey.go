package pitch

import "strings"

// keySeparator joins pitcher and code in a GroupKey. Pitcher names carry
// commas and spaces but never pipes.
const keySeparator = "|"

// GroupKey identifies a pitcher/pitch-type group on the boards.
type GroupKey struct {
	Pitcher string
	Type    Type
}

// String renders the key as "pitcher|CODE".
func (k GroupKey) String() string {
	return k.Pitcher + keySeparator + string(k.Type)
}

// ParseGroupKey splits a rendered key. The boolean is false when raw is
// not a well-formed key.
func ParseGroupKey(raw string) (GroupKey, bool) {
	i := strings.LastIndex(raw, keySeparator)
	if i <= 0 || i == len(raw)-1 {
		return GroupKey{}, false
	}
	return GroupKey{Pitcher: raw[:i], Type: Type(raw[i+1:])}, true
}
