package loader

import "strings"

// Translation carries the optional identifier rewrites applied by the
// loaders. A nil *Translation rewrites nothing.
type Translation struct {
	// TargetLabels joins whitespace runs in target ids with newlines so long
	// names wrap under their marker.
	TargetLabels bool
	// IDToName maps canonical drug ids to display names.
	IDToName map[string]string
	// NameToID maps display names back to canonical drug ids.
	NameToID map[string]string
}

// Target returns the display form of a target id.
func (t *Translation) Target(id string) string {
	if t == nil || !t.TargetLabels {
		return id
	}
	return strings.Join(strings.Fields(id), "\n")
}

// DrugName maps a canonical id to its display name. Ids without an alias are
// returned unchanged.
func (t *Translation) DrugName(id string) string {
	if t == nil || t.IDToName == nil {
		return id
	}
	if name, ok := t.IDToName[id]; ok {
		return name
	}
	return id
}

// DrugID maps a display name back to its canonical id.
func (t *Translation) DrugID(name string) string {
	if t == nil || t.NameToID == nil {
		return name
	}
	if id, ok := t.NameToID[name]; ok {
		return id
	}
	return name
}

// TranslatesDrugs reports whether drug ids are shown as display names.
func (t *Translation) TranslatesDrugs() bool {
	return t != nil && t.IDToName != nil
}
