package util

// IDMap interns strings, assigning each distinct string a small dense ID in
// first-seen order. Road-class tags are stored as IDs so links and edges
// carry a single int instead of repeated strings.
type IDMap struct {
	toID   map[string]int
	toName []string
}

func NewIDMap() *IDMap {
	return &IDMap{toID: make(map[string]int)}
}

// GetID returns the ID for name, assigning a new one on first use.
func (m *IDMap) GetID(name string) int {
	if id, ok := m.toID[name]; ok {
		return id
	}
	id := len(m.toName)
	m.toID[name] = id
	m.toName = append(m.toName, name)
	return id
}

// Lookup returns the ID for name without assigning one.
func (m *IDMap) Lookup(name string) (int, bool) {
	id, ok := m.toID[name]
	return id, ok
}

func (m *IDMap) GetName(id int) string {
	if id < 0 || id >= len(m.toName) {
		return ""
	}
	return m.toName[id]
}

func (m *IDMap) Len() int {
	return len(m.toName)
}

// Names returns the interned strings in ID order.
func (m *IDMap) Names() []string {
	out := make([]string, len(m.toName))
	copy(out, m.toName)
	return out
}
