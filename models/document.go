package models

// Document is the single persisted aggregate holding every task, the usage
// counters and all registered users.
type Document struct {
	Tasks []Task `json:"tasks"`
	Stats Stats  `json:"stats"`
	Users []User `json:"users"`
}

func NewDocument() *Document {
	return &Document{
		Tasks: []Task{},
		Users: []User{},
	}
}

// Normalize replaces nil containers so the document always serializes
// with empty arrays rather than null.
func (d *Document) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (d *Document) Clone() *Document {
	c := &Document{
		Tasks: make([]Task, len(d.Tasks)),
		Stats: d.Stats,
		Users: make([]User, len(d.Users)),
	}
	copy(c.Tasks, d.Tasks)
	copy(c.Users, d.Users)
	return c
}
