package docmark

// BookmarkRegistry maps bookmark names to their defining elements for one
// document. Registration is first-wins: a duplicate name keeps the
// original entry and is reported as a diagnostic instead of failing,
// since production documents routinely carry stale duplicate bookmarks.
type BookmarkRegistry struct {
	byName map[string]*Element
	order  []string
}

func NewBookmarkRegistry() *BookmarkRegistry {
	return &BookmarkRegistry{byName: make(map[string]*Element)}
}

// Register records the defining element for a bookmark name. It returns a
// duplicate diagnostic when the name is already taken, nil otherwise.
func (r *BookmarkRegistry) Register(name string, el *Element) *Diagnostic {
	if _, ok := r.byName[name]; ok {
		return &Diagnostic{Kind: DiagDuplicateBookmark, Subject: name}
	}
	r.byName[name] = el
	r.order = append(r.order, name)
	return nil
}

// Resolve returns the defining element for a name, or false when the
// bookmark was never registered.
func (r *BookmarkRegistry) Resolve(name string) (*Element, bool) {
	el, ok := r.byName[name]
	return el, ok
}

// Names returns all registered bookmark names in registration order.
func (r *BookmarkRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
