package markers

import "slices"

// DisplayedSet is the user's marker filter, keyed by location or material
// name.
type DisplayedSet struct {
	names map[string]struct{}
}

func (d *DisplayedSet) Contains(name string) bool {
	_, ok := d.names[name]
	return ok
}

func (d *DisplayedSet) Toggle(name string) {
	if d.Contains(name) {
		delete(d.names, name)
		return
	}
	d.add(name)
}

func (d *DisplayedSet) AddAll(names []string) {
	for _, name := range names {
		d.add(name)
	}
}

func (d *DisplayedSet) RemoveAll(names []string) {
	for _, name := range names {
		delete(d.names, name)
	}
}

// Reset replaces the set with names.
func (d *DisplayedSet) Reset(names []string) {
	d.names = nil
	d.AddAll(names)
}

func (d *DisplayedSet) Len() int {
	return len(d.names)
}

// Names returns the members sorted.
func (d *DisplayedSet) Names() []string {
	names := make([]string, 0, len(d.names))
	for name := range d.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (d *DisplayedSet) add(name string) {
	if d.names == nil {
		d.names = make(map[string]struct{})
	}
	d.names[name] = struct{}{}
}

// Focused lists the labels of markers under the cursor this frame.
type Focused struct {
	Labels []string
}

func (f *Focused) First() (string, bool) {
	if len(f.Labels) == 0 {
		return "", false
	}
	return f.Labels[0], true
}
