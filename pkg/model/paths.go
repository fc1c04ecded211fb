package model

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// ErrStopWalk stops Walk early without reporting an error.
var ErrStopWalk = errors.New("model: stop walk")

const (
	pathRoot  = "page"
	pathSlots = "slots"
)

// TopLevelPath returns the path of the page component at index i.
func TopLevelPath(i int) string {
	return pathRoot + "." + strconv.Itoa(i)
}

// ChildPath returns the path of the i-th child of a slot. An empty parent
// yields a slot-relative path.
func ChildPath(parent, slot string, i int) string {
	return SlotPath(parent, slot) + "." + strconv.Itoa(i)
}

// SlotPath returns the path of a named slot under parent.
func SlotPath(parent, slot string) string {
	if parent == "" {
		return pathSlots + "." + slot
	}
	return parent + "." + pathSlots + "." + slot
}

// ParentPath returns the path of the component hosting the slot that contains
// path. Top-level components have no parent.
func ParentPath(path string) (string, bool) {
	parts := strings.Split(path, ".")
	if len(parts) <= 2 && parts[0] == pathRoot {
		return "", false
	}

	last := -1
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == pathSlots {
			last = i
			break
		}
	}
	if last != -1 && last < len(parts)-1 {
		if _, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if last == 0 {
				return "", false
			}
			return strings.Join(parts[:last], "."), true
		}
	}

	if len(parts) <= 1 {
		return "", false
	}
	return strings.Join(parts[:len(parts)-1], "."), true
}

// ComponentAt resolves a component path such as page.0.slots.items.1.
func ComponentAt(data PageData, path string) (*Component, bool) {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != pathRoot {
		return nil, false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 || idx >= len(data.Page) {
		return nil, false
	}
	current := data.Page[idx]
	rest := parts[2:]
	for len(rest) > 0 {
		if current == nil || len(rest) < 3 || rest[0] != pathSlots {
			return nil, false
		}
		children := current.Slot(rest[1])
		i, err := strconv.Atoi(rest[2])
		if err != nil || i < 0 || i >= len(children) {
			return nil, false
		}
		current = children[i]
		rest = rest[3:]
	}
	return current, current != nil
}

// WalkFunc is invoked for every component reachable from the page.
type WalkFunc func(c *Component, path string) error

// Walk visits components depth-first in document order. Returning
// ErrStopWalk ends the walk without error. Slots are visited in sorted name
// order so walks are deterministic.
func Walk(page []*Component, fn WalkFunc) error {
	for i, c := range page {
		if err := walk(c, TopLevelPath(i), fn, map[*Component]struct{}{}); err != nil {
			if errors.Is(err, ErrStopWalk) {
				return nil
			}
			return err
		}
	}
	return nil
}

func walk(c *Component, path string, fn WalkFunc, seen map[*Component]struct{}) error {
	if c == nil {
		return nil
	}
	if _, ok := seen[c]; ok {
		return nil
	}
	seen[c] = struct{}{}
	defer delete(seen, c)

	if err := fn(c, path); err != nil {
		return err
	}
	for _, name := range sortedSlotNames(c.Slots) {
		for i, child := range c.Slots[name] {
			if err := walk(child, ChildPath(path, name, i), fn, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedSlotNames(slots map[string]Slot) []string {
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PartUsages returns the paths of every component bound to partID.
func PartUsages(page []*Component, partID string) []string {
	var paths []string
	_ = Walk(page, func(c *Component, path string) error {
		if c.PartID == partID {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}
