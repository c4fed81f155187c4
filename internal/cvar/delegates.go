// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cvar

// ChangeFunc is called after a variable's value changed.
type ChangeFunc func(v *CVar)

// DelegateHandle identifies a registered ChangeFunc for removal.
type DelegateHandle uint64

type delegateEntry struct {
	handle  DelegateHandle
	fn      ChangeFunc
	removed bool
}

// delegateList keeps delegates in registration order. Dispatch iterates a
// snapshot; entries removed mid-dispatch are flagged so they are not invoked
// later in the same pass.
type delegateList struct {
	entries []*delegateEntry
	next    DelegateHandle
}

func (l *delegateList) add(fn ChangeFunc) DelegateHandle {
	l.next++
	l.entries = append(l.entries, &delegateEntry{handle: l.next, fn: fn})
	return l.next
}

func (l *delegateList) remove(h DelegateHandle) bool {
	for i, e := range l.entries {
		if e.handle == h {
			e.removed = true
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *delegateList) notify(v *CVar) {
	if len(l.entries) == 0 {
		return
	}
	snapshot := make([]*delegateEntry, len(l.entries))
	copy(snapshot, l.entries)
	for _, e := range snapshot {
		if e.removed {
			continue
		}
		e.fn(v)
	}
}

// AddDelegate registers fn to run on every value change, after all
// previously registered delegates.
func (v *CVar) AddDelegate(fn ChangeFunc) DelegateHandle {
	if fn == nil {
		panic("cvar: nil delegate")
	}
	return v.delegates.add(fn)
}

// RemoveDelegate unregisters a delegate. It is safe to call from inside a
// delegate during notification.
func (v *CVar) RemoveDelegate(h DelegateHandle) bool {
	return v.delegates.remove(h)
}

// RemoveAllDelegates drops every delegate.
func (v *CVar) RemoveAllDelegates() {
	for _, e := range v.delegates.entries {
		e.removed = true
	}
	v.delegates.entries = nil
}

// DelegateCount returns the number of registered delegates.
func (v *CVar) DelegateCount() int { return len(v.delegates.entries) }
