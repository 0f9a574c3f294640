package core

import "github.com/kamstrup/intmap"

// itemSet is a reusable set of item identities.
type itemSet struct {
	m *intmap.Map[ItemID, struct{}]
}

func newItemSet(capacity int) itemSet {
	return itemSet{m: intmap.New[ItemID, struct{}](capacity)}
}

func (s itemSet) add(id ItemID)      { s.m.Put(id, struct{}{}) }
func (s itemSet) has(id ItemID) bool { return s.m.Has(id) }
func (s itemSet) len() int           { return s.m.Len() }
func (s itemSet) reset()             { s.m.Clear() }
