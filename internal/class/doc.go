// Package class implements single-inheritance class composition on top of an
// explicit descriptor graph.
//
// A class is a *Class descriptor produced by Extend. Every descriptor holds:
//   - a parent link (nil only for Root)
//   - a flattened instance template (parent template overridden per name)
//   - the level's own members, kept unflattened for super-dispatch
//   - flattened class-level ("static") members
//   - a resolved constructor (the initializer, or a pass-through to the parent)
//
// Instances are *Object values. An object keeps a back-reference to its exact
// class plus a table of its own fields; member lookup checks the object's
// fields first and then the class template. Assigning a field on one object
// never affects another object or the class.
//
// Super-dispatch:
//
//	shims, err := obj.Parent(Animal)
//	if err != nil {
//	    return err // ANCESTOR_NOT_FOUND when Animal is not an ancestor
//	}
//	out, err := shims.Call("speak")
//
// Parent collects every level from the object's class up to and including
// the requested ancestor, and merges their own members ancestor-first, so a
// member redefined between the two wins over the ancestor's original.
//
// Descriptors are immutable once Extend returns and may be shared across
// goroutines. Objects are not synchronized.
package class
