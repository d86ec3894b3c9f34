package class

// Superclass returns the class c was composed from, or nil for Root.
func (c *Class) Superclass() *Class {
	return c.parent
}

// InheritsFrom reports whether candidate appears in c's ancestry chain,
// starting with c itself. A nil candidate is never an ancestor.
func (c *Class) InheritsFrom(candidate *Class) bool {
	if candidate == nil {
		return false
	}
	for level := c; level != nil; level = level.parent {
		if level == candidate {
			return true
		}
	}
	return false
}

// Ancestors returns the chain from c up to Root, most-derived first.
func (c *Class) Ancestors() []*Class {
	chain := make([]*Class, 0, c.depth+1)
	for level := c; level != nil; level = level.parent {
		chain = append(chain, level)
	}
	return chain
}

// Depth returns the number of Extend steps between Root and c.
func (c *Class) Depth() int {
	return c.depth
}
