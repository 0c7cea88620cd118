package level

// InQueue reports whether the node is currently linked into a Queue.
func (n Node[ID]) InQueue() bool { return n.inQueue }
