package deeprole

// CountNodes returns the total number of nodes in the subtree.
func CountNodes(root *Node) int {
	total := 1
	for i := range root.children {
		total += CountNodes(&root.children[i])
	}

	return total
}

// CountNodesOfType returns the number of nodes of the given type in the subtree.
func CountNodesOfType(root *Node, t NodeType) int {
	return CountNodesByType(root)[t]
}

// CountNodesByType returns the number of nodes of each type in the subtree.
func CountNodesByType(root *Node) [NumNodeTypes]int {
	var result [NumNodeTypes]int
	visit(root, func(node *Node) {
		result[node.Type]++
	})

	return result
}

// visit calls cb with every node in the subtree, parents before children.
func visit(node *Node, cb func(node *Node)) {
	cb(node)
	for i := range node.children {
		visit(&node.children[i], cb)
	}
}
