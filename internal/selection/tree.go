// Package selection maintains the tri-state selection tree and the interactive
// terminal selector that mutates it.
package selection

import (
	"path"
	"sort"
	"strings"
)

// NodeKind distinguishes files from directories.
type NodeKind int

const (
	// KindFile marks a regular file node.
	KindFile NodeKind = iota
	// KindDirectory marks a directory node.
	KindDirectory
)

// InclusionState is the tri-state inclusion flag. Files hold only Excluded or
// Included; directory states are derived from their descendants and never set
// directly.
type InclusionState int

const (
	// StateExcluded means no descendant file is included.
	StateExcluded InclusionState = iota
	// StateIncluded means every descendant file is included.
	StateIncluded
	// StatePartial means at least one but not all descendant files are included.
	StatePartial
)

const (
	// RootIndex addresses the root directory node in every tree.
	RootIndex = 0
	noParent  = -1
)

// Node is one filesystem entry in the selection tree arena.
type Node struct {
	Name     string
	Path     string // slash-separated, relative to the scan root; "" for the root
	Kind     NodeKind
	Parent   int
	Children []int
	State    InclusionState
}

// Tree owns the node arena. Nodes are addressed by index; children are kept
// sorted by name so depth-first iteration is deterministic. The tree is built
// once from scan results and never gains new paths afterwards.
type Tree struct {
	nodes []Node
}

// NewTree builds a selection tree from candidate file paths. Every file starts
// Included when includeAll is set (auto mode) and Excluded otherwise, forcing
// the operator to opt in. Directory states are derived immediately.
func NewTree(relativeFilePaths []string, includeAll bool) *Tree {
	tree := &Tree{
		nodes: []Node{{Name: ".", Path: "", Kind: KindDirectory, Parent: noParent}},
	}
	for _, relativeFilePath := range relativeFilePaths {
		tree.insert(relativeFilePath, includeAll)
	}
	tree.recomputeSubtree(RootIndex)
	return tree
}

// insert adds one file path, creating intermediate directory nodes on demand.
func (tree *Tree) insert(relativeFilePath string, included bool) {
	segments := strings.Split(relativeFilePath, "/")
	currentIndex := RootIndex
	for segmentIndex, segment := range segments {
		isFile := segmentIndex == len(segments)-1
		childIndex := tree.findChild(currentIndex, segment)
		if childIndex < 0 {
			node := Node{
				Name:   segment,
				Path:   path.Join(tree.nodes[currentIndex].Path, segment),
				Kind:   KindDirectory,
				Parent: currentIndex,
			}
			if isFile {
				node.Kind = KindFile
				if included {
					node.State = StateIncluded
				}
			}
			tree.nodes = append(tree.nodes, node)
			childIndex = len(tree.nodes) - 1
			tree.attachChild(currentIndex, childIndex)
		}
		currentIndex = childIndex
	}
}

// findChild returns the index of the named child of parentIndex, or -1.
func (tree *Tree) findChild(parentIndex int, name string) int {
	for _, childIndex := range tree.nodes[parentIndex].Children {
		if tree.nodes[childIndex].Name == name {
			return childIndex
		}
	}
	return -1
}

// attachChild inserts childIndex into the parent's child list, keeping the
// list sorted by node name.
func (tree *Tree) attachChild(parentIndex, childIndex int) {
	children := tree.nodes[parentIndex].Children
	childName := tree.nodes[childIndex].Name
	insertAt := sort.Search(len(children), func(position int) bool {
		return tree.nodes[children[position]].Name > childName
	})
	children = append(children, 0)
	copy(children[insertAt+1:], children[insertAt:])
	children[insertAt] = childIndex
	tree.nodes[parentIndex].Children = children
}

// Len returns the number of nodes in the arena.
func (tree *Tree) Len() int {
	return len(tree.nodes)
}

// Node returns a copy of the node at the given index.
func (tree *Tree) Node(index int) Node {
	return tree.nodes[index]
}

// Toggle flips a file's inclusion or bulk-toggles a directory's subtree.
// Toggling a directory whose derived state is Excluded or PartiallyIncluded
// includes every descendant file; toggling an Included directory excludes all
// of them. Derived states are recomputed before returning.
func (tree *Tree) Toggle(index int) {
	node := tree.nodes[index]
	if node.Kind == KindFile {
		if node.State == StateIncluded {
			tree.nodes[index].State = StateExcluded
		} else {
			tree.nodes[index].State = StateIncluded
		}
		tree.recomputeAncestors(node.Parent)
		return
	}

	targetState := StateIncluded
	if node.State == StateIncluded {
		targetState = StateExcluded
	}
	tree.setSubtreeFiles(index, targetState)
	tree.recomputeSubtree(index)
	tree.recomputeAncestors(node.Parent)
}

// SelectAll includes every file in the tree.
func (tree *Tree) SelectAll() {
	tree.setSubtreeFiles(RootIndex, StateIncluded)
	tree.recomputeSubtree(RootIndex)
}

// SelectNone excludes every file in the tree.
func (tree *Tree) SelectNone() {
	tree.setSubtreeFiles(RootIndex, StateExcluded)
	tree.recomputeSubtree(RootIndex)
}

// setSubtreeFiles assigns state to every file beneath index, inclusive.
func (tree *Tree) setSubtreeFiles(index int, state InclusionState) {
	if tree.nodes[index].Kind == KindFile {
		tree.nodes[index].State = state
		return
	}
	for _, childIndex := range tree.nodes[index].Children {
		tree.setSubtreeFiles(childIndex, state)
	}
}

// recomputeSubtree derives directory states bottom-up for the subtree at index.
func (tree *Tree) recomputeSubtree(index int) {
	if tree.nodes[index].Kind == KindFile {
		return
	}
	includedFiles, totalFiles := 0, 0
	for _, childIndex := range tree.nodes[index].Children {
		tree.recomputeSubtree(childIndex)
		childIncluded, childTotal := tree.countFiles(childIndex)
		includedFiles += childIncluded
		totalFiles += childTotal
	}
	tree.nodes[index].State = deriveState(includedFiles, totalFiles)
}

// recomputeAncestors re-derives directory states walking up from index.
func (tree *Tree) recomputeAncestors(index int) {
	for current := index; current != noParent; current = tree.nodes[current].Parent {
		includedFiles, totalFiles := tree.countFiles(current)
		tree.nodes[current].State = deriveState(includedFiles, totalFiles)
	}
}

// countFiles reports included and total file counts for the subtree at index.
func (tree *Tree) countFiles(index int) (includedFiles, totalFiles int) {
	node := tree.nodes[index]
	if node.Kind == KindFile {
		if node.State == StateIncluded {
			return 1, 1
		}
		return 0, 1
	}
	for _, childIndex := range node.Children {
		childIncluded, childTotal := tree.countFiles(childIndex)
		includedFiles += childIncluded
		totalFiles += childTotal
	}
	return includedFiles, totalFiles
}

// deriveState maps file counts onto the tri-state invariant.
func deriveState(includedFiles, totalFiles int) InclusionState {
	switch {
	case totalFiles == 0 || includedFiles == 0:
		return StateExcluded
	case includedFiles == totalFiles:
		return StateIncluded
	default:
		return StatePartial
	}
}

// FileCount returns the total number of file nodes.
func (tree *Tree) FileCount() int {
	_, totalFiles := tree.countFiles(RootIndex)
	return totalFiles
}

// IncludedFileCount returns the number of files currently Included.
func (tree *Tree) IncludedFileCount() int {
	includedFiles, _ := tree.countFiles(RootIndex)
	return includedFiles
}

// IncludedFiles returns the relative paths of every Included file in tree
// order: depth-first, children alphabetical.
func (tree *Tree) IncludedFiles() []string {
	var includedPaths []string
	tree.walkIncluded(RootIndex, &includedPaths)
	return includedPaths
}

func (tree *Tree) walkIncluded(index int, includedPaths *[]string) {
	node := tree.nodes[index]
	if node.Kind == KindFile {
		if node.State == StateIncluded {
			*includedPaths = append(*includedPaths, node.Path)
		}
		return
	}
	for _, childIndex := range node.Children {
		tree.walkIncluded(childIndex, includedPaths)
	}
}
