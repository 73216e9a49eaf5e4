package box3d

import (
	"github.com/go-gl/mathgl/mgl64"
)

type B3TreeQueryCallback func(nodeId int) bool

const B3_nullNode = -1

type B3TreeNode struct {

	/// Enlarged AABB
	Aabb B3AABB

	UserData interface{}

	// Parent in the tree, next free node while in the free list.
	Parent int
	Next   int

	Child1 int
	Child2 int

	// leaf = 0, free node = -1
	Height int
}

func (node B3TreeNode) IsLeaf() bool {
	return node.Child1 == B3_nullNode
}

/// A dynamic AABB tree, inspired by Nathanael Presson's btDbvt.
/// Leafs are proxies with an AABB. Proxy boxes are enlarged by the tree's
/// extension so that the client object can move by small amounts without
/// triggering a tree update. Internal nodes are chosen by a surface area
/// heuristic and kept balanced by rotations.
///
/// Nodes are pooled and relocatable, so we use node indices rather than pointers.
type B3DynamicTree struct {
	M_root int

	M_nodes     []B3TreeNode
	M_nodeCount int

	M_freeList int

	/// Margin added around every proxy box.
	M_extension float64

	M_insertionCount int
}

func MakeB3DynamicTree() B3DynamicTree {
	return MakeB3DynamicTreeWithExtension(B3_aabbExtension)
}

/// A tree whose proxies are enlarged by extension. Static indexes such as
/// mesh triangles use zero.
func MakeB3DynamicTreeWithExtension(extension float64) B3DynamicTree {
	tree := B3DynamicTree{
		M_root:      B3_nullNode,
		M_freeList:  B3_nullNode,
		M_extension: extension,
	}
	tree.growPool(16)
	return tree
}

func NewB3DynamicTree() *B3DynamicTree {
	res := MakeB3DynamicTree()
	return &res
}

// Append capacity free nodes and link them into the free list.
func (tree *B3DynamicTree) growPool(count int) {
	first := len(tree.M_nodes)
	tree.M_nodes = append(tree.M_nodes, make([]B3TreeNode, count)...)
	for i := first; i < len(tree.M_nodes); i++ {
		tree.M_nodes[i].Next = i + 1
		tree.M_nodes[i].Height = -1
	}
	tree.M_nodes[len(tree.M_nodes)-1].Next = tree.M_freeList
	tree.M_freeList = first
}

// Allocate a node from the pool. Grow the pool if necessary.
func (tree *B3DynamicTree) AllocateNode() int {
	if tree.M_freeList == B3_nullNode {
		tree.growPool(len(tree.M_nodes))
	}

	nodeId := tree.M_freeList
	node := &tree.M_nodes[nodeId]
	tree.M_freeList = node.Next
	node.Parent = B3_nullNode
	node.Child1 = B3_nullNode
	node.Child2 = B3_nullNode
	node.Height = 0
	node.UserData = nil
	tree.M_nodeCount++

	return nodeId
}

// Return a node to the pool.
func (tree *B3DynamicTree) FreeNode(nodeId int) {
	B3Assert(0 <= nodeId && nodeId < len(tree.M_nodes))
	B3Assert(0 < tree.M_nodeCount)
	tree.M_nodes[nodeId].Next = tree.M_freeList
	tree.M_nodes[nodeId].Height = -1
	tree.M_nodes[nodeId].UserData = nil
	tree.M_freeList = nodeId
	tree.M_nodeCount--
}

func (tree B3DynamicTree) GetUserData(proxyId int) interface{} {
	B3Assert(0 <= proxyId && proxyId < len(tree.M_nodes))
	return tree.M_nodes[proxyId].UserData
}

func (tree B3DynamicTree) GetFatAABB(proxyId int) B3AABB {
	B3Assert(0 <= proxyId && proxyId < len(tree.M_nodes))
	return tree.M_nodes[proxyId].Aabb
}

func (tree B3DynamicTree) GetProxyCount() int {
	count := 0
	for i := range tree.M_nodes {
		if tree.M_nodes[i].Height == 0 {
			count++
		}
	}
	return count
}

/// Query every leaf whose fat AABB overlaps aabb. The callback returns false
/// to stop the query. Queries only read the tree.
func (tree B3DynamicTree) Query(queryCallback B3TreeQueryCallback, aabb B3AABB) {
	if tree.M_root == B3_nullNode {
		return
	}

	stack := NewB3GrowableStack[int](64)
	stack.Push(tree.M_root)

	for stack.GetCount() > 0 {
		nodeId, _ := stack.Pop()
		node := &tree.M_nodes[nodeId]

		if !B3TestOverlapBoundingBoxes(node.Aabb, aabb) {
			continue
		}

		if node.IsLeaf() {
			if !queryCallback(nodeId) {
				return
			}
			continue
		}

		stack.Push(node.Child1)
		stack.Push(node.Child2)
	}
}

// Create a proxy in the tree as a leaf node. We return the index
// of the node instead of a pointer so that we can grow
// the node pool.
func (tree *B3DynamicTree) CreateProxy(aabb B3AABB, userData interface{}) int {
	proxyId := tree.AllocateNode()

	tree.M_nodes[proxyId].Aabb = aabb.Extended(tree.M_extension)
	tree.M_nodes[proxyId].UserData = userData
	tree.M_nodes[proxyId].Height = 0

	tree.InsertLeaf(proxyId)

	return proxyId
}

func (tree *B3DynamicTree) DestroyProxy(proxyId int) {
	B3Assert(0 <= proxyId && proxyId < len(tree.M_nodes))
	B3Assert(tree.M_nodes[proxyId].IsLeaf())

	tree.RemoveLeaf(proxyId)
	tree.FreeNode(proxyId)
}

/// Move a proxy with a swepted AABB. If the proxy has moved outside of its
/// fattened AABB, then the proxy is removed from the tree and re-inserted.
/// Otherwise the function returns immediately.
/// @return true if the proxy was re-inserted.
func (tree *B3DynamicTree) MoveProxy(proxyId int, aabb B3AABB, displacement mgl64.Vec3) bool {
	B3Assert(0 <= proxyId && proxyId < len(tree.M_nodes))
	B3Assert(tree.M_nodes[proxyId].IsLeaf())

	if tree.M_nodes[proxyId].Aabb.Contains(aabb) {
		return false
	}

	tree.RemoveLeaf(proxyId)

	b := aabb.Extended(tree.M_extension)

	// Predict AABB displacement.
	d := displacement.Mul(B3_aabbMultiplier)
	for i := 0; i < 3; i++ {
		if d[i] < 0.0 {
			b.LowerBound[i] += d[i]
		} else {
			b.UpperBound[i] += d[i]
		}
	}

	tree.M_nodes[proxyId].Aabb = b

	tree.InsertLeaf(proxyId)

	return true
}

// Cost of moving down into child when inserting leafAABB.
func (tree B3DynamicTree) descendCost(child int, leafAABB B3AABB, inheritanceCost float64) float64 {
	var combined B3AABB
	combined.CombineTwoInPlace(leafAABB, tree.M_nodes[child].Aabb)
	if tree.M_nodes[child].IsLeaf() {
		return combined.GetPerimeter() + inheritanceCost
	}
	return combined.GetPerimeter() - tree.M_nodes[child].Aabb.GetPerimeter() + inheritanceCost
}

func (tree *B3DynamicTree) InsertLeaf(leaf int) {
	tree.M_insertionCount++

	if tree.M_root == B3_nullNode {
		tree.M_root = leaf
		tree.M_nodes[leaf].Parent = B3_nullNode
		return
	}

	// Find the best sibling for this node
	leafAABB := tree.M_nodes[leaf].Aabb
	index := tree.M_root
	for !tree.M_nodes[index].IsLeaf() {
		area := tree.M_nodes[index].Aabb.GetPerimeter()

		var combined B3AABB
		combined.CombineTwoInPlace(tree.M_nodes[index].Aabb, leafAABB)
		combinedArea := combined.GetPerimeter()

		// Cost of creating a new parent for this node and the new leaf
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree
		inheritanceCost := 2.0 * (combinedArea - area)

		cost1 := tree.descendCost(tree.M_nodes[index].Child1, leafAABB, inheritanceCost)
		cost2 := tree.descendCost(tree.M_nodes[index].Child2, leafAABB, inheritanceCost)

		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 < cost2 {
			index = tree.M_nodes[index].Child1
		} else {
			index = tree.M_nodes[index].Child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.M_nodes[sibling].Parent
	newParent := tree.AllocateNode()
	tree.M_nodes[newParent].Parent = oldParent
	tree.M_nodes[newParent].Aabb.CombineTwoInPlace(leafAABB, tree.M_nodes[sibling].Aabb)
	tree.M_nodes[newParent].Height = tree.M_nodes[sibling].Height + 1
	tree.M_nodes[newParent].Child1 = sibling
	tree.M_nodes[newParent].Child2 = leaf
	tree.M_nodes[sibling].Parent = newParent
	tree.M_nodes[leaf].Parent = newParent

	if oldParent == B3_nullNode {
		tree.M_root = newParent
	} else if tree.M_nodes[oldParent].Child1 == sibling {
		tree.M_nodes[oldParent].Child1 = newParent
	} else {
		tree.M_nodes[oldParent].Child2 = newParent
	}

	tree.refit(tree.M_nodes[leaf].Parent)
}

func (tree *B3DynamicTree) RemoveLeaf(leaf int) {
	if leaf == tree.M_root {
		tree.M_root = B3_nullNode
		return
	}

	parent := tree.M_nodes[leaf].Parent
	grandParent := tree.M_nodes[parent].Parent
	sibling := tree.M_nodes[parent].Child1
	if sibling == leaf {
		sibling = tree.M_nodes[parent].Child2
	}

	tree.FreeNode(parent)

	if grandParent == B3_nullNode {
		tree.M_root = sibling
		tree.M_nodes[sibling].Parent = B3_nullNode
		return
	}

	// Destroy parent and connect sibling to grandParent.
	if tree.M_nodes[grandParent].Child1 == parent {
		tree.M_nodes[grandParent].Child1 = sibling
	} else {
		tree.M_nodes[grandParent].Child2 = sibling
	}
	tree.M_nodes[sibling].Parent = grandParent

	tree.refit(grandParent)
}

// Walk back up the tree fixing heights and AABBs.
func (tree *B3DynamicTree) refit(index int) {
	for index != B3_nullNode {
		index = tree.Balance(index)

		child1 := tree.M_nodes[index].Child1
		child2 := tree.M_nodes[index].Child2

		B3Assert(child1 != B3_nullNode)
		B3Assert(child2 != B3_nullNode)

		tree.M_nodes[index].Height = 1 + maxInt(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height)
		tree.M_nodes[index].Aabb.CombineTwoInPlace(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)

		index = tree.M_nodes[index].Parent
	}
}

// Perform a left or right rotation if node A is imbalanced.
// Returns the new root index.
func (tree *B3DynamicTree) Balance(iA int) int {
	B3Assert(iA != B3_nullNode)

	A := &tree.M_nodes[iA]
	if A.IsLeaf() || A.Height < 2 {
		return iA
	}

	iB := A.Child1
	iC := A.Child2
	balance := tree.M_nodes[iC].Height - tree.M_nodes[iB].Height

	if balance > 1 {
		return tree.rotateUp(iA, iC, iB, false)
	}
	if balance < -1 {
		return tree.rotateUp(iA, iB, iC, true)
	}
	return iA
}

// Rotate the taller child iUp above iA. iKeep is the other child of iA.
// The shorter grandchild moves under iA in place of iUp.
func (tree *B3DynamicTree) rotateUp(iA, iUp, iKeep int, upWasChild1 bool) int {
	A := &tree.M_nodes[iA]
	Up := &tree.M_nodes[iUp]
	Keep := &tree.M_nodes[iKeep]

	iF := Up.Child1
	iG := Up.Child2
	F := &tree.M_nodes[iF]
	G := &tree.M_nodes[iG]

	// Swap A and Up
	Up.Child1 = iA
	Up.Parent = A.Parent
	A.Parent = iUp

	// A's old parent should point to Up
	if Up.Parent != B3_nullNode {
		if tree.M_nodes[Up.Parent].Child1 == iA {
			tree.M_nodes[Up.Parent].Child1 = iUp
		} else {
			B3Assert(tree.M_nodes[Up.Parent].Child2 == iA)
			tree.M_nodes[Up.Parent].Child2 = iUp
		}
	} else {
		tree.M_root = iUp
	}

	// The taller grandchild stays under Up.
	iTall, iShort := iF, iG
	Tall, Short := F, G
	if F.Height <= G.Height {
		iTall, iShort = iG, iF
		Tall, Short = G, F
	}

	Up.Child2 = iTall
	if upWasChild1 {
		A.Child1 = iShort
	} else {
		A.Child2 = iShort
	}
	Short.Parent = iA

	A.Aabb.CombineTwoInPlace(Keep.Aabb, Short.Aabb)
	Up.Aabb.CombineTwoInPlace(A.Aabb, Tall.Aabb)

	A.Height = 1 + maxInt(Keep.Height, Short.Height)
	Up.Height = 1 + maxInt(A.Height, Tall.Height)

	return iUp
}

func (tree B3DynamicTree) GetHeight() int {
	if tree.M_root == B3_nullNode {
		return 0
	}

	return tree.M_nodes[tree.M_root].Height
}

/// Get the ratio of the sum of the node areas to the root area.
func (tree B3DynamicTree) GetAreaRatio() float64 {
	if tree.M_root == B3_nullNode {
		return 0.0
	}

	rootArea := tree.M_nodes[tree.M_root].Aabb.GetPerimeter()
	if rootArea <= 0.0 {
		return 0.0
	}

	totalArea := 0.0
	for i := range tree.M_nodes {
		if tree.M_nodes[i].Height < 0 {
			// Free node in pool
			continue
		}
		totalArea += tree.M_nodes[i].Aabb.GetPerimeter()
	}

	return totalArea / rootArea
}

/// Get the maximum balance of an node in the tree. The balance is the difference
/// in height of the two children of a node.
func (tree B3DynamicTree) GetMaxBalance() int {
	maxBalance := 0
	for i := range tree.M_nodes {
		node := &tree.M_nodes[i]
		if node.Height <= 1 {
			continue
		}

		B3Assert(!node.IsLeaf())

		balance := tree.M_nodes[node.Child2].Height - tree.M_nodes[node.Child1].Height
		if balance < 0 {
			balance = -balance
		}
		maxBalance = maxInt(maxBalance, balance)
	}

	return maxBalance
}

/// Validate this tree: parent links, heights and enclosing boxes. Panics
/// through B3Assert on the first inconsistency.
func (tree B3DynamicTree) Validate() {
	tree.validateNode(tree.M_root)

	freeCount := 0
	for freeIndex := tree.M_freeList; freeIndex != B3_nullNode; freeIndex = tree.M_nodes[freeIndex].Next {
		B3Assert(0 <= freeIndex && freeIndex < len(tree.M_nodes))
		freeCount++
	}

	B3Assert(tree.M_nodeCount+freeCount == len(tree.M_nodes))
}

func (tree B3DynamicTree) validateNode(index int) {
	if index == B3_nullNode {
		return
	}

	if index == tree.M_root {
		B3Assert(tree.M_nodes[index].Parent == B3_nullNode)
	}

	node := &tree.M_nodes[index]
	if node.IsLeaf() {
		B3Assert(node.Child2 == B3_nullNode)
		B3Assert(node.Height == 0)
		return
	}

	child1 := node.Child1
	child2 := node.Child2
	B3Assert(tree.M_nodes[child1].Parent == index)
	B3Assert(tree.M_nodes[child2].Parent == index)
	B3Assert(node.Height == 1+maxInt(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height))

	var aabb B3AABB
	aabb.CombineTwoInPlace(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)
	B3Assert(aabb.LowerBound == node.Aabb.LowerBound)
	B3Assert(aabb.UpperBound == node.Aabb.UpperBound)

	tree.validateNode(child1)
	tree.validateNode(child2)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
