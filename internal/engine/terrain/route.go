package terrain

import (
	"container/heap"
)

// Cell addresses a passability cell.
type Cell struct {
	Col, Row int
}

type routeNode struct {
	cell   Cell
	g, h   float32
	f      float32
	parent *routeNode
	index  int
}

type routeHeap []*routeNode

func (h routeHeap) Len() int           { return len(h) }
func (h routeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h routeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *routeHeap) Push(x any) {
	n := x.(*routeNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *routeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

// 8-way neighbourhood; odd indices are diagonals.
var routeDirs = [8][2]int{
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
}

const (
	straightCost = float32(1.0)
	diagonalCost = float32(1.414)
)

// FindPath returns an A* route of open cells from start to goal, inclusive,
// or nil when none exists. Diagonal steps may not cut blocked corners.
func (p *PassabilityGrid) FindPath(start, goal Cell) []Cell {
	if p.BlockedAt(start.Col, start.Row) || p.BlockedAt(goal.Col, goal.Row) {
		return nil
	}

	open := &routeHeap{}
	heap.Init(open)
	closed := make([]bool, p.Width*p.Depth)
	nodes := make(map[int]*routeNode)

	first := &routeNode{cell: start, h: octile(start, goal)}
	first.f = first.h
	heap.Push(open, first)
	nodes[p.key(start)] = first

	for open.Len() > 0 {
		cur := heap.Pop(open).(*routeNode)
		if cur.cell == goal {
			return unwind(cur)
		}
		closed[p.key(cur.cell)] = true

		for i, d := range routeDirs {
			next := Cell{cur.cell.Col + d[0], cur.cell.Row + d[1]}
			if p.BlockedAt(next.Col, next.Row) || closed[p.key(next)] {
				continue
			}

			cost := straightCost
			if i%2 == 1 {
				if p.BlockedAt(cur.cell.Col+d[0], cur.cell.Row) || p.BlockedAt(cur.cell.Col, cur.cell.Row+d[1]) {
					continue
				}
				cost = diagonalCost
			}

			g := cur.g + cost
			n, seen := nodes[p.key(next)]
			if !seen {
				n = &routeNode{cell: next, g: g, h: octile(next, goal), parent: cur}
				n.f = n.g + n.h
				nodes[p.key(next)] = n
				heap.Push(open, n)
			} else if g < n.g {
				n.g = g
				n.f = n.g + n.h
				n.parent = cur
				heap.Fix(open, n.index)
			}
		}
	}
	return nil
}

func (p *PassabilityGrid) key(c Cell) int {
	return c.Row*p.Width + c.Col
}

func octile(a, b Cell) float32 {
	dx, dy := absInt(b.Col-a.Col), absInt(b.Row-a.Row)
	if dx < dy {
		return float32(dx)*diagonalCost + float32(dy-dx)
	}
	return float32(dy)*diagonalCost + float32(dx-dy)
}

func unwind(n *routeNode) []Cell {
	var path []Cell
	for ; n != nil; n = n.parent {
		path = append(path, n.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
