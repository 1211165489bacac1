package algo

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// 路由图中某一结点的出边
type Neighbor struct {
	Coord GridCoord
	Seg   SegmentId
	Dir   Direction
}

// 由格点范围和占用单元格构建的路由图
// 结点为单元格中心、路口与街道交叉点，边为相邻结点间的路段
type RoutingGraph struct {
	// 邻接表，结点 -> 出边（按DIRECTIONS定序）
	// Runtime期间邻接关系不变，四路并发搜索只读
	adjacency map[GridCoord][]Neighbor
	// 被图结点占用的单元格中心
	occupied map[GridCoord]struct{}
	// 每条路段的车道容量（水平用h容量，竖直用v容量）
	capacities map[SegmentId]Lane

	mu *xsync.RBMutex
}

// 根据单元格中心位置和车道容量构建路由图
//
// 格点范围取结点包围盒向外扩一格，保证边界街道始终存在，
// 贴边障碍也能从外侧绕行。零输入结点时得到空图
func NewRoutingGraph(cells []GridCoord, hLaneCapacity, vLaneCapacity Lane) *RoutingGraph {
	g := &RoutingGraph{
		adjacency:  make(map[GridCoord][]Neighbor),
		occupied:   make(map[GridCoord]struct{}),
		capacities: make(map[SegmentId]Lane),
		mu:         xsync.NewRBMutex(),
	}
	if len(cells) == 0 {
		return g
	}

	minCol2, maxCol2 := cells[0].Col2, cells[0].Col2
	minRow2, maxRow2 := cells[0].Row2, cells[0].Row2
	for _, c := range cells {
		g.occupied[c] = struct{}{}
		if c.Col2 < minCol2 {
			minCol2 = c.Col2
		}
		if c.Col2 > maxCol2 {
			maxCol2 = c.Col2
		}
		if c.Row2 < minRow2 {
			minRow2 = c.Row2
		}
		if c.Row2 > maxRow2 {
			maxRow2 = c.Row2
		}
	}

	// 二倍坐标范围：包围盒两侧各扩1，即边界街道所在的奇数坐标
	c2Min, c2Max := minCol2-1, maxCol2+1
	r2Min, r2Max := minRow2-1, maxRow2+1

	inRange := func(c GridCoord) bool {
		return c.Col2 >= c2Min && c.Col2 <= c2Max && c.Row2 >= r2Min && c.Row2 <= r2Max
	}

	// 范围内所有位置（中心、路口、交叉点）都是图结点，
	// 每个结点向四个方向连边（若目标仍在范围内）
	for c2 := c2Min; c2 <= c2Max; c2++ {
		for r2 := r2Min; r2 <= r2Max; r2++ {
			coord := GridCoord{Col2: c2, Row2: r2}
			neighbors := make([]Neighbor, 0, 4)
			for _, dir := range DIRECTIONS {
				next := coord.Step(dir)
				if !inRange(next) {
					continue
				}
				seg := NewSegmentId(coord, next)
				neighbors = append(neighbors, Neighbor{Coord: next, Seg: seg, Dir: dir})
				// 容量由路段朝向决定，首次遇到时写入一次即可
				if _, ok := g.capacities[seg]; !ok {
					if seg.IsHorizontal() {
						g.capacities[seg] = hLaneCapacity
					} else {
						g.capacities[seg] = vLaneCapacity
					}
				}
			}
			g.adjacency[coord] = neighbors
		}
	}
	return g
}

// 结点是否在图中
func (g *RoutingGraph) Contains(coord GridCoord) bool {
	_, ok := g.adjacency[coord]
	return ok
}

// 结点的出边，定序
func (g *RoutingGraph) Neighbors(coord GridCoord) []Neighbor {
	return g.adjacency[coord]
}

// 路段的车道容量，未知路段为0
func (g *RoutingGraph) Capacity(seg SegmentId) Lane {
	return g.capacities[seg]
}

// 单元格中心是否被占用
func (g *RoutingGraph) IsOccupied(coord GridCoord) bool {
	_, ok := g.occupied[coord]
	return ok
}

// 图中结点数
func (g *RoutingGraph) NodeCount() int {
	return len(g.adjacency)
}
