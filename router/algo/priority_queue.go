package algo

// 搜索开集中的元素
// 排序键为完整的复合比较器：许多对称路径的数值代价完全相同，
// 仅按FCost排序会让结果依赖堆内部顺序，破坏确定性
type Item struct {
	// 预估总代价 = GCost + 启发值
	FCost float64
	// 已累积代价
	GCost float64
	Coord GridCoord
	Lane  Lane
	Dir   Direction
	// 在heap中的下标
	Index int

	state *searchState
}

// 确定性比较：a是否应先于b弹出
// 依次比较FCost、GCost、坐标、|车道|（靠中心优先）、
// 车道值（同半径时正车道优先）、方向
func (a *Item) before(b *Item) bool {
	if a.FCost != b.FCost {
		return a.FCost < b.FCost
	}
	if a.GCost != b.GCost {
		return a.GCost < b.GCost
	}
	if c := a.Coord.Cmp(b.Coord); c != 0 {
		return c < 0
	}
	if la, lb := abs32(a.Lane), abs32(b.Lane); la != lb {
		return la < lb
	}
	if a.Lane != b.Lane {
		return a.Lane > b.Lane
	}
	return a.Dir < b.Dir
}

type PriorityQueue []*Item

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return pq[i].before(pq[j])
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x any) {
	item := x.(*Item)
	item.Index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
