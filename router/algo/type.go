package algo

import (
	"strconv"
	"strings"
)

// 网格坐标（二倍坐标表示）
// 内部存储值为逻辑坐标的两倍，使半格位置（junction）也是精确整数，
// 比较、哈希、排序全部精确，无浮点误差
type GridCoord struct {
	Col2 int32
	Row2 int32
}

// 由整数格点坐标构造
func FromInt(col, row int32) GridCoord {
	return GridCoord{Col2: col * 2, Row2: row * 2}
}

// 由实际坐标构造（可为半整数），如FromGrid(1.5, 2) -> {3, 4}
func FromGrid(col, row float64) GridCoord {
	return GridCoord{
		Col2: roundHalfAway(col * 2),
		Row2: roundHalfAway(row * 2),
	}
}

func roundHalfAway(v float64) int32 {
	if v < 0 {
		return int32(v - 0.5)
	}
	return int32(v + 0.5)
}

// 实际列坐标
func (c GridCoord) Col() float64 {
	return float64(c.Col2) / 2
}

// 实际行坐标
func (c GridCoord) Row() float64 {
	return float64(c.Row2) / 2
}

// 沿指定方向走一步（二倍坐标下一步即±1）
func (c GridCoord) Step(dir Direction) GridCoord {
	switch dir {
	case NORTH:
		return GridCoord{Col2: c.Col2, Row2: c.Row2 - 1}
	case SOUTH:
		return GridCoord{Col2: c.Col2, Row2: c.Row2 + 1}
	case EAST:
		return GridCoord{Col2: c.Col2 + 1, Row2: c.Row2}
	default:
		return GridCoord{Col2: c.Col2 - 1, Row2: c.Row2}
	}
}

// 二倍坐标下的曼哈顿距离
func (c GridCoord) ManhattanTo(o GridCoord) int32 {
	return abs32(c.Col2-o.Col2) + abs32(c.Row2-o.Row2)
}

// 是否为单元格中心（两分量均为偶数）
func (c GridCoord) IsCellCenter() bool {
	return c.Col2%2 == 0 && c.Row2%2 == 0
}

// 是否为街道交叉点（两分量均为奇数）
func (c GridCoord) IsStreetIntersection() bool {
	return c.Col2%2 != 0 && c.Row2%2 != 0
}

// 是否为路口（恰有一个分量为奇数）
func (c GridCoord) IsJunction() bool {
	return (c.Col2%2 != 0) != (c.Row2%2 != 0)
}

// 全序比较：先按行再按列，返回-1/0/1
func (c GridCoord) Cmp(o GridCoord) int {
	if c.Row2 != o.Row2 {
		if c.Row2 < o.Row2 {
			return -1
		}
		return 1
	}
	if c.Col2 != o.Col2 {
		if c.Col2 < o.Col2 {
			return -1
		}
		return 1
	}
	return 0
}

func (c GridCoord) Less(o GridCoord) bool {
	return c.Cmp(o) < 0
}

// 输出为路由语言中的坐标形式，整数不带小数点，半整数保留一位小数
func (c GridCoord) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(formatHalf(c.Col2))
	b.WriteByte(',')
	b.WriteString(formatHalf(c.Row2))
	b.WriteByte(')')
	return b.String()
}

func formatHalf(v2 int32) string {
	if v2%2 == 0 {
		return strconv.FormatInt(int64(v2/2), 10)
	}
	return strconv.FormatFloat(float64(v2)/2, 'f', 1, 64)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// 行进方向
type Direction uint8

const (
	NORTH Direction = iota
	EAST
	SOUTH
	WEST
)

// 全部方向，定序保证确定性遍历
var DIRECTIONS = [4]Direction{NORTH, EAST, SOUTH, WEST}

// 是否为水平方向（东/西）
func (d Direction) IsHorizontal() bool {
	return d == EAST || d == WEST
}

// 从d转向o是否构成转弯（水平<->竖直）
func (d Direction) IsTurn(o Direction) bool {
	return d.IsHorizontal() != o.IsHorizontal()
}

// 反方向
func (d Direction) Opposite() Direction {
	switch d {
	case NORTH:
		return SOUTH
	case SOUTH:
		return NORTH
	case EAST:
		return WEST
	default:
		return EAST
	}
}

func (d Direction) String() string {
	switch d {
	case NORTH:
		return "north"
	case EAST:
		return "east"
	case SOUTH:
		return "south"
	default:
		return "west"
	}
}

// 相邻两点之间路段的规范化标识
// From恒为全序较小的一端，同一物理路段无论行进方向如何标识一致
type SegmentId struct {
	From GridCoord
	To   GridCoord
}

func NewSegmentId(a, b GridCoord) SegmentId {
	if a.Cmp(b) <= 0 {
		return SegmentId{From: a, To: b}
	}
	return SegmentId{From: b, To: a}
}

// 路段是否水平（两端同行）
func (s SegmentId) IsHorizontal() bool {
	return s.From.Row2 == s.To.Row2
}

// 车道编号，0为中心车道，正值向高列/行方向偏移，负值反之
type Lane = int32

// 路径点：坐标 + 其后一段路段所用车道
// 末尾路径点的车道无意义，固定为0
type Waypoint struct {
	Coord GridCoord
	Lane  Lane
}

// 路由复杂度指标
type RouteComplexity struct {
	// 路径总长度（实际格点单位）
	Length float64
	// 转弯次数
	Turns int32
	// 车道变更次数（与转弯同时发生的不计）
	LaneChanges int32
}

func (c RouteComplexity) Total() float64 {
	return c.Length + float64(c.Turns) + float64(c.LaneChanges)
}

// 比较复杂度：先Total，再Length、Turns、LaneChanges，返回-1/0/1
// 所有数值均为0.5的整数倍，浮点相等判断精确
func (c RouteComplexity) Cmp(o RouteComplexity) int {
	if t1, t2 := c.Total(), o.Total(); t1 != t2 {
		if t1 < t2 {
			return -1
		}
		return 1
	}
	if c.Length != o.Length {
		if c.Length < o.Length {
			return -1
		}
		return 1
	}
	if c.Turns != o.Turns {
		if c.Turns < o.Turns {
			return -1
		}
		return 1
	}
	if c.LaneChanges != o.LaneChanges {
		if c.LaneChanges < o.LaneChanges {
			return -1
		}
		return 1
	}
	return 0
}

// 一条完整路由
type Route struct {
	// 自起点单元格中心到终点单元格中心的有序路径点
	Waypoints []Waypoint
	// 搜索过程中累积的复杂度
	Complexity RouteComplexity
}
