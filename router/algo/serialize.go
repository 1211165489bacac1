package algo

import (
	"fmt"
	"strconv"
	"strings"
)

// 路由序列化为紧凑文本，如 (1,1)-L0-(1.5,1)-L1-(1.5,2)-L0-(2,2)
// 坐标与车道token交替出现，末尾路径点的车道恒为0故不输出
func RouteToString(route *Route) string {
	var b strings.Builder
	for i, wp := range route.Waypoints {
		if i > 0 {
			b.WriteString(fmt.Sprintf("-L%d-", route.Waypoints[i-1].Lane))
		}
		b.WriteString(wp.Coord.String())
	}
	return b.String()
}

// 从文本还原路由，复杂度由路径点序列重新计算
// 任何格式问题一律返回ErrMalformedRoute
func StringToRoute(s string) (*Route, error) {
	tokens, err := tokenizeRoute(s)
	if err != nil {
		return nil, err
	}
	// 合法文本token数必为奇数：n个坐标夹n-1个车道
	if len(tokens) < 3 || len(tokens)%2 == 0 {
		return nil, ErrMalformedRoute
	}

	waypoints := make([]Waypoint, 0, (len(tokens)+1)/2)
	for i, token := range tokens {
		if i%2 == 0 {
			coord, err := parseCoordToken(token)
			if err != nil {
				return nil, err
			}
			waypoints = append(waypoints, Waypoint{Coord: coord})
		} else {
			lane, err := parseLaneToken(token)
			if err != nil {
				return nil, err
			}
			// 车道token描述前一个路径点到下一个路径点之间的路段
			waypoints[len(waypoints)-1].Lane = lane
		}
	}
	// 末尾路径点的车道约定为0
	waypoints[len(waypoints)-1].Lane = 0

	return &Route{
		Waypoints:  waypoints,
		Complexity: ComputeComplexity(waypoints),
	}, nil
}

// 切分文本为坐标token与车道token的交替序列
// 不能用'-'直接split：负坐标和负车道内部也含'-'
func tokenizeRoute(s string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(s) {
		switch s[i] {
		case '(':
			end := strings.IndexByte(s[i:], ')')
			if end < 0 {
				return nil, ErrMalformedRoute
			}
			tokens = append(tokens, s[i:i+end+1])
			i += end + 1
		case 'L':
			// 车道token延伸到下一个坐标前的分隔符为止，允许带负号
			j := i + 1
			if j < len(s) && s[j] == '-' {
				j++
			}
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			tokens = append(tokens, s[i:j])
			i = j
		default:
			return nil, ErrMalformedRoute
		}
		// token之间必须以单个'-'衔接
		if i < len(s) {
			if s[i] != '-' {
				return nil, ErrMalformedRoute
			}
			i++
			if i == len(s) {
				return nil, ErrMalformedRoute
			}
		}
	}
	return tokens, nil
}

// 解析坐标token "(col,row)"，分量为整数或恰好半格的小数
func parseCoordToken(token string) (GridCoord, error) {
	if len(token) < 2 || token[0] != '(' || token[len(token)-1] != ')' {
		return GridCoord{}, ErrMalformedRoute
	}
	parts := strings.Split(token[1:len(token)-1], ",")
	if len(parts) != 2 {
		return GridCoord{}, ErrMalformedRoute
	}
	col2, err := parseHalf(parts[0])
	if err != nil {
		return GridCoord{}, err
	}
	row2, err := parseHalf(parts[1])
	if err != nil {
		return GridCoord{}, err
	}
	return GridCoord{Col2: col2, Row2: row2}, nil
}

// 解析坐标分量为二倍整数，仅接受x或x.5形式
func parseHalf(s string) (int32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrMalformedRoute
	}
	doubled := v * 2
	if doubled != float64(int32(doubled)) {
		return 0, ErrMalformedRoute
	}
	return int32(doubled), nil
}

// 解析车道token "L{n}"
func parseLaneToken(token string) (Lane, error) {
	if len(token) < 2 || token[0] != 'L' {
		return 0, ErrMalformedRoute
	}
	n, err := strconv.ParseInt(token[1:], 10, 32)
	if err != nil {
		return 0, ErrMalformedRoute
	}
	return Lane(n), nil
}
