package algo

import "errors"

const (
	// 二倍坐标下每走一步对应的实际长度（格点单位）
	STEP_LENGTH = 0.5

	// 转弯代价
	TURN_COST = 1.0
	// 非转弯时变更车道的代价（与转弯同时发生的变道免费）
	LANE_CHANGE_COST = 1.0
)

var (
	// 错误：路由文本格式非法
	ErrMalformedRoute = errors.New("malformed route string")
)
