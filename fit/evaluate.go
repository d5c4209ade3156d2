package fit

import "math"

// Measurement 是在某个假设字号下文本渲染框的宽高（单位与容器一致）。
type Measurement struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Probe 将候选字号应用到被测文本上并读回渲染框。
// 对固定内容与固定字号，结果必须是确定的。
type Probe func(size float64) Measurement

// Evaluate 按 mode 计算最优字号，结果总是落在 [minSize, maxSize] 内。
//
// previous 是上一次适配得到的字号（0 表示从未适配），width 模式用它作为比例估算的起点。
// maxSize < minSize 时不做校验，结果等于 minSize。
func Evaluate(mode Mode, minSize, maxSize, previous float64, probe Probe, availableWidth, availableHeight float64) float64 {
	if probe == nil {
		probe = func(float64) Measurement { return Measurement{} }
	}
	var size float64
	switch mode {
	case ModeHeight:
		// 假定单行渲染高度与字号 1:1，无需测量。
		size = availableHeight
	case ModeBox:
		size = fillBox(minSize, maxSize, probe, availableHeight)
	default:
		size = fillWidth(minSize, previous, probe, availableWidth)
	}
	return clamp(size, minSize, maxSize)
}

// fillWidth 做一次线性比例估算：宽度随字号线性增长（不换行时成立）。
// 不做迭代修正，非线性误差按近似处理。
func fillWidth(minSize, previous float64, probe Probe, available float64) float64 {
	seed := previous
	if seed <= 0 {
		seed = minSize
	}
	rendered := probe(seed).Width
	if rendered == 0 {
		// 空内容：比例无定义，保留起点字号。
		return seed
	}
	return seed * (available / rendered)
}

// fillBox 在 [minSize, maxSize] 上对整数字号二分，要求渲染高度随字号单调不减。
// 没有任何候选能放下时返回 minSize。
func fillBox(minSize, maxSize float64, probe Probe, available float64) float64 {
	low, high := minSize, math.Min(maxSize, math.MaxFloat64)
	best := low
	for low <= high {
		mid := math.Floor(low + (high-low)/2)
		if math.IsInf(mid, 0) {
			break
		}
		if probe(mid).Height > available {
			if mid-1 >= high {
				// 超出浮点整数精度，上界无法再收缩。
				break
			}
			high = mid - 1
		} else {
			best = mid
			if mid+1 <= low {
				break
			}
			low = mid + 1
		}
	}
	return best
}
