package utils

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
//
// 参考：https://easings.net/

// EaseInCubic 三次方缓入
// 特点：开始慢，结束快（彩纸默认淡出曲线 1 - EaseInCubic(t)）
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// Lerp 线性插值
// 公式：a + (b - a) * t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
