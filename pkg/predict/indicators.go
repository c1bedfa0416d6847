package predict

import "math"

// SMA averages the last n values, or all of them when fewer exist.
func SMA(values []float64, n int) float64 {
	if len(values) == 0 || n <= 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// RSI is the simple-average relative strength index over the last period
// changes. Too little data yields the neutral 50.
func RSI(values []float64, period int) float64 {
	if period <= 0 || len(values) < period+1 {
		return 50
	}

	var gains, losses float64
	window := values[len(values)-period-1:]
	for i := 1; i < len(window); i++ {
		d := window[i] - window[i-1]
		if d > 0 {
			gains += d
		} else {
			losses -= d
		}
	}

	if losses == 0 {
		if gains == 0 {
			return 50
		}
		return 100
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - 100/(1+rs)
}

// Volatility is the population standard deviation of daily returns.
func Volatility(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance)
}
