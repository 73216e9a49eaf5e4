package box3d

import "time"

/// Timer for profiling. This has platform specific code and may
/// not work on every platform.
type B3Timer struct {
	M_start time.Time
}

func MakeB3Timer() B3Timer {
	return B3Timer{
		M_start: time.Now(),
	}
}

/// Reset the timer.
func (timer *B3Timer) Reset() {
	timer.M_start = time.Now()
}

/// Get the time since construction or the last reset.
func (timer B3Timer) GetMilliseconds() float64 {
	return float64(time.Since(timer.M_start)) / float64(time.Millisecond)
}
