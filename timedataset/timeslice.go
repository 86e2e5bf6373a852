package timedataset

import (
	"errors"
	"time"
)

var ErrCannotInferFreq = errors.New("cannot infer frequency from time slice")

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// EstimateFreq returns the most common spacing between time points. Ties resolve to the
// smallest spacing.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	var maxDelta time.Duration

	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}
