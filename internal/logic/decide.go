package logic

// Decide computes the automatic relay levels for one sensor tick.
//
// The fan runs while temp > th.Temperature and the light while
// light < th.Light. With a positive hysteresis a relay that is already on
// stays on until the reading crosses back past the threshold by that margin;
// with zero hysteresis the previous levels are ignored.
func Decide(th Thresholds, temp float64, light uint32, prevFan, prevLight bool) (fan, lightOn bool) {
	fan = temp > th.Temperature
	lightOn = light < th.Light

	if th.Hysteresis > 0 {
		if !fan && prevFan && temp >= th.Temperature-th.Hysteresis {
			fan = true
		}
		if !lightOn && prevLight && float64(light) < float64(th.Light)+th.Hysteresis {
			lightOn = true
		}
	}
	return fan, lightOn
}
