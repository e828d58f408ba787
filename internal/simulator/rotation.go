package simulator

import "github.com/soia-io/doser-sim/internal/model"

// rotationThreshold is the number of cumulative unconfirmed pulses after
// which the active doser is failed over to its twin.
const rotationThreshold = 5

// RotationReason tags the only transition the rotation state machine has.
const RotationReason = "sensor_no_detection_after_5_pulses"

// EvaluateRotation flips the active pump once the no-detection counter has
// reached the threshold, resetting the counter. Otherwise the machine is a
// fixed point. Returns the pump active from this point on, the new counter,
// and whether a rotation fired.
func EvaluateRotation(active model.Pump, noDetectCount int) (model.Pump, int, bool) {
	if noDetectCount >= rotationThreshold {
		return active.Other(), 0, true
	}
	return active, noDetectCount, false
}
