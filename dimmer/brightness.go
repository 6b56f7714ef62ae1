package dimmer

// Brightness maps a distance to 0-255. The distance is clamped to
// [minMM, maxMM] and rescaled linearly, so the closest hand gives 0.
// maxMM must be greater than minMM.
func Brightness(distanceMM, minMM, maxMM uint8) uint8 {
	d := distanceMM
	if d < minMM {
		d = minMM
	}
	if d > maxMM {
		d = maxMM
	}
	return uint8(uint32(d-minMM) * 255 / uint32(maxMM-minMM))
}
