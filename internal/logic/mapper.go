package logic

// Mapper converts raw joystick samples into PWM duty values and screen
// coordinates, treating a band around the centre as "no input".
type Mapper struct {
	ADCMax   int
	Center   int
	DeadZone int
	Wrap     int
	Geometry Geometry
}

// NewMapper creates a Mapper centred at adcMax/2.
func NewMapper(adcMax, deadZone, wrap int, geom Geometry) Mapper {
	return Mapper{
		ADCMax:   adcMax,
		Center:   adcMax / 2,
		DeadZone: deadZone,
		Wrap:     wrap,
		Geometry: geom,
	}
}

// DefaultMapper returns the mapper for the reference hardware.
func DefaultMapper() Mapper {
	return NewMapper(DefaultADCMax, DefaultDeadZone, DefaultWrap, DefaultGeometry())
}

// InDeadZone reports whether sample lies strictly inside the dead zone.
func (m Mapper) InDeadZone(sample int) bool {
	return sample > m.Center-m.DeadZone && sample < m.Center+m.DeadZone
}

// Duty maps a sample to a PWM duty in [0, Wrap).
// Below the dead zone duty grows as the stick moves further down; above it,
// duty grows as the stick moves further up. The map is asymmetric.
// Results are clamped to the PWM period so large samples never
// wrap around to a dim value.
func (m Mapper) Duty(sample int) int {
	var duty int
	switch {
	case m.InDeadZone(sample):
		return 0
	case sample <= m.Center-m.DeadZone:
		duty = m.ADCMax - sample*2
	default:
		duty = (sample - (m.Center + m.DeadZone)) * 2
	}
	return clamp(duty, 0, m.Wrap-1)
}

// Position maps a sample to a raw screen coordinate on the given axis.
// Inside the dead zone it returns the rest coordinate. Outside it scales the
// sample into [0, dim). The Y axis is inverted so that pushing the stick up
// moves the cursor towards the top of the screen.
func (m Mapper) Position(sample int, axis Axis) int {
	rest := m.Geometry.Rest()
	dim := m.Geometry.Width
	if axis == AxisY {
		dim = m.Geometry.Height
	}

	if m.InDeadZone(sample) {
		if axis == AxisY {
			return rest.Y
		}
		return rest.X
	}

	s := clamp(sample, 0, m.ADCMax)
	pos := s * dim / (m.ADCMax + 1)
	if axis == AxisY {
		pos = dim - 1 - pos
	}
	return pos
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
