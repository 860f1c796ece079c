package model

// DistanceEvent is a race event keyed by distance along the route.
// The two variants are ControlStop and StageStop; the event processor
// treats any other implementation as a malformed race definition.
type DistanceEvent interface {
	EventName() string
	EventDistance() float64
}

// TimeEvent is a race event keyed by absolute time.
type TimeEvent interface {
	EventTime() float64
}

// ControlStop is a mandatory short checkpoint with a fixed service duration
// and a hard latest-arrival time.
type ControlStop struct {
	Name          string
	Distance      float64 // m
	Duration      float64 // s
	LatestArrival float64 // s since unix epoch
}

func (e ControlStop) EventName() string      { return e.Name }
func (e ControlStop) EventDistance() float64 { return e.Distance }

// StageStop is a mandatory overnight-class checkpoint with a scoring
// target-arrival time and a hard latest-arrival time.
type StageStop struct {
	Name          string
	Distance      float64 // m
	TargetArrival float64 // s since unix epoch
	LatestArrival float64 // s since unix epoch
}

func (e StageStop) EventName() string      { return e.Name }
func (e StageStop) EventDistance() float64 { return e.Distance }

// StartOfDay marks the start of driving for a day.
type StartOfDay struct {
	Name string
	Time float64 // s since unix epoch
}

func (e StartOfDay) EventTime() float64 { return e.Time }

// EndOfDay marks the end of driving for a day.
type EndOfDay struct {
	Name string
	Time float64 // s since unix epoch
}

func (e EndOfDay) EventTime() float64 { return e.Time }

// StartGridCharge marks the start of a grid-charge window.
type StartGridCharge struct {
	Time float64 // s since unix epoch
}

func (e StartGridCharge) EventTime() float64 { return e.Time }

// EndGridCharge marks the end of a grid-charge window.
type EndGridCharge struct {
	Time float64 // s since unix epoch
}

func (e EndGridCharge) EventTime() float64 { return e.Time }

// SpeedLimit gives the limit in force from the given distance onward.
type SpeedLimit struct {
	Distance float64 // m
	Limit    float64 // m/s
}
