package models

import "fmt"

// Part is a trained body-part category. It scopes exercise selection,
// history queries, and FAQ lookups.
type Part string

const (
	PartChest    Part = "chest"
	PartBack     Part = "back"
	PartShoulder Part = "shoulder"
	PartLeg      Part = "leg"
)

// Parts lists every valid body part in display order.
var Parts = []Part{PartChest, PartBack, PartShoulder, PartLeg}

// coreLifts maps each part to its main compound lift.
var coreLifts = map[Part]string{
	PartChest:    "bench press",
	PartBack:     "deadlift",
	PartShoulder: "overhead press",
	PartLeg:      "squat",
}

// ParsePart validates a body-part string from an API request or import file.
func ParsePart(s string) (Part, error) {
	p := Part(s)
	if _, ok := coreLifts[p]; !ok {
		return "", fmt.Errorf("unknown body part %q", s)
	}
	return p, nil
}

// CoreLift returns the main compound lift trained for this part.
func (p Part) CoreLift() string {
	return coreLifts[p]
}

func (p Part) String() string {
	return string(p)
}
