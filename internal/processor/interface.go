package processor

import "github.com/mauv0809/courtside/internal/rotation"

// Facility is the part of the club service the processor needs.
type Facility interface {
	Snapshot() *rotation.State
	RentalWarnings() []rotation.RentalWarning
	NextGamePreview() (rotation.Preview, error)
}
