package domain

import "time"

// Guard is the assignment subsystem's view of a security guard. The engine
// only reads guards to validate assignment targets.
type Guard struct {
	ID        string
	FullName  string
	Email     string
	Active    bool
	CreatedAt time.Time
}
