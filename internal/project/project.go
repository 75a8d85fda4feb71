package project

import (
	"errors"
	"time"
)

var ErrJournalDisabled = errors.New("no journal configured")

// Project is a project known to the journal.
type Project struct {
	ID         int64
	Name       string
	Entries    int
	LastLogged time.Time
}

// Names returns the project names in order.
func Names(projects []Project) []string {
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names
}
