package models

import "time"

type Event struct {
	ID          string    `json:"id" db:"id" validate:"required"`
	Name        string    `json:"name" db:"name" validate:"required"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Location    string    `json:"location" db:"location"`
}

// EventRegistrationRow is an event_registrations row joined to its event.
type EventRegistrationRow struct {
	EventID     string     `db:"event_id"`
	DefID       *string    `db:"def_id"`
	Name        *string    `db:"name"`
	Description *string    `db:"description"`
	Date        *time.Time `db:"date"`
	Location    *string    `db:"location"`
}

func (r EventRegistrationRow) Event() (Event, error) {
	if r.DefID == nil || r.Name == nil || r.Date == nil {
		return Event{}, &ShapeError{Join: "event_registrations", Key: r.EventID, Reason: "missing event definition"}
	}

	e := Event{
		ID:          *r.DefID,
		Name:        *r.Name,
		Description: deref(r.Description),
		Date:        *r.Date,
		Location:    deref(r.Location),
	}
	if err := Validate(e); err != nil {
		return Event{}, &ShapeError{Join: "event_registrations", Key: r.EventID, Reason: err.Error()}
	}
	return e, nil
}
