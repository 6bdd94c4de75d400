package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Status is the lifecycle state of a task. The zero value is StatusPlanned.
type Status int

const (
	StatusPlanned Status = iota
	StatusDoing
	StatusDone
)

// Statuses lists every status in declaration order
var Statuses = []Status{StatusPlanned, StatusDoing, StatusDone}

// displayRank orders statuses for listings: done first, then planned, then doing
var displayRank = map[Status]int{
	StatusDone:    0,
	StatusPlanned: 1,
	StatusDoing:   2,
}

func (s Status) String() string {
	switch s {
	case StatusPlanned:
		return "planned"
	case StatusDoing:
		return "doing"
	case StatusDone:
		return "done"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// DisplayRank returns the position of s in listing order
func (s Status) DisplayRank() int {
	if r, ok := displayRank[s]; ok {
		return r
	}
	return len(displayRank)
}

// ParseStatus converts the stored or command form of a status
func ParseStatus(v string) (Status, error) {
	for _, s := range Statuses {
		if s.String() == v {
			return s, nil
		}
	}
	return StatusPlanned, fmt.Errorf("unknown task status %q", v)
}

// Value implements driver.Valuer
func (s Status) Value() (driver.Value, error) {
	if _, ok := displayRank[s]; !ok {
		return nil, fmt.Errorf("invalid task status %d", int(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *Status) Scan(src any) error {
	var v string
	switch t := src.(type) {
	case string:
		v = t
	case []byte:
		v = string(t)
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// User is a registered chat user
type User struct {
	TelegramID int64
	ChatID     int64
	Name       string
	Phone      string
	CreatedAt  time.Time
}

// Task represents a single task owned by a user
type Task struct {
	ID        int64
	UserID    int64
	Text      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact is a phone contact shared by a user
type Contact struct {
	UserID    int64 // 0 when the platform did not link the contact to an account
	Phone     string
	FirstName string
}

// Inbound is a message received from a chat transport
type Inbound struct {
	ChatID    int64
	UserID    int64
	Text      string
	Contact   *Contact
	RequestID string
}

// Outbound is a message body to deliver to a chat
type Outbound struct {
	ChatID         int64
	Text           string
	RequestContact bool // ask the client to show a share-contact button
}
