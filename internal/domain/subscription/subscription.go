package subscription

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Duration is a mess-pass plan length in months.
type Duration int

const (
	ThreeMonths  Duration = 3
	SixMonths    Duration = 6
	TwelveMonths Duration = 12
)

var ErrInvalidDuration = errors.New("duration must be 3, 6 or 12 months")

// static pricing policy (rupees)
var costs = map[Duration]int64{
	ThreeMonths:  4500,
	SixMonths:    8000,
	TwelveMonths: 15000,
}

func (d Duration) Valid() bool {
	_, ok := costs[d]
	return ok
}

func Cost(d Duration) (int64, error) {
	c, ok := costs[d]
	if !ok {
		return 0, ErrInvalidDuration
	}
	return c, nil
}

func ParseDuration(s string) (Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidDuration
	}
	d := Duration(n)
	if !d.Valid() {
		return 0, ErrInvalidDuration
	}
	return d, nil
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

type Record struct {
	StudentID      int64
	Duration       Duration
	Status         Status
	MessPassNumber string
}

func (r Record) IsActive() bool {
	return r.Status == StatusActive
}

// CanPayWithPass: active subscription with a known pass number.
func (r Record) CanPayWithPass() bool {
	return r.IsActive() && strings.TrimSpace(r.MessPassNumber) != ""
}

// PassNumberFor is the mess-pass number assigned to a student on first subscription.
func PassNumberFor(studentID int64) string {
	return fmt.Sprintf("MP-%d", studentID)
}
