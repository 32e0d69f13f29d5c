// Package storedefs contains definitions of the store API.
//
// It is a separate package so that packages that only depend on the store API
// does not need to depend on the concrete implementation.
package storedefs

import (
	"errors"
	"time"
)

// ErrNoScore is returned by LastScore when no score has been recorded for a
// name.
var ErrNoScore = errors.New("no score recorded")

// Store is an interface satisfied by the storage service.
type Store interface {
	AddScore(s Score) (int, error)
	Scores(name string) ([]Score, error)
	LastScore(name string) (Score, error)
	DelScores(name string) error
	Names() ([]string, error)
}

// Score is the outcome of scoring a candidate once.
type Score struct {
	// Sequence number within the scores of the same name. Assigned by
	// AddScore; ignored when adding.
	Seq       int       `json:"-"`
	Name      string    `json:"name"`
	Cost      int       `json:"cost"`
	NaiveCost int       `json:"naive_cost"`
	Ratio     float64   `json:"ratio"`
	Breakdown []int     `json:"breakdown,omitempty"`
	// Message of the error that rejected the candidate, if any.
	Error string    `json:"error,omitempty"`
	Time  time.Time `json:"time"`
}
