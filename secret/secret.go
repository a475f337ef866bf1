package secret

import (
	"time"

	"github.com/jonwraymond/vaultexec/value"
)

// Secret is a document fetched from a backend.
type Secret struct {
	// Value is the full response document.
	Value value.Value

	RequestID     string
	LeaseID       string
	LeaseDuration time.Duration
	Renewable     bool
	Warnings      []string
}
