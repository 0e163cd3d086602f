package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns an opaque unique identifier for stored entities.
func NewID() string {
	return uuid.NewString()
}

// TimeAgo renders a timestamp relative to now for log and history output.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
