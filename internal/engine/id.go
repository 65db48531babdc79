package engine

import "github.com/google/uuid"

// generateID creates a viewing-session ID used to correlate log lines.
func generateID() string {
	return uuid.NewString()[:8]
}
