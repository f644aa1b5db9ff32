package domain

import "time"

// Connection identifies one configured exchange credential. The reconciliation
// engine only uses it as an iteration key for fanning out balance and trade
// requests; credentials themselves are managed by the connection directory.
type Connection struct {
	ID        string
	Exchange  string
	Label     string
	APIKey    string
	APISecret string // encrypted at rest, decrypted at the exchange boundary
	CreatedAt time.Time
}
