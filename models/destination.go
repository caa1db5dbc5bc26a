package models

import "time"

// Destination is a Discord guild the delivery agent can post results into
type Destination struct {
	GroupID         int64
	Name            string
	ResultChannelID *int64 // Nullable until an admin picks a channel
	AutoNotify      bool
	IsActive        bool
	JoinedAt        time.Time
	LeftAt          *time.Time
	UpdatedAt       time.Time
}

// HasResultChannel checks if a result channel is configured
func (d *Destination) HasResultChannel() bool {
	return d.ResultChannelID != nil && *d.ResultChannelID > 0
}

// Deliverable reports whether aggregated results should be sent here
func (d *Destination) Deliverable() bool {
	return d.IsActive && d.AutoNotify && d.HasResultChannel()
}
