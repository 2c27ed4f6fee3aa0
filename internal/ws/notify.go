package ws

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EventJobsUpdated   = "jobs_updated"
	EventAlertsMatched = "alerts_matched"
)

type JobsUpdatedEvent struct {
	Type      string `json:"type"`
	Keyword   string `json:"keyword"`
	Location  string `json:"location,omitempty"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

type AlertsMatchedEvent struct {
	Type      string `json:"type"`
	Keyword   string `json:"keyword"`
	Count     int    `json:"count"`
	Timestamp string `json:"timestamp"`
}

// Publisher turns pipeline outcomes into hub messages.
type Publisher struct {
	hub *Hub
	now func() time.Time
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub, now: time.Now}
}

func (p *Publisher) PublishJobsUpdated(keyword, location string, count int) {
	if p == nil || p.hub == nil {
		return
	}
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return
	}
	b, err := json.Marshal(JobsUpdatedEvent{
		Type:      EventJobsUpdated,
		Keyword:   keyword,
		Location:  strings.TrimSpace(location),
		Count:     count,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	p.hub.Broadcast(b)
}

func (p *Publisher) PublishAlertsMatched(userID uuid.UUID, keyword string, count int) {
	if p == nil || p.hub == nil || count <= 0 {
		return
	}
	b, err := json.Marshal(AlertsMatchedEvent{
		Type:      EventAlertsMatched,
		Keyword:   strings.TrimSpace(keyword),
		Count:     count,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	p.hub.SendTo(userID, b)
}
