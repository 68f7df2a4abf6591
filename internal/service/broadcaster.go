package service

import "eunoia/internal/model"

// Broadcaster pushes new assessments to the user's live connections.
// Implemented by the websocket hub; defined here to avoid an import cycle.
type Broadcaster interface {
	PublishAssessment(userID string, a *model.RiskAssessment)
}

type noopBroadcaster struct{}

func (noopBroadcaster) PublishAssessment(string, *model.RiskAssessment) {}
