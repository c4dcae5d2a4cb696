package community

import (
	"context"
	"fmt"
	"sync"

	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/api"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/models"
	"github.com/educatedpolarbear/Green-Buddy-sub000/internal/mutation"
)

// EventService owns the view state for one event page.
type EventService struct {
	client    *api.Client
	mutations *mutation.Controller

	mu    sync.Mutex
	event models.Event
}

// NewEventService creates a service seeded with the fetched event.
func NewEventService(client *api.Client, mutations *mutation.Controller, event models.Event) *EventService {
	return &EventService{client: client, mutations: mutations, event: event}
}

// Event returns a snapshot of the event view state.
func (s *EventService) Event() models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

// ToggleRegistration registers or unregisters optimistically, moving the
// participant count by an explicit delta (never below zero). When the server
// responds with a recomputed event, that payload overwrites the optimistic
// counts; otherwise the optimistic state stands.
func (s *EventService) ToggleRegistration(ctx context.Context) error {
	prior := s.Event()

	optimistic := prior
	optimistic.IsRegistered = !prior.IsRegistered
	if optimistic.IsRegistered {
		optimistic.ParticipantCount = prior.ParticipantCount + 1
	} else {
		optimistic.ParticipantCount = prior.ParticipantCount - 1
		if optimistic.ParticipantCount < 0 {
			optimistic.ParticipantCount = 0
		}
	}

	return mutation.Submit(ctx, s.mutations, mutation.Toggle[models.Event]{
		EntityID:   fmt.Sprintf("event:%d:registration", prior.ID),
		Prior:      prior,
		Optimistic: optimistic,
		Apply: func(snapshot models.Event) {
			s.mu.Lock()
			s.event = snapshot
			s.mu.Unlock()
		},
		Confirm: func(ctx context.Context) (models.Event, bool, error) {
			var (
				authoritative *models.Event
				err           error
			)
			if optimistic.IsRegistered {
				authoritative, err = s.client.RegisterEvent(ctx, prior.ID)
			} else {
				authoritative, err = s.client.UnregisterEvent(ctx, prior.ID)
			}
			if err != nil {
				return models.Event{}, false, err
			}
			if authoritative != nil {
				return *authoritative, true, nil
			}
			return models.Event{}, false, nil
		},
	})
}
