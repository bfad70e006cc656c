package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	FoodTable      bool   `json:"food_table"`
	ExerciseTable  bool   `json:"exercise_table"`
	Watchable      bool   `json:"watchable"`
	Repository     any    `json:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := ServiceState{
		RepositoryType: "unknown",
		FoodTable:      s.food != nil,
		ExerciseTable:  s.exercise != nil,
	}
	if s.repo != nil {
		st.RepositoryType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			st.RepositoryType = comp.ComponentType()
		}
		if intro, ok := s.repo.(introspection.Introspectable); ok {
			st.Repository = intro.State()
		}
		_, st.Watchable = s.repo.(Watchable)
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
