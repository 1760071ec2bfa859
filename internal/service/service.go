// Package service composes the blackboard, budget, agents and event bus
// into the run lifecycle.
package service

import (
	"github.com/draftloom/orchestrator/config"
	"github.com/draftloom/orchestrator/internal/agent"
	"github.com/draftloom/orchestrator/internal/blackboard"
	"github.com/draftloom/orchestrator/internal/events"
)

type Service struct {
	store    blackboard.Store
	bus      *events.Bus
	pipeline []agent.Capability
	config   *config.Config
}

// New wires the orchestrator. The pipeline executes in order for every
// run; the store backend was chosen by the composition root and is
// invisible here.
func New(store blackboard.Store, bus *events.Bus, pipeline []agent.Capability, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		bus:      bus,
		pipeline: pipeline,
		config:   cfg,
	}
}

// Bus exposes the event bus for transport-level subscribers.
func (s *Service) Bus() *events.Bus {
	return s.bus
}
