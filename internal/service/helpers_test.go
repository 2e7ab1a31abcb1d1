package service

import (
	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type capturingPublisher struct {
	events []GradingEvent
}

func (p *capturingPublisher) Publish(event GradingEvent) error {
	p.events = append(p.events, event)
	return nil
}
