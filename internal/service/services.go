package service

import (
	"github.com/MKhiriev/go-sf-harness/internal/config"
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/timeline"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
)

type Services struct {
	Login *LoginOrchestrator
}

func NewServices(deps Dependencies, cfg config.StructuredConfig, clock utils.Clock, rec *timeline.Recorder, logger *logger.Logger) *Services {
	return &Services{
		Login: NewLoginOrchestrator(deps, cfg, clock, rec, logger.GetChildLogger()),
	}
}
