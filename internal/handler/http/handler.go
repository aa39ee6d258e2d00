package http

import (
	"github.com/MKhiriev/go-sf-harness/internal/logger"
	"github.com/MKhiriev/go-sf-harness/internal/timeline"
	"github.com/MKhiriev/go-sf-harness/internal/utils"
	"github.com/MKhiriev/go-sf-harness/models"
)

// LockInspector reads the account lock table without changing it.
type LockInspector interface {
	Snapshot() []models.UserLock
	Holder(username string) (models.UserLock, bool)
	HeldBy(workerIndex int) (string, bool)
	Waiting(username string) []int
}

type Handler struct {
	timeline  *timeline.Recorder
	locks     LockInspector
	buildInfo models.AppBuildInfo
	clock     utils.Clock

	logger *logger.Logger
}

func NewHandler(rec *timeline.Recorder, locks LockInspector, buildInfo models.AppBuildInfo, clock utils.Clock, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		timeline:  rec,
		locks:     locks,
		buildInfo: buildInfo,
		clock:     clock,
		logger:    logger,
	}
}
