package container

import (
	"github.com/sirupsen/logrus"

	app "cat-eye-locator/internal/application"
	"cat-eye-locator/internal/domain/port"
)

type Container struct {
	SessionService *app.SessionService
	LocatorService *app.LocatorService
}

func New(sessionRepo port.SessionRepository, detector port.EyeDetector, log logrus.FieldLogger) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	locatorService := app.NewLocatorService(detector, log)

	return &Container{
		SessionService: sessionService,
		LocatorService: locatorService,
	}
}
