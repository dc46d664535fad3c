package services

import (
	"recondo/config"
	"recondo/internal/database"
)

type Service struct {
	OIDC      *OIDCService
	Scheduler *SchedulerService
}

func New(db database.DB, config config.Config) (Service, error) {
	oidcService, err := NewOIDCService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		OIDC:      oidcService,
		Scheduler: NewSchedulerService(),
	}, nil
}
