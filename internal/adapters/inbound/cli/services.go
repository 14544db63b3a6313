package cli

import (
	"github.com/rs/zerolog"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/bloodhound"
	"github.com/openkraft/bhce2gw/internal/adapters/outbound/ghostwriter"
	"github.com/openkraft/bhce2gw/internal/application"
	"github.com/openkraft/bhce2gw/internal/domain"
)

func newCollectService(bh domain.BloodHoundConfig, logger zerolog.Logger) *application.CollectService {
	return application.NewCollectService(
		bloodhound.New(bh.APIBase(), bh.Timeout),
		logger,
		bh.EffectiveWorkers(),
	)
}

func newPublishService(cfg domain.Config, logger zerolog.Logger) *application.PublishService {
	gw := cfg.Ghostwriter
	return application.NewPublishService(
		ghostwriter.New(gw.GraphQLEndpoint(), gw.APIToken, gw.Timeout),
		logger,
	)
}
