package application_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/bloodhound"
	"github.com/openkraft/bhce2gw/internal/adapters/outbound/ghostwriter"
	"github.com/openkraft/bhce2gw/internal/application"
	"github.com/openkraft/bhce2gw/internal/domain"
	"github.com/openkraft/bhce2gw/internal/fakes"
)

// twoDomains is CORP with two Windows 10 hosts and one without an OS, plus
// LAB with a single Linux host trusting CORP.
func twoDomains() []fakes.BloodHoundDomain {
	return []fakes.BloodHoundDomain{
		{
			Ref:      domain.DomainRef{ID: "S-1-5-21-100", Name: "CORP.LOCAL", Type: "active-directory", Collected: true},
			Detail:   fakes.Detail("CORP.LOCAL", 3, 12, 0, 1),
			Outbound: []string{"LAB.LOCAL"},
			Computers: map[string]domain.GraphNode{
				"1": fakes.Computer("WS01", "Windows 10"),
				"2": fakes.Computer("WS02", "Windows 10"),
				"3": fakes.Computer("APPLIANCE", ""),
			},
			StaleUsers: map[string]domain.GraphNode{
				"10": fakes.User("alice"),
				"11": fakes.User("bob"),
			},
		},
		{
			Ref:     domain.DomainRef{ID: "S-1-5-21-200", Name: "LAB.LOCAL", Type: "active-directory", Collected: true},
			Detail:  fakes.Detail("LAB.LOCAL", 1, 2, 1, 0),
			Inbound: []string{"CORP.LOCAL"},
			Computers: map[string]domain.GraphNode{
				"20": fakes.Computer("LNX01", "Linux"),
			},
		},
	}
}

func bhConfig(bh *fakes.BloodHound) domain.BloodHoundConfig {
	return domain.BloodHoundConfig{
		URL:      bh.URL,
		Username: bh.Username,
		Secret:   bh.Secret,
		Timeout:  domain.DefaultTimeout,
		Workers:  1,
	}
}

func gwConfig(gw *fakes.Ghostwriter, reportID int64) domain.GhostwriterConfig {
	return domain.GhostwriterConfig{
		URL:       gw.URL,
		ReportID:  reportID,
		APIToken:  gw.Token,
		FieldName: "bhce",
		Timeout:   domain.DefaultTimeout,
	}
}

func newCollect(t *testing.T, bh *fakes.BloodHound, workers int) *application.CollectService {
	t.Helper()
	cfg := bhConfig(bh)
	return application.NewCollectService(bloodhound.New(cfg.APIBase(), cfg.Timeout), zerolog.Nop(), workers)
}

func newPublish(t *testing.T, cfg domain.GhostwriterConfig) *application.PublishService {
	t.Helper()
	return application.NewPublishService(ghostwriter.New(cfg.GraphQLEndpoint(), cfg.APIToken, cfg.Timeout), zerolog.Nop())
}
