package application

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/rs/zerolog"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// CollectService orchestrates the BloodHound side of a run:
// login → enumerate domains → per-domain detail, trusts and cypher → aggregate.
type CollectService struct {
	graph   domain.GraphClient
	logger  zerolog.Logger
	workers int
}

// NewCollectService creates a CollectService. workers > 1 fetches domains
// concurrently; the result is the same as a sequential run.
func NewCollectService(graph domain.GraphClient, logger zerolog.Logger, workers int) *CollectService {
	if workers < 1 {
		workers = 1
	}
	return &CollectService{graph: graph, logger: logger, workers: workers}
}

// Collect logs in with creds and builds the aggregate. Login and domain
// enumeration failures are returned; a domain whose detail cannot be
// fetched is left out of the aggregate.
func (s *CollectService) Collect(ctx context.Context, creds domain.BloodHoundConfig) (*domain.AggregateReport, error) {
	s.logger.Info().Str("username", creds.Username).Msg("Logging in to BloodHound API")
	if _, err := s.graph.Login(ctx, creds.Username, creds.Secret); err != nil {
		return nil, fmt.Errorf("logging in to BloodHound: %w", err)
	}

	refs, err := s.graph.ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	s.logger.Info().Int("domains", len(refs)).Msg("Enumerated domains")

	// Indexed by enumeration order so concurrent runs keep the same output.
	results := make([]*domain.Domain, len(refs))
	if s.workers == 1 {
		for i, ref := range refs {
			results[i] = s.collectDomain(ctx, ref)
		}
	} else {
		pool := pond.NewPool(s.workers)
		for i, ref := range refs {
			pool.Submit(func() {
				results[i] = s.collectDomain(ctx, ref)
			})
		}
		pool.StopAndWait()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	domains := make([]domain.Domain, 0, len(refs))
	for _, d := range results {
		if d != nil {
			domains = append(domains, *d)
		}
	}
	return domain.Aggregate(domains), nil
}

func (s *CollectService) collectDomain(ctx context.Context, ref domain.DomainRef) *domain.Domain {
	log := s.logger.With().Str("domain", ref.Name).Logger()
	log.Info().Msg("Getting domain data")

	detail, err := s.graph.GetDomain(ctx, ref.ID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get domain data, skipping domain")
		return nil
	}

	d := domain.BuildDomain(domain.DomainInput{
		Ref:            ref,
		Detail:         detail,
		InboundTrusts:  s.trusts(ctx, log, ref, detail, domain.TrustInbound),
		OutboundTrusts: s.trusts(ctx, log, ref, detail, domain.TrustOutbound),
		Computers:      s.cypher(ctx, log, domain.ComputerQuery(ref.Name)),
		StaleUsers:     s.cypher(ctx, log, domain.StalePasswordQuery(ref.Name)),
	})

	log.Debug().
		Int("computers", d.Computers.Count).
		Int("users", d.Users.Count).
		Int("stale_passwords", d.Users.OldPwdLastSet).
		Msg("Domain collected")
	return &d
}

func (s *CollectService) trusts(ctx context.Context, log zerolog.Logger, ref domain.DomainRef, detail *domain.DomainDetail, dir domain.TrustDirection) []string {
	if !detail.HasTrusts(dir) {
		return []string{}
	}
	names, err := s.graph.GetTrusts(ctx, ref.ID, dir)
	if err != nil {
		log.Warn().Err(err).Str("direction", string(dir)).Msg("Failed to get trusts")
		return []string{}
	}
	return names
}

// cypher runs query and returns an empty result on any failure.
func (s *CollectService) cypher(ctx context.Context, log zerolog.Logger, query string) *domain.CypherResult {
	result, err := s.graph.RunCypher(ctx, query, true)
	switch {
	case domain.IsNotFound(err):
		log.Info().Msg("No data returned for this Cypher query")
		return &domain.CypherResult{}
	case err != nil:
		log.Warn().Err(err).Msg("Failed to run Cypher query")
		return &domain.CypherResult{}
	}
	return result
}
