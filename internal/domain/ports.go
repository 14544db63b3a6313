package domain

import "context"

// GraphClient talks to the BloodHound CE API. Login must succeed before any
// other call; the session is kept by the implementation.
type GraphClient interface {
	Login(ctx context.Context, username, secret string) (string, error)
	ListDomains(ctx context.Context) ([]DomainRef, error)
	GetDomain(ctx context.Context, id string) (*DomainDetail, error)
	GetTrusts(ctx context.Context, id string, dir TrustDirection) ([]string, error)
	RunCypher(ctx context.Context, query string, includeProperties bool) (*CypherResult, error)
}

// ReportClient talks to the Ghostwriter GraphQL API.
type ReportClient interface {
	Whoami(ctx context.Context) (*Identity, error)
	FetchExtraFields(ctx context.Context, reportID int64) (ExtraFields, error)
	UpdateExtraFields(ctx context.Context, reportID int64, fields ExtraFields) (ExtraFields, error)
}

// ConfigLoader reads connection settings from a file.
type ConfigLoader interface {
	Load(path string) (Config, error)
}

// ReportStore persists the aggregate locally.
type ReportStore interface {
	Save(path string, report *AggregateReport) error
	Load(path string) (*AggregateReport, error)
}
