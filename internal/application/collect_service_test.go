package application_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/bhce2gw/internal/domain"
	"github.com/openkraft/bhce2gw/internal/fakes"
)

func TestCollectService_Aggregates(t *testing.T) {
	bh := fakes.NewBloodHound(twoDomains()...)
	defer bh.Close()

	report, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)
	require.Len(t, report.Domains, 2)

	corp := report.Domains[0]
	assert.Equal(t, "S-1-5-21-100", corp.ID)
	assert.Equal(t, "CORP.LOCAL", corp.Name)
	assert.Equal(t, "DC=CORP,DC=LOCAL", corp.DistinguishedName)
	assert.Equal(t, "2016", corp.FunctionalLevel)
	assert.Equal(t, 3, corp.Computers.Count)
	assert.Equal(t, domain.OSHistogram{"Windows 10": 2}, corp.Computers.OperatingSystems)
	assert.Equal(t, 12, corp.Users.Count)
	assert.Equal(t, 2, corp.Users.OldPwdLastSet)
	assert.Equal(t, []string{}, corp.InboundTrusts)
	assert.Equal(t, []string{"LAB.LOCAL"}, corp.OutboundTrusts)

	lab := report.Domains[1]
	assert.Equal(t, domain.OSHistogram{"Linux": 1}, lab.Computers.OperatingSystems)
	assert.Equal(t, 0, lab.Users.OldPwdLastSet)
	assert.Equal(t, []string{"CORP.LOCAL"}, lab.InboundTrusts)
	assert.Equal(t, []string{}, lab.OutboundTrusts)

	assert.Equal(t, domain.OSHistogram{"Windows 10": 2, "Linux": 1}, report.Computers.OperatingSystems)
}

func TestCollectService_SkipsTrustCallsWhenCountIsZero(t *testing.T) {
	bh := fakes.NewBloodHound(twoDomains()...)
	defer bh.Close()

	_, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)

	assert.False(t, bh.Called(http.MethodGet, "/api/v2/domains/S-1-5-21-100/inbound-trusts"))
	assert.True(t, bh.Called(http.MethodGet, "/api/v2/domains/S-1-5-21-100/outbound-trusts"))
	assert.True(t, bh.Called(http.MethodGet, "/api/v2/domains/S-1-5-21-200/inbound-trusts"))
	assert.False(t, bh.Called(http.MethodGet, "/api/v2/domains/S-1-5-21-200/outbound-trusts"))
}

func TestCollectService_SkipsTrustCallsWhenCountIsAbsent(t *testing.T) {
	domains := twoDomains()[:1]
	domains[0].Detail = fakes.Detail("CORP.LOCAL", 3, 12, -1, -1)
	bh := fakes.NewBloodHound(domains...)
	defer bh.Close()

	report, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)
	require.Len(t, report.Domains, 1)

	assert.Equal(t, []string{}, report.Domains[0].InboundTrusts)
	assert.Equal(t, []string{}, report.Domains[0].OutboundTrusts)
	assert.False(t, bh.Called(http.MethodGet, "/api/v2/domains/S-1-5-21-100/outbound-trusts"))
}

func TestCollectService_DetailFailureDropsDomain(t *testing.T) {
	domains := twoDomains()
	domains[0].DetailStatus = http.StatusInternalServerError
	bh := fakes.NewBloodHound(domains...)
	defer bh.Close()

	report, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)

	require.Len(t, report.Domains, 1)
	assert.Equal(t, "LAB.LOCAL", report.Domains[0].Name)
	_, found := report.FindDomain("CORP.LOCAL")
	assert.False(t, found)
	assert.Equal(t, domain.OSHistogram{"Linux": 1}, report.Computers.OperatingSystems)
}

func TestCollectService_CypherNotFoundIsEmpty(t *testing.T) {
	domains := twoDomains()
	domains[0].CypherStatus = http.StatusNotFound
	bh := fakes.NewBloodHound(domains...)
	defer bh.Close()

	report, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)
	require.Len(t, report.Domains, 2)

	corp := report.Domains[0]
	assert.Equal(t, domain.OSHistogram{}, corp.Computers.OperatingSystems)
	assert.Equal(t, 0, corp.Users.OldPwdLastSet)
	assert.Equal(t, 3, corp.Computers.Count)
	assert.Equal(t, domain.OSHistogram{"Linux": 1}, report.Computers.OperatingSystems)
}

func TestCollectService_CypherServerErrorIsEmpty(t *testing.T) {
	domains := twoDomains()
	domains[1].CypherStatus = http.StatusInternalServerError
	bh := fakes.NewBloodHound(domains...)
	defer bh.Close()

	report, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)
	require.Len(t, report.Domains, 2)
	assert.Equal(t, domain.OSHistogram{"Windows 10": 2}, report.Computers.OperatingSystems)
}

func TestCollectService_LoginFailureIsFatal(t *testing.T) {
	bh := fakes.NewBloodHound(twoDomains()...)
	defer bh.Close()

	cfg := bhConfig(bh)
	cfg.Secret = "wrong"

	_, err := newCollect(t, bh, 1).Collect(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging in")

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, bh.Called(http.MethodGet, "/api/v2/available-domains"))
}

func TestCollectService_ListFailureIsFatal(t *testing.T) {
	bh := fakes.NewBloodHound(twoDomains()...)
	defer bh.Close()
	bh.DomainsStatus = http.StatusInternalServerError

	_, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing domains")
}

func TestCollectService_NoDomains(t *testing.T) {
	bh := fakes.NewBloodHound()
	defer bh.Close()

	report, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)
	assert.Empty(t, report.Domains)
	assert.NotNil(t, report.Domains)
	assert.Equal(t, domain.OSHistogram{}, report.Computers.OperatingSystems)
}

func TestCollectService_WorkersMatchSequential(t *testing.T) {
	domains := twoDomains()
	for i, name := range []string{"A.LOCAL", "B.LOCAL", "C.LOCAL", "D.LOCAL"} {
		domains = append(domains, fakes.BloodHoundDomain{
			Ref:       domain.DomainRef{ID: fmt.Sprintf("S-1-5-21-30%d", i), Name: name, Type: "active-directory", Collected: true},
			Detail:    fakes.Detail(name, 1, 1, 0, 0),
			Computers: map[string]domain.GraphNode{"x": fakes.Computer("HOST", "Windows Server 2019")},
		})
	}
	bh := fakes.NewBloodHound(domains...)
	defer bh.Close()

	sequential, err := newCollect(t, bh, 1).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)
	concurrent, err := newCollect(t, bh, 4).Collect(context.Background(), bhConfig(bh))
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
	assert.Equal(t, 4, concurrent.Computers.OperatingSystems["Windows Server 2019"])
}

func TestCollectService_CanceledContext(t *testing.T) {
	bh := fakes.NewBloodHound(twoDomains()...)
	defer bh.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCollect(t, bh, 1).Collect(ctx, bhConfig(bh))
	assert.ErrorIs(t, err, context.Canceled)
}
