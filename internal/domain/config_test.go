package domain_test

import (
	"testing"

	"github.com/openkraft/bhce2gw/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, domain.DefaultTimeout, cfg.BloodHound.Timeout)
	assert.Equal(t, domain.DefaultTimeout, cfg.Ghostwriter.Timeout)
	assert.Equal(t, 1, cfg.BloodHound.Workers)
	assert.Empty(t, cfg.BloodHound.URL)
}

func TestAPIBase_TrimsTrailingSlash(t *testing.T) {
	for _, url := range []string{"https://bh.local", "https://bh.local/", "https://bh.local//"} {
		cfg := domain.BloodHoundConfig{URL: url}
		assert.Equal(t, "https://bh.local/api/v2/", cfg.APIBase(), url)
	}
}

func TestGraphQLEndpoint(t *testing.T) {
	cfg := domain.GhostwriterConfig{URL: "https://gw.local/"}
	assert.Equal(t, "https://gw.local/v1/graphql", cfg.GraphQLEndpoint())
}

func TestEffectiveWorkers(t *testing.T) {
	assert.Equal(t, 1, domain.BloodHoundConfig{}.EffectiveWorkers())
	assert.Equal(t, 1, domain.BloodHoundConfig{Workers: -3}.EffectiveWorkers())
	assert.Equal(t, 4, domain.BloodHoundConfig{Workers: 4}.EffectiveWorkers())
}
