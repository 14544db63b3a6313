package tui_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openkraft/bhce2gw/internal/adapters/outbound/tui"
	"github.com/openkraft/bhce2gw/internal/domain"
)

func sampleReport() *domain.AggregateReport {
	return domain.Aggregate([]domain.Domain{
		{
			Name:            "CORP.LOCAL",
			FunctionalLevel: "2016",
			Computers: domain.ComputerStats{
				Count:            2400,
				OperatingSystems: domain.OSHistogram{"Windows 10": 2000, "Windows Server 2019": 400},
			},
			Users:          domain.UserStats{Count: 15000, OldPwdLastSet: 37},
			InboundTrusts:  []string{},
			OutboundTrusts: []string{"LAB.LOCAL"},
		},
		{
			Name:            "LAB.LOCAL",
			FunctionalLevel: "2012 R2",
			Computers: domain.ComputerStats{
				Count:            1,
				OperatingSystems: domain.OSHistogram{"Linux": 1},
			},
			Users:          domain.UserStats{Count: 2},
			InboundTrusts:  []string{"CORP.LOCAL"},
			OutboundTrusts: []string{},
		},
	})
}

func TestRenderSummary_Header(t *testing.T) {
	out := tui.RenderSummary(sampleReport(), "output.json")
	assert.Contains(t, out, "bhce2gw")
	assert.Contains(t, out, "2 domains")
	assert.Contains(t, out, "2,401 computers")
	assert.Contains(t, out, "15,002 users")
	assert.Contains(t, out, "written to output.json")
}

func TestRenderSummary_LongOutputPathNotWrapped(t *testing.T) {
	path := "/tmp/" + strings.Repeat("engagement-artifacts/", 6) + "bhce-aggregate.json"
	out := tui.RenderSummary(sampleReport(), path)
	assert.Contains(t, out, "written to "+path)
}

func TestRenderSummary_Domains(t *testing.T) {
	out := tui.RenderSummary(sampleReport(), "")
	assert.Contains(t, out, "CORP.LOCAL")
	assert.Contains(t, out, "LAB.LOCAL")
	assert.Contains(t, out, "15,000")
	assert.Contains(t, out, "37")
	assert.Contains(t, out, "(> 90 days)")
	assert.NotContains(t, out, "written to")
}

func TestRenderSummary_OSOrderedByCount(t *testing.T) {
	out := tui.RenderSummary(sampleReport(), "")
	win10 := strings.Index(out, "Windows 10")
	server := strings.Index(out, "Windows Server 2019")
	linux := strings.Index(out, "Linux")
	assert.True(t, win10 < server, "Windows 10 should come before Windows Server 2019")
	assert.True(t, server < linux, "Windows Server 2019 should come before Linux")
}

func TestRenderSummary_Empty(t *testing.T) {
	out := tui.RenderSummary(domain.Aggregate(nil), "")
	assert.Contains(t, out, "No domains collected.")
	assert.Contains(t, out, "none reported")
}

func TestRenderPublish(t *testing.T) {
	out := tui.RenderPublish(42, "bhce", nil)
	assert.Contains(t, out, "published")
	assert.Contains(t, out, "42")

	out = tui.RenderPublish(42, "bhce", &domain.PublishError{
		Stage:    domain.StageUpdate,
		Category: domain.CategoryServer,
		Err:      errors.New("502 Bad Gateway"),
	})
	assert.Contains(t, out, "publish failed")
	assert.Contains(t, out, "update")
	assert.Contains(t, out, "server")
	assert.Contains(t, out, "502 Bad Gateway")
}
