package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openkraft/bhce2gw/internal/adapters/inbound/cli"
	"github.com/openkraft/bhce2gw/internal/domain"
	"github.com/openkraft/bhce2gw/internal/fakes"
)

type harness struct {
	bh     *fakes.BloodHound
	gw     *fakes.Ghostwriter
	dir    string
	config string
	output string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	bh := fakes.NewBloodHound(
		fakes.BloodHoundDomain{
			Ref:    domain.DomainRef{ID: "S-1-5-21-100", Name: "CORP.LOCAL", Type: "active-directory", Collected: true},
			Detail: fakes.Detail("CORP.LOCAL", 2, 10, 0, 0),
			Computers: map[string]domain.GraphNode{
				"1": fakes.Computer("WS01", "Windows 10"),
				"2": fakes.Computer("WS02", "Windows 10"),
			},
			StaleUsers: map[string]domain.GraphNode{"3": fakes.User("svc_backup")},
		},
		fakes.BloodHoundDomain{
			Ref:       domain.DomainRef{ID: "S-1-5-21-200", Name: "LAB.LOCAL", Type: "active-directory", Collected: true},
			Detail:    fakes.Detail("LAB.LOCAL", 1, 1, 0, 0),
			Computers: map[string]domain.GraphNode{"4": fakes.Computer("LNX01", "Linux")},
		},
	)
	t.Cleanup(bh.Close)
	gw := fakes.NewGhostwriter(map[int64]domain.ExtraFields{42: {"other_field": "keep me"}})
	t.Cleanup(gw.Close)

	dir := t.TempDir()
	h := &harness{
		bh:     bh,
		gw:     gw,
		dir:    dir,
		config: filepath.Join(dir, "config.ini"),
		output: filepath.Join(dir, "output.json"),
	}
	h.writeConfig(t, bh.Secret)
	return h
}

func (h *harness) writeConfig(t *testing.T, secret string) {
	t.Helper()
	content := fmt.Sprintf(`[bloodhound]
bh_url = %s
username = %s
secret = %s

[ghostwriter]
gw_url = %s
report_id = 42
api_token = %s
bhce_field_name = bhce
timeout = 2s
`, h.bh.URL, h.bh.Username, secret, h.gw.URL, h.gw.Token)
	require.NoError(t, os.WriteFile(h.config, []byte(content), 0644))
}

// run executes the root command with args plus --config, returning stdout,
// stderr and the error.
func (h *harness) run(args ...string) (string, string, error) {
	cmd := cli.NewRootCmdForTest()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args, "--config", h.config, "--log-format", "json"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
