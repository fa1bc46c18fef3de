package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/felixgeelhaar/pkgreconcile/internal/app"
	"github.com/felixgeelhaar/pkgreconcile/internal/domain/config"
	"github.com/felixgeelhaar/pkgreconcile/internal/testutil/mocks"
)

const testConfigPath = "/etc/pkgreconcile/pkgreconcile.yaml"

const testConfig = `manager:
  backend: dnf
state_file: /var/lib/pkgreconcile/last-run.yaml
repositories:
  - name: argo-devel
    content: |
      [argo-devel]
      baseurl=http://rpm-repo.argo.grnet.gr/ARGO/devel/centos7/
    packages:
      - name: nagios-plugins-argo
        version: 0.1.12
      - name: ghost
`

// host is a fake dnf host for command tests.
type host struct {
	runner *mocks.CommandRunner
	fs     *mocks.FileSystem
}

func newHost() *host {
	runner := mocks.NewCommandRunner()
	runner.AddOutput("dnf", []string{"-q", "versionlock", "list"}, "")
	runner.AddOutput("rpm", []string{"-qa", "--qf", "%{NAME} %{VERSION} %{RELEASE}\n"},
		"nagios-plugins-argo 0.1.11 1.el7\n")
	runner.AddOutput("dnf", []string{"repoquery", "-q", "--show-duplicates", "--qf", "%{name} %{version} %{release}\n"},
		"nagios-plugins-argo 0.1.11 1.el7\nnagios-plugins-argo 0.1.12 1.el7\n")
	runner.AddOutput("dnf", []string{"-y", "install", "nagios-plugins-argo-0.1.12"}, "Complete!\n")
	runner.AddOutput("dnf", []string{"-q", "versionlock", "add", "nagios-plugins-argo"}, "")

	fs := mocks.NewFileSystem()
	fs.AddFile(testConfigPath, testConfig)

	return &host{runner: runner, fs: fs}
}

// run executes the root command against h with args, resetting global flag
// state first.
func (h *host) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	previous := newReconciler
	t.Cleanup(func() { newReconciler = previous })
	newReconciler = func(out io.Writer) *app.Reconciler {
		return app.New(out).
			WithRunner(h.runner).
			WithFileSystem(h.fs).
			WithLoaderOptions(config.WithLookupEnv(func(string) (string, bool) { return "", false }))
	}

	cfgFile = defaultConfigPath
	verbose = false
	logJSON = false
	applyDryRun = false
	applySkipRepos = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", testConfigPath}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
