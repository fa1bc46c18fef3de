package reconcile

import (
	"testing"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(name, ver, rel string) packages.Record {
	return packages.Record{Name: name, Version: ver, Release: rel}
}

func exact(name, ver string) packages.Spec {
	return packages.Spec{Name: name, Constraint: packages.Exact(ver)}
}

func present(name string) packages.Spec {
	return packages.Spec{Name: name, Constraint: packages.Any()}
}

func labels(actions []Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Label())
	}
	return out
}

func TestClassify_FreshInstall(t *testing.T) {
	specs := []packages.Spec{exact("A", "1.0"), present("B")}
	available := []packages.Record{rec("A", "1.0", "1"), rec("B", "2.0", "1")}

	plan := Classify(specs, nil, available, Policy{})

	require.Equal(t, 2, plan.Len())
	assert.Equal(t, []string{"A-1.0", "B"}, labels(plan.ByKind(KindInstall)))
	assert.Equal(t, []string{"A-1.0", "B"}, []string{plan.Actions()[0].Target(), plan.Actions()[1].Target()})
	assert.True(t, plan.HasChanges())
}

func TestClassify_Upgrade(t *testing.T) {
	plan := Classify(
		[]packages.Spec{exact("A", "1.0")},
		[]packages.Record{rec("A", "0.9", "1")},
		[]packages.Record{rec("A", "1.0", "1")},
		Policy{},
	)

	actions := plan.ByKind(KindUpgrade)
	require.Len(t, actions, 1)
	assert.Equal(t, "A-0.9 -> A-1.0", actions[0].Label())
	assert.Equal(t, "A-1.0", actions[0].Target())
}

func TestClassify_Downgrade(t *testing.T) {
	plan := Classify(
		[]packages.Spec{exact("A", "1.0")},
		[]packages.Record{rec("A", "1.5", "1")},
		[]packages.Record{rec("A", "1.0", "1")},
		Policy{},
	)

	actions := plan.ByKind(KindDowngrade)
	require.Len(t, actions, 1)
	assert.Equal(t, "A-1.5 -> A-1.0", actions[0].Label())
	assert.Equal(t, "A-1.0", actions[0].Target())
}

func TestClassify_DifferentVersion(t *testing.T) {
	plan := Classify(
		[]packages.Spec{exact("A", "1.0")},
		nil,
		[]packages.Record{rec("A", "1.1", "1")},
		Policy{},
	)

	assert.Empty(t, plan.ByKind(KindNotFound))
	actions := plan.ByKind(KindDifferentVersion)
	require.Len(t, actions, 1)
	assert.Equal(t, "A-1.0 -> A-1.1", actions[0].Label())
	assert.Equal(t, "A-1.1", actions[0].Target())
}

func TestClassify_DifferentVersionAlreadyInstalled(t *testing.T) {
	plan := Classify(
		[]packages.Spec{exact("A", "1.0")},
		[]packages.Record{rec("A", "1.1", "1")},
		[]packages.Record{rec("A", "1.1", "1")},
		Policy{},
	)

	assert.Empty(t, plan.Satisfied())
	actions := plan.ByKind(KindDifferentVersion)
	require.Len(t, actions, 1)
	assert.Equal(t, "A-1.0 -> A-1.1", actions[0].Label())
	require.NotNil(t, actions[0].From)
	assert.False(t, actions[0].NeedsCommand())
	assert.False(t, plan.HasChanges())
}

func TestAction_NeedsCommand(t *testing.T) {
	installed := rec("A", "1.1", "1")
	newer := rec("A", "1.2", "1")

	tests := []struct {
		name   string
		action Action
		want   bool
	}{
		{"install", Action{Kind: KindInstall, Spec: present("A")}, true},
		{"not found", Action{Kind: KindNotFound, Spec: exact("A", "1.0")}, false},
		{"different version not installed", Action{Kind: KindDifferentVersion, Spec: exact("A", "1.0"), To: &newer}, true},
		{"different version moves", Action{Kind: KindDifferentVersion, Spec: exact("A", "1.0"), From: &installed, To: &newer}, true},
		{"different version already installed", Action{Kind: KindDifferentVersion, Spec: exact("A", "1.0"), From: &installed, To: &installed}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.NeedsCommand())
		})
	}
}

func TestClassify_NotFound(t *testing.T) {
	plan := Classify([]packages.Spec{exact("A", "1.0"), present("B")}, nil, nil, Policy{})

	assert.Equal(t, []string{"A-1.0", "B"}, labels(plan.ByKind(KindNotFound)))
	assert.False(t, plan.HasChanges())
	assert.Equal(t, "", plan.Actions()[0].Target())
}

func TestClassify_PresentWithoutInstalledIsInstall(t *testing.T) {
	plan := Classify([]packages.Spec{present("B")}, nil, []packages.Record{rec("B", "1", "1")}, Policy{})

	actions := plan.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, KindInstall, actions[0].Kind)
	require.NotNil(t, actions[0].To)
	assert.Equal(t, "1", actions[0].To.Version)
}

func TestClassify_NoOp(t *testing.T) {
	specs := []packages.Spec{exact("A", "1.0"), present("B")}
	installed := []packages.Record{rec("A", "1.0", "2.el7"), rec("B", "3.0", "1.el7")}
	available := []packages.Record{rec("A", "1.0", "2.el7"), rec("A", "0.9", "9.el7"), rec("B", "3.0", "1.el7")}

	plan := Classify(specs, installed, available, Policy{})

	assert.True(t, plan.IsEmpty())
	assert.Equal(t, specs, plan.Satisfied())
}

func TestClassify_ReleaseUpgradeWithinVersion(t *testing.T) {
	plan := Classify(
		[]packages.Spec{exact("argo", "0.1.12")},
		[]packages.Record{rec("argo", "0.1.12", "20200401115402.f599b1b.el6")},
		[]packages.Record{
			rec("argo", "0.1.12", "20200401115402.f599b1b.el6"),
			rec("argo", "0.1.12", "20200716071827.5b8b5d6.el6"),
		},
		Policy{},
	)

	actions := plan.ByKind(KindUpgrade)
	require.Len(t, actions, 1)
	assert.Equal(t, "argo-0.1.12", actions[0].Label())
	assert.Equal(t, "argo-0.1.12", actions[0].Target())
}

func TestClassify_PresentNewerLocalBuild(t *testing.T) {
	specs := []packages.Spec{present("B")}
	installed := []packages.Record{rec("B", "2.0", "5.local")}
	available := []packages.Record{rec("B", "2.0", "1.el7")}

	t.Run("downgraded by default", func(t *testing.T) {
		plan := Classify(specs, installed, available, Policy{})
		actions := plan.ByKind(KindDowngrade)
		require.Len(t, actions, 1)
		assert.Equal(t, "B-2.0", actions[0].Label())
		assert.Equal(t, "B-2.0", actions[0].Target())
	})

	t.Run("kept with KeepNewerBuilds", func(t *testing.T) {
		plan := Classify(specs, installed, available, Policy{KeepNewerBuilds: true})
		assert.True(t, plan.IsEmpty())
		assert.Len(t, plan.Satisfied(), 1)
	})
}

func TestClassify_KeepNewerBuildsDoesNotAffectExactSpecs(t *testing.T) {
	plan := Classify(
		[]packages.Spec{exact("A", "1.0")},
		[]packages.Record{rec("A", "1.5", "1")},
		[]packages.Record{rec("A", "1.0", "1")},
		Policy{KeepNewerBuilds: true},
	)
	assert.Len(t, plan.ByKind(KindDowngrade), 1)
}

// fixtures mirroring a yum host with repositories carrying several builds.
func nagiosSpecs() []packages.Spec {
	return []packages.Spec{
		present("nagios-plugins-http"),
		exact("nagios-plugins-fedcloud", "0.5.0"),
		exact("nagios-plugins-igtf", "1.4.0"),
		exact("nagios-plugins-globus", "0.1.5"),
		exact("nagios-plugins-argo", "0.1.12"),
	}
}

func TestClassify_MixedHost(t *testing.T) {
	installed := []packages.Record{
		rec("nagios-plugins-fedcloud", "0.4.0", "20190925233153.c3b9fdd.el6"),
		rec("nagios-plugins-igtf", "1.5.0", "3.el6"),
		rec("nagios-plugins-globus", "0.1.5", "20200713050450.eb1e7d8.el6"),
		rec("nagios-plugins-argo", "0.1.12", "20200401115402.f599b1b.el6"),
	}
	available := []packages.Record{
		rec("nagios-plugins-fedcloud", "0.5.0", "20191003144427.7acfd49.el6"),
		rec("nagios-plugins-fedcloud", "0.4.0", "20190925233153.c3b9fdd.el6"),
		rec("nagios-plugins-igtf", "1.5.0", "3.el6"),
		rec("nagios-plugins-igtf", "1.4.0", "20200713050846.f6ca58d.el6"),
		rec("nagios-plugins-globus", "0.1.5", "20200713050450.eb1e7d8.el6"),
		rec("nagios-plugins-http", "2.3.3", "1.el6"),
		rec("nagios-plugins-argo", "0.1.12", "20200716071827.5b8b5d6.el6"),
	}

	plan := Classify(nagiosSpecs(), installed, available, Policy{})

	assert.Equal(t, []string{"nagios-plugins-http"}, labels(plan.ByKind(KindInstall)))
	assert.Equal(t, []string{
		"nagios-plugins-fedcloud-0.4.0 -> nagios-plugins-fedcloud-0.5.0",
		"nagios-plugins-argo-0.1.12",
	}, labels(plan.ByKind(KindUpgrade)))
	assert.Equal(t, []string{
		"nagios-plugins-igtf-1.5.0 -> nagios-plugins-igtf-1.4.0",
	}, labels(plan.ByKind(KindDowngrade)))
	assert.Empty(t, plan.ByKind(KindDifferentVersion))
	assert.Empty(t, plan.ByKind(KindNotFound))
	require.Len(t, plan.Satisfied(), 1)
	assert.Equal(t, "nagios-plugins-globus", plan.Satisfied()[0].Name)
}

func TestClassify_WrongVersionAndNotFound(t *testing.T) {
	installed := []packages.Record{
		rec("nagios-plugins-fedcloud", "0.4.0", "20190925233153.c3b9fdd.el6"),
		rec("nagios-plugins-igtf", "1.5.0", "1.el6"),
		rec("nagios-plugins-http", "2.3.2", "2.el6"),
	}
	available := []packages.Record{
		rec("nagios-plugins-fedcloud", "0.5.0", "20191003144427.7acfd49.el6"),
		rec("nagios-plugins-fedcloud", "0.4.0", "20190925233153.c3b9fdd.el6"),
		rec("nagios-plugins-igtf", "1.5.0", "1.el6"),
		rec("nagios-plugins-igtf", "1.4.0", "3.el6"),
		rec("nagios-plugins-globus", "0.1.6", "20200713050450.eb1e7d8.el6"),
		rec("nagios-plugins-http", "2.3.3", "1.el6"),
	}

	plan := Classify(nagiosSpecs(), installed, available, Policy{})

	assert.Empty(t, plan.ByKind(KindInstall))
	assert.Equal(t, []string{
		"nagios-plugins-http",
		"nagios-plugins-fedcloud-0.4.0 -> nagios-plugins-fedcloud-0.5.0",
	}, labels(plan.ByKind(KindUpgrade)))
	assert.Equal(t, []string{"nagios-plugins-igtf-1.5.0 -> nagios-plugins-igtf-1.4.0"}, labels(plan.ByKind(KindDowngrade)))
	assert.Equal(t, []string{"nagios-plugins-globus-0.1.5 -> nagios-plugins-globus-0.1.6"}, labels(plan.ByKind(KindDifferentVersion)))
	assert.Equal(t, []string{"nagios-plugins-argo-0.1.12"}, labels(plan.ByKind(KindNotFound)))
}

func TestClassify_EveryActionIsOneKind(t *testing.T) {
	installed := []packages.Record{rec("nagios-plugins-igtf", "1.5.0", "1.el6")}
	available := []packages.Record{
		rec("nagios-plugins-igtf", "1.4.0", "3.el6"),
		rec("nagios-plugins-fedcloud", "0.6.0", "1.el6"),
		rec("nagios-plugins-argo", "0.1.12", "1.el6"),
	}
	specs := nagiosSpecs()

	plan := Classify(specs, installed, available, Policy{})

	total := len(plan.Satisfied())
	for _, k := range Kinds {
		total += len(plan.ByKind(k))
	}
	assert.Equal(t, len(specs), total)
}

func TestClassify_Idempotent(t *testing.T) {
	installed := []packages.Record{rec("nagios-plugins-igtf", "1.5.0", "1.el6")}
	available := []packages.Record{
		rec("nagios-plugins-igtf", "1.4.0", "3.el6"),
		rec("nagios-plugins-http", "2.3.3", "1.el6"),
	}
	installedCopy := append([]packages.Record(nil), installed...)
	availableCopy := append([]packages.Record(nil), available...)

	first := Classify(nagiosSpecs(), installed, available, Policy{})
	second := Classify(nagiosSpecs(), installed, available, Policy{})

	assert.Equal(t, first.Actions(), second.Actions())
	assert.Equal(t, first.Satisfied(), second.Satisfied())
	assert.Equal(t, installedCopy, installed)
	assert.Equal(t, availableCopy, available)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "install", KindInstall.String())
	assert.Equal(t, "upgrade", KindUpgrade.String())
	assert.Equal(t, "downgrade", KindDowngrade.String())
	assert.Equal(t, "different-version", KindDifferentVersion.String())
	assert.Equal(t, "not-found", KindNotFound.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.False(t, KindNotFound.Actionable())
	assert.True(t, KindDifferentVersion.Actionable())
}
