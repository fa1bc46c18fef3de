package inventory

import (
	"testing"

	"github.com/felixgeelhaar/pkgreconcile/internal/domain/packages"
	"github.com/felixgeelhaar/pkgreconcile/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_QueryFormat(t *testing.T) {
	out := "nagios-plugins-argo 0.1.12 20200716071827.5b8b5d6.el6\n" +
		"nagios-plugins-igtf 1.4.0 3.el6\n"

	records, skipped := Parse(out)

	assert.Empty(t, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, packages.Record{
		Name:    "nagios-plugins-argo",
		Version: "0.1.12",
		Release: "20200716071827.5b8b5d6.el6",
	}, records[0])
	assert.Equal(t, "nagios-plugins-igtf", records[1].Name)
}

func TestParse_YumListFormat(t *testing.T) {
	out := `Loaded plugins: fastestmirror, versionlock
Installed Packages
nagios-plugins-http.x86_64          2.3.3-1.el6                       @epel
perl-Net-SSLeay.x86_64              1:1.55-6.el7                      @base
`

	records, skipped := Parse(out)

	require.Len(t, records, 2)
	assert.Equal(t, packages.Record{Name: "nagios-plugins-http", Version: "2.3.3", Release: "1.el6"}, records[0])
	assert.Equal(t, packages.Record{Name: "perl-Net-SSLeay", Version: "1:1.55", Release: "6.el7"}, records[1])
	assert.Len(t, skipped, 2)
}

func TestParse_WrappedLines(t *testing.T) {
	out := `Available Packages
nagios-plugins-fedcloud-with-a-very-long-name.noarch
                                    0.5.0-20191003144427.7acfd49.el6  argo-devel
nagios-plugins-igtf.noarch          1.4.0-3.el6                       argo-devel
`

	records, _ := Parse(out)

	require.Len(t, records, 2)
	assert.Equal(t, packages.Record{
		Name:    "nagios-plugins-fedcloud-with-a-very-long-name",
		Version: "0.5.0",
		Release: "20191003144427.7acfd49.el6",
	}, records[0])
	assert.Equal(t, "nagios-plugins-igtf", records[1].Name)
}

func TestParse_DanglingNameIsSkipped(t *testing.T) {
	out := "lonely-package.noarch\n" +
		"nagios-plugins-igtf 1.4.0 3.el6\n"

	records, skipped := Parse(out)

	require.Len(t, records, 1)
	assert.Equal(t, "nagios-plugins-igtf", records[0].Name)
	require.Len(t, skipped, 1)
	assert.Equal(t, 1, skipped[0].Line)
	assert.Equal(t, "lonely-package.noarch", skipped[0].Text)
}

func TestParse_TrailingDanglingName(t *testing.T) {
	records, skipped := Parse("lonely-package.noarch")
	assert.Empty(t, records)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Error(), "dangling")
}

func TestParse_MalformedLinesDoNotAbort(t *testing.T) {
	out := "\n" +
		"garbage\n" +
		"name notaversion release\n" +
		"a b c d e\n" +
		"good 1.0 1.el7\n" +
		"bad.noarch -1.el7\n"

	records, skipped := Parse(out)

	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Name)
	assert.Len(t, skipped, 4)
	for _, s := range skipped {
		assert.NotEmpty(t, s.Reason)
	}
}

func TestParse_Empty(t *testing.T) {
	records, skipped := Parse("")
	assert.Empty(t, records)
	assert.Empty(t, skipped)
}

func TestParseError_Error(t *testing.T) {
	err := ParseError{Line: 3, Text: "x y", Reason: "unrecognized line"}
	assert.Equal(t, `line 3: unrecognized line: "x y"`, err.Error())
}

func TestParse_YumListFixture(t *testing.T) {
	records, skipped := Parse(string(testutil.LoadFixture(t, "yum-list-available.txt")))

	// The three yum banner lines are skipped, the wrapped row is joined.
	assert.Len(t, skipped, 3)
	require.Len(t, records, 5)
	assert.Equal(t, packages.Record{Name: "nagios-plugins-globus-gridftp-probes", Version: "0.2.0", Release: "1.el7"}, records[3])
	assert.Equal(t, packages.Record{Name: "python-argo-ams-library", Version: "1:0.4.2", Release: "1.el7"}, records[4])
}

func TestParse_InventoryBuilderOutput(t *testing.T) {
	out := testutil.NewInventoryBuilder().
		Add("nagios-plugins-argo", "0.1.11", "1.el7").
		Add("bash", "4.2.46", "34.el7").
		String()

	records, skipped := Parse(out)

	assert.Empty(t, skipped)
	assert.Len(t, records, 2)
}
