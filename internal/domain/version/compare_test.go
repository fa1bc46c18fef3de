package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.0.1", -1},
		{"1.0.1", "1.0", 1},
		{"1.0", "1.0.0", 0},
		{"0.1.9", "0.1.13", -1},
		{"0.1.13", "0.1.9", 1},
		{"2", "1", 1},
		{"1.5.0", "1.4.0", 1},
		{"0.4.0", "0.5.0", -1},
		{"3.el6", "1.el6", 1},
		{"1.el6", "1.el7", -1},
		{"20200401115402.f599b1b.el6", "20200716071827.5b8b5d6.el6", -1},
		{"2:1.0", "2:1.0", 0},
		{"abc", "abd", -1},
		{"007", "7", 0},
		{"1.010", "1.9", 1},
		{"100000000000000000000", "99999999999999999999", 1},
		{"1.123456789012345678901234", "1.123456789012345678901235", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b))
		})
	}
}

func TestCompareVersions_Reflexive(t *testing.T) {
	for _, v := range []string{"", "0", "1.0", "0.1.13", "20200408044026.x.el7", "2:3.4-rc1"} {
		assert.Equal(t, 0, CompareVersions(v, v), v)
	}
}

func TestCompareVersions_Antisymmetric(t *testing.T) {
	values := []string{"1", "1.0", "1.0.1", "0.1.9", "0.1.13", "2", "1.el6", "3.el6", "1.a", "1.b"}
	for _, a := range values {
		for _, b := range values {
			assert.Equal(t, -CompareVersions(b, a), CompareVersions(a, b), "%s vs %s", a, b)
		}
	}
}

func TestCompareVersions_Transitive(t *testing.T) {
	chains := [][3]string{
		{"0.1.9", "0.1.13", "0.2"},
		{"1.0", "1.0.1", "1.1"},
		{"1.el6", "2.el6", "10.el6"},
		{"0.9", "1", "1.0.0.1"},
	}
	for _, c := range chains {
		assert.Equal(t, -1, CompareVersions(c[0], c[1]), c)
		assert.Equal(t, -1, CompareVersions(c[1], c[2]), c)
		assert.Equal(t, -1, CompareVersions(c[0], c[2]), c)
	}
}

func TestCompareVR(t *testing.T) {
	tests := []struct {
		name string
		a, b VR
		want int
	}{
		{
			name: "release breaks version tie",
			a:    VR{Version: "0.5.2", Release: "20200408044026.x"},
			b:    VR{Version: "0.5.2", Release: "20200408052214.y"},
			want: -1,
		},
		{
			name: "version wins over release",
			a:    VR{Version: "1.5.0", Release: "1.el6"},
			b:    VR{Version: "1.4.0", Release: "20200713050846.f6ca58d.el6"},
			want: 1,
		},
		{
			name: "identical",
			a:    VR{Version: "2.3.3", Release: "1.el6"},
			b:    VR{Version: "2.3.3", Release: "1.el6"},
			want: 0,
		},
		{
			name: "sequential build numbers",
			a:    VR{Version: "2.3.3", Release: "9.el6"},
			b:    VR{Version: "2.3.3", Release: "13.el6"},
			want: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareVR(tt.a, tt.b))
			assert.Equal(t, -tt.want, CompareVR(tt.b, tt.a))
		})
	}
}

func TestVR_String(t *testing.T) {
	assert.Equal(t, "1.0-3.el6", VR{Version: "1.0", Release: "3.el6"}.String())
	assert.Equal(t, "1.0", VR{Version: "1.0"}.String())
}
