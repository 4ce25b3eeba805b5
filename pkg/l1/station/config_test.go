package station

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcc.go/pkg/l0/dcc"
)

const testRoster = `
current_limit: 1500
max_loco: 4
paged_mode: true
locos:
  - name: Big Boy
    address: 4014
    long: true
  - name: shunter
    address: 3
    speed_steps: 28
    consist: 2
turnouts:
  - name: yard
    address: 12
    thrown: true
`

func TestConfigParse(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Parse([]byte(testRoster)))
	require.Equal(t, float64(1500), conf.CurrentLimit)
	require.Equal(t, float64(DefaultVoltageLimit), conf.VoltageLimit)
	require.Equal(t, 4, conf.MaxLoco)
	require.True(t, conf.PagedMode)
	require.Equal(t, []LocoConfig{
		{Name: "Big Boy", Address: 4014, Long: true},
		{Name: "shunter", Address: 3, SpeedSteps: 28, Consist: 2},
	}, conf.Locos)
	require.Equal(t, []TurnoutConfig{{Name: "yard", Address: 12, Thrown: true}}, conf.Turnouts)

	st := New(conf, dcc.NewBuffer(), nil)
	require.Len(t, st.Locos, 4)
	require.True(t, st.Locos[0].LongAddress)
	require.True(t, st.Locos[0].Use128)
	require.Equal(t, uint8(2), st.Locos[1].ConsistID)
	require.Equal(t, 1, st.FindLoco(3, false, true))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative current", "current_limit: -1"},
		{"zero voltage", "voltage_limit: 0"},
		{"no loco slots", "max_loco: 0"},
		{"negative turnouts", "max_turnout: -1"},
		{"too many locos", "max_loco: 1\nlocos: [{address: 3}, {address: 4}]"},
		{"too many turnouts", "max_turnout: 0\nturnouts: [{address: 1}]"},
		{"address zero", "locos: [{address: 0}]"},
		{"short address range", "locos: [{address: 128}]"},
		{"speed steps", "locos: [{address: 3, speed_steps: 14}]"},
		{"duplicated", "locos: [{address: 3}, {address: 3}]"},
		{"turnout range", "turnouts: [{address: 2048}]"},
		{"not yaml", "locos: {"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, NewConfig().Parse([]byte(tc.yaml)))
		})
	}
}

func TestConfigSameAddressShortAndLong(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Parse([]byte("locos: [{address: 3}, {address: 3, long: true}]")))
}

func TestConfigLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "dcc-roster")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	fn := filepath.Join(dir, "station.yaml")
	require.NoError(t, ioutil.WriteFile(fn, []byte(testRoster), 0644))

	saved := Default().RosterFile
	defer func() { Default().RosterFile = saved }()

	Default().RosterFile = fn
	conf, err := Load()
	require.NoError(t, err)
	require.Len(t, conf.Locos, 2)

	Default().RosterFile = filepath.Join(dir, "missing.yaml")
	_, err = Load()
	require.Error(t, err)

	Default().RosterFile = ""
	conf, err = Load()
	require.NoError(t, err)
	require.Equal(t, []LocoConfig{{Address: FactoryLoco}}, conf.Locos)
}
