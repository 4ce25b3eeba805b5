package controller

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcc.go/pkg/l1"
)

func TestNewEnv(t *testing.T) {
	tests := []struct {
		name     string
		conf     Config
		urls     []string
		hasError bool
	}{
		{
			name:     "no id",
			conf:     Config{Info: l1.ControllerInfo{Ref: l1.ControllerRef{Type: l1.StationType}}, TCPListen: ":2560"},
			hasError: true,
		},
		{
			name:     "no transport",
			conf:     Config{Info: l1.ControllerInfo{Ref: l1.ControllerRef{Type: l1.StationType, ID: "s1"}}},
			hasError: true,
		},
		{
			name: "tcp and http",
			conf: Config{
				Info:       l1.ControllerInfo{Ref: l1.ControllerRef{Type: l1.StationType, ID: "s1"}},
				HTTPListen: "localhost:8080",
				TCPListen:  "localhost:2560",
			},
			urls: []string{"ws://localhost:8080", "tcp://localhost:2560"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf := tc.conf
			e, err := conf.NewEnv()
			if tc.hasError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.urls, e.RegistryURLs)
			require.NotNil(t, e.HTTP)
			require.NotNil(t, e.TCP)
			require.Len(t, e.Registrar.Registrars, 1)
		})
	}
}
