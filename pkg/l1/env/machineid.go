package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineAppID keys the protected machine ID, so the station ID does
// not leak the raw machine ID.
const MachineAppID = "dcc.go"

// MachineID retrieves the unique ID identifying the machine, falling
// back to the host name where no machine ID is available.
func MachineID() string {
	id, err := machineid.ProtectedID(MachineAppID)
	if err == nil && id != "" {
		if len(id) > 16 {
			id = id[:16]
		}
		return id
	}
	glog.V(1).Infof("machine id unavailable: %v", err)
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "station"
}
