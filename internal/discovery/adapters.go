package discovery

import (
	"context"
	"fmt"

	gnet "github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/msptoolkit/netscout/pkg/models"
)

// interfacesFunc matches gopsutil's InterfacesWithContext; injectable for tests.
type interfacesFunc func(ctx context.Context) (gnet.InterfaceStatList, error)

// AdapterInventory produces read-only snapshots of the local network
// interfaces. Snapshots are computed fresh on every List call.
type AdapterInventory struct {
	interfaces interfacesFunc
	logger     *zap.Logger
}

// NewAdapterInventory creates an inventory backed by the OS interface list.
func NewAdapterInventory(logger *zap.Logger) *AdapterInventory {
	return &AdapterInventory{
		interfaces: gnet.InterfacesWithContext,
		logger:     logger,
	}
}

// List returns a snapshot of all local network adapters, including down
// and loopback interfaces. Callers filter as needed.
func (a *AdapterInventory) List(ctx context.Context) ([]models.Adapter, error) {
	stats, err := a.interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list network interfaces: %w", err)
	}

	adapters := make([]models.Adapter, 0, len(stats))
	for _, st := range stats {
		adapter := models.Adapter{
			Name:       st.Name,
			Index:      st.Index,
			MTU:        st.MTU,
			MACAddress: st.HardwareAddr,
			IsUp:       hasFlag(st.Flags, "up"),
			IsLoopback: hasFlag(st.Flags, "loopback"),
		}
		adapter.Type = adapterType(st.Flags)
		for _, addr := range st.Addrs {
			adapter.Addresses = append(adapter.Addresses, addr.Addr)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}

// adapterType classifies an interface from its flags. Anything that is
// neither loopback nor point-to-point is reported as ethernet; the OS
// does not expose the physical medium through this API.
func adapterType(flags []string) string {
	switch {
	case hasFlag(flags, "loopback"):
		return "loopback"
	case hasFlag(flags, "pointtopoint"):
		return "pointtopoint"
	default:
		return "ethernet"
	}
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
