package query

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-objgw/internal/objstore"
)

// bytesPerMegabyte converts memory readings for the system_info payload.
const bytesPerMegabyte = 1 << 20

// SystemInfo is the system_info payload.
type SystemInfo struct {
	HostVersion    string  `json:"host_version"`
	Hostname       string  `json:"hostname"`
	Platform       string  `json:"platform"`
	ProcessVersion string  `json:"process_version"`
	Load1          float64 `json:"load1"`
	MemTotalMB     int64   `json:"mem_total_mb"`
	MemFreeMB      int64   `json:"mem_free_mb"`
	UptimeSeconds  int64   `json:"uptime_seconds"`
	Instances      int     `json:"instances"`
}

// SystemInfo aggregates host metadata, host load/memory states, process
// facts and the registered instance count. Unlike the batch operations there
// is no meaningful partial result here: any failing sub-fetch fails the
// whole call.
func (e *Executor) SystemInfo(ctx context.Context) (SystemInfo, error) {
	hosts, err := e.store.ObjectsByKind(ctx, objstore.KindHost)
	if err != nil {
		return SystemInfo{}, fmt.Errorf("loading hosts: %w", err)
	}
	if len(hosts) == 0 {
		return SystemInfo{}, fmt.Errorf("no host entry registered")
	}

	hostIDs := make([]string, 0, len(hosts))
	for id := range hosts {
		hostIDs = append(hostIDs, id)
	}
	sort.Strings(hostIDs)
	host := hosts[hostIDs[0]]

	info := SystemInfo{
		ProcessVersion: runtime.Version(),
		UptimeSeconds:  int64(time.Since(e.started).Round(time.Second).Seconds()),
	}
	if v, ok := host.NativeString("version"); ok {
		info.HostVersion = v
	}
	if v, ok := host.NativeString("platform"); ok {
		info.Platform = v
	}
	if v, ok := host.NativeString("hostname"); ok {
		info.Hostname = v
	} else if i := strings.LastIndexByte(host.ID, '.'); i >= 0 {
		info.Hostname = host.ID[i+1:]
	}

	load, err := e.requireFloatState(ctx, host.ID+".load1")
	if err != nil {
		return SystemInfo{}, err
	}
	info.Load1 = load

	memTotal, err := e.requireFloatState(ctx, host.ID+".memTotal")
	if err != nil {
		return SystemInfo{}, err
	}
	info.MemTotalMB = int64(math.Round(memTotal / bytesPerMegabyte))

	memFree, err := e.requireFloatState(ctx, host.ID+".memFree")
	if err != nil {
		return SystemInfo{}, err
	}
	info.MemFreeMB = int64(math.Round(memFree / bytesPerMegabyte))

	instances, err := e.store.ObjectsByPattern(ctx, instancePrefix+"*")
	if err != nil {
		return SystemInfo{}, fmt.Errorf("counting instances: %w", err)
	}
	info.Instances = len(instances)

	return info, nil
}

// requireFloatState reads a state that must exist and be numeric.
func (e *Executor) requireFloatState(ctx context.Context, id string) (float64, error) {
	sv, err := e.store.State(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", id, err)
	}
	f, ok := coerceFloat(sv.Val)
	if !ok {
		return 0, fmt.Errorf("state %s is not numeric", id)
	}
	return f, nil
}
