/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package preflight

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	probePort       = "443"
	probeTimeout    = 5 * time.Second
	probeConcurrent = 10
)

// ProbeResult is the outcome for one endpoint.
type ProbeResult struct {
	Host      string
	Reachable bool
	Detail    string
}

// ProbeEndpoints dials each host on 443 concurrently and reports
// per-endpoint reachability. The check is advisory: results never abort a
// run on their own, the caller decides what to do with failures.
func ProbeEndpoints(ctx context.Context, hosts []string) []ProbeResult {
	results := make([]ProbeResult, 0, len(hosts))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrent)
	for _, host := range hosts {
		g.Go(func() error {
			r := probeHost(ctx, host)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Host < results[j].Host })
	return results
}

// AllReachable reports whether every probed endpoint answered.
func AllReachable(results []ProbeResult) bool {
	for _, r := range results {
		if !r.Reachable {
			return false
		}
	}
	return true
}

func probeHost(ctx context.Context, host string) ProbeResult {
	d := net.Dialer{Timeout: probeTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, probePort))
	if err != nil {
		return ProbeResult{Host: host, Detail: err.Error()}
	}
	_ = conn.Close()
	return ProbeResult{Host: host, Reachable: true, Detail: fmt.Sprintf("tcp %s open", probePort)}
}
