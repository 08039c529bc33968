package system

import (
	"context"
	"fmt"
	"strings"
)

// PrimaryIPv4 returns the first address reported by `hostname -I`.
func PrimaryIPv4(ctx context.Context, r Runner) (string, error) {
	stdout, stderr, err := r.Run(ctx, "hostname", "-I")
	if err != nil {
		return "", fmt.Errorf("hostname -I failed: %v: %s", err, stderr)
	}
	for _, field := range strings.Fields(stdout) {
		if strings.Count(field, ".") == 3 {
			return field, nil
		}
	}
	return "", fmt.Errorf("no ipv4 address in %q", strings.TrimSpace(stdout))
}

// HostNetInfo resolves the address clients use to reach the control page.
type HostNetInfo struct {
	Runner Runner
}

func (h HostNetInfo) IP(ctx context.Context) (string, error) {
	r := h.Runner
	if r == nil {
		r = ShellRunner{}
	}
	return PrimaryIPv4(ctx, r)
}
