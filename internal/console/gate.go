package console

import (
	"net"
	"sync"
)

// Reasons a console connection is turned away.
const (
	rejectHostLimit  = "per_host"
	rejectTotalLimit = "total"
)

// sessionGate caps open console sessions, per remote host and overall.
// A zero cap disables that check.
type sessionGate struct {
	perHost int
	total   int

	mu     sync.Mutex
	byHost map[string]int
	open   int
}

func newSessionGate(perHost, total int) *sessionGate {
	return &sessionGate{
		perHost: perHost,
		total:   total,
		byHost:  make(map[string]int),
	}
}

// admit reserves a session slot for host. On refusal it names the cap hit.
func (g *sessionGate) admit(host string) (bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.total > 0 && g.open >= g.total:
		return false, rejectTotalLimit
	case g.perHost > 0 && g.byHost[host] >= g.perHost:
		return false, rejectHostLimit
	}
	g.byHost[host]++
	g.open++
	return true, ""
}

// leave frees a slot taken by admit. Unknown hosts are ignored.
func (g *sessionGate) leave(host string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.byHost[host]
	if !ok {
		return
	}
	if n <= 1 {
		delete(g.byHost, host)
	} else {
		g.byHost[host] = n - 1
	}
	g.open--
}

// usage returns the open sessions and how many hosts hold them.
func (g *sessionGate) usage() (sessions, hosts int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open, len(g.byHost)
}

// remoteHost strips the port from an http.Request RemoteAddr.
func remoteHost(addr string) string {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h
	}
	return addr
}
