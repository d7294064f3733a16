package client

import "httpfetch/transport"

// AgentConfig holds the caller-supplied connection agents. Either a
// single agent for every scheme, or one agent per scheme. The zero
// value means no explicit agent anywhere: the transport falls back to
// its default behavior.
type AgentConfig struct {
	// Any applies regardless of the target scheme when set.
	Any transport.Agent

	// HTTP and HTTPS apply to their scheme only.
	HTTP  transport.Agent
	HTTPS transport.Agent
}

// selectFor picks the agent for one hop. It runs on every hop: a chain
// that crosses schemes must switch agents, never reuse the previous
// hop's one against a mismatched transport.
func (c AgentConfig) selectFor(scheme string) transport.Agent {
	if c.Any != nil {
		return c.Any
	}

	switch scheme {
	case "http":
		return c.HTTP
	case "https":
		return c.HTTPS
	}
	return nil
}
