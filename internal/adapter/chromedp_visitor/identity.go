package chromedp_visitor

import (
	"math/rand"
	"sync"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

// Identity hands out the proxy and user agent for each browser launch.
// Proxies rotate in order; user agents are picked at random.
type Identity struct {
	proxies    []string
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
}

// NewIdentity builds an identity source. Empty userAgents selects the
// built-in desktop Chrome agents; empty proxies means direct connections.
func NewIdentity(proxies, userAgents []string) *Identity {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &Identity{proxies: proxies, userAgents: userAgents}
}

// Proxy returns the next proxy URL, or "" when none are configured.
func (i *Identity) Proxy() string {
	if len(i.proxies) == 0 {
		return ""
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	proxy := i.proxies[i.proxyIndex]
	i.proxyIndex = (i.proxyIndex + 1) % len(i.proxies)
	return proxy
}

// UserAgent returns a random user agent string.
func (i *Identity) UserAgent() string {
	if len(i.userAgents) == 0 {
		return ""
	}
	return i.userAgents[rand.Intn(len(i.userAgents))]
}
