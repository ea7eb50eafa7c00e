package lookup

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Provider reports the public IP address of this host
type Provider interface {
	Name() string
	Lookup(ctx context.Context) (string, error)
}

// NewProviders builds providers from configuration.
// stunDial may be nil to use real UDP connections.
func NewProviders(cfgs []ProviderConfig, client *http.Client, userAgent string, stunDial STUNDialer) ([]Provider, error) {
	providers := make([]Provider, 0, len(cfgs))
	for _, pc := range cfgs {
		switch strings.ToLower(pc.Type) {
		case ProviderHTTP, "":
			providers = append(providers, &HTTPProvider{
				name:      pc.Name,
				url:       pc.URL,
				format:    pc.Format,
				userAgent: userAgent,
				client:    client,
			})
		case ProviderSTUN:
			providers = append(providers, &STUNProvider{
				name:    pc.Name,
				address: pc.Address,
				dial:    stunDial,
			})
		default:
			return nil, fmt.Errorf("unknown provider type %q for %s", pc.Type, pc.Name)
		}
	}
	return providers, nil
}
