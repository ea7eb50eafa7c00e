package lookup

import (
	"context"
	"fmt"

	"github.com/pion/stun"
)

// STUNClient is the subset of *stun.Client used for lookups
type STUNClient interface {
	Close() error
	Start(m *stun.Message, h stun.Handler) error
}

// STUNDialer opens a STUN client connection
type STUNDialer func(network, address string) (STUNClient, error)

func dialSTUN(network, address string) (STUNClient, error) {
	return stun.Dial(network, address)
}

// STUNProvider learns the public address from a STUN binding response
type STUNProvider struct {
	name    string
	address string
	dial    STUNDialer
}

// NewSTUNProvider creates a STUN provider; dial may be nil
func NewSTUNProvider(name, address string, dial STUNDialer) *STUNProvider {
	return &STUNProvider{name: name, address: address, dial: dial}
}

// Name implements Provider
func (p *STUNProvider) Name() string {
	return p.name
}

// Lookup implements Provider
func (p *STUNProvider) Lookup(ctx context.Context) (string, error) {
	dial := p.dial
	if dial == nil {
		dial = dialSTUN
	}

	client, err := dial("udp", p.address)
	if err != nil {
		return "", fmt.Errorf("stun dial %s: %w", p.address, err)
	}
	defer client.Close()

	errCh, ipCh := make(chan error, 1), make(chan string, 1)
	message := stun.MustBuild(stun.TransactionID, stun.BindingRequest)
	err = client.Start(message, func(ev stun.Event) {
		if ev.Error != nil {
			errCh <- ev.Error
			return
		}
		var xorAddr stun.XORMappedAddress
		if err := xorAddr.GetFrom(ev.Message); err != nil {
			errCh <- err
			return
		}
		ipCh <- xorAddr.IP.String()
	})
	if err != nil {
		return "", fmt.Errorf("stun request: %w", err)
	}

	select {
	case err := <-errCh:
		return "", fmt.Errorf("stun response: %w", err)
	case ip := <-ipCh:
		return ip, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
