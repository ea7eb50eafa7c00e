// Package geoip annotates resolved addresses with country and network
// information from a MaxMind-format database.
package geoip

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
)

// ErrInvalidIP is returned for values that do not parse as an IP address
var ErrInvalidIP = errors.New("invalid IP address")

// Info is the annotation for one address
type Info struct {
	CountryCode string `json:"country_code,omitempty"`
	ASN         uint   `json:"asn,omitempty"`
	Org         string `json:"org,omitempty"`
}

type record struct {
	Country struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
	RegisteredCountry struct {
		IsoCode string `maxminddb:"iso_code"`
	} `maxminddb:"registered_country"`
	AutonomousSystemNumber       uint   `maxminddb:"autonomous_system_number"`
	AutonomousSystemOrganization string `maxminddb:"autonomous_system_organization"`
}

// Resolver looks addresses up in an open database.
// A nil *Resolver is valid and resolves nothing.
type Resolver struct {
	db *maxminddb.Reader
}

// Open opens the database at path
func Open(path string) (*Resolver, error) {
	db, err := maxminddb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database: %w", err)
	}
	return &Resolver{db: db}, nil
}

// FromBytes loads a database from memory
func FromBytes(data []byte) (*Resolver, error) {
	db, err := maxminddb.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load geoip database: %w", err)
	}
	return &Resolver{db: db}, nil
}

// Lookup returns the annotation for ip. A nil resolver returns nil, nil.
func (r *Resolver) Lookup(ip string) (*Info, error) {
	if r == nil || r.db == nil {
		return nil, nil
	}

	addr := net.ParseIP(ip)
	if addr == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	var rec record
	if err := r.db.Lookup(addr, &rec); err != nil {
		return nil, fmt.Errorf("geoip lookup: %w", err)
	}

	info := &Info{
		CountryCode: rec.Country.IsoCode,
		ASN:         rec.AutonomousSystemNumber,
		Org:         rec.AutonomousSystemOrganization,
	}
	if info.CountryCode == "" {
		info.CountryCode = rec.RegisteredCountry.IsoCode
	}
	return info, nil
}

// Close releases the database
func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
