package geoip

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxmind/mmdbwriter"
	"github.com/maxmind/mmdbwriter/mmdbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDatabase writes a small country+ASN database
func buildDatabase(t *testing.T) []byte {
	t.Helper()

	w, err := mmdbwriter.New(mmdbwriter.Options{
		DatabaseType: "ecoip-test",
		RecordSize:   24,
	})
	require.NoError(t, err)

	records := map[string]mmdbtype.Map{
		"81.2.69.0/24": {
			"country":                        mmdbtype.Map{"iso_code": mmdbtype.String("GB")},
			"registered_country":             mmdbtype.Map{"iso_code": mmdbtype.String("IE")},
			"autonomous_system_number":       mmdbtype.Uint32(20712),
			"autonomous_system_organization": mmdbtype.String("Andrews & Arnold Ltd"),
		},
		// Anycast style range with only the registered country
		"89.160.20.0/24": {
			"registered_country":       mmdbtype.Map{"iso_code": mmdbtype.String("SE")},
			"autonomous_system_number": mmdbtype.Uint32(29518),
		},
		"2a02:cf40::/32": {
			"country": mmdbtype.Map{"iso_code": mmdbtype.String("NO")},
		},
	}
	for cidr, rec := range records {
		_, network, err := net.ParseCIDR(cidr)
		require.NoError(t, err)
		require.NoError(t, w.Insert(network, rec))
	}

	var buf bytes.Buffer
	_, err = w.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestLookup(t *testing.T) {
	r, err := FromBytes(buildDatabase(t))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	tests := []struct {
		name string
		ip   string
		want Info
	}{
		{"country and asn", "81.2.69.142", Info{CountryCode: "GB", ASN: 20712, Org: "Andrews & Arnold Ltd"}},
		{"registered country fallback", "89.160.20.112", Info{CountryCode: "SE", ASN: 29518}},
		{"ipv6", "2a02:cf40::1", Info{CountryCode: "NO"}},
		{"not in database", "198.51.100.9", Info{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := r.Lookup(tt.ip)
			require.NoError(t, err)
			require.NotNil(t, info)
			assert.Equal(t, tt.want, *info)
		})
	}
}

func TestLookupInvalidIP(t *testing.T) {
	r, err := FromBytes(buildDatabase(t))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Lookup("not-an-ip")
	assert.ErrorIs(t, err, ErrInvalidIP)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mmdb")
	require.NoError(t, os.WriteFile(path, buildDatabase(t), 0o600))

	r, err := Open(path)
	require.NoError(t, err)

	info, err := r.Lookup("81.2.69.142")
	require.NoError(t, err)
	assert.Equal(t, "GB", info.CountryCode)
	assert.NoError(t, r.Close())
}

func TestNilResolver(t *testing.T) {
	var r *Resolver
	info, err := r.Lookup("203.0.113.7")
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.NoError(t, r.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	assert.Error(t, err)
}

func TestFromBytesGarbage(t *testing.T) {
	_, err := FromBytes([]byte("not a database"))
	assert.Error(t, err)
}
