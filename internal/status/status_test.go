package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFlagsPriority(t *testing.T) {
	netErr := errors.New("network down")

	tests := []struct {
		name   string
		flags  Flags
		branch Branch
	}{
		{"loading only", Flags{Loading: true}, BranchPending},
		{"loading wins over error", Flags{Loading: true, Err: netErr}, BranchPending},
		{"loading wins over value", Flags{Loading: true, Value: "198.51.100.1"}, BranchPending},
		{"loading wins over both", Flags{Loading: true, Err: netErr, Value: "198.51.100.1"}, BranchPending},
		{"error wins over value", Flags{Err: netErr, Value: "198.51.100.1"}, BranchFailed},
		{"error with empty value", Flags{Err: netErr}, BranchFailed},
		{"value", Flags{Value: "203.0.113.7"}, BranchReady},
		{"empty value", Flags{}, BranchReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.branch, FromFlags(tt.flags).Branch())
		})
	}
}

func TestStatusAccessors(t *testing.T) {
	var zero Status
	assert.Equal(t, BranchPending, zero.Branch())
	assert.False(t, zero.Terminal())

	v, ok := Ready("203.0.113.7").Value()
	assert.True(t, ok)
	assert.Equal(t, "203.0.113.7", v)

	_, ok = Pending().Value()
	assert.False(t, ok)
	_, ok = Failed(errors.New("x")).Value()
	assert.False(t, ok)

	assert.ErrorIs(t, Failed(nil).Err(), ErrLookupFailed)
	assert.Nil(t, Ready("x").Err())
	assert.True(t, Failed(nil).Terminal())
	assert.True(t, Ready("").Terminal())
}

func TestStatusEqual(t *testing.T) {
	assert.True(t, Pending().Equal(Status{}))
	assert.True(t, Ready("a").Equal(Ready("a")))
	assert.False(t, Ready("a").Equal(Ready("b")))
	assert.True(t, Failed(errors.New("a")).Equal(Failed(errors.New("b"))))
	assert.False(t, Failed(nil).Equal(Pending()))
}
