package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderScenarios(t *testing.T) {
	d := NewDisplay("", "")

	t.Run("pending", func(t *testing.T) {
		out := d.Render(FromFlags(Flags{Loading: true}))
		assert.Equal(t, BranchPending, out.Branch)
		assert.Equal(t, DefaultPendingText, out.Text)
		assert.Contains(t, string(out.HTML), `class="skeleton"`)
	})

	t.Run("failed hides error details", func(t *testing.T) {
		out := d.Render(FromFlags(Flags{Err: errors.New("network down")}))
		assert.Equal(t, BranchFailed, out.Branch)
		assert.Equal(t, DefaultFailureText, out.Text)
		assert.NotContains(t, out.Text, "network down")
		assert.NotContains(t, string(out.HTML), "network down")
	})

	t.Run("ready renders value verbatim", func(t *testing.T) {
		out := d.Render(FromFlags(Flags{Value: "203.0.113.7"}))
		assert.Equal(t, BranchReady, out.Branch)
		assert.Equal(t, "203.0.113.7", out.Text)
		assert.Contains(t, string(out.HTML), ">203.0.113.7<")
	})
}

func TestRenderIgnoresStaleContent(t *testing.T) {
	d := NewDisplay("", "")

	out := d.Render(FromFlags(Flags{Loading: true, Err: errors.New("boom"), Value: "198.51.100.9"}))
	assert.Equal(t, BranchPending, out.Branch)
	assert.NotContains(t, string(out.HTML), "198.51.100.9")
	assert.NotContains(t, string(out.HTML), "boom")

	out = d.Render(FromFlags(Flags{Err: errors.New("boom"), Value: "198.51.100.9"}))
	assert.Equal(t, BranchFailed, out.Branch)
	assert.NotContains(t, string(out.HTML), "198.51.100.9")
}

func TestRenderOpaqueValue(t *testing.T) {
	d := NewDisplay("", "")

	for _, v := range []string{"", "  2001:db8::1  ", "not-an-ip", "<b>x</b>"} {
		out := d.Render(Ready(v))
		assert.Equal(t, v, out.Text)
	}

	out := d.Render(Ready("<b>x</b>"))
	assert.Contains(t, string(out.HTML), "&lt;b&gt;x&lt;/b&gt;")
}

func TestRenderIdempotent(t *testing.T) {
	d := NewDisplay("wait", "nope")
	for _, s := range []Status{Pending(), Failed(errors.New("x")), Ready("203.0.113.7")} {
		assert.Equal(t, d.Render(s), d.Render(s))
	}
}

func TestRenderCustomTexts(t *testing.T) {
	d := NewDisplay("加载中", "获取IP失败")
	assert.Equal(t, "加载中", d.Render(Pending()).Text)
	assert.Equal(t, "获取IP失败", d.Render(Failed(nil)).Text)
}
