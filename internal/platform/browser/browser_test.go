package browser

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stigoleg/autoclick/internal/clicker"
)

func TestButtonFor(t *testing.T) {
	tests := []struct {
		in   clicker.Button
		want proto.InputMouseButton
	}{
		{clicker.ButtonLeft, proto.InputMouseButtonLeft},
		{clicker.ButtonRight, proto.InputMouseButtonRight},
		{clicker.ButtonMiddle, proto.InputMouseButtonMiddle},
	}
	for _, tt := range tests {
		got, err := buttonFor(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := buttonFor(clicker.Button(5))
	assert.Error(t, err)
}

const clickPage = `<html><body style="margin:0">
<div id="pad" style="width:400px;height:400px"></div>
<script>
window.clicks = [];
document.addEventListener('mouseup', e => window.clicks.push([e.button, e.clientX, e.clientY]));
</script></body></html>`

func TestActuatorClicksPage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no Chromium executable available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := Open(ctx, Options{URL: "data:text/html," + url.PathEscape(clickPage), Headless: true})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Click(ctx, clicker.ButtonLeft, clicker.Point{X: 40, Y: 50}, 10*time.Millisecond))
	require.NoError(t, a.Click(ctx, clicker.ButtonRight, clicker.Point{X: 70, Y: 80}, 10*time.Millisecond))

	pos, err := a.CurrentPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, clicker.Point{X: 70, Y: 80}, pos)

	clicks := a.Page().MustEval(`() => JSON.stringify(window.clicks)`).String()
	assert.Equal(t, `[[0,40,50],[2,70,80]]`, clicks)

	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close())
	assert.Error(t, a.Click(ctx, clicker.ButtonLeft, clicker.Point{}, time.Millisecond))
}
