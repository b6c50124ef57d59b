package collab_test

import (
	"context"
	"net"
	"testing"

	"github.com/jroosing/hydrabrute/internal/collab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostResolverWildcardProber_UsesGivenResolver(t *testing.T) {
	r := &net.Resolver{
		PreferGo: true,
		Dial: func(_ context.Context, _, _ string) (net.Conn, error) {
			return nil, refusedDial{}
		},
	}
	p := collab.HostResolverWildcardProber{Resolver: r}

	ips, err := p.Probe(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Empty(t, ips)
}

type refusedDial struct{}

func (refusedDial) Error() string { return "test resolver refuses every dial" }
