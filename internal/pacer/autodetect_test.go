package pacer_test

import (
	"errors"
	"testing"

	"github.com/jroosing/hydrabrute/internal/pacer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoDetectMaxBytesPerSec(t *testing.T) {
	sample := func() (map[string]int64, error) {
		return map[string]int64{"eth0": 10_000_000}, nil
	}
	got, err := pacer.AutoDetectMaxBytesPerSec("eth0", sample)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), got)
}

func TestAutoDetectMaxBytesPerSec_UnknownInterface(t *testing.T) {
	sample := func() (map[string]int64, error) {
		return map[string]int64{"eth0": 10_000_000}, nil
	}
	_, err := pacer.AutoDetectMaxBytesPerSec("eth1", sample)
	assert.ErrorIs(t, err, pacer.ErrInvalidBandwidth)
}

func TestAutoDetectMaxBytesPerSec_SampleError(t *testing.T) {
	boom := errors.New("boom")
	sample := func() (map[string]int64, error) { return nil, boom }
	_, err := pacer.AutoDetectMaxBytesPerSec("eth0", sample)
	assert.ErrorIs(t, err, boom)
}
