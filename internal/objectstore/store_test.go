package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnsNilWithoutBucket(t *testing.T) {
	store, err := New(context.Background(), Config{})
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestKeyForJoinsPrefixAndJobID(t *testing.T) {
	s := &Store{cfg: Config{Bucket: "b", Prefix: "/exports/"}}
	assert.Equal(t, "exports/job-1/out.tif", s.keyFor("job-1", "out.tif"))
}

func TestKeyForWithoutPrefix(t *testing.T) {
	s := &Store{cfg: Config{Bucket: "b"}}
	assert.Equal(t, "job-1/out.tif", s.keyFor("job-1", "out.tif"))
}
