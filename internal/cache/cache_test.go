package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New("not a valid redis url::", time.Minute)
	assert.Error(t, err)
}

func TestNewDefaultsTTL(t *testing.T) {
	c := &Cache{}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	assert.Equal(t, DefaultTTL, c.ttl)
}
