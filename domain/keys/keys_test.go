package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "leader:obj-1:2", RedisKey(PfxLeader, "obj-1", "2"))
	assert.Equal(t, "a/b", CustomKey("/", "a", "b"))
}

func TestGetPrefix(t *testing.T) {
	assert.Equal(t, "", GetPrefix("plain"))
	assert.Equal(t, "leader", GetPrefix("leader:obj-1"))
	assert.Equal(t, "saleengine:leader", GetPrefix("saleengine:leader:obj-1:2"))
}
