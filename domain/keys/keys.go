package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxLeader is used for prefixing the leading bid read cache
	PfxLeader = "leader"
	// PfxIdentity is used for prefixing identity lookups
	PfxIdentity = "identity"
	// PfxSchedulerLease is used for the scheduler leadership lease
	PfxSchedulerLease = "schedulerLease"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the first two components of a key, used as a metric tag
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.Join(s[:2], ":")
	} else if len(s) > 1 {
		return s[0]
	}
	return ""
}
