package devices

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// capabilityCache memoizes slow per-device capability probes across
// rescans. Entries for vanished devices are pruned after each enumeration,
// so a re-plugged device is probed fresh.
type capabilityCache struct {
	*lru.Cache[DeviceID, Capabilities]
}

func newCapabilityCache(size int) (*capabilityCache, error) {
	cache, err := lru.New[DeviceID, Capabilities](size)
	if err != nil {
		return nil, err
	}

	return &capabilityCache{Cache: cache}, nil
}

func (c *capabilityCache) prune(live []DeviceID) {
	alive := make(map[DeviceID]struct{}, len(live))
	for _, id := range live {
		alive[id] = struct{}{}
	}

	for _, id := range c.Keys() {
		if _, ok := alive[id]; !ok {
			c.Remove(id)
		}
	}
}
