// Package cache keeps computed dashboards close to the API and invalidates them when history changes.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/observability"
)

const megabyte = 1024 * 1024

// DashboardCache stores serialized dashboards in a freecache ring.
type DashboardCache struct {
	cache  *freecache.Cache
	ttl    int
	logger logrus.FieldLogger
}

// NewDashboardCache allocates sizeMB megabytes and expires entries after ttl.
func NewDashboardCache(sizeMB int, ttl time.Duration, logger logrus.FieldLogger) *DashboardCache {
	if sizeMB <= 0 {
		sizeMB = 32
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	seconds := int(ttl / time.Second)
	if seconds <= 0 {
		seconds = 60
	}
	return &DashboardCache{
		cache:  freecache.NewCache(sizeMB * megabyte),
		ttl:    seconds,
		logger: logger,
	}
}

func key(tenantID, userID string) []byte {
	return []byte("dashboard::" + tenantID + "::" + userID)
}

// Get implements analytics.DashboardCache.
func (c *DashboardCache) Get(tenantID, userID string) (*analytics.Dashboard, bool) {
	raw, err := c.cache.Get(key(tenantID, userID))
	if err != nil {
		observability.RecordCacheLookup(false)
		return nil, false
	}

	var dashboard analytics.Dashboard
	if err := json.Unmarshal(raw, &dashboard); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Error("discarding undecodable dashboard cache entry")
		c.cache.Del(key(tenantID, userID))
		observability.RecordCacheLookup(false)
		return nil, false
	}
	observability.RecordCacheLookup(true)
	return &dashboard, true
}

// Set implements analytics.DashboardCache.
func (c *DashboardCache) Set(tenantID, userID string, dashboard analytics.Dashboard) error {
	raw, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	if err := c.cache.Set(key(tenantID, userID), raw, c.ttl); err != nil {
		return err
	}
	observability.SetDashboardCacheEntries(c.EntryCount())
	return nil
}

// Invalidate implements domain.Invalidator.
func (c *DashboardCache) Invalidate(_ context.Context, tenantID, userID string) error {
	c.cache.Del(key(tenantID, userID))
	observability.SetDashboardCacheEntries(c.EntryCount())
	return nil
}

// EntryCount reports how many dashboards are cached.
func (c *DashboardCache) EntryCount() int64 {
	return c.cache.EntryCount()
}
