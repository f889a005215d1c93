package util

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

// GeoIP resolves client IPs to "City/Country" for security events. A nil
// *GeoIP is valid and resolves nothing.
type GeoIP struct {
	reader *geoip2.Reader
	cache  *cache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// OpenGeoIP opens a GeoIP2/GeoLite2 .mmdb file. An empty path disables lookups
// and returns a nil *GeoIP without error.
func OpenGeoIP(path string) (*GeoIP, error) {
	if path == "" {
		return nil, nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	// Cache entries for 24h, purge every hour
	return &GeoIP{reader: r, cache: cache.New(24*time.Hour, time.Hour)}, nil
}

func (g *GeoIP) Close() {
	if g == nil || g.reader == nil {
		return
	}
	_ = g.reader.Close()
	g.reader = nil
}

// Lookup returns city and country names, or empty strings when unknown.
func (g *GeoIP) Lookup(ip string) (string, string) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast() {
		return "", ""
	}
	if g == nil {
		return "", ""
	}

	if g.cache != nil {
		if v, ok := g.cache.Get(ip); ok {
			g.hits.Add(1)
			if arr, ok := v.([2]string); ok {
				return arr[0], arr[1]
			}
		}
	}
	g.misses.Add(1)

	if g.reader == nil {
		return "", ""
	}
	rec, err := g.reader.City(parsed)
	if err != nil {
		return "", ""
	}

	city := rec.City.Names["en"]
	country := rec.Country.Names["en"]
	if country == "" {
		country = rec.Country.IsoCode
	}
	if g.cache != nil {
		g.cache.Set(ip, [2]string{city, country}, cache.DefaultExpiration)
	}
	return city, country
}

// Location formats Lookup as "City/Country", falling back to whichever part is known.
func (g *GeoIP) Location(ip string) string {
	city, country := g.Lookup(ip)
	switch {
	case city != "" && country != "":
		return city + "/" + country
	case country != "":
		return country
	default:
		return city
	}
}

// Metrics returns cache hits, misses and current cache size.
func (g *GeoIP) Metrics() (hits int64, misses int64, size int) {
	if g == nil {
		return 0, 0, 0
	}
	if g.cache != nil {
		size = g.cache.ItemCount()
	}
	return g.hits.Load(), g.misses.Load(), size
}
