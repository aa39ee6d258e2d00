package browser

import (
	"math"
	"sort"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/domstorage"
	"github.com/chromedp/cdproto/network"

	"github.com/MKhiriev/go-sf-harness/models"
)

func fromCDPCookies(in []*network.Cookie) []models.Cookie {
	out := make([]models.Cookie, 0, len(in))
	for _, c := range in {
		if c == nil {
			continue
		}
		expires := c.Expires
		if c.Session {
			expires = -1
		}
		out = append(out, models.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite.String(),
		})
	}
	return out
}

func toCDPCookieParams(in []models.Cookie) []*network.CookieParam {
	out := make([]*network.CookieParam, 0, len(in))
	for _, c := range in {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != "" {
			p.SameSite = network.CookieSameSite(c.SameSite)
		}
		if c.Expires > 0 {
			sec, frac := math.Modf(c.Expires)
			t := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*1e9)))
			p.Expires = &t
		}
		out = append(out, p)
	}
	return out
}

func fromDOMStorageItems(items []domstorage.Item) []models.StorageEntry {
	var out []models.StorageEntry
	for _, item := range items {
		if len(item) != 2 {
			continue
		}
		out = append(out, models.StorageEntry{Name: item[0], Value: item[1]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortOrigins(origins []models.OriginStorage) {
	sort.Slice(origins, func(i, j int) bool { return origins[i].Origin < origins[j].Origin })
}
