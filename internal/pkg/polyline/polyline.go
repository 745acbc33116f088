// Package polyline implements the encoded polyline algorithm format used by
// routing providers for path geometry, at the standard precision of five
// decimal places.
package polyline

import (
	"strings"
)

const precision = 1e5

// Point is one vertex of a path in latitude/longitude order.
type Point struct {
	Lat float64
	Lon float64
}

// Encode renders points as an encoded polyline string.
func Encode(points []Point) string {
	var sb strings.Builder
	var prevLat, prevLon int64

	for _, p := range points {
		lat := int64(round(p.Lat * precision))
		lon := int64(round(p.Lon * precision))
		writeValue(&sb, lat-prevLat)
		writeValue(&sb, lon-prevLon)
		prevLat, prevLon = lat, lon
	}

	return sb.String()
}

// Decode parses an encoded polyline string. Malformed trailing bytes yield a
// truncated result rather than an error; providers never emit them.
func Decode(s string) []Point {
	var points []Point
	var lat, lon int64
	i := 0

	for i < len(s) {
		dLat, n := readValue(s[i:])
		if n == 0 {
			break
		}
		i += n

		dLon, n := readValue(s[i:])
		if n == 0 {
			break
		}
		i += n

		lat += dLat
		lon += dLon
		points = append(points, Point{
			Lat: float64(lat) / precision,
			Lon: float64(lon) / precision,
		})
	}

	return points
}

// Join concatenates encoded leg geometries into one path, dropping the
// duplicated vertex where one leg ends and the next begins. Empty legs are
// skipped.
func Join(legs []string) string {
	var path []Point

	for _, leg := range legs {
		points := Decode(leg)
		if len(points) == 0 {
			continue
		}
		if len(path) > 0 && path[len(path)-1] == points[0] {
			points = points[1:]
		}
		path = append(path, points...)
	}

	return Encode(path)
}

func writeValue(sb *strings.Builder, v int64) {
	u := uint64(v) << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte(0x20|(u&0x1f)) + 63)
		u >>= 5
	}
	sb.WriteByte(byte(u) + 63)
}

func readValue(s string) (int64, int) {
	var u uint64
	var shift uint
	for i := 0; i < len(s); i++ {
		b := uint64(s[i]) - 63
		u |= (b & 0x1f) << shift
		if b < 0x20 {
			v := int64(u >> 1)
			if u&1 != 0 {
				v = ^v
			}
			return v, i + 1
		}
		shift += 5
	}
	return 0, 0
}

func round(f float64) float64 {
	if f < 0 {
		return f - 0.5
	}
	return f + 0.5
}
