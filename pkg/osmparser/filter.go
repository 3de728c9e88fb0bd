package osmparser

import "github.com/paulmach/osm"

// WayFilter decides from its tags whether a way is part of the road network.
type WayFilter func(tags osm.Tags) bool

// AcceptWay accepts every way carrying a highway tag, whatever its value
// (highway=construction included).
func AcceptWay(tags osm.Tags) bool {
	for _, tag := range tags {
		if tag.Key == "highway" {
			return true
		}
	}
	return false
}
