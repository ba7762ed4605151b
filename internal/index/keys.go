// Package index describes the Redis layout of the geospatial search index
// and the read-only client contract used to inspect it.
//
// Every structure lives under a one-letter namespace prefix followed by a
// pipe: documents (d|), posting lists (w|), token pairs (p|), autocomplete
// edge n-grams (n|) and geohash buckets (g|). Keys must always be built
// through the constructors below so the namespaces never mix.
package index

import "strings"

const separator = "|"

const (
	documentPrefix  = "d"
	tokenPrefix     = "w"
	pairPrefix      = "p"
	edgeNgramPrefix = "n"
	geohashPrefix   = "g"
	housenumberPref = "h"
)

func DocumentKey(id string) string { return documentPrefix + separator + id }

func TokenKey(token string) string { return tokenPrefix + separator + token }

func PairKey(token string) string { return pairPrefix + separator + token }

func EdgeNgramKey(token string) string { return edgeNgramPrefix + separator + token }

func GeohashKey(hash string) string { return geohashPrefix + separator + hash }

// HousenumberField is the document field holding a housenumber's
// coordinates.
func HousenumberField(number string) string { return housenumberPref + separator + number }

// IsHousenumberField reports whether a document field is a housenumber
// sub-entry.
func IsHousenumberField(field string) bool {
	return strings.HasPrefix(field, housenumberPref+separator)
}

// KeySuffix returns what follows the namespace separator, or the key itself
// when it has none.
func KeySuffix(key string) string {
	_, suffix, found := strings.Cut(key, separator)
	if !found {
		return key
	}
	return suffix
}
