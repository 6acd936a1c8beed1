package quantnote

import (
	"strconv"
	"strings"
)

// Chain names an EVM network in any accepted spelling: canonical name
// ("bsc"), upper-case name ("BSC"), numeric chain ID (56), or the ID as a
// decimal string ("56").
type Chain string

// Supported chains by canonical name.
const (
	ChainBSC     Chain = "bsc"
	ChainETH     Chain = "eth"
	ChainPolygon Chain = "polygon"
	ChainAvax    Chain = "avax"
	ChainFTM     Chain = "ftm"
)

// chainIDs maps canonical chain names to numeric chain IDs.
var chainIDs = map[Chain]int64{
	ChainBSC:     56,
	ChainETH:     1,
	ChainPolygon: 137,
	ChainAvax:    43114,
	ChainFTM:     250,
}

// ID reports the canonical numeric chain ID, or false for an unsupported
// spelling.
func (ch Chain) ID() (int64, bool) {
	s := strings.TrimSpace(string(ch))
	if s == "" {
		return 0, false
	}
	if id, ok := chainIDs[Chain(strings.ToLower(s))]; ok {
		return id, true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	for _, id := range chainIDs {
		if id == n {
			return n, true
		}
	}
	return 0, false
}

// mustChainID resolves a spelling that validation already accepted.
func mustChainID(ch Chain) int64 {
	id, _ := ch.ID()
	return id
}

// chainNames lists the canonical names for a set of chain IDs, keeping the
// input order. Unknown IDs print as their number.
func chainNames(ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := strconv.FormatInt(id, 10)
		for ch, known := range chainIDs {
			if known == id {
				name = string(ch)
				break
			}
		}
		names = append(names, name)
	}
	return names
}
