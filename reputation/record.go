// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reputation

import (
	"fmt"
	"math"
	"strings"

	"github.com/dao-ledger/stakerep/dao"
)

// Kind selects the counter a history entry applies to.
type Kind uint8

const (
	KindReputation Kind = iota
	KindExperience
	KindInteraction
)

func (k Kind) String() string {
	switch k {
	case KindReputation:
		return "reputation"
	case KindExperience:
		return "experience"
	case KindInteraction:
		return "interaction"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(input []byte) error {
	for _, known := range []Kind{KindReputation, KindExperience, KindInteraction} {
		if strings.EqualFold(known.String(), string(input)) {
			*k = known
			return nil
		}
	}
	return fmt.Errorf("unknown reputation kind %q", input)
}

// Record holds the counters of one member within one organization.
type Record struct {
	Org                  dao.OrgID
	Member               dao.Address
	Exists               bool
	Reputation           uint64
	Experience           uint64
	TrustScore           uint64 // basis points
	PositiveInteractions uint64
	TotalInteractions    uint64
	HistoryLength        uint64
}

func newRecord(org dao.OrgID, member dao.Address) *Record {
	return &Record{
		Org:        org,
		Member:     member,
		Reputation: dao.BaselineReputation,
		TrustScore: TrustScore(0, 0),
	}
}

// Entry is one append-only history item. RLP has no signed integers,
// so the delta is kept as magnitude and sign.
type Entry struct {
	Org        dao.OrgID
	Member     dao.Address
	Index      uint64
	Kind       Kind
	Magnitude  uint64
	Negative   bool
	ReasonCode string
	Timestamp  uint64
}

// Delta returns the signed change applied, saturated to the int64 range.
func (e *Entry) Delta() int64 {
	if e.Magnitude > math.MaxInt64 {
		if e.Negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	if e.Negative {
		return -int64(e.Magnitude)
	}
	return int64(e.Magnitude)
}

// TrustScore is the Laplace smoothed share of positive interactions in basis points.
// It starts at 5000 and never decreases when a positive interaction is added.
func TrustScore(positive, total uint64) uint64 {
	return (positive + 1) * dao.BpsDenominator / (total + 2)
}
