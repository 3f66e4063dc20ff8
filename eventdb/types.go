// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import "github.com/dao-ledger/stakerep/dao"

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds a query inclusively. To below From leaves the upper bound open.
type Range struct {
	Unit RangeType `json:"unit"`
	From uint64    `json:"from"`
	To   uint64    `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects records. Empty criteria match everything.
type Filter struct {
	Names   []string     `json:"names"`
	Account *dao.Address `json:"account"`
	Org     *dao.OrgID   `json:"org"`
	Range   *Range       `json:"range"`
	Order   Order        `json:"order"`
	Options *Options     `json:"options"`
}
