// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the rejections a ledger operation may end with.
// A revert always leaves the ledger untouched.
package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	AmountTooSmall Kind = iota + 1
	PoolInactive
	RateTooHigh
	UserSlashed
	InsufficientStake
	InsufficientAllowance
	InsufficientBalance
	RequestNotFound
	RequestNotReady
	RequestAlreadyProcessed
	Unauthorized
	OrganizationScopeMismatch
	NoStake
	UnknownPurpose
	UnknownStrategy
	InvalidAmount
	SelfDelegation
	DelegationNotFound
	InsufficientVotingPower
)

var kindNames = map[Kind]string{
	AmountTooSmall:            "AmountTooSmall",
	PoolInactive:              "PoolInactive",
	RateTooHigh:               "RateTooHigh",
	UserSlashed:               "UserSlashed",
	InsufficientStake:         "InsufficientStake",
	InsufficientAllowance:     "InsufficientAllowance",
	InsufficientBalance:       "InsufficientBalance",
	RequestNotFound:           "RequestNotFound",
	RequestNotReady:           "RequestNotReady",
	RequestAlreadyProcessed:   "RequestAlreadyProcessed",
	Unauthorized:              "Unauthorized",
	OrganizationScopeMismatch: "OrganizationScopeMismatch",
	NoStake:                   "NoStake",
	UnknownPurpose:            "UnknownPurpose",
	UnknownStrategy:           "UnknownStrategy",
	InvalidAmount:             "InvalidAmount",
	SelfDelegation:            "SelfDelegation",
	DelegationNotFound:        "DelegationNotFound",
	InsufficientVotingPower:   "InsufficientVotingPower",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.kind.String() + ": " + e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Message returns the failed precondition.
func (e *ErrRevert) Message() string {
	return e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf extracts the revert kind from err.
func KindOf(err error) (Kind, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind, true
	}
	return 0, false
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
