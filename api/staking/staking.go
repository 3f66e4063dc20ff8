// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/api/utils"
	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/ledger"
)

type Staking struct {
	ledger *ledger.Ledger
	clock  utils.Clock
}

func New(ledger *ledger.Ledger, clock utils.Clock) *Staking {
	return &Staking{
		ledger,
		clock,
	}
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.RequireCaller(body.Caller, body.Owner); err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.Stake(body.Owner, body.Purpose, amount, body.Strategy, s.clock()); err != nil {
		return err
	}
	acc, err := s.account(body.Owner, body.Purpose)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (s *Staking) handleRequestUnstake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.RequireCaller(body.Caller, body.Owner); err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	r, err := s.ledger.RequestUnstake(body.Owner, body.Purpose, amount, body.Strategy, s.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRequest(r))
}

func (s *Staking) handleProcessUnstake(w http.ResponseWriter, req *http.Request) error {
	var body ProcessRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.RequireCaller(body.Caller, body.Owner); err != nil {
		return err
	}
	r, err := s.ledger.ProcessUnstake(body.Owner, body.Purpose, body.Index, s.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRequest(r))
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.RequireCaller(body.Caller, body.Owner); err != nil {
		return err
	}
	claim, err := s.ledger.ClaimRewards(body.Owner, body.Purpose, s.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertClaim(claim))
}

func (s *Staking) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tok := authority.Token{Holder: body.Caller, Capability: authority.RewardDistributor}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	if err := s.ledger.DistributeRewards(tok, body.Purpose, amount, s.clock()); err != nil {
		return err
	}
	p, err := s.ledger.Pool(body.Purpose)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(p))
}

func (s *Staking) handleSlash(w http.ResponseWriter, req *http.Request) error {
	var body SlashRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tok := authority.Token{Holder: body.Caller, Capability: authority.Slasher}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	rec, err := s.ledger.Slash(tok, body.Owner, body.Purpose, amount, body.Reason, s.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSlash(rec))
}

func (s *Staking) handleUpdatePool(w http.ResponseWriter, req *http.Request) error {
	purpose, err := utils.ParsePurpose(req, "purpose")
	if err != nil {
		return err
	}
	var body UpdatePoolRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tok := authority.Token{Holder: body.Caller, Capability: authority.Admin}
	if err := s.ledger.UpdatePool(tok, purpose, body.RewardRateBps, body.Active, s.clock()); err != nil {
		return err
	}
	p, err := s.ledger.Pool(purpose)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(p))
}

func (s *Staking) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	pools, err := s.ledger.Pools()
	if err != nil {
		return err
	}
	out := make([]*Pool, 0, len(pools))
	for _, p := range pools {
		out = append(out, convertPool(p))
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	purpose, err := utils.ParsePurpose(req, "purpose")
	if err != nil {
		return err
	}
	p, err := s.ledger.Pool(purpose)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPool(p))
}

func (s *Staking) account(owner dao.Address, purpose dao.Purpose) (*Account, error) {
	acc, err := s.ledger.Account(owner, purpose)
	if err != nil {
		return nil, err
	}
	pending, bonus, err := s.ledger.PendingRewards(owner, purpose, s.clock())
	if err != nil {
		return nil, err
	}
	slashed, err := s.ledger.IsSlashed(owner)
	if err != nil {
		return nil, err
	}
	return convertAccount(acc, utils.JSONAmount(pending), utils.JSONAmount(bonus), slashed), nil
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.ParseAddress(req, "owner")
	if err != nil {
		return err
	}
	purpose, err := utils.ParsePurpose(req, "purpose")
	if err != nil {
		return err
	}
	acc, err := s.account(owner, purpose)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

// purposes returns the purpose in the query, or every purpose when absent.
func purposes(req *http.Request) ([]dao.Purpose, error) {
	q := req.URL.Query().Get("purpose")
	if q == "" {
		return dao.Purposes, nil
	}
	p, err := dao.ParsePurpose(q)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "purpose"))
	}
	return []dao.Purpose{p}, nil
}

func (s *Staking) handleGetRequests(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.ParseAddress(req, "owner")
	if err != nil {
		return err
	}
	ps, err := purposes(req)
	if err != nil {
		return err
	}
	out := make([]*UnstakeRequest, 0)
	for _, p := range ps {
		reqs, err := s.ledger.UnstakeRequests(owner, p)
		if err != nil {
			return err
		}
		for _, r := range reqs {
			out = append(out, convertRequest(r))
		}
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetClaims(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.ParseAddress(req, "owner")
	if err != nil {
		return err
	}
	ps, err := purposes(req)
	if err != nil {
		return err
	}
	out := make([]*Claim, 0)
	for _, p := range ps {
		claims, err := s.ledger.Claims(owner, p)
		if err != nil {
			return err
		}
		for _, c := range claims {
			out = append(out, convertClaim(c))
		}
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) handleGetSlashes(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.ParseAddress(req, "owner")
	if err != nil {
		return err
	}
	recs, err := s.ledger.SlashRecords(owner)
	if err != nil {
		return err
	}
	out := make([]*SlashRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, convertSlash(r))
	}
	return utils.WriteJSON(w, out)
}

// Mount registers the staking routes. Callers are named in request bodies and
// trusted as given, so the server must not be exposed beyond trusted clients.
func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stake").Methods(http.MethodPost).Name("POST /staking/stake").HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/unstake/request").Methods(http.MethodPost).Name("POST /staking/unstake/request").HandlerFunc(utils.WrapHandlerFunc(s.handleRequestUnstake))
	sub.Path("/unstake/process").Methods(http.MethodPost).Name("POST /staking/unstake/process").HandlerFunc(utils.WrapHandlerFunc(s.handleProcessUnstake))
	sub.Path("/claim").Methods(http.MethodPost).Name("POST /staking/claim").HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
	sub.Path("/distribute").Methods(http.MethodPost).Name("POST /staking/distribute").HandlerFunc(utils.WrapHandlerFunc(s.handleDistribute))
	sub.Path("/slash").Methods(http.MethodPost).Name("POST /staking/slash").HandlerFunc(utils.WrapHandlerFunc(s.handleSlash))
	sub.Path("/pools").Methods(http.MethodGet).Name("GET /staking/pools").HandlerFunc(utils.WrapHandlerFunc(s.handleGetPools))
	sub.Path("/pools/{purpose}").Methods(http.MethodGet).Name("GET /staking/pools/{purpose}").HandlerFunc(utils.WrapHandlerFunc(s.handleGetPool))
	sub.Path("/pools/{purpose}").Methods(http.MethodPut).Name("PUT /staking/pools/{purpose}").HandlerFunc(utils.WrapHandlerFunc(s.handleUpdatePool))
	sub.Path("/accounts/{owner}/requests").Methods(http.MethodGet).Name("GET /staking/accounts/{owner}/requests").HandlerFunc(utils.WrapHandlerFunc(s.handleGetRequests))
	sub.Path("/accounts/{owner}/claims").Methods(http.MethodGet).Name("GET /staking/accounts/{owner}/claims").HandlerFunc(utils.WrapHandlerFunc(s.handleGetClaims))
	sub.Path("/accounts/{owner}/slashes").Methods(http.MethodGet).Name("GET /staking/accounts/{owner}/slashes").HandlerFunc(utils.WrapHandlerFunc(s.handleGetSlashes))
	sub.Path("/accounts/{owner}/{purpose}").Methods(http.MethodGet).Name("GET /staking/accounts/{owner}/{purpose}").HandlerFunc(utils.WrapHandlerFunc(s.handleGetAccount))
}
