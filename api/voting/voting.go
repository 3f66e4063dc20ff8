// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package voting

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/api/utils"
	"github.com/dao-ledger/stakerep/ledger"
	"github.com/dao-ledger/stakerep/voting"
)

type Voting struct {
	ledger *ledger.Ledger
	clock  utils.Clock
}

func New(ledger *ledger.Ledger, clock utils.Clock) *Voting {
	return &Voting{
		ledger,
		clock,
	}
}

func (v *Voting) handleDelegate(w http.ResponseWriter, req *http.Request) error {
	var body DelegateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.RequireCaller(body.Caller, body.Delegator); err != nil {
		return err
	}
	org, err := utils.OrgOf(body.Org)
	if err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount)
	if err != nil {
		return err
	}
	d, err := v.ledger.DelegateVotingPower(org, body.Delegator, body.Delegatee, amount, v.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertDelegation(d))
}

func (v *Voting) handleUndelegate(w http.ResponseWriter, req *http.Request) error {
	var body UndelegateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := utils.RequireCaller(body.Caller, body.Delegator); err != nil {
		return err
	}
	org, err := utils.OrgOf(body.Org)
	if err != nil {
		return err
	}
	var d *voting.Delegation
	if body.ID != nil {
		d, err = v.ledger.UndelegateByID(org, body.Delegator, *body.ID, v.clock())
	} else {
		d, err = v.ledger.UndelegateVotingPower(org, body.Delegator, body.Delegatee, v.clock())
	}
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertDelegation(d))
}

func (v *Voting) handleGetPower(w http.ResponseWriter, req *http.Request) error {
	org, err := utils.ParseOrg(req, "org")
	if err != nil {
		return err
	}
	member, err := utils.ParseAddress(req, "member")
	if err != nil {
		return err
	}
	p, err := v.ledger.VotingPower(org, member)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPower(p))
}

func (v *Voting) handleGetWeight(w http.ResponseWriter, req *http.Request) error {
	org, err := utils.ParseOrg(req, "org")
	if err != nil {
		return err
	}
	member, err := utils.ParseAddress(req, "member")
	if err != nil {
		return err
	}
	base := big.NewInt(1)
	if q := req.URL.Query().Get("base"); q != "" {
		parsed, ok := math.ParseBig256(q)
		if !ok || parsed.Sign() < 0 {
			return utils.BadRequest(errors.Errorf("base: invalid %q", q))
		}
		base = parsed
	}
	weight, err := v.ledger.VotingWeight(org, member, base)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Weight{Base: utils.JSONAmount(base), Weight: utils.JSONAmount(weight)})
}

func (v *Voting) handleGetDelegations(w http.ResponseWriter, req *http.Request) error {
	org, err := utils.ParseOrg(req, "org")
	if err != nil {
		return err
	}
	member, err := utils.ParseAddress(req, "member")
	if err != nil {
		return err
	}
	outgoing, incoming, err := v.ledger.Delegations(org, member)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Delegations{
		Outgoing: convertDelegations(outgoing),
		Incoming: convertDelegations(incoming),
	})
}

func (v *Voting) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/delegate").Methods(http.MethodPost).Name("POST /voting/delegate").HandlerFunc(utils.WrapHandlerFunc(v.handleDelegate))
	sub.Path("/undelegate").Methods(http.MethodPost).Name("POST /voting/undelegate").HandlerFunc(utils.WrapHandlerFunc(v.handleUndelegate))
	sub.Path("/{org}/{member}/power").Methods(http.MethodGet).Name("GET /voting/{org}/{member}/power").HandlerFunc(utils.WrapHandlerFunc(v.handleGetPower))
	sub.Path("/{org}/{member}/weight").Methods(http.MethodGet).Name("GET /voting/{org}/{member}/weight").HandlerFunc(utils.WrapHandlerFunc(v.handleGetWeight))
	sub.Path("/{org}/{member}/delegations").Methods(http.MethodGet).Name("GET /voting/{org}/{member}/delegations").HandlerFunc(utils.WrapHandlerFunc(v.handleGetDelegations))
}
