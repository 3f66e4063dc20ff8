// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reputation

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/dao-ledger/stakerep/api/utils"
	"github.com/dao-ledger/stakerep/authority"
	"github.com/dao-ledger/stakerep/dao"
	"github.com/dao-ledger/stakerep/ledger"
	"github.com/dao-ledger/stakerep/reputation"
)

type Reputation struct {
	ledger *ledger.Ledger
	clock  utils.Clock
}

func New(ledger *ledger.Ledger, clock utils.Clock) *Reputation {
	return &Reputation{
		ledger,
		clock,
	}
}

func managerToken(caller dao.Address) authority.Token {
	return authority.Token{Holder: caller, Capability: authority.ReputationManager}
}

func (r *Reputation) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	var body UpdateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	org, err := utils.OrgOf(body.Org)
	if err != nil {
		return err
	}
	rec, err := r.ledger.UpdateReputation(managerToken(body.Caller), org, body.Member, body.Kind, body.Delta, body.Reason, r.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRecord(rec))
}

func (r *Reputation) handleExperience(w http.ResponseWriter, req *http.Request) error {
	var body ExperienceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	org, err := utils.OrgOf(body.Org)
	if err != nil {
		return err
	}
	rec, err := r.ledger.AwardExperience(managerToken(body.Caller), org, body.Member, body.Amount, body.Reason, r.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRecord(rec))
}

func (r *Reputation) handleInteraction(w http.ResponseWriter, req *http.Request) error {
	var body InteractionRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	org, err := utils.OrgOf(body.Org)
	if err != nil {
		return err
	}
	rec, err := r.ledger.RecordInteraction(managerToken(body.Caller), org, body.Member, body.Positive, body.Reason, r.clock())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRecord(rec))
}

func (r *Reputation) handleTrigger(w http.ResponseWriter, req *http.Request) error {
	var body TriggerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	org, err := utils.OrgOf(body.Org)
	if err != nil {
		return err
	}
	tok := managerToken(body.Caller)

	var rec *reputation.Record
	switch body.Trigger {
	case reputation.ReasonCreation:
		rec, err = r.ledger.ApplyTrigger(tok, org, body.Member, reputation.OnCreation(), r.clock())
	case reputation.ReasonCompletion:
		rec, err = r.ledger.ApplyTrigger(tok, org, body.Member, reputation.OnCompletion(), r.clock())
	case reputation.ReasonContribution:
		amount, aerr := utils.Amount(body.Amount)
		if aerr != nil {
			return aerr
		}
		rec, err = r.ledger.RecordContribution(tok, org, body.Member, amount, r.clock())
	default:
		return utils.BadRequest(errors.Errorf("trigger: unknown %q", body.Trigger))
	}
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRecord(rec))
}

func (r *Reputation) handleGetRecord(w http.ResponseWriter, req *http.Request) error {
	org, err := utils.ParseOrg(req, "org")
	if err != nil {
		return err
	}
	member, err := utils.ParseAddress(req, "member")
	if err != nil {
		return err
	}
	rec, err := r.ledger.Reputation(org, member)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertRecord(rec))
}

func (r *Reputation) handleGetHistory(w http.ResponseWriter, req *http.Request) error {
	org, err := utils.ParseOrg(req, "org")
	if err != nil {
		return err
	}
	member, err := utils.ParseAddress(req, "member")
	if err != nil {
		return err
	}
	entries, err := r.ledger.ReputationHistory(org, member)
	if err != nil {
		return err
	}
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, convertEntry(e))
	}
	return utils.WriteJSON(w, out)
}

func (r *Reputation) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/update").Methods(http.MethodPost).Name("POST /reputation/update").HandlerFunc(utils.WrapHandlerFunc(r.handleUpdate))
	sub.Path("/experience").Methods(http.MethodPost).Name("POST /reputation/experience").HandlerFunc(utils.WrapHandlerFunc(r.handleExperience))
	sub.Path("/interaction").Methods(http.MethodPost).Name("POST /reputation/interaction").HandlerFunc(utils.WrapHandlerFunc(r.handleInteraction))
	sub.Path("/trigger").Methods(http.MethodPost).Name("POST /reputation/trigger").HandlerFunc(utils.WrapHandlerFunc(r.handleTrigger))
	sub.Path("/{org}/{member}").Methods(http.MethodGet).Name("GET /reputation/{org}/{member}").HandlerFunc(utils.WrapHandlerFunc(r.handleGetRecord))
	sub.Path("/{org}/{member}/history").Methods(http.MethodGet).Name("GET /reputation/{org}/{member}/history").HandlerFunc(utils.WrapHandlerFunc(r.handleGetHistory))
}
