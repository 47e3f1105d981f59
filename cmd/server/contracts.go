package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RishiReddii/AgreementHub/internal/engine"
	"github.com/RishiReddii/AgreementHub/pkg/domain"
	"github.com/RishiReddii/AgreementHub/pkg/httpx"
)

func (a *api) listContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contracts, err := a.eng.ListContracts(r.Context(), engine.ListContractsFilter{
		Status:      q.Get("status"),
		Category:    q.Get("category"),
		BlueprintID: q.Get("blueprintId"),
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	httpx.WriteJSON(w, http.StatusOK, contracts)
}

func (a *api) createContract(w http.ResponseWriter, r *http.Request) {
	var in engine.CreateContractInput
	if err := httpx.ReadJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	c, err := a.eng.CreateContract(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (a *api) getContract(w http.ResponseWriter, r *http.Request) {
	c, err := a.eng.GetContract(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (a *api) updateContract(w http.ResponseWriter, r *http.Request) {
	var in engine.UpdateContractInput
	if err := httpx.ReadJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	c, err := a.eng.UpdateContract(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (a *api) deleteContract(w http.ResponseWriter, r *http.Request) {
	if err := a.eng.DeleteContract(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteMessage(w, "Contract deleted successfully")
}

func (a *api) transitionContract(w http.ResponseWriter, r *http.Request) {
	var in struct {
		NewStatus domain.Status `json:"newStatus"`
		Note      string        `json:"note"`
	}
	if err := httpx.ReadJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	c, err := a.eng.Transition(r.Context(), chi.URLParam(r, "id"), in.NewStatus, in.Note)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}
