package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RishiReddii/AgreementHub/internal/engine"
	"github.com/RishiReddii/AgreementHub/pkg/domain"
	"github.com/RishiReddii/AgreementHub/pkg/httpx"
)

func (a *api) listBlueprints(w http.ResponseWriter, r *http.Request) {
	blueprints, err := a.eng.ListBlueprints(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if blueprints == nil {
		blueprints = []domain.Blueprint{}
	}
	httpx.WriteJSON(w, http.StatusOK, blueprints)
}

func (a *api) createBlueprint(w http.ResponseWriter, r *http.Request) {
	var in engine.CreateBlueprintInput
	if err := httpx.ReadJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	b, err := a.eng.CreateBlueprint(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}

func (a *api) getBlueprint(w http.ResponseWriter, r *http.Request) {
	b, err := a.eng.GetBlueprint(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (a *api) updateBlueprint(w http.ResponseWriter, r *http.Request) {
	var in engine.UpdateBlueprintInput
	if err := httpx.ReadJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	b, err := a.eng.UpdateBlueprint(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}

func (a *api) deleteBlueprint(w http.ResponseWriter, r *http.Request) {
	if err := a.eng.DeleteBlueprint(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteMessage(w, "Blueprint deleted successfully")
}
