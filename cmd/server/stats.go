package main

import (
	"net/http"

	"github.com/RishiReddii/AgreementHub/pkg/httpx"
)

func (a *api) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.eng.Stats(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}
