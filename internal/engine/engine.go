// Package engine implements the blueprint guard and the contract lifecycle
// engine. It is stateless between calls: every operation reads fresh from
// the store, validates fully, then writes once.
package engine

import (
	"go.uber.org/zap"

	"github.com/RishiReddii/AgreementHub/internal/store"
)

// listLimit caps every listing query.
const listLimit = 1000

type Engine struct {
	store store.Store
	log   *zap.Logger
}

func New(st store.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, log: log}
}
