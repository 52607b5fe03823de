// Package app provides application initialization and dependency wiring.
//
// App is the container that assembles the query pipeline from its parts:
// configuration, database pool, Genkit provider plugins, the document
// store, and the engine that orchestrates them.
package app

import (
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jarvishq/jarvis/internal/config"
	"github.com/jarvishq/jarvis/internal/log"
	"github.com/jarvishq/jarvis/internal/rag"
	"github.com/jarvishq/jarvis/internal/vecstore"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger log.Logger

	Genkit *genkit.Genkit
	DBPool *pgxpool.Pool
	Store  *vecstore.Store
	Engine *rag.Engine

	dbCleanup func()
}

// Close releases all resources held by the App.
func (a *App) Close() error {
	if a.Logger != nil {
		a.Logger.Info("shutting down application")
	}

	if a.dbCleanup != nil {
		a.dbCleanup()
		if a.Logger != nil {
			a.Logger.Info("database pool closed")
		}
	}

	return nil
}
