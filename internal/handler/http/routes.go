package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-data-gateway/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withCORS)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/health", h.health)
	})

	// authenticated API. Usage accounting wraps authentication so rejected
	// requests land in the audit log too.
	router.Group(func(r chi.Router) {
		r.Use(h.withUsage)
		r.Use(h.auth)
		r.Use(h.rateLimit)

		r.Route("/api/databases", func(r chi.Router) {
			r.With(h.requireScope(models.ScopeWrite)).Post("/", h.createDatabase)
			r.With(h.requireScope(models.ScopeRead)).Get("/", h.listDatabases)
			r.With(h.requireScope(models.ScopeRead)).Get("/{databaseID}", h.getDatabase)
			r.With(h.requireScope(models.ScopeWrite)).Put("/{databaseID}", h.updateDatabase)
			r.With(h.requireScope(models.ScopeDelete)).Delete("/{databaseID}", h.deleteDatabase)
		})

		r.Route("/api/tables", func(r chi.Router) {
			// table create and update carry schema definitions, so both are
			// gated on the schema scope rather than write
			r.With(h.requireScope(models.ScopeSchema)).Post("/", h.createTable)
			r.With(h.requireScope(models.ScopeRead)).Get("/", h.listTables)
			r.With(h.requireScope(models.ScopeRead)).Get("/{tableID}", h.getTable)
			r.With(h.requireScope(models.ScopeSchema)).Put("/{tableID}", h.updateTable)
			r.With(h.requireScope(models.ScopeDelete)).Delete("/{tableID}", h.deleteTable)

			r.With(h.requireScope(models.ScopeRead)).Get("/{tableID}/schema", h.getSchema)
			r.With(h.requireScope(models.ScopeSchema)).Put("/{tableID}/schema", h.updateSchema)

			r.Route("/{tableID}/records", func(r chi.Router) {
				r.With(h.requireScope(models.ScopeRead)).Get("/", h.listRecords)
				r.With(h.requireScope(models.ScopeWrite)).Post("/", h.createRecord)
				r.With(h.requireScope(models.ScopeDelete)).Delete("/", h.deleteRecords)
				r.With(h.requireScope(models.ScopeRead)).Get("/{recordID}", h.getRecord)
				r.With(h.requireScope(models.ScopeWrite)).Put("/{recordID}", h.replaceRecord)
				r.With(h.requireScope(models.ScopeWrite)).Patch("/{recordID}", h.patchRecord)
				r.With(h.requireScope(models.ScopeDelete)).Delete("/{recordID}", h.deleteRecord)
			})
		})

		// key management is restricted to session principals inside the
		// service layer, so no scope gate here.
		r.Route("/api/api-keys", func(r chi.Router) {
			r.Post("/", h.createAPIKey)
			r.Get("/", h.listAPIKeys)
			r.Get("/{keyID}", h.getAPIKey)
			r.Put("/{keyID}", h.updateAPIKey)
			r.Delete("/{keyID}", h.deleteAPIKey)
		})

		r.Route("/api/webhooks", func(r chi.Router) {
			r.With(h.requireScope(models.ScopeAdmin)).Post("/", h.createWebhook)
			r.With(h.requireScope(models.ScopeRead)).Get("/", h.listWebhooks)
			r.With(h.requireScope(models.ScopeRead)).Get("/{webhookID}", h.getWebhook)
			r.With(h.requireScope(models.ScopeAdmin)).Put("/{webhookID}", h.updateWebhook)
			r.With(h.requireScope(models.ScopeAdmin)).Delete("/{webhookID}", h.deleteWebhook)
			r.With(h.requireScope(models.ScopeAdmin)).Post("/{webhookID}/test", h.testWebhook)
			r.With(h.requireScope(models.ScopeRead)).Get("/{webhookID}/deliveries", h.listWebhookDeliveries)
		})

		r.With(h.requireScope(models.ScopeRead)).Get("/api/usage", h.getUsage)
	})

	return router
}
