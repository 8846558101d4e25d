package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenova/internal/taxonomy"
)

// GetDynamicFields returns the taxonomy registry document, seeding it on
// first access.
func GetDynamicFields(registry *taxonomy.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "DYNAMICFIELDS")

		ctx, cancel := dbCtx(c)
		defer cancel()

		fields, err := registry.Get(ctx)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "DYNAMICFIELDS", "db error")
			return
		}
		respondData(c, http.StatusOK, fields)
	}
}
