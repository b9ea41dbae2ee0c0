package http

import (
	"errors"

	"github.com/cristianortiz/vinylAuction/internal/collection/application"
	"github.com/cristianortiz/vinylAuction/internal/collection/domain"
	"github.com/gofiber/fiber/v2"
)

// CollectionHandler exposes read access to vinyl collections
type CollectionHandler struct {
	getCollection *application.GetCollectionUseCase
}

func NewCollectionHandler(getCollection *application.GetCollectionUseCase) *CollectionHandler {
	return &CollectionHandler{getCollection: getCollection}
}

// RegisterRoutes mounts GET /collections/:userId on router.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/collections/:userId", h.get)
}

func (h *CollectionHandler) get(c *fiber.Ctx) error {
	r := h.getCollection.Execute(c.UserContext(), c.Params("userId"))
	if r.IsFailure() {
		status := fiber.StatusInternalServerError
		if errors.Is(r.Err(), domain.ErrCollectionNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": r.Reason()})
	}
	return c.JSON(r.Value())
}
