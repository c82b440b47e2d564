package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/skylark-app/feedback-backend/errors"
	"github.com/skylark-app/feedback-backend/services"
	"github.com/skylark-app/feedback-backend/types"
)

// IconRegistryInterface defines the icon registry methods needed by handlers.
type IconRegistryInterface interface {
	GetActive() (types.IconRecord, error)
	List() []types.IconRecord
	Add(id, displayName, url string) (types.IconRecord, error)
	Activate(id string) (types.IconRecord, error)
}

// IconHandler exposes the app-icon registry: client polling of the active
// icon plus the admin add/activate commands.
type IconHandler struct {
	registry IconRegistryInterface
}

// NewIconHandler creates a new IconHandler.
func NewIconHandler(registry IconRegistryInterface) *IconHandler {
	return &IconHandler{registry: registry}
}

// GetCurrentIcon godoc
// @Summary      Current app icon
// @Description  Returns the single icon client apps should display
// @Tags         icons
// @Produce      json
// @Success      200  {object}  types.IconRecord
// @Failure      404  {object}  middleware.ErrorResponse
// @Router       /api/app/current-icon [get]
func (h *IconHandler) GetCurrentIcon(c *gin.Context) {
	icon, err := h.registry.GetActive()
	if err != nil {
		_ = c.Error(apperrors.NotFound("Active icon", "none"))
		return
	}
	c.JSON(http.StatusOK, icon)
}

// ListIcons godoc
// @Summary      List registered icons
// @Tags         icons
// @Produce      json
// @Success      200  {object}  map[string][]types.IconRecord
// @Router       /api/admin/icons [get]
func (h *IconHandler) ListIcons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"icons": h.registry.List()})
}

// ActivateIcon godoc
// @Summary      Activate an icon
// @Description  Makes the given icon the single active one
// @Tags         icons
// @Accept       json
// @Produce      json
// @Param        body  body      types.IconActivate  true  "Icon id"
// @Success      200   {object}  types.IconRecord
// @Failure      400   {object}  middleware.ErrorResponse
// @Router       /api/admin/icons/activate [post]
func (h *IconHandler) ActivateIcon(c *gin.Context) {
	var req types.IconActivate
	if !bindJSONOrError(c, &req) {
		return
	}

	icon, err := h.registry.Activate(req.ID)
	if err != nil {
		if errors.Is(err, services.ErrIconNotFound) {
			_ = c.Error(apperrors.ValidationFailed("unknown_icon_id", "no icon registered with id "+req.ID))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, icon)
}

// AddIcon godoc
// @Summary      Register a new icon
// @Description  Registers a new icon asset; it starts inactive
// @Tags         icons
// @Accept       json
// @Produce      json
// @Param        body  body      types.IconCreate  true  "Icon definition"
// @Success      200   {object}  types.IconRecord
// @Failure      400   {object}  middleware.ErrorResponse
// @Router       /api/admin/icons/add [post]
func (h *IconHandler) AddIcon(c *gin.Context) {
	var req types.IconCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	icon, err := h.registry.Add(req.ID, req.DisplayName, req.URL)
	if err != nil {
		if errors.Is(err, services.ErrIconExists) {
			_ = c.Error(apperrors.ValidationFailed("duplicate_icon_id", "icon id "+req.ID+" is already registered"))
			return
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, icon)
}
