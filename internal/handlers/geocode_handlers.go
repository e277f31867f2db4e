package handlers

import (
	"net/http"
	"strconv"

	"gamebus_backend/internal/services"
	"gamebus_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const geocodeWarning = "No se pudo obtener la dirección (sin internet o servicio ocupado)."

type GeocodeHandler struct {
	geocodeService services.GeocodeService
}

func NewGeocodeHandler(gs services.GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{geocodeService: gs}
}

func parseCoordinate(c *gin.Context, key string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v < -limit || v > limit {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+key+" value.", key+": "+c.Query(key)))
		return 0, false
	}
	return v, true
}

// ReverseGeocode resolves ?lat=&lon= to an address. Lookup failures are not
// errors; the response carries found=false and a warning.
func (h *GeocodeHandler) ReverseGeocode(c *gin.Context) {
	lat, ok := parseCoordinate(c, "lat", 90)
	if !ok {
		return
	}
	lon, ok := parseCoordinate(c, "lon", 180)
	if !ok {
		return
	}
	addr := h.geocodeService.ReverseGeocode(c.Request.Context(), lat, lon)
	if addr == "" {
		c.JSON(http.StatusOK, gin.H{"address": "", "found": false, "warning": geocodeWarning})
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "found": true})
}
