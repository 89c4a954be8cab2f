package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carsapi/internal/server/models"
)

type favoriteResponse struct {
	ID    string       `json:"id"`
	CarID string       `json:"carId"`
	Car   *carResponse `json:"car,omitempty"`
}

func (s *Server) toFavoriteResponse(fav *models.FavoriteCar) favoriteResponse {
	out := favoriteResponse{ID: fav.ID, CarID: fav.CarID}
	if fav.Car != nil {
		car := s.toCarResponse(fav.Car, false)
		out.Car = &car
	}
	return out
}

type addFavoriteRequest struct {
	CarID string `json:"carId" binding:"required"`
}

// handleAddFavorite records the caller's favorite. Adding an existing
// pair reports added=false instead of failing.
func (s *Server) handleAddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	added, err := s.favorites.AddFavorite(c.Request.Context(), currentPrincipal(c).ID, req.CarID)
	if err != nil {
		respondErr(c, err)
		return
	}

	message := "favorite added"
	if !added {
		message = "already a favorite"
	}
	respondSuccess(c, http.StatusOK, gin.H{"added": added}, message)
}

func (s *Server) handleFavorites(c *gin.Context) {
	favs, err := s.favorites.FavoritesByUser(c.Request.Context(), currentPrincipal(c).ID)
	if err != nil {
		respondErr(c, err)
		return
	}

	out := make([]favoriteResponse, 0, len(favs))
	for _, fav := range favs {
		out = append(out, s.toFavoriteResponse(fav))
	}
	respondSuccess(c, http.StatusOK, out, "")
}
