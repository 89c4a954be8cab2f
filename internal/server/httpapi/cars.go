package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carsapi/internal/server/blob"
	"carsapi/internal/server/models"
	"carsapi/internal/server/services"
)

type carResponse struct {
	ID          string   `json:"id"`
	Make        string   `json:"make"`
	Model       string   `json:"model"`
	Year        int      `json:"year"`
	Color       string   `json:"color"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	IsSpecial   bool     `json:"isSpecial"`
	ImageURLs   []string `json:"imageUrls"`
}

// toCarResponse resolves image paths to public URLs. Listings carry only
// the cover image; detail views carry all of them.
func (s *Server) toCarResponse(car *models.Car, allImages bool) carResponse {
	images := car.Images
	if !allImages && len(images) > 1 {
		images = images[:1]
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, s.blobs.PublicURL(img.Path))
	}

	return carResponse{
		ID:          car.ID,
		Make:        car.Make,
		Model:       car.Model,
		Year:        car.Year,
		Color:       car.Color,
		Price:       car.Price,
		Description: car.Description,
		Category:    string(car.Category),
		IsSpecial:   car.IsSpecial,
		ImageURLs:   urls,
	}
}

func (s *Server) toCarList(cars []*models.Car) []carResponse {
	out := make([]carResponse, 0, len(cars))
	for _, car := range cars {
		out = append(out, s.toCarResponse(car, false))
	}
	return out
}

// handleAddCar accepts a multipart form with the listing fields and any
// number of image files under "images".
func (s *Server) handleAddCar(c *gin.Context) {
	year, _ := strconv.Atoi(c.PostForm("year"))
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)

	car := &models.Car{
		Make:        c.PostForm("make"),
		Model:       c.PostForm("model"),
		Year:        year,
		Color:       c.PostForm("color"),
		Price:       price,
		Description: c.PostForm("description"),
		Category:    models.Category(c.PostForm("category")),
	}

	var images []blob.File
	var closers []func()
	defer func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}()

	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["images"] {
			file, closeFn, err := fileFromUpload(fh)
			if err != nil {
				continue
			}
			closers = append(closers, closeFn)
			images = append(images, *file)
		}
	}

	created, err := s.cars.AddCar(c.Request.Context(), car, images)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toCarResponse(created, true), "car added")
}

func (s *Server) handleListCars(c *gin.Context) {
	cars, err := s.cars.ListCars(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toCarList(cars), "")
}

func (s *Server) handleGetCar(c *gin.Context) {
	car, err := s.cars.GetCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toCarResponse(car, true), "")
}

func (s *Server) handleCarsByCategory(c *gin.Context) {
	cars, err := s.cars.CarsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toCarList(cars), "")
}

func (s *Server) handleSpecialCars(c *gin.Context) {
	cars, err := s.cars.SpecialCars(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toCarList(cars), "")
}

type updateCarRequest struct {
	Make        *string  `json:"make"`
	Model       *string  `json:"model"`
	Year        *int     `json:"year"`
	Color       *string  `json:"color"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	IsSpecial   *bool    `json:"isSpecial"`
}

func (s *Server) handleUpdateCar(c *gin.Context) {
	var req updateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	upd := services.CarUpdate{
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Color:       req.Color,
		Price:       req.Price,
		Description: req.Description,
		IsSpecial:   req.IsSpecial,
	}
	if req.Category != nil {
		cat := models.Category(*req.Category)
		upd.Category = &cat
	}

	car, err := s.cars.UpdateCar(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toCarResponse(car, true), "car updated")
}

func (s *Server) handleMarkSpecial(c *gin.Context) {
	car, err := s.cars.MarkSpecial(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toCarResponse(car, true), "car marked special")
}

func (s *Server) handleDeleteCar(c *gin.Context) {
	if err := s.cars.DeleteCar(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "car deleted")
}
