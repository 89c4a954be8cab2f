package httpapi

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"carsapi/internal/server/blob"
	"carsapi/internal/server/models"
	"carsapi/internal/server/services"
)

type userResponse struct {
	ID                string   `json:"id"`
	UserName          string   `json:"userName"`
	Email             string   `json:"email"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	PhoneNumber       string   `json:"phoneNumber"`
	ProfilePictureURL string   `json:"profilePictureUrl"`
	Roles             []string `json:"roles"`
}

func (s *Server) toUserResponse(u *models.User) userResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}

	pictureURL := ""
	if u.ProfilePictureURL != "" {
		pictureURL = s.blobs.PublicURL(u.ProfilePictureURL)
	}

	return userResponse{
		ID:                u.ID,
		UserName:          u.UserName,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		PhoneNumber:       u.PhoneNumber,
		ProfilePictureURL: pictureURL,
		Roles:             roles,
	}
}

// fileFromUpload adapts a multipart file header to a blob upload.
func fileFromUpload(fh *multipart.FileHeader) (*blob.File, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &blob.File{Name: fh.Filename, Size: fh.Size, Reader: f}, func() { f.Close() }, nil
}

// handleRegister accepts a multipart form with the profile fields and an
// optional profilePicture file.
func (s *Server) handleRegister(c *gin.Context) {
	req := services.RegisterRequest{
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		FirstName:   c.PostForm("firstName"),
		LastName:    c.PostForm("lastName"),
		PhoneNumber: c.PostForm("phoneNumber"),
	}

	if fh, err := c.FormFile("profilePicture"); err == nil {
		file, closeFn, err := fileFromUpload(fh)
		if err == nil {
			defer closeFn()
			req.Picture = file
		}
	}

	res, err := s.identity.Register(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  s.toUserResponse(res.User),
	}, res.Message)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	res, err := s.identity.Login(c.Request.Context(), identifier, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  s.toUserResponse(res.User),
	}, res.Message)
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.identity.Logout(c.Request.Context(), currentPrincipal(c)); err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "logged out")
}

func (s *Server) handleGetUsers(c *gin.Context) {
	users, err := s.identity.GetUsers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, s.toUserResponse(u))
	}
	respondSuccess(c, http.StatusOK, out, "")
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.identity.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toUserResponse(user), "")
}

type updateEmailRequest struct {
	UserID   string `json:"userId" binding:"required"`
	NewEmail string `json:"newEmail" binding:"required"`
}

func (s *Server) handleUpdateEmail(c *gin.Context) {
	var req updateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := s.identity.UpdateEmail(c.Request.Context(), req.UserID, req.NewEmail, currentPrincipal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toUserResponse(user), "email updated")
}

type updatePasswordRequest struct {
	UserID      string `json:"userId" binding:"required"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (s *Server) handleUpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	err := s.identity.UpdatePassword(c.Request.Context(), req.UserID, req.OldPassword, req.NewPassword, currentPrincipal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "password updated")
}

type updateNameRequest struct {
	UserID    string `json:"userId" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

func (s *Server) handleUpdateName(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := s.identity.UpdateName(c.Request.Context(), req.UserID, req.FirstName, req.LastName, currentPrincipal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, s.toUserResponse(user), "name updated")
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	err := s.identity.DeleteUser(c.Request.Context(), c.Param("id"), currentPrincipal(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "user deleted")
}
