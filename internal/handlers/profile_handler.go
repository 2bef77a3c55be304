package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-suite/admissions-service/internal/services"
	"github.com/campus-suite/admissions-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// targetUserID resolves which profile a request addresses. Routes mounted
// under /profiles/me omit the user_id param and act on the requester.
func (h *ProfileHandler) targetUserID(c *gin.Context, requesterID string) string {
	if target := c.Param("user_id"); target != "" {
		return target
	}
	return requesterID
}

// GetMyProfile returns the authenticated user's profile
// @Summary Get my profile
// @Tags profiles
// @Produce json
// @Success 200 {object} services.ProfileResponse
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile returns another user's profile (staff only)
// @Summary Get profile by user ID
// @Tags profiles
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} services.ProfileResponse
// @Failure 404 {object} ErrorResponse
// @Router /profiles/{user_id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	target := h.parseStringParam(c, "user_id")
	if target == "" {
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), target, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdatePersonalInfo upserts the personal information section
// @Summary Update personal information
// @Tags profiles
// @Accept json
// @Produce json
// @Param personal body services.PersonalInfoRequest true "Personal information"
// @Success 200 {object} services.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Router /profiles/me/personal [put]
func (h *ProfileHandler) UpdatePersonalInfo(c *gin.Context) {
	var req services.PersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.UpdatePersonalInfo(c.Request.Context(), h.targetUserID(c, requesterID), &req, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateContactInfo upserts the contact information section
// @Summary Update contact information
// @Tags profiles
// @Accept json
// @Produce json
// @Param contact body services.ContactInfoRequest true "Contact information"
// @Success 200 {object} services.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Router /profiles/me/contact [put]
func (h *ProfileHandler) UpdateContactInfo(c *gin.Context) {
	var req services.ContactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.UpdateContactInfo(c.Request.Context(), h.targetUserID(c, requesterID), &req, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMedicalInfo upserts the medical information section
// @Summary Update medical information
// @Tags profiles
// @Accept json
// @Produce json
// @Param medical body services.MedicalInfoRequest true "Medical information"
// @Success 200 {object} services.ProfileResponse
// @Failure 400 {object} ErrorResponse
// @Router /profiles/me/medical [put]
func (h *ProfileHandler) UpdateMedicalInfo(c *gin.Context) {
	var req services.MedicalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.UpdateMedicalInfo(c.Request.Context(), h.targetUserID(c, requesterID), &req, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SetProfilePicture stores the path of an uploaded profile picture
// @Summary Set profile picture
// @Tags profiles
// @Accept json
// @Success 204
// @Router /profiles/me/picture [put]
func (h *ProfileHandler) SetProfilePicture(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.SetPicture(c.Request.Context(), h.targetUserID(c, requesterID), requesterID, req.Path); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== RELATIVES =====

// AddRelative adds a relative to the profile
// @Summary Add relative
// @Tags profiles
// @Accept json
// @Produce json
// @Param relative body services.RelativeRequest true "Relative data"
// @Success 201 {object} models.StudentRelative
// @Router /profiles/me/relatives [post]
func (h *ProfileHandler) AddRelative(c *gin.Context) {
	var req services.RelativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	relative, err := h.profileService.AddRelative(c.Request.Context(), h.targetUserID(c, requesterID), &req, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, relative)
}

// DeleteRelative removes a relative from the profile
// @Summary Delete relative
// @Tags profiles
// @Param id path uint true "Relative ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /profiles/me/relatives/{id} [delete]
func (h *ProfileHandler) DeleteRelative(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.DeleteRelative(c.Request.Context(), h.targetUserID(c, requesterID), id, requesterID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== EDUCATIONAL BACKGROUND =====

// AddEducation adds an educational record
// @Summary Add educational record
// @Tags profiles
// @Accept json
// @Produce json
// @Param education body services.EducationRequest true "Educational record"
// @Success 201 {object} models.EducationalBackground
// @Router /profiles/me/education [post]
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req services.EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	record, err := h.profileService.AddEducation(c.Request.Context(), h.targetUserID(c, requesterID), &req, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateEducation updates an educational record
// @Summary Update educational record
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path uint true "Record ID"
// @Param education body services.EducationRequest true "Educational record"
// @Success 200 {object} models.EducationalBackground
// @Failure 404 {object} ErrorResponse
// @Router /profiles/me/education/{id} [put]
func (h *ProfileHandler) UpdateEducation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	record, err := h.profileService.UpdateEducation(c.Request.Context(), h.targetUserID(c, requesterID), id, &req, requesterID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteEducation removes an educational record
// @Summary Delete educational record
// @Tags profiles
// @Param id path uint true "Record ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /profiles/me/education/{id} [delete]
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	requesterID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.profileService.DeleteEducation(c.Request.Context(), h.targetUserID(c, requesterID), id, requesterID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== LOOKUP TABLES =====

func (h *ProfileHandler) ListDegrees(c *gin.Context) {
	degrees, err := h.profileService.ListDegrees(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, degrees)
}

func (h *ProfileHandler) CreateDegree(c *gin.Context) {
	createLookup(h, c, h.profileService.CreateDegree)
}

func (h *ProfileHandler) ListInstitutes(c *gin.Context) {
	institutes, err := h.profileService.ListInstitutes(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, institutes)
}

func (h *ProfileHandler) CreateInstitute(c *gin.Context) {
	createLookup(h, c, h.profileService.CreateInstitute)
}

func (h *ProfileHandler) ListBloodGroups(c *gin.Context) {
	groups, err := h.profileService.ListBloodGroups(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *ProfileHandler) ListDiseases(c *gin.Context) {
	diseases, err := h.profileService.ListDiseases(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, diseases)
}

func (h *ProfileHandler) CreateDisease(c *gin.Context) {
	createLookup(h, c, h.profileService.CreateDisease)
}

// createLookup handles the shared name-only create shape of the lookup
// tables.
func createLookup[T any](h *ProfileHandler, c *gin.Context, create func(ctx context.Context, name, userID string) (T, error)) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	record, err := create(c.Request.Context(), req.Name, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}
