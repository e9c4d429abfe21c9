package userController

import (
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/utils"
	"learnhub/validators"
	userValidator "learnhub/validators/user"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the logged-in user's profile
func GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var profile models.UserProfile
	if err := database.Database.Db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Profile not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Profile fetched successfully!", profile)
}

// UpdateProfile applies partial updates to the user's profile
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)

	db := database.Database.Db

	var profile models.UserProfile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Profile not found!")
	}

	updates := map[string]interface{}{}
	if reqData.FullName != nil {
		updates["full_name"] = *reqData.FullName
	}
	if reqData.DisplayName != nil {
		updates["display_name"] = *reqData.DisplayName
	}
	if reqData.Bio != nil {
		updates["bio"] = *reqData.Bio
	}
	if reqData.Phone != nil {
		updates["phone"] = *reqData.Phone
	}
	if reqData.Location != nil {
		updates["location"] = *reqData.Location
	}
	if reqData.Timezone != nil {
		updates["timezone"] = *reqData.Timezone
	}
	if reqData.Website != nil {
		updates["website"] = *reqData.Website
	}
	if reqData.Education != nil {
		updates["education"] = *reqData.Education
	}

	if len(updates) > 0 {
		if err := db.Model(&profile).Updates(updates).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update profile!")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Profile updated successfully!", profile)
}

// UploadAvatar stores an avatar image and updates the profile
func UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	file, err := c.FormFile("avatar")
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "avatar file is required!")
	}

	path, err := utils.SaveUploadedFile(file, "avatars")
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to store avatar!")
	}
	url := utils.GetFileURL(path)

	res := database.Database.Db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("avatar_url", url)
	if res.Error != nil || res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Profile not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Avatar uploaded successfully!", fiber.Map{"avatar_url": url})
}

// GetSettings returns the logged-in user's settings
func GetSettings(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var settings models.UserSettings
	if err := database.Database.Db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Settings not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Settings fetched successfully!", settings)
}

// UpdateSettings applies partial updates to the user's settings
func UpdateSettings(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedSettings").(*userValidator.UpdateSettingsRequest)

	db := database.Database.Db

	var settings models.UserSettings
	if err := db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Settings not found!")
	}

	updates := map[string]interface{}{}
	if reqData.EmailCourseUpdates != nil {
		updates["email_course_updates"] = *reqData.EmailCourseUpdates
	}
	if reqData.EmailAssignments != nil {
		updates["email_assignments"] = *reqData.EmailAssignments
	}
	if reqData.EmailAnnouncements != nil {
		updates["email_announcements"] = *reqData.EmailAnnouncements
	}
	if reqData.EmailWeeklyDigest != nil {
		updates["email_weekly_digest"] = *reqData.EmailWeeklyDigest
	}
	if reqData.PushCourseUpdates != nil {
		updates["push_course_updates"] = *reqData.PushCourseUpdates
	}
	if reqData.PushAssignments != nil {
		updates["push_assignments"] = *reqData.PushAssignments
	}
	if reqData.PushAnnouncements != nil {
		updates["push_announcements"] = *reqData.PushAnnouncements
	}
	if reqData.ProfileVisibility != nil {
		updates["profile_visibility"] = *reqData.ProfileVisibility
	}
	if reqData.ShowEnrolledCourses != nil {
		updates["show_enrolled_courses"] = *reqData.ShowEnrolledCourses
	}
	if reqData.ShowProgress != nil {
		updates["show_progress"] = *reqData.ShowProgress
	}
	if reqData.Theme != nil {
		updates["theme"] = *reqData.Theme
	}
	if reqData.Language != nil {
		updates["language"] = *reqData.Language
	}
	if reqData.AutoplayVideos != nil {
		updates["autoplay_videos"] = *reqData.AutoplayVideos
	}
	if reqData.DefaultPlaybackSpeed != nil {
		updates["default_playback_speed"] = *reqData.DefaultPlaybackSpeed
	}
	if reqData.CaptionsEnabled != nil {
		updates["captions_enabled"] = *reqData.CaptionsEnabled
	}

	if len(updates) > 0 {
		if err := db.Model(&settings).Updates(updates).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update settings!")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Settings updated successfully!", settings)
}

// GetSocial returns the user's social links, creating the row on first read
func GetSocial(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	db := database.Database.Db

	var social models.UserSocial
	if err := db.Where("user_id = ?", userID).First(&social).Error; err != nil {
		social = models.UserSocial{UserID: userID}
		if err := db.Create(&social).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch social links!")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Social links fetched successfully!", social)
}

// UpdateSocial applies partial updates to the user's social links
func UpdateSocial(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedSocial").(*userValidator.UpdateSocialRequest)

	db := database.Database.Db

	var social models.UserSocial
	if err := db.Where("user_id = ?", userID).First(&social).Error; err != nil {
		social = models.UserSocial{UserID: userID}
		if err := db.Create(&social).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update social links!")
		}
	}

	updates := map[string]interface{}{}
	if reqData.Facebook != nil {
		updates["facebook"] = *reqData.Facebook
	}
	if reqData.Twitter != nil {
		updates["twitter"] = *reqData.Twitter
	}
	if reqData.Linkedin != nil {
		updates["linkedin"] = *reqData.Linkedin
	}
	if reqData.Github != nil {
		updates["github"] = *reqData.Github
	}
	if reqData.Instagram != nil {
		updates["instagram"] = *reqData.Instagram
	}

	if len(updates) > 0 {
		if err := db.Model(&social).Updates(updates).Error; err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to update social links!")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Social links updated successfully!", social)
}

// ListSkills returns the user's skills, newest first
func ListSkills(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var skills []models.UserSkill
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&skills).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to fetch skills!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Skills fetched successfully!", fiber.Map{"skills": skills})
}

// AddSkill adds a skill; the user+name pair is unique
func AddSkill(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedSkill").(*userValidator.AddSkillRequest)

	db := database.Database.Db

	var existing models.UserSkill
	if err := db.Where("user_id = ? AND name = ?", userID, reqData.Name).First(&existing).Error; err == nil {
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, "Skill already added!")
	}

	skill := models.UserSkill{
		UserID:      userID,
		Name:        reqData.Name,
		Proficiency: reqData.Proficiency,
	}
	if err := db.Create(&skill).Error; err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to add skill!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Skill added successfully!", skill)
}

// DeleteSkill removes one of the user's skills
func DeleteSkill(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	skillID, err := validators.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	res := database.Database.Db.Where("id = ? AND user_id = ?", skillID, userID).Delete(&models.UserSkill{})
	if res.Error != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeServerError, "Failed to delete skill!")
	}
	if res.RowsAffected == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Skill not found!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, "Skill deleted successfully!", nil)
}
