package userValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest carries optional profile fields; nil means unchanged
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	Timezone    *string `json:"timezone"`
	Website     *string `json:"website"`
	Education   *string `json:"education"`
}

// UpdateProfile validates profile update requests
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.FullName != nil && len(strings.TrimSpace(*reqData.FullName)) > 100 {
			errors["full_name"] = "Full name must be at most 100 characters!"
		}
		if reqData.Website != nil && !validators.IsURL(*reqData.Website) {
			errors["website"] = "Website must be a valid URL!"
		}
		if reqData.Phone != nil && len(*reqData.Phone) > 20 {
			errors["phone"] = "Phone must be at most 20 characters!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// UpdateSettingsRequest carries optional settings fields; nil means unchanged
type UpdateSettingsRequest struct {
	EmailCourseUpdates   *bool    `json:"email_course_updates"`
	EmailAssignments     *bool    `json:"email_assignments"`
	EmailAnnouncements   *bool    `json:"email_announcements"`
	EmailWeeklyDigest    *bool    `json:"email_weekly_digest"`
	PushCourseUpdates    *bool    `json:"push_course_updates"`
	PushAssignments      *bool    `json:"push_assignments"`
	PushAnnouncements    *bool    `json:"push_announcements"`
	ProfileVisibility    *string  `json:"profile_visibility"`
	ShowEnrolledCourses  *bool    `json:"show_enrolled_courses"`
	ShowProgress         *bool    `json:"show_progress"`
	Theme                *string  `json:"theme"`
	Language             *string  `json:"language"`
	AutoplayVideos       *bool    `json:"autoplay_videos"`
	DefaultPlaybackSpeed *float64 `json:"default_playback_speed"`
	CaptionsEnabled      *bool    `json:"captions_enabled"`
}

// UpdateSettings validates settings update requests
func UpdateSettings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateSettingsRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		if reqData.ProfileVisibility != nil {
			switch *reqData.ProfileVisibility {
			case "public", "private", "connections":
			default:
				errors["profile_visibility"] = "Visibility must be public, private or connections!"
			}
		}
		if reqData.Theme != nil {
			switch *reqData.Theme {
			case "light", "dark", "auto":
			default:
				errors["theme"] = "Theme must be light, dark or auto!"
			}
		}
		if reqData.DefaultPlaybackSpeed != nil && (*reqData.DefaultPlaybackSpeed < 0.25 || *reqData.DefaultPlaybackSpeed > 3) {
			errors["default_playback_speed"] = "Playback speed must be between 0.25 and 3!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSettings", reqData)
		return c.Next()
	}
}

// UpdateSocialRequest carries optional social usernames; nil means unchanged
type UpdateSocialRequest struct {
	Facebook  *string `json:"facebook"`
	Twitter   *string `json:"twitter"`
	Linkedin  *string `json:"linkedin"`
	Github    *string `json:"github"`
	Instagram *string `json:"instagram"`
}

// UpdateSocial validates social link update requests
func UpdateSocial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateSocialRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		c.Locals("validatedSocial", reqData)
		return c.Next()
	}
}

// AddSkillRequest is the validated skill payload
type AddSkillRequest struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// AddSkill validates skill creation requests
func AddSkill() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddSkillRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeValidation, "Invalid request body!")
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Skill name is required!"
		} else if len(reqData.Name) > 100 {
			errors["name"] = "Skill name must be at most 100 characters!"
		}

		switch reqData.Proficiency {
		case "":
			reqData.Proficiency = "beginner"
		case "beginner", "intermediate", "advanced":
		default:
			errors["proficiency"] = "Proficiency must be beginner, intermediate or advanced!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSkill", reqData)
		return c.Next()
	}
}
