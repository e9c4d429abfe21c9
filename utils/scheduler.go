package utils

import (
	"fmt"
	"log"
	"time"

	"learnhub/database"
	"learnhub/models"
	"learnhub/models/calendar"
	"learnhub/models/course"
	"learnhub/models/enrollment"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeSchedulers sets up all recurring background jobs
func InitializeSchedulers() {
	log.Println("[SCHEDULER] Initializing background jobs...")

	c := cron.New()

	// Weekly digest on Monday mornings
	c.AddFunc("0 8 * * 1", func() {
		log.Println("[SCHEDULER] Sending weekly digest emails...")
		SendWeeklyDigests()
	})

	// Daily coupon sweep at midnight
	c.AddFunc("0 0 * * *", func() {
		log.Println("[SCHEDULER] Running coupon expiry sweep...")
		DeactivateExpiredCoupons()
	})

	// Calendar event status roll every 10 minutes
	c.AddFunc("*/10 * * * *", func() {
		RollCalendarEventStatuses()
	})

	c.Start()
	log.Println("[SCHEDULER] Background jobs started.")
}

// SendWeeklyDigests emails a progress summary to every user who opted in
func SendWeeklyDigests() {
	db := database.Database.Db

	var settings []models.UserSettings
	if err := db.Where("email_weekly_digest = ?", true).Find(&settings).Error; err != nil {
		log.Printf("[SCHEDULER] Failed to load digest subscribers: %v", err)
		return
	}

	weekStart := now.BeginningOfWeek()

	for _, s := range settings {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ? AND is_active = ?", s.UserID, false, true).First(&user).Error; err != nil {
			continue
		}

		var enrollments []enrollment.Enrollment
		if err := db.Where("user_id = ? AND status = ?", s.UserID, enrollment.StatusActive).Find(&enrollments).Error; err != nil {
			continue
		}
		if len(enrollments) == 0 {
			continue
		}

		var lines []string
		for _, e := range enrollments {
			var crs course.Course
			if err := db.First(&crs, e.CourseID).Error; err != nil {
				continue
			}
			var completedThisWeek int64
			db.Model(&enrollment.LectureProgress{}).
				Where("enrollment_id = ? AND is_completed = ? AND updated_at >= ?", e.ID, true, weekStart).
				Count(&completedThisWeek)
			lines = append(lines, fmt.Sprintf("%s: %.0f%% complete, %d lecture(s) finished this week",
				crs.Title, e.ProgressPercentage, completedThisWeek))
		}

		if err := SendWeeklyDigestEmail(user.Email, lines); err != nil {
			log.Printf("[SCHEDULER] Digest email to %s failed: %v", user.Email, err)
		}
	}
}

// DeactivateExpiredCoupons switches off coupons past their validity window
// or over their usage limit.
func DeactivateExpiredCoupons() {
	db := database.Database.Db
	nowTime := time.Now()

	res := db.Model(&course.Coupon{}).
		Where("is_active = ? AND valid_to IS NOT NULL AND valid_to < ?", true, nowTime).
		Update("is_active", false)
	if res.Error != nil {
		log.Printf("[SCHEDULER] Coupon expiry sweep failed: %v", res.Error)
		return
	}

	overused := db.Model(&course.Coupon{}).
		Where("is_active = ? AND max_uses IS NOT NULL AND current_uses >= max_uses", true).
		Update("is_active", false)
	if overused.Error != nil {
		log.Printf("[SCHEDULER] Coupon usage sweep failed: %v", overused.Error)
		return
	}

	if n := res.RowsAffected + overused.RowsAffected; n > 0 {
		log.Printf("[SCHEDULER] Deactivated %d coupon(s)", n)
	}
}

// RollCalendarEventStatuses moves scheduled events to ongoing and ongoing
// events to completed based on their start/end times.
func RollCalendarEventStatuses() {
	db := database.Database.Db
	nowTime := time.Now()

	db.Model(&calendar.CalendarEvent{}).
		Where("status = ? AND start_time <= ? AND end_time > ?", calendar.EventScheduled, nowTime, nowTime).
		Update("status", calendar.EventOngoing)

	db.Model(&calendar.CalendarEvent{}).
		Where("status IN ? AND end_time <= ?", []string{calendar.EventScheduled, calendar.EventOngoing}, nowTime).
		Update("status", calendar.EventCompleted)
}
