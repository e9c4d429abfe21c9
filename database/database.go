package database

import (
	"fmt"
	"log"
	"os"

	"learnhub/config"
	"learnhub/models"
	"learnhub/models/assignment"
	"learnhub/models/calendar"
	"learnhub/models/course"
	"learnhub/models/enrollment"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	cfg := config.AppConfig
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	RunMigrations(db)

	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.RevokedToken{},
		&models.UserProfile{},
		&models.UserSettings{},
		&models.UserSocial{},
		&models.UserSkill{},
		&course.Category{},
		&course.Instructor{},
		&course.Course{},
		&course.CourseMetadata{},
		&course.CoursePricing{},
		&course.CourseInstructor{},
		&course.Section{},
		&course.Lecture{},
		&course.VideoContent{},
		&course.PDFContent{},
		&course.LectureResource{},
		&course.Coupon{},
		&course.CouponCourse{},
		&course.StudentCouponEligibility{},
		&enrollment.Enrollment{},
		&enrollment.LectureProgress{},
		&enrollment.Bookmark{},
		&enrollment.Note{},
		&enrollment.PaymentOrder{},
		&assignment.Assignment{},
		&assignment.AssignmentSubmission{},
		&assignment.Quiz{},
		&assignment.Question{},
		&assignment.QuizAttempt{},
		&calendar.CalendarEvent{},
		&calendar.EventAttendee{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
