package enrollmentController

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/models"
	courseModel "learnhub/models/course"
	enrollmentModel "learnhub/models/enrollment"
	enrollmentValidator "learnhub/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func authAs(userID *uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", *userID)
		return c.Next()
	}
}

func setupEnrollmentTest(t *testing.T) (*fiber.App, *uint) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", GatewayKeySecret: "test-gateway-secret"}
	database.ConnectTestDb()

	actAs := new(uint)
	app := fiber.New()

	grp := app.Group("/enrollment", authAs(actAs))
	grp.Get("/list", MyEnrollments)
	grp.Post("/course/:course_id", Enroll)
	grp.Get("/course/:course_id", GetEnrollment)
	grp.Delete("/course/:course_id", CancelEnrollment)
	grp.Put("/course/:course_id/lecture/:lecture_id/progress", enrollmentValidator.UpdateProgress(), UpdateLectureProgress)

	pay := app.Group("/payment", authAs(actAs))
	pay.Post("/order", enrollmentValidator.CreateOrder(), CreateOrder)
	pay.Get("/orders", MyOrders)

	app.Post("/payment/webhook", PaymentWebhook)

	return app, actAs
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func createUser(t *testing.T, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role, EmailVerified: true, IsActive: true}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

// seedCourse plants a published course with one section and the given number
// of published lectures.
func seedCourse(t *testing.T, code string, price float64, lectures int) (courseModel.Course, []courseModel.Lecture) {
	t.Helper()
	db := database.Database.Db

	now := time.Now()
	crs := courseModel.Course{
		CourseCode:  code,
		Title:       "Seeded " + code,
		Slug:        "seeded-" + code,
		Status:      courseModel.StatusPublished,
		PublishedAt: &now,
	}
	require.NoError(t, db.Create(&crs).Error)
	require.NoError(t, db.Create(&courseModel.CourseMetadata{CourseID: crs.ID}).Error)
	require.NoError(t, db.Create(&courseModel.CoursePricing{
		CourseID: crs.ID,
		Price:    price,
		IsFree:   price == 0,
	}).Error)

	section := courseModel.Section{CourseID: crs.ID, Title: "Section 1", OrderIndex: 1, IsPublished: true}
	require.NoError(t, db.Create(&section).Error)

	out := make([]courseModel.Lecture, 0, lectures)
	for i := 0; i < lectures; i++ {
		lec := courseModel.Lecture{
			SectionID:   section.ID,
			Title:       fmt.Sprintf("Lecture %d", i+1),
			ContentType: courseModel.ContentVideo,
			OrderIndex:  i + 1,
			IsPublished: true,
		}
		require.NoError(t, db.Create(&lec).Error)
		out = append(out, lec)
	}
	return crs, out
}

func TestEnrollFreeCourse(t *testing.T) {
	app, actAs := setupEnrollmentTest(t)
	student := createUser(t, "student@example.com", models.RoleStudent)
	*actAs = student.ID

	crs, _ := seedCourse(t, "FREE0001", 0, 2)

	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var enr enrollmentModel.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &enr))
	assert.Equal(t, enrollmentModel.StatusActive, enr.Status)
	assert.Equal(t, enrollmentModel.PaymentFree, enr.PaymentStatus)

	var metadata courseModel.CourseMetadata
	require.NoError(t, database.Database.Db.Where("course_id = ?", crs.ID).First(&metadata).Error)
	assert.Equal(t, 1, metadata.TotalEnrollments)

	// Enrolling twice is a conflict
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_ENROLLED", env.Error.Code)

	// A second course enrolls fine: certificate numbers are unique but
	// uncertified enrollments carry none
	other, _ := seedCourse(t, "FREE0003", 0, 1)
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", other.ID), nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestEnrollPaidCourseRequiresOrder(t *testing.T) {
	app, actAs := setupEnrollmentTest(t)
	student := createUser(t, "payer@example.com", models.RoleStudent)
	*actAs = student.ID

	crs, _ := seedCourse(t, "PAID0001", 99.0, 1)

	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)
	assert.Equal(t, "PAYMENT_REQUIRED", env.Error.Code)

	require.NoError(t, database.Database.Db.Create(&enrollmentModel.PaymentOrder{
		UserID:         student.ID,
		CourseID:       crs.ID,
		GatewayOrderID: "order_test123",
		Receipt:        "rcpt_test123",
		Amount:         9900,
		Currency:       "INR",
		Status:         enrollmentModel.OrderPaid,
	}).Error)

	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var enr enrollmentModel.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &enr))
	assert.Equal(t, enrollmentModel.PaymentPaid, enr.PaymentStatus)
}

func TestCancelAndReenroll(t *testing.T) {
	app, actAs := setupEnrollmentTest(t)
	student := createUser(t, "cancel@example.com", models.RoleStudent)
	*actAs = student.ID

	crs, _ := seedCourse(t, "CANC0001", 0, 1)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Re-enrolling re-activates the cancelled enrollment
	resp, env := doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var enr enrollmentModel.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &enr))
	assert.Equal(t, enrollmentModel.StatusActive, enr.Status)
}

func TestProgressRecomputeAndCompletion(t *testing.T) {
	app, actAs := setupEnrollmentTest(t)
	student := createUser(t, "progress@example.com", models.RoleStudent)
	*actAs = student.ID

	crs, lectures := seedCourse(t, "PROG0001", 0, 2)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	type progressPayload struct {
		Progress   enrollmentModel.LectureProgress `json:"progress"`
		Enrollment enrollmentModel.Enrollment      `json:"enrollment"`
	}

	// Half the course done
	resp, env := doJSON(t, app, "PUT",
		fmt.Sprintf("/enrollment/course/%d/lecture/%d/progress", crs.ID, lectures[0].ID),
		fiber.Map{"watched_seconds": 300, "total_seconds": 300, "is_completed": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload progressPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.True(t, payload.Progress.IsCompleted)
	assert.Equal(t, 50.0, payload.Enrollment.ProgressPercentage)
	assert.Equal(t, enrollmentModel.StatusActive, payload.Enrollment.Status)

	// Completion does not revert when a later update reports less progress
	resp, env = doJSON(t, app, "PUT",
		fmt.Sprintf("/enrollment/course/%d/lecture/%d/progress", crs.ID, lectures[0].ID),
		fiber.Map{"watched_seconds": 10, "total_seconds": 300, "is_completed": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.True(t, payload.Progress.IsCompleted)

	// Finishing the last lecture completes the enrollment and issues the
	// certificate
	resp, env = doJSON(t, app, "PUT",
		fmt.Sprintf("/enrollment/course/%d/lecture/%d/progress", crs.ID, lectures[1].ID),
		fiber.Map{"watched_seconds": 300, "total_seconds": 300, "is_completed": true})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &payload))

	assert.Equal(t, 100.0, payload.Enrollment.ProgressPercentage)
	assert.Equal(t, enrollmentModel.StatusCompleted, payload.Enrollment.Status)
	assert.True(t, payload.Enrollment.CertificateIssued)
	require.NotNil(t, payload.Enrollment.CertificateNumber)
	assert.Equal(t, fmt.Sprintf("LH-PROG0001-%06d", payload.Enrollment.ID), *payload.Enrollment.CertificateNumber)
	assert.NotNil(t, payload.Enrollment.CompletionDate)
}

func TestFullyDiscountedOrderSkipsGateway(t *testing.T) {
	app, actAs := setupEnrollmentTest(t)
	student := createUser(t, "coupon@example.com", models.RoleStudent)
	*actAs = student.ID

	crs, _ := seedCourse(t, "COUP0001", 199.0, 1)

	db := database.Database.Db
	coupon := courseModel.Coupon{
		Code:          "LHFREE100",
		DiscountType:  courseModel.DiscountPercent,
		DiscountValue: 100,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&coupon).Error)

	resp, env := doJSON(t, app, "POST", "/payment/order", fiber.Map{
		"course_id":   crs.ID,
		"coupon_code": "LHFREE100",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var order enrollmentModel.PaymentOrder
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, enrollmentModel.OrderPaid, order.Status)
	assert.Equal(t, int64(0), order.Amount)
	assert.Equal(t, 199.0, order.DiscountApplied)
	assert.Contains(t, order.GatewayOrderID, "free-")

	require.NoError(t, db.Where("id = ?", coupon.ID).First(&coupon).Error)
	assert.Equal(t, 1, coupon.CurrentUses)

	// The paid order unlocks enrollment
	resp, env = doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var enr enrollmentModel.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &enr))
	assert.Equal(t, enrollmentModel.PaymentPaid, enr.PaymentStatus)
}

func TestCreateOrderRejectsFreeCourseAndBadCoupon(t *testing.T) {
	app, actAs := setupEnrollmentTest(t)
	student := createUser(t, "badcoupon@example.com", models.RoleStudent)
	*actAs = student.ID

	free, _ := seedCourse(t, "FREE0002", 0, 1)
	resp, env := doJSON(t, app, "POST", "/payment/order", fiber.Map{
		"course_id": free.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	paid, _ := seedCourse(t, "PAID0002", 50.0, 1)
	resp, env = doJSON(t, app, "POST", "/payment/order", fiber.Map{
		"course_id":   paid.ID,
		"coupon_code": "NOSUCHCODE",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "COUPON_INVALID", env.Error.Code)
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.GatewayKeySecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, event string, paymentID, orderID string) (*http.Response, envelope) {
	t.Helper()
	body, err := json.Marshal(fiber.Map{
		"event": event,
		"payload": fiber.Map{
			"payment": fiber.Map{
				"entity": fiber.Map{"id": paymentID, "order_id": orderID},
			},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/payment/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signWebhook(body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func TestWebhookCaptureActivatesEnrollment(t *testing.T) {
	app, _ := setupEnrollmentTest(t)
	student := createUser(t, "webhook@example.com", models.RoleStudent)
	crs, _ := seedCourse(t, "HOOK0001", 149.0, 1)

	db := database.Database.Db
	order := enrollmentModel.PaymentOrder{
		UserID:         student.ID,
		CourseID:       crs.ID,
		GatewayOrderID: "order_hook1",
		Receipt:        "rcpt_hook1",
		Amount:         14900,
		Currency:       "INR",
		Status:         enrollmentModel.OrderCreated,
	}
	require.NoError(t, db.Create(&order).Error)

	// A tampered signature is rejected
	body := []byte(`{"event":"payment.captured"}`)
	req := httptest.NewRequest("POST", "/payment/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", "bogus")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = postWebhook(t, app, "payment.captured", "pay_hook1", "order_hook1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("id = ?", order.ID).First(&order).Error)
	assert.Equal(t, enrollmentModel.OrderPaid, order.Status)
	assert.Equal(t, "pay_hook1", order.GatewayPaymentID)

	// The capture enrolls the buyer without a separate enroll call
	var enr enrollmentModel.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, crs.ID).First(&enr).Error)
	assert.Equal(t, enrollmentModel.StatusActive, enr.Status)
	assert.Equal(t, enrollmentModel.PaymentPaid, enr.PaymentStatus)

	var metadata courseModel.CourseMetadata
	require.NoError(t, db.Where("course_id = ?", crs.ID).First(&metadata).Error)
	assert.Equal(t, 1, metadata.TotalEnrollments)
}

func TestWebhookRefundDeactivatesEnrollment(t *testing.T) {
	app, _ := setupEnrollmentTest(t)
	student := createUser(t, "refund@example.com", models.RoleStudent)
	crs, _ := seedCourse(t, "RFND0001", 149.0, 1)

	db := database.Database.Db
	order := enrollmentModel.PaymentOrder{
		UserID:         student.ID,
		CourseID:       crs.ID,
		GatewayOrderID: "order_rfnd1",
		Receipt:        "rcpt_rfnd1",
		Amount:         14900,
		Currency:       "INR",
		Status:         enrollmentModel.OrderCreated,
	}
	require.NoError(t, db.Create(&order).Error)

	resp, _ := postWebhook(t, app, "payment.captured", "pay_rfnd1", "order_rfnd1")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = postWebhook(t, app, "refund.processed", "pay_rfnd1", "order_rfnd1")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.Where("id = ?", order.ID).First(&order).Error)
	assert.Equal(t, enrollmentModel.OrderRefunded, order.Status)

	var enr enrollmentModel.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, crs.ID).First(&enr).Error)
	assert.Equal(t, enrollmentModel.StatusCancelled, enr.Status)
	assert.Equal(t, enrollmentModel.PaymentRefunded, enr.PaymentStatus)
}

func TestProgressRejectsForeignLecture(t *testing.T) {
	app, actAs := setupEnrollmentTest(t)
	student := createUser(t, "foreign@example.com", models.RoleStudent)
	*actAs = student.ID

	crs, _ := seedCourse(t, "MAIN0001", 0, 1)
	_, otherLectures := seedCourse(t, "OTHR0001", 0, 1)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/enrollment/course/%d", crs.ID), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, app, "PUT",
		fmt.Sprintf("/enrollment/course/%d/lecture/%d/progress", crs.ID, otherLectures[0].ID),
		fiber.Map{"watched_seconds": 10, "total_seconds": 100})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
