package service

import (
	"strconv"
	"testing"

	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

func newPaymentEnv(t *testing.T) (*testEnv, *PaymentService) {
	env := newTestEnv(t)
	cfg := &config.Config{}
	cfg.Server.FrontendURL = "http://localhost:3000"
	cfg.Stripe.Currency = "usd"
	payments := NewPaymentService(cfg, env.users, env.courses, env.enrollment)
	return env, payments
}

func checkoutSession(courseID uint, email string) *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:                "cs_test_123",
		ClientReferenceID: strconv.FormatUint(uint64(courseID), 10),
		CustomerEmail:     email,
	}
}

func TestCheckoutFreeCourseCompletesEnrollment(t *testing.T) {
	env, payments := newPaymentEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)

	result, err := payments.CreateCheckoutSession(student.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Enrollment)
	assert.Empty(t, result.SessionURL)

	enrolled, err := env.enrollment.IsEnrolled(student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestCheckoutRejectsExistingEnrollment(t *testing.T) {
	env, payments := newPaymentEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Advanced Go", 49)
	env.enroll(t, student, course)

	_, err := payments.CreateCheckoutSession(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestFulfillCreatesEnrollmentOnce(t *testing.T) {
	env, payments := newPaymentEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Advanced Go", 49)

	sess := checkoutSession(course.ID, student.Email)
	payments.fulfill(sess)

	enrolled, err := env.enrollment.IsEnrolled(student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	// Stripe redelivers; the second run must not create another row
	payments.fulfill(sess)

	var count int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFulfillUnknownUserIsDropped(t *testing.T) {
	env, payments := newPaymentEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	course := env.createCourse(t, instructor.ID, "Advanced Go", 49)

	payments.fulfill(checkoutSession(course.ID, "ghost@example.com"))

	var count int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Zero(t, count)
}
