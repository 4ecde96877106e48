package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	Config      *config.Config
	UserRepo    *repository.UserRepository
	CourseRepo  *repository.CourseRepository
	Enrollments *EnrollmentService
}

func NewPaymentService(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollments *EnrollmentService,
) *PaymentService {
	stripe.Key = cfg.Stripe.SecretKey
	return &PaymentService{
		Config:      cfg,
		UserRepo:    userRepo,
		CourseRepo:  courseRepo,
		Enrollments: enrollments,
	}
}

// CheckoutResult is either a hosted checkout URL for a paid course or a
// completed enrollment for a free one, never both.
type CheckoutResult struct {
	SessionID  string            `json:"sessionId,omitempty"`
	SessionURL string            `json:"sessionUrl,omitempty"`
	Enrollment *model.Enrollment `json:"enrollment,omitempty"`
}

// CreateCheckoutSession starts a Stripe checkout for a paid course. Free
// courses short-circuit into a direct enrollment.
func (s *PaymentService) CreateCheckoutSession(studentID, courseID uint) (*CheckoutResult, error) {
	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if student.Role != model.Student {
		return nil, util.ErrPermissionDenied
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if enrolled, err := s.Enrollments.IsEnrolled(studentID, courseID); err != nil {
		return nil, err
	} else if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	if course.Price <= 0 {
		enrollment, err := s.Enrollments.Complete(student, course, "free")
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{Enrollment: enrollment}, nil
	}

	courseRef := strconv.FormatUint(uint64(course.ID), 10)
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(student.Email),
		ClientReferenceID: stripe.String(courseRef),
		SuccessURL:        stripe.String(fmt.Sprintf("%s/courses/%d?checkout=success", s.Config.Server.FrontendURL, course.ID)),
		CancelURL:         stripe.String(fmt.Sprintf("%s/courses/%d?checkout=cancelled", s.Config.Server.FrontendURL, course.ID)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.Config.Stripe.Currency),
					// prices are stored in whole currency units
					UnitAmount: stripe.Int64(course.Price * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(course.Title),
					},
				},
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Created checkout session",
		zap.String("sessionId", sess.ID),
		zap.Uint("courseId", course.ID),
		zap.Uint("studentId", student.ID),
	)

	return &CheckoutResult{SessionID: sess.ID, SessionURL: sess.URL}, nil
}

// HandleWebhook verifies the Stripe signature and finishes paid enrollments.
// Signature failures are the caller's 400; everything after verification is
// swallowed with a log line so Stripe does not retry forever on our bugs.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.Config.Stripe.WebhookSecret)
	if err != nil {
		return err
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		logger.Log.Error("Failed to parse checkout session payload", zap.Error(err), zap.String("eventId", event.ID))
		return nil
	}

	s.fulfill(&sess)
	return nil
}

func (s *PaymentService) fulfill(sess *stripe.CheckoutSession) {
	courseID, err := strconv.ParseUint(sess.ClientReferenceID, 10, 64)
	if err != nil {
		logger.Log.Error("Checkout session has invalid course reference",
			zap.String("sessionId", sess.ID),
			zap.String("clientReferenceId", sess.ClientReferenceID),
		)
		return
	}

	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}

	student, err := s.UserRepo.FindByEmail(model.NormalizeEmail(email))
	if err != nil {
		logger.Log.Error("No user found for paid checkout session",
			zap.String("sessionId", sess.ID),
			zap.String("email", email),
		)
		return
	}

	course, err := s.CourseRepo.FindByID(uint(courseID))
	if err != nil {
		logger.Log.Error("No course found for paid checkout session",
			zap.String("sessionId", sess.ID),
			zap.Uint64("courseId", courseID),
		)
		return
	}

	// Stripe retries webhooks; an existing enrollment means a prior delivery
	// already succeeded.
	if enrolled, err := s.Enrollments.IsEnrolled(student.ID, course.ID); err != nil {
		logger.Log.Error("Failed to check enrollment for webhook", zap.Error(err), zap.String("sessionId", sess.ID))
		return
	} else if enrolled {
		logger.Log.Info("Skipping duplicate webhook delivery",
			zap.String("sessionId", sess.ID),
			zap.Uint("studentId", student.ID),
			zap.Uint("courseId", course.ID),
		)
		return
	}

	if _, err := s.Enrollments.Complete(student, course, "webhook"); err != nil {
		logger.Log.Error("Failed to record paid enrollment", zap.Error(err), zap.String("sessionId", sess.ID))
		return
	}

	logger.Log.Info("Recorded paid enrollment",
		zap.String("sessionId", sess.ID),
		zap.Uint("studentId", student.ID),
		zap.Uint("courseId", course.ID),
	)
}
