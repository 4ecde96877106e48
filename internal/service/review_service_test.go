package service

import (
	"testing"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)

	_, err := env.review.Create(student.ID, course.ID, ReviewInput{Rating: 5, Comment: "great"})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestReviewOnePerStudent(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)
	env.enroll(t, student, course)

	_, err := env.review.Create(student.ID, course.ID, ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	_, err = env.review.Create(student.ID, course.ID, ReviewInput{Rating: 1, Comment: "changed my mind"})
	assert.ErrorIs(t, err, util.ErrAlreadyReviewed)
}

func TestReviewRatingProjection(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	alice := env.createUser(t, "alice", model.Student)
	bob := env.createUser(t, "bob", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)
	env.enroll(t, alice, course)
	env.enroll(t, bob, course)

	_, err := env.review.Create(alice.ID, course.ID, ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	r, err := env.review.Create(bob.ID, course.ID, ReviewInput{Rating: 3, Comment: "fine"})
	require.NoError(t, err)

	got, err := env.courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.AverageRating, 0.001)
	assert.Equal(t, 2, got.NumReviews)

	_, err = env.review.Update(claimsFor(bob), r.ID, ReviewInput{Rating: 1})
	require.NoError(t, err)

	got, err = env.courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.AverageRating, 0.001)

	require.NoError(t, env.review.Delete(claimsFor(bob), r.ID))

	got, err = env.courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got.AverageRating, 0.001)
	assert.Equal(t, 1, got.NumReviews)
}

func TestReviewAuthorOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	alice := env.createUser(t, "alice", model.Student)
	bob := env.createUser(t, "bob", model.Student)
	admin := env.createUser(t, "root", model.Admin)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)
	env.enroll(t, alice, course)
	env.enroll(t, bob, course)

	review, err := env.review.Create(alice.ID, course.ID, ReviewInput{Rating: 4, Comment: "good"})
	require.NoError(t, err)

	_, err = env.review.Update(claimsFor(bob), review.ID, ReviewInput{Rating: 1})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = env.review.Delete(claimsFor(bob), review.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// admins moderate
	require.NoError(t, env.review.Delete(claimsFor(admin), review.ID))

	_, err = env.reviews.FindByID(review.ID)
	assert.Error(t, err)
}

func TestReviewDeleteAllowsReReview(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)
	env.enroll(t, student, course)

	review, err := env.review.Create(student.ID, course.ID, ReviewInput{Rating: 2, Comment: "rough start"})
	require.NoError(t, err)
	require.NoError(t, env.review.Delete(claimsFor(student), review.ID))

	// the old row must not linger in the (course, user) unique index
	again, err := env.review.Create(student.ID, course.ID, ReviewInput{Rating: 5, Comment: "much better now"})
	require.NoError(t, err)
	assert.NotEqual(t, review.ID, again.ID)

	got, err := env.courses.FindByID(course.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got.AverageRating, 0.001)
	assert.Equal(t, 1, got.NumReviews)
}
