package service

import (
	"testing"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollFreeCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)

	enrollment, err := env.enrollment.Enroll(student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, enrollment.StudentID)
	assert.Equal(t, course.ID, enrollment.CourseID)
	assert.False(t, enrollment.EnrolledAt.IsZero())

	enrolled, err := env.enrollment.IsEnrolled(student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestEnrollDuplicate(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)

	_, err := env.enrollment.Enroll(student.ID, course.ID)
	require.NoError(t, err)

	_, err = env.enrollment.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
}

func TestEnrollPaidCourseRequiresPayment(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Advanced Go", 49)

	_, err := env.enrollment.Enroll(student.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrPaymentRequired)

	// nothing must be persisted until the webhook lands
	enrolled, err := env.enrollment.IsEnrolled(student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestEnrollRejectsNonStudents(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)

	_, err := env.enrollment.Enroll(instructor.ID, course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestEnrollMissingCourse(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, "alice", model.Student)

	_, err := env.enrollment.Enroll(student.ID, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestListMineFiltersDeletedCourses(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	kept := env.createCourse(t, instructor.ID, "Kept", 0)
	removed := env.createCourse(t, instructor.ID, "Removed", 0)

	env.enroll(t, student, kept)
	env.enroll(t, student, removed)

	require.NoError(t, env.courses.Delete(removed.ID))

	mine, err := env.enrollment.ListMine(student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, kept.ID, mine[0].CourseID)
	require.NotNil(t, mine[0].Course)
	assert.Equal(t, "Kept", mine[0].Course.Title)
}

func TestListStudentsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.Instructor)
	other := env.createUser(t, "other", model.Instructor)
	admin := env.createUser(t, "root", model.Admin)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, owner.ID, "Go Basics", 0)
	env.enroll(t, student, course)

	_, err := env.enrollment.ListStudents(claimsFor(other), course.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	roster, err := env.enrollment.ListStudents(claimsFor(owner), course.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, student.ID, roster[0].StudentID)

	roster, err = env.enrollment.ListStudents(claimsFor(admin), course.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}
