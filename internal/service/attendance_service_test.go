package service

import (
	"testing"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAttendanceRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)
	lesson := env.createLesson(t, course.ID, "Intro", 1)

	_, err := env.attendance.Mark(claimsFor(instructor), course.ID, lesson.ID, student.ID, model.Present)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestMarkAttendanceUpsert(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)
	lesson := env.createLesson(t, course.ID, "Intro", 1)
	env.enroll(t, student, course)

	first, err := env.attendance.Mark(claimsFor(instructor), course.ID, lesson.ID, student.ID, model.Absent)
	require.NoError(t, err)
	assert.Equal(t, model.Absent, first.Status)

	second, err := env.attendance.Mark(claimsFor(instructor), course.ID, lesson.ID, student.ID, model.Present)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.Present, second.Status)

	var count int64
	require.NoError(t, env.db.Model(&model.Attendance{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMarkAttendanceOwnershipAndLessonScope(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.Instructor)
	other := env.createUser(t, "other", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	course := env.createCourse(t, owner.ID, "Go Basics", 0)
	otherCourse := env.createCourse(t, other.ID, "Unrelated", 0)
	lesson := env.createLesson(t, course.ID, "Intro", 1)
	strayLesson := env.createLesson(t, otherCourse.ID, "Stray", 1)
	env.enroll(t, student, course)

	_, err := env.attendance.Mark(claimsFor(other), course.ID, lesson.ID, student.ID, model.Present)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// lesson must belong to the course being marked
	_, err = env.attendance.Mark(claimsFor(owner), course.ID, strayLesson.ID, student.ID, model.Present)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestAttendanceHistoryFiltersDeletedCourses(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	student := env.createUser(t, "alice", model.Student)
	kept := env.createCourse(t, instructor.ID, "Kept", 0)
	removed := env.createCourse(t, instructor.ID, "Removed", 0)
	keptLesson := env.createLesson(t, kept.ID, "Intro", 1)
	removedLesson := env.createLesson(t, removed.ID, "Intro", 1)
	env.enroll(t, student, kept)
	env.enroll(t, student, removed)

	_, err := env.attendance.Mark(claimsFor(instructor), kept.ID, keptLesson.ID, student.ID, model.Present)
	require.NoError(t, err)
	_, err = env.attendance.Mark(claimsFor(instructor), removed.ID, removedLesson.ID, student.ID, model.Present)
	require.NoError(t, err)

	require.NoError(t, env.courses.Delete(removed.ID))

	history, err := env.attendance.History(student.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, kept.ID, history[0].CourseID)
}
