package service

import (
	"bytes"
	"context"
	"testing"

	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngUpload(size int) *MediaUpload {
	data := make([]byte, size)
	copy(data, []byte("\x89PNG\r\n\x1a\n"))
	return &MediaUpload{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		Filename:    "diagram.png",
		ContentType: "image/png",
	}
}

func TestLessonCreateWithMedia(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)
	course := env.createCourse(t, instructor.ID, "Go Basics", 0)

	lesson, err := env.lesson.Create(context.Background(), claimsFor(instructor), LessonInput{
		CourseID: course.ID,
		Title:    "Intro",
		Content:  "hello",
		Order:    1,
	}, pngUpload(64))
	require.NoError(t, err)
	require.Len(t, lesson.Media, 1)

	asset := lesson.Media[0]
	assert.Equal(t, model.MediaImage, asset.Type)
	assert.Equal(t, instructor.ID, asset.UploadedByID)
	assert.NotEmpty(t, asset.URL)
	assert.Contains(t, asset.PublicID, ".png")

	stored, err := env.media.FindByLesson(lesson.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestLessonCreateMissingCourse(t *testing.T) {
	env := newTestEnv(t)
	instructor := env.createUser(t, "teach", model.Instructor)

	_, err := env.lesson.Create(context.Background(), claimsFor(instructor), LessonInput{
		CourseID: 999,
		Title:    "Orphan",
	}, nil)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestLessonUpdateOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.Instructor)
	other := env.createUser(t, "other", model.Instructor)
	course := env.createCourse(t, owner.ID, "Go Basics", 0)
	lesson := env.createLesson(t, course.ID, "Intro", 1)

	_, err := env.lesson.Update(context.Background(), claimsFor(other), lesson.ID, LessonInput{Title: "Hijacked"}, nil)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := env.lesson.Update(context.Background(), claimsFor(owner), lesson.ID, LessonInput{Title: "Renamed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestLessonDeleteCleansUpMedia(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner", model.Instructor)
	course := env.createCourse(t, owner.ID, "Go Basics", 0)

	lesson, err := env.lesson.Create(context.Background(), claimsFor(owner), LessonInput{
		CourseID: course.ID,
		Title:    "Intro",
	}, pngUpload(32))
	require.NoError(t, err)

	require.NoError(t, env.lesson.Delete(context.Background(), claimsFor(owner), lesson.ID))

	_, err = env.lesson.Get(lesson.ID)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	assets, err := env.media.FindByLesson(lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, assets)
}
