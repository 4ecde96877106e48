package controller

import (
	"errors"
	"mime/multipart"
	"strconv"

	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

var allowedMediaTypes = []string{util.MimeImage, util.MimeVideo, util.MimeAudio, util.MimePDF}

// openUpload validates an optional multipart "media" part and returns it
// positioned at the start, or nil when no file was sent.
func openUpload(ctx *gin.Context) (*service.MediaUpload, multipart.File, error) {
	header, err := ctx.FormFile("media")
	if err != nil {
		// no file part is fine
		return nil, nil, nil
	}

	if header.Size > util.MaxMediaUploadBytes {
		return nil, nil, errors.New("file exceeds the upload size limit")
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	contentType, err := util.ValidateMimeType(file, allowedMediaTypes)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, nil, err
	}

	return &service.MediaUpload{
		Reader:      file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: contentType,
	}, file, nil
}

func (c *LessonController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID := util.MustParseUint(ctx.PostForm("courseId"))
	title := ctx.PostForm("title")
	if courseID == 0 || title == "" {
		util.BadRequest(ctx, "courseId and title are required")
		return
	}
	order, _ := strconv.Atoi(ctx.PostForm("order"))

	upload, file, err := openUpload(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if file != nil {
		defer file.Close()
	}

	lesson, err := c.LessonService.Create(ctx.Request.Context(), claims, service.LessonInput{
		CourseID: courseID,
		Title:    title,
		Content:  ctx.PostForm("content"),
		Order:    order,
	}, upload)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx, "Course not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, lesson)
}

func (c *LessonController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	lesson, err := c.LessonService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx, "Lesson not found")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

func (c *LessonController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	order, _ := strconv.Atoi(ctx.PostForm("order"))

	upload, file, err := openUpload(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if file != nil {
		defer file.Close()
	}

	lesson, err := c.LessonService.Update(ctx.Request.Context(), claims, id, service.LessonInput{
		Title:   ctx.PostForm("title"),
		Content: ctx.PostForm("content"),
		Order:   order,
	}, upload)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx, "Lesson not found")
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

func (c *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.LessonService.Delete(ctx.Request.Context(), claims, id); err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx, "Lesson not found")
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx, "Course not found")
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
