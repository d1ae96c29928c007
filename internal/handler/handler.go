package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"qrattend/internal/attendance"
	"qrattend/internal/auth"
	"qrattend/internal/metrics"
	"qrattend/internal/queue"
	"qrattend/internal/student"
)

// StudentService is the registration workflow surface.
type StudentService interface {
	Register(ctx context.Context, in student.RegisterInput) (*student.RegisterResult, error)
	Get(ctx context.Context, id string) (*student.Student, error)
	List(ctx context.Context) ([]student.Student, error)
}

// AttendanceService is the check-in workflow surface.
type AttendanceService interface {
	CheckIn(ctx context.Context, in attendance.CheckInInput) (*attendance.Record, bool, error)
	List(ctx context.Context, studentID string, limit, offset int) ([]attendance.Record, error)
}

// Options configures the handler.
type Options struct {
	AdminPIN      string
	JWTIssuer     string
	JWTSigningKey string
	SessionTTL    time.Duration
	DBHealthy     func(ctx context.Context) bool
	RedisHealthy  func(ctx context.Context) bool
}

// Handler exposes the workflows over HTTP.
type Handler struct {
	students StudentService
	checkins AttendanceService
	events   queue.Queue // nil disables event publishing
	opts     Options
}

// New creates a handler.
func New(students StudentService, checkins AttendanceService, events queue.Queue, opts Options) *Handler {
	return &Handler{students: students, checkins: checkins, events: events, opts: opts}
}

// Mount registers all API routes on r.
func (h *Handler) Mount(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/student", h.RegisterStudent)
	api.GET("/student", h.ListStudents)
	api.GET("/student/:id", h.GetStudent)
	api.POST("/attendance", h.MarkAttendance)
	api.GET("/attendance/mark", h.ScanMark)
	api.POST("/admin/session", h.AdminSession)

	admin := api.Group("", auth.AdminAuth(h.opts.JWTSigningKey, h.opts.JWTIssuer))
	admin.GET("/attendance", h.ListAttendance)
}

// Health reports liveness plus backing-store reachability.
func (h *Handler) Health(c *gin.Context) {
	res := gin.H{"ok": true}
	if h.opts.DBHealthy != nil {
		res["db"] = h.opts.DBHealthy(c.Request.Context())
	}
	if h.opts.RedisHealthy != nil {
		res["redis"] = h.opts.RedisHealthy(c.Request.Context())
	}
	c.JSON(http.StatusOK, res)
}

type registerRequest struct {
	Name         string `form:"name" binding:"required"`
	Username     string `form:"username" binding:"required"`
	Email        string `form:"email" binding:"required,email"`
	MatricNumber string `form:"matric_number" binding:"required"`
}

// RegisterStudent handles multipart registration: fields name, username,
// email, matric_number, optional photo file.
func (h *Handler) RegisterStudent(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	in := student.RegisterInput{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		MatricNumber: req.MatricNumber,
	}

	if file, header, err := c.Request.FormFile("photo"); err == nil {
		defer file.Close()
		data, rerr := io.ReadAll(file)
		if rerr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "read photo failed"})
			return
		}
		in.Photo = data
		in.PhotoContentType = header.Header.Get("Content-Type")
	}

	res, err := h.students.Register(c.Request.Context(), in)
	if err != nil {
		var ve *student.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ve.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	metrics.RegistrationsTotal.Inc()
	if h.events != nil {
		if err := h.events.Publish(c.Request.Context(), queue.Message{
			Type: queue.TypeStudentRegistered,
			Body: []byte(res.Student.ID),
		}); err != nil {
			log.Printf("queue publish failed: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":          true,
		"student":     res.Student,
		"scan_target": res.ScanTarget,
	})
}

// GetStudent returns a single student by id.
func (h *Handler) GetStudent(c *gin.Context) {
	st, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "student": st})
}

// ListStudents returns all registered students.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if students == nil {
		students = []student.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "students": students})
}

type attendanceRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Lecturer  string `json:"lecturer"`
	Course    string `json:"course"`
	AdminPIN  string `json:"admin_pin" binding:"required"`
}

// MarkAttendance records attendance for today. A same-day duplicate is a
// business outcome: 200 with ok:false, not an error status.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	rec, created, err := h.checkins.CheckIn(c.Request.Context(), attendance.CheckInInput{
		StudentID: req.StudentID,
		Lecturer:  req.Lecturer,
		Course:    req.Course,
		AdminPIN:  req.AdminPIN,
	})
	if err != nil {
		h.attendanceError(c, err)
		return
	}
	if !created {
		metrics.CheckInsTotal.WithLabelValues("duplicate").Inc()
		c.JSON(http.StatusOK, gin.H{"ok": false, "error": "Attendance already taken today"})
		return
	}
	metrics.CheckInsTotal.WithLabelValues("recorded").Inc()
	c.JSON(http.StatusCreated, gin.H{"ok": true, "attendance": rec})
}

func (h *Handler) attendanceError(c *gin.Context, err error) {
	var ve *attendance.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ve.Error()})
	case errors.Is(err, attendance.ErrUnauthorized):
		metrics.CheckInsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "invalid admin pin"})
	case errors.Is(err, attendance.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Student not found"})
	default:
		metrics.CheckInsTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

type adminSessionRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// AdminSession exchanges the admin PIN for a short-lived bearer token.
func (h *Handler) AdminSession(c *gin.Context) {
	var req adminSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !auth.VerifyPIN(req.PIN, h.opts.AdminPIN) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "invalid admin pin"})
		return
	}
	token, exp, err := auth.Issue("admin", "admin", h.opts.JWTIssuer, h.opts.JWTSigningKey, h.opts.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token, "expires_at": exp.Unix()})
}

// ListAttendance returns attendance records; bearer-protected.
func (h *Handler) ListAttendance(c *gin.Context) {
	limit, offset := 50, 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	records, err := h.checkins.List(c.Request.Context(), c.Query("student_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "attendance": records})
}
