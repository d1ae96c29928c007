package handler

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrattend/internal/attendance"
	"qrattend/internal/auth"
	"qrattend/internal/metrics"
)

// scanLecturer tags records created through the GET scanner entry point.
const scanLecturer = "QR Scanner"

const contentTypeHTML = "text/html; charset=utf-8"

// ScanMark is the entry point for external scanners that can only issue GET
// requests. Without a valid pin it renders a confirmation form; with one it
// records attendance and renders a human-readable result page.
func (h *Handler) ScanMark(c *gin.Context) {
	studentID := c.Query("student_id")
	pin := c.Query("pin")

	if studentID == "" {
		c.Data(http.StatusBadRequest, contentTypeHTML, scanPage("Error", "student_id is required"))
		return
	}
	if !auth.VerifyPIN(pin, h.opts.AdminPIN) {
		c.Data(http.StatusOK, contentTypeHTML, scanConfirmForm(studentID))
		return
	}

	rec, created, err := h.checkins.CheckIn(c.Request.Context(), attendance.CheckInInput{
		StudentID: studentID,
		Lecturer:  scanLecturer,
		AdminPIN:  pin,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrStudentNotFound) {
			c.Data(http.StatusNotFound, contentTypeHTML, scanPage("Error", "Student not found"))
			return
		}
		metrics.CheckInsTotal.WithLabelValues("failed").Inc()
		c.Data(http.StatusInternalServerError, contentTypeHTML, scanPage("Error", "Could not record attendance"))
		return
	}
	if !created {
		metrics.CheckInsTotal.WithLabelValues("duplicate").Inc()
		c.Data(http.StatusOK, contentTypeHTML, scanPage("Already recorded", "Attendance already taken today"))
		return
	}
	metrics.CheckInsTotal.WithLabelValues("recorded").Inc()
	c.Data(http.StatusOK, contentTypeHTML, scanPage("Attendance recorded",
		fmt.Sprintf("Attendance recorded for student %s on %s", html.EscapeString(rec.StudentID), rec.MarkedOn.Format("2006-01-02"))))
}

// scanConfirmForm renders a minimal self-submitting form carrying the student
// id. The id is attacker-controlled query input and must be escaped.
func scanConfirmForm(studentID string) []byte {
	return []byte(fmt.Sprintf(`<!doctype html>
<html><head><title>Confirm attendance</title></head><body>
<h1>Confirm attendance</h1>
<form method="get" action="/api/attendance/mark">
<input type="hidden" name="student_id" value="%s">
<label>Admin PIN <input type="password" name="pin" autofocus></label>
<button type="submit">Confirm</button>
</form>
</body></html>`, html.EscapeString(studentID)))
}

func scanPage(title, message string) []byte {
	return []byte(fmt.Sprintf(`<!doctype html>
<html><head><title>%s</title></head><body>
<h1>%s</h1>
<p>%s</p>
</body></html>`, html.EscapeString(title), html.EscapeString(title), html.EscapeString(message)))
}
