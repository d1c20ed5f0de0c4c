package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studentsdesk/studentsdesk-api/internal/api/metrics"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
)

// StudentHandler handles HTTP requests for the student resource.
type StudentHandler struct {
	service ports.StudentService
}

func NewStudentHandler(service ports.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// List returns one page of students.
//
// @Summary      List students
// @Description  Anonymous callers see every record; authenticated callers see only their own.
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on name or email"
// @Param        course  query     string  false  "Exact course"
// @Param        status  query     string  false  "active, inactive or graduated"
// @Param        sortBy  query     string  false  "field:dir, e.g. age:desc"
// @Param        page    query     int     false  "1-based page"             default(1)
// @Param        limit   query     int     false  "Page size, at most 100"   default(10)
// @Success      200     {object}  listStudentsResponse
// @Failure      401     {object}  errorEnvelope
// @Failure      500     {object}  errorEnvelope
// @Router       /students [get]
func (h *StudentHandler) List(c echo.Context) error {
	in := ports.ListStudentsInput{
		Search: c.QueryParam("search"),
		Course: c.QueryParam("course"),
		Status: c.QueryParam("status"),
		SortBy: c.QueryParam("sortBy"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}

	result, err := h.service.ListStudents(c.Request().Context(), ctxIdentity(c), in)
	metrics.StudentOperationsTotal.WithLabelValues("list", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get returns a single student.
//
// @Summary      Get a student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student id"
// @Success      200  {object}  studentEnvelope
// @Failure      401  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.service.GetStudent(c.Request().Context(), c.Param("id"), ctxIdentity(c))
	metrics.StudentOperationsTotal.WithLabelValues("get", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, studentEnvelope{Success: true, Data: toStudentResponse(student)})
}

// Create registers a new student. An authenticated caller becomes its owner.
//
// @Summary      Create a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      studentRequest  true  "Student details"
// @Success      201   {object}  studentEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      500   {object}  errorEnvelope
// @Router       /students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	data, err := decodeBody(c)
	if err != nil {
		return err
	}

	identity := ctxIdentity(c)
	student, err := h.service.CreateStudent(c.Request().Context(), data, identity)
	metrics.StudentOperationsTotal.WithLabelValues("create", outcome(err)).Inc()
	if err != nil {
		return err
	}
	metrics.StudentsCreatedTotal.WithLabelValues(string(student.Course), strconv.FormatBool(student.IsOwned())).Inc()

	return c.JSON(http.StatusCreated, studentEnvelope{
		Success: true,
		Message: "Student created successfully",
		Data:    toStudentResponse(student),
	})
}

// Update replaces the fields of a student the caller may modify.
//
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Student id"
// @Param        body  body      studentRequest  true  "Student details"
// @Success      200   {object}  studentEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      403   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Router       /students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	data, err := decodeBody(c)
	if err != nil {
		return err
	}

	student, err := h.service.UpdateStudent(c.Request().Context(), c.Param("id"), data, ctxIdentity(c))
	metrics.StudentOperationsTotal.WithLabelValues("update", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, studentEnvelope{
		Success: true,
		Message: "Student updated successfully",
		Data:    toStudentResponse(student),
	})
}

// Delete removes a student the caller may modify.
//
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorEnvelope
// @Failure      403  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Router       /students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	err := h.service.DeleteStudent(c.Request().Context(), c.Param("id"), ctxIdentity(c))
	metrics.StudentOperationsTotal.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Student deleted successfully"})
}

// Stats returns the dashboard summary of the caller's students.
//
// @Summary      Student statistics
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsEnvelope
// @Failure      401  {object}  errorEnvelope
// @Failure      500  {object}  errorEnvelope
// @Router       /students/stats/overview [get]
func (h *StudentHandler) Stats(c echo.Context) error {
	stats, err := h.service.StudentStats(c.Request().Context(), ctxIdentity(c))
	metrics.StudentOperationsTotal.WithLabelValues("stats", outcome(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsEnvelope{Success: true, Data: stats})
}

// queryInt parses an integer query parameter, returning 0 when it is absent
// or malformed so the service falls back to its default.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return n
}
