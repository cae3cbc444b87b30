package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-portal/internal/handler/dto"
	"github.com/yourusername/quiz-portal/internal/handler/helper"
	"github.com/yourusername/quiz-portal/internal/middleware"
	apperrors "github.com/yourusername/quiz-portal/internal/pkg/errors"
	"github.com/yourusername/quiz-portal/internal/service"
)

// QuizHandler ведет студента по вопросам главы
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик прохождения тестов
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// quizRoute - параметры маршрута /quiz/:subject_id/:chapter_id/...
type quizRoute struct {
	studentID uint
	subjectID uint
	chapterID uint
}

func getQuizRoute(c *gin.Context) quizRoute {
	return quizRoute{
		studentID: c.MustGet(middleware.ContextUserID).(uint),
		subjectID: c.MustGet("subjectID").(uint),
		chapterID: c.MustGet("chapterID").(uint),
	}
}

// parsePosition разбирает q_no. Нечисловой номер или номер меньше 1 - несуществующий вопрос.
func parsePosition(c *gin.Context) (int, bool) {
	position, err := strconv.Atoi(c.Param("q_no"))
	if err != nil || position < 1 {
		return 0, false
	}
	return position, true
}

// Start находит или создает попытку и переходит к первому вопросу
// GET /quiz/:subject_id/:chapter_id/start/
func (h *QuizHandler) Start(c *gin.Context) {
	r := getQuizRoute(c)

	if _, err := h.quizService.StartQuiz(c.Request.Context(), r.studentID, r.subjectID, r.chapterID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, dto.QuestionPath(r.subjectID, r.chapterID, 1))
}

// ShowQuestion отображает вопрос q_no
// GET /quiz/:subject_id/:chapter_id/:q_no/
func (h *QuizHandler) ShowQuestion(c *gin.Context) {
	r := getQuizRoute(c)
	position, ok := parsePosition(c)
	if !ok {
		handleServiceError(c, apperrors.ErrNotFound)
		return
	}

	page, err := h.quizService.OpenQuestion(c.Request.Context(), r.studentID, r.subjectID, r.chapterID, position)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	renderQuestionPage(c, r.subjectID, page)
}

// AnswerQuestion сохраняет выбор и выполняет навигацию previous / next / submit
// POST /quiz/:subject_id/:chapter_id/:q_no/
func (h *QuizHandler) AnswerQuestion(c *gin.Context) {
	r := getQuizRoute(c)
	position, ok := parsePosition(c)
	if !ok {
		handleServiceError(c, apperrors.ErrNotFound)
		return
	}

	sub := service.Submission{OptionID: c.PostForm("option")}
	_, sub.Previous = c.GetPostForm("previous")
	_, sub.Next = c.GetPostForm("next")
	_, sub.Submit = c.GetPostForm("submit")

	out, err := h.quizService.AnswerQuestion(c.Request.Context(), r.studentID, r.subjectID, r.chapterID, position, sub)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	switch out.Step {
	case service.StepQuestion:
		helper.Redirect(c, dto.QuestionPath(r.subjectID, r.chapterID, out.Position))
	case service.StepResult:
		helper.Redirect(c, dto.ResultPath(r.subjectID, r.chapterID, out.AttemptID))
	default:
		renderQuestionPage(c, r.subjectID, out.Page)
	}
}

// Result отображает разбор попытки. Чужая попытка не найдется.
// GET /quiz/:subject_id/:chapter_id/result/:attempt_id/
func (h *QuizHandler) Result(c *gin.Context) {
	studentID := c.MustGet(middleware.ContextUserID).(uint)
	attemptID := c.MustGet("attemptID").(uint)

	review, err := h.quizService.GetReview(c.Request.Context(), studentID, attemptID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	helper.Render(c, http.StatusOK, "result.html", dto.NewResultResponse(review))
}

func renderQuestionPage(c *gin.Context, subjectID uint, page *service.QuestionPage) {
	resp := dto.NewQuestionPageResponse(subjectID, page)
	if page.IsEmpty() {
		helper.Render(c, http.StatusOK, "no_questions.html", resp)
		return
	}
	helper.Render(c, http.StatusOK, "quiz.html", resp)
}
