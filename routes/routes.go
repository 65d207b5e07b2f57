package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/config"
	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/handlers"
	"github.com/Anish-Karthik/OD-automation/middlewares"
	"github.com/Anish-Karthik/OD-automation/models"
)

// Deps carries everything the route tree needs. main builds it once.
type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Logger   *zap.Logger
	Mailer   core.Mailer
	Approval *core.ApprovalService
	Assign   *core.AssignmentService
}

func Register(e *echo.Echo, d Deps) {
	auth := handlers.NewAuthHandler(d.DB, d.Cfg.JWTSecret, d.Mailer, d.Logger)
	form := handlers.NewFormHandler(d.Approval)
	teacher := handlers.NewTeacherHandler(d.DB, d.Assign)
	student := handlers.NewStudentHandler(d.DB)
	department := handlers.NewDepartmentHandler(d.DB)
	college := handlers.NewCollegeHandler(d.DB)
	subject := handlers.NewSubjectHandler(d.DB)

	e.GET("/health", handlers.Health)

	a := e.Group("/auth")
	a.POST("/login", auth.Login)
	a.POST("/register", auth.Register)
	a.POST("/otp/send", auth.SendOTP)
	a.POST("/otp/verify", auth.VerifyOTP)

	authed := e.Group("", middlewares.RequireAuth(d.Cfg.JWTSecret))
	authed.GET("/forms/:id", form.Get)
	authed.GET("/departments", department.List)

	s := e.Group("/student", middlewares.RequireAuth(d.Cfg.JWTSecret), middlewares.RequireRole(models.RoleStudent))
	s.POST("/forms", form.Submit)
	s.GET("/forms", form.StudentForms)

	t := e.Group("/teacher", middlewares.RequireAuth(d.Cfg.JWTSecret), middlewares.RequireRole(models.RoleTeacher, models.RoleAdmin))
	t.GET("/forms", form.TeacherForms)
	t.POST("/forms/decide", form.Decide)

	ad := e.Group("/admin", middlewares.RequireAuth(d.Cfg.JWTSecret), middlewares.RequireRole(models.RoleAdmin))
	ad.GET("/college", college.Get)
	ad.PUT("/college", college.Upsert)
	ad.POST("/departments", department.Create)
	ad.PUT("/departments/:id", department.Update)
	ad.GET("/subjects", subject.List)
	ad.GET("/subjects/:id", subject.Get)
	ad.POST("/subjects", subject.Create)
	ad.DELETE("/subjects/:id", subject.Delete)
	ad.GET("/students", student.List)
	ad.GET("/students/:id", student.Get)
	ad.POST("/students", student.Create)
	ad.POST("/students/bulk", student.CreateMany)
	ad.PUT("/students/:id", student.Update)
	ad.DELETE("/students/:id", student.Delete)
	ad.GET("/teachers", teacher.List)
	ad.GET("/teachers/:id", teacher.Get)
	ad.POST("/teachers", teacher.Create)
	ad.POST("/teachers/bulk", teacher.CreateMany)
	ad.POST("/teachers/assign-role", teacher.AssignRole)
}
