package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/middlewares"
	"github.com/Anish-Karthik/OD-automation/models"
)

const (
	sessionTTL = 7 * 24 * time.Hour
	otpTTL     = 8 * time.Minute
)

type AuthHandler struct {
	db     *gorm.DB
	secret string
	mailer core.Mailer
	logger *zap.Logger
}

func NewAuthHandler(db *gorm.DB, secret string, mailer core.Mailer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, secret: secret, mailer: mailer, logger: logger}
}

func (h *AuthHandler) signJWT(sub string, role models.UserRole, name string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": string(role),
		"name": name,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.secret))
}

type loginReq struct {
	Identity string `json:"identity" validate:"required"` // username, email or register number
	Password string `json:"password" validate:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.lookupUser(strings.TrimSpace(req.Identity))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	token, err := h.signJWT(u.ID, u.Role, u.Name, sessionTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middlewares.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]any{"id": u.ID, "role": u.Role, "username": u.Username, "name": u.Name},
	})
}

// lookupUser resolves a login identity: username first, then email, then a
// student register number.
func (h *AuthHandler) lookupUser(identity string) (*models.User, error) {
	var u models.User
	err := h.db.Where("username = ?", identity).Or("email = ?", identity).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	var st models.Student
	if err := h.db.First(&st, "reg_no = ?", identity).Error; err != nil {
		return nil, err
	}
	if err := h.db.First(&u, "id = ?", st.UserID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// POST /auth/register bootstraps administrator accounts; institution
// addresses only.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.HasSuffix(email, "@psnacet.edu.in") {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_EMAIL_DOMAIN"})
	}

	var dup models.User
	if err := h.db.Where("email = ?", email).First(&dup).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "EMAIL_EXISTS"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	u := models.User{
		ID:       uuid.NewString(),
		Username: email,
		Email:    email,
		Role:     models.RoleAdmin,
		Password: string(hash),
	}
	if err := h.db.Create(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"id": u.ID})
}

type otpSendReq struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /auth/otp/send
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req otpSendReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u models.User
	if err := h.db.Where("email = ?", email).First(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}

	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "OTP_GEN_FAILED"})
	}
	otp := 100000 + int(n.Int64())
	expires := time.Now().Add(otpTTL)
	if err := h.db.Model(&models.User{}).Where("id = ?", u.ID).
		Updates(map[string]any{"otp": otp, "otp_expires_at": expires}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "OTP_STORE_FAILED"})
	}

	// best-effort: the OTP is already persisted, a lost mail just means a resend
	go func() {
		msg := core.Message{
			To:      u.Email,
			Subject: "Verify your email",
			Body:    "Your OTP is " + strconv.Itoa(otp) + " to verify your email. It expires in 8 minutes.",
		}
		if err := h.mailer.Send(msg); err != nil {
			h.logger.Warn("otp send failed", zap.String("to", u.Email), zap.Error(err))
		}
	}()
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

type otpVerifyReq struct {
	Email string `json:"email" validate:"required,email"`
	Otp   int    `json:"otp" validate:"required"`
}

// POST /auth/otp/verify
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpVerifyReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u models.User
	if err := h.db.Where("email = ?", email).First(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "USER_NOT_FOUND"})
	}
	if u.Otp == nil || u.OtpExpiresAt == nil || *u.Otp != req.Otp || time.Now().After(*u.OtpExpiresAt) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_OTP"})
	}
	if err := h.db.Model(&models.User{}).Where("id = ?", u.ID).
		Updates(map[string]any{"email_verified": true, "otp": nil, "otp_expires_at": nil}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "OTP_CLEAR_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
