package authController

import (
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		IsActive: false,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// Profile is created here, as an explicit signup step.
	profile := models.Profile{UserID: newUser.ID}
	if err := db.Create(&profile).Error; err != nil {
		log.Printf("Error creating profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create profile!", nil)
	}

	token, err := middleware.GenerateActivationToken(newUser.ID, newUser.Email)
	if err != nil {
		log.Printf("Error generating activation token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	activationURL := fmt.Sprintf("%s/auth/confirm/%s", c.BaseURL(), token)
	go func(email, name, url string) {
		if err := utils.SendActivationEmail(email, name, url); err != nil {
			log.Printf("Error sending activation email to %s: %v", email, err)
		}
	}(newUser.Email, newUser.Name, activationURL)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Account created! Check your email to activate it.", fiber.Map{
		"id":    newUser.ID,
		"email": newUser.Email,
	})
}

func ConfirmAccount(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Activation token is required!", nil)
	}

	userID, email, err := middleware.ParseActivationToken(token)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Activation link is invalid or expired!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND email = ? AND is_deleted = false", userID, email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User to activate not found!", nil)
	}

	if user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Account was already active. You can log in.", nil)
	}

	if err := db.Model(&user).Update("is_active", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to activate account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account activated! You can log in now.", nil)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account not activated. Check your email!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log in!", nil)
	}

	db.Model(&user).Update("last_login", time.Now())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged in successfully!", fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
