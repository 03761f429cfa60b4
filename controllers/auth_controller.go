package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/princinho/storefront-backend/database"
	"github.com/princinho/storefront-backend/dto"
	"github.com/princinho/storefront-backend/models"
	"github.com/princinho/storefront-backend/utils"
	"github.com/princinho/storefront-backend/worker"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func Register(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           bson.NewObjectID(),
			Name:         strings.TrimSpace(body.Name),
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleUser,
			Cart:         map[string]int{},
			Orders:       []bson.ObjectID{},
			Addresses:    []models.Address{},
			IsActive:     true,
			NotificationPrefs: models.NotificationPrefs{
				OrderEmails: true,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		usersCol := database.OpenCollection("users")
		if _, err := usersCol.InsertOne(c.Request.Context(), user); err != nil {
			if utils.IsDuplicateKey(err) {
				fail(c, http.StatusConflict, "email already registered")
				return
			}
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
	}
}

func Login(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var user models.User
		usersCol := database.OpenCollection("users")
		email := strings.ToLower(strings.TrimSpace(body.Email))
		if err := usersCol.FindOne(c.Request.Context(), bson.M{"email": email}).Decode(&user); err != nil {
			fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			fail(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if !user.IsActive {
			fail(c, http.StatusForbidden, "account disabled")
			return
		}

		issueTokens(app, c, user)
	}
}

// issueTokens mints the access/refresh pair, stores the refresh token and
// sets the cookie. Shared by password login, refresh rotation and OAuth.
func issueTokens(app *App, c *gin.Context, user models.User) {
	accessToken, err := utils.GenerateAccessToken(
		user.ID.Hex(), user.Email, user.Name, string(user.Role),
		app.Cfg.JWTSecret, app.Cfg.AccessTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate access token")
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), app.Cfg.JWTRefreshSecret, app.Cfg.RefreshTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate refresh token")
		return
	}

	now := time.Now().UTC()
	refreshTokensCol := database.OpenCollection("refresh_tokens")
	_, err = refreshTokensCol.InsertOne(c.Request.Context(), models.RefreshToken{
		UserID:    user.ID,
		TokenHash: refreshToken,
		ExpiresAt: now.Add(app.Cfg.RefreshTTL),
		CreatedAt: now,
	})
	if err != nil {
		app.Log.Error("store refresh token", zap.Error(err))
		fail(c, http.StatusInternalServerError, "connection failed")
		return
	}

	utils.SetRefreshCookie(c, refreshToken, app.Cfg.RefreshTTL, app.Cfg.Env == "production", "")

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": accessToken,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func Refresh(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")
		refreshCol := database.OpenCollection("refresh_tokens")

		hash, err := c.Cookie("refreshToken")
		if err != nil || hash == "" {
			fail(c, http.StatusUnauthorized, "missing refresh token")
			return
		}

		var rt models.RefreshToken
		err = refreshCol.FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revokedAt": bson.M{"$exists": false},
			"expiresAt": bson.M{"$gt": time.Now().UTC()},
		}).Decode(&rt)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": rt.UserID}).Decode(&user); err != nil {
			fail(c, http.StatusUnauthorized, "invalid user")
			return
		}
		if !user.IsActive {
			fail(c, http.StatusForbidden, "account disabled")
			return
		}

		// Rotate: revoke the presented token, then issue a fresh pair.
		newToken, err := utils.GenerateRefreshToken(user.ID.Hex(), app.Cfg.JWTRefreshSecret, app.Cfg.RefreshTTL)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to rotate refresh token")
			return
		}

		now := time.Now().UTC()
		_, err = refreshCol.UpdateByID(ctx, rt.ID, bson.M{
			"$set": bson.M{"revokedAt": now, "replacedBy": newToken},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to revoke refresh token")
			return
		}

		_, err = refreshCol.InsertOne(ctx, models.RefreshToken{
			UserID:    user.ID,
			TokenHash: newToken,
			ExpiresAt: now.Add(app.Cfg.RefreshTTL),
			CreatedAt: now,
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to store refresh token")
			return
		}

		accessToken, err := utils.GenerateAccessToken(
			user.ID.Hex(), user.Email, user.Name, string(user.Role),
			app.Cfg.JWTSecret, app.Cfg.AccessTTL)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to generate access token")
			return
		}

		utils.SetRefreshCookie(c, newToken, app.Cfg.RefreshTTL, app.Cfg.Env == "production", "")
		c.JSON(http.StatusOK, gin.H{"success": true, "accessToken": accessToken})
	}
}

func Logout(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		refreshCol := database.OpenCollection("refresh_tokens")

		hash, _ := c.Cookie("refreshToken")
		utils.ClearRefreshCookie(c, app.Cfg.Env == "production", "")

		// best effort revoke
		if hash != "" {
			now := time.Now().UTC()
			_, _ = refreshCol.UpdateOne(ctx, bson.M{
				"tokenHash": hash,
				"revokedAt": bson.M{"$exists": false},
			}, bson.M{
				"$set": bson.M{"revokedAt": now},
			})
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func RevokeAllRefreshTokens(c *gin.Context, userID bson.ObjectID) error {
	refreshCol := database.OpenCollection("refresh_tokens")
	now := time.Now().UTC()
	_, err := refreshCol.UpdateMany(c.Request.Context(), bson.M{
		"userId":    userID,
		"revokedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"revokedAt": now},
	})
	return err
}

func googleOAuthConfig(app *App) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     app.Cfg.GoogleOAuth.ClientID,
		ClientSecret: app.Cfg.GoogleOAuth.ClientSecret,
		RedirectURL:  app.Cfg.GoogleOAuth.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLogin redirects to the Google consent screen with a state cookie.
func GoogleLogin(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := uuid.New().String()
		c.SetCookie("oauthState", state, 600, "/api/auth", "", app.Cfg.Env == "production", true)
		c.Redirect(http.StatusTemporaryRedirect, googleOAuthConfig(app).AuthCodeURL(state))
	}
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback exchanges the code, fetches the profile and signs the user
// in, creating the account on first sign-in.
func GoogleCallback(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		stateCookie, err := c.Cookie("oauthState")
		if err != nil || stateCookie == "" || stateCookie != c.Query("state") {
			fail(c, http.StatusUnauthorized, "invalid oauth state")
			return
		}
		code := c.Query("code")
		if code == "" {
			fail(c, http.StatusBadRequest, "missing oauth code")
			return
		}

		conf := googleOAuthConfig(app)
		token, err := conf.Exchange(ctx, code)
		if err != nil {
			app.Log.Warn("oauth exchange failed", zap.Error(err))
			fail(c, http.StatusUnauthorized, "oauth exchange failed")
			return
		}

		resp, err := conf.Client(ctx, token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
		if err != nil {
			fail(c, http.StatusBadGateway, "failed to fetch google profile")
			return
		}
		defer resp.Body.Close()

		var info googleUserInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
			fail(c, http.StatusBadGateway, "invalid google profile")
			return
		}

		usersCol := database.OpenCollection("users")
		email := strings.ToLower(info.Email)

		var user models.User
		err = usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user)
		switch {
		case err == nil:
			if user.GoogleID == "" {
				_, _ = usersCol.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"googleId": info.ID}})
			}
		default:
			now := time.Now().UTC()
			user = models.User{
				ID:        bson.NewObjectID(),
				Name:      info.Name,
				Email:     email,
				Role:      models.RoleUser,
				GoogleID:  info.ID,
				Avatar:    info.Picture,
				Cart:      map[string]int{},
				Orders:    []bson.ObjectID{},
				Addresses: []models.Address{},
				IsActive:  true,
				NotificationPrefs: models.NotificationPrefs{
					OrderEmails: true,
				},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := usersCol.InsertOne(ctx, user); err != nil {
				fail(c, http.StatusInternalServerError, err.Error())
				return
			}
		}

		if !user.IsActive {
			fail(c, http.StatusForbidden, "account disabled")
			return
		}

		issueTokens(app, c, user)
	}
}

func ForgotPassword(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ForgotPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")
		email := strings.ToLower(strings.TrimSpace(body.Email))

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			// Do not reveal whether the account exists.
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "if the account exists, a code was sent"})
			return
		}

		otp, err := utils.GenerateOTP()
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to generate code")
			return
		}
		otpHash, err := utils.HashPassword(otp)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to generate code")
			return
		}

		expires := time.Now().UTC().Add(10 * time.Minute)
		_, err = usersCol.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
			"resetOtpHash":      otpHash,
			"resetOtpExpiresAt": expires,
			"updatedAt":         time.Now().UTC(),
		}})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		mailer := app.Mailer
		app.Worker.Submit(worker.Task{
			Name: "password-reset-email",
			Run: func(context.Context) error {
				return mailer.Send(user.Email,
					"Your password reset code",
					"Your password reset code is "+otp+". It expires in 10 minutes.")
			},
		})

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "if the account exists, a code was sent"})
	}
}

func ResetPassword(app *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ResetPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx := c.Request.Context()
		usersCol := database.OpenCollection("users")
		email := strings.ToLower(strings.TrimSpace(body.Email))

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			fail(c, http.StatusUnauthorized, "invalid code")
			return
		}

		if user.ResetOTPHash == "" || user.ResetOTPExpiresAt == nil ||
			time.Now().UTC().After(*user.ResetOTPExpiresAt) {
			fail(c, http.StatusUnauthorized, "invalid code")
			return
		}
		if err := utils.CheckPassword(user.ResetOTPHash, body.OTP); err != nil {
			fail(c, http.StatusUnauthorized, "invalid code")
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			fail(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		_, err = usersCol.UpdateByID(ctx, user.ID, bson.M{
			"$set":   bson.M{"passwordHash": newHash, "updatedAt": time.Now().UTC()},
			"$unset": bson.M{"resetOtpHash": "", "resetOtpExpiresAt": ""},
		})
		if err != nil {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}

		_ = RevokeAllRefreshTokens(c, user.ID)

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
