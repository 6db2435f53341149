package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"glowdesk/db"
	"glowdesk/globals"
	"glowdesk/middleware"
	"glowdesk/models"
	"glowdesk/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 7 * 24 * time.Hour // 7 days

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	var admin models.Admin
	err := db.AdminsCollection.FindOne(context.TODO(), bson.M{"email": input.Email}).Decode(&admin)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	claims := &middleware.Claims{
		UserID: admin.AdminID,
		Role:   admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	_, err = db.AdminsCollection.UpdateOne(
		context.TODO(),
		bson.M{"adminid": admin.AdminID},
		bson.M{"$set": bson.M{"lastLogin": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to record last login for %s: %v", admin.AdminID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

func logoutHandler(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	role, _ := r.Context().Value(globals.RoleKey).(string)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"id": userID, "role": role})
}
