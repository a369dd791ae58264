package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Prabhu6626/Glonix-Website/middleware"
	"github.com/Prabhu6626/Glonix-Website/models"
	"github.com/Prabhu6626/Glonix-Website/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 24 * time.Hour

// Handlers covers register, login and the current-user endpoint.
type Handlers struct {
	users  *mongo.Collection
	secret []byte
}

func NewHandlers(users *mongo.Collection, secret []byte) *Handlers {
	return &Handlers{users: users, secret: secret}
}

func (h *Handlers) generateAccessToken(user models.User) (string, error) {
	claims := middleware.Claims{
		Email:  user.Email,
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "A valid email is required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	if req.FullName == "" {
		http.Error(w, "full_name is required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Register bcrypt:", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := models.User{
		UserID:       utils.GetUUID(),
		Email:        req.Email,
		FullName:     req.FullName,
		Company:      req.Company,
		Phone:        req.Phone,
		Role:         "customer",
		PasswordHash: string(hash),
		IsActive:     true,
		FunnelState:  models.FunnelBrowsing,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := h.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		log.Println("Register insert:", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	token, err := h.generateAccessToken(user)
	if err != nil {
		log.Println("Register token:", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"token":  token,
		"userid": user.UserID,
		"user":   user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Println("Login:", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	if !user.IsActive {
		http.Error(w, "Account is disabled", http.StatusForbidden)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.generateAccessToken(user)
	if err != nil {
		log.Println("Login token:", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if _, err := h.users.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	); err != nil {
		log.Println("Login last_login:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":  token,
		"userid": user.UserID,
		"user":   user,
	})
}

// Me handles GET /api/auth/me.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Println("Me:", err)
		http.Error(w, "Failed to fetch user", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
