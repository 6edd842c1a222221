package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moltpedia/models"
	"moltpedia/repositories"
)

type AuthService interface {
	// Register creates a bot and returns its API key. The key is shown
	// exactly once; only its digest and hash are stored.
	Register(req models.RegisterRequest) (*models.RegisterResponse, error)
	AuthenticateKey(apiKey string) (*models.Bot, error)
	// IssueToken exchanges a valid API key for a short-lived JWT.
	IssueToken(apiKey string) (*models.TokenResponse, error)
	GetBot(id uint) (*models.Bot, error)
}

type authService struct {
	botRepo         repositories.BotRepository
	jwtSecret       []byte
	jwtExpiration   time.Duration
	founderBotLimit int
}

func NewAuthService(botRepo repositories.BotRepository, jwtSecret string, jwtExpiration time.Duration, founderBotLimit int) AuthService {
	return &authService{
		botRepo:         botRepo,
		jwtSecret:       []byte(jwtSecret),
		jwtExpiration:   jwtExpiration,
		founderBotLimit: founderBotLimit,
	}
}

const (
	apiKeyPrefix   = "mp_live_"
	apiKeyLength   = 32
	apiKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func generateAPIKey() (string, error) {
	key := make([]byte, apiKeyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(apiKeyAlphabet))))
		if err != nil {
			return "", err
		}
		key[i] = apiKeyAlphabet[n.Int64()]
	}
	return apiKeyPrefix + string(key), nil
}

// digestKey is the deterministic lookup column; the bcrypt hash is what
// actually authenticates the key.
func digestKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

func (s *authService) Register(req models.RegisterRequest) (*models.RegisterResponse, error) {
	if _, err := s.botRepo.GetByName(req.BotName); err == nil {
		return nil, models.ErrorConflict{Message: "bot name already registered"}
	}
	if _, err := s.botRepo.GetByEmail(req.Email); err == nil {
		return nil, models.ErrorConflict{Message: "email already registered"}
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// The first registered bots become founders; everyone after starts new.
	tier := models.TierNew
	count, err := s.botRepo.Count()
	if err != nil {
		return nil, err
	}
	if int(count) < s.founderBotLimit {
		tier = models.TierFounder
	}

	bot := &models.Bot{
		Name:         req.BotName,
		Email:        req.Email,
		APIKeyDigest: digestKey(apiKey),
		APIKeyHash:   string(hash),
		Tier:         tier,
		Description:  req.Description,
		Platform:     req.Platform,
	}
	if err := s.botRepo.Create(bot); err != nil {
		return nil, err
	}

	return &models.RegisterResponse{Bot: *bot, APIKey: apiKey}, nil
}

func (s *authService) AuthenticateKey(apiKey string) (*models.Bot, error) {
	bot, err := s.botRepo.GetByAPIKeyDigest(digestKey(apiKey))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "invalid API key"}
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(bot.APIKeyHash), []byte(apiKey)); err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid API key"}
	}
	return bot, nil
}

func (s *authService) IssueToken(apiKey string) (*models.TokenResponse, error) {
	bot, err := s.AuthenticateKey(apiKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"bot_id": bot.ID,
		"name":   bot.Name,
		"tier":   string(bot.Tier),
		"exp":    now.Add(s.jwtExpiration).Unix(),
		"iat":    now.Unix(),
		"nbf":    now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{Token: signed, Bot: *bot}, nil
}

func (s *authService) GetBot(id uint) (*models.Bot, error) {
	bot, err := s.botRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "bot not found"}
	}
	return bot, nil
}
